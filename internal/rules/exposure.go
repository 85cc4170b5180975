package rules

// Sensitive references that are often exploitable.
var exposureRules = []Definition{
	{
		Name:        "secret_variable_assignment",
		Severity:    "HIGH",
		Pattern:     `(?i)(secret|token|credential|auth_key)\s*[=:]\s*["'][A-Za-z0-9\-_+/=]{12,}["']`,
		Description: "Possible secret value assigned to a variable",
	},
	{
		Name:     "internal_ip_address",
		Severity: "HIGH",
		Pattern: `\b(10\.\d{1,3}\.\d{1,3}\.\d{1,3}` +
			`|172\.(1[6-9]|2[0-9]|3[01])\.\d{1,3}\.\d{1,3}` +
			`|192\.168\.\d{1,3}\.\d{1,3})\b`,
		Description: "Hardcoded internal / RFC-1918 IP address",
	},
	{
		Name:        "sensitive_system_file",
		Severity:    "HIGH",
		Pattern:     `/etc/(passwd|shadow|sudoers|ssh/[a-z_]+)`,
		Description: "Reference to sensitive system file",
	},
	{
		Name:        "hardcoded_ssh_path",
		Severity:    "HIGH",
		Pattern:     `(?i)["']?/home/\w+/\.ssh/(id_rsa|id_ed25519|authorized_keys)["']?`,
		Description: "Hardcoded SSH key or authorized_keys path",
	},
}
