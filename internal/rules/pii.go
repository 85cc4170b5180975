package rules

// PII, environment assignments and weak configuration.
var piiRules = []Definition{
	{
		Name:        "email_address",
		Severity:    "MEDIUM",
		Pattern:     `\b[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}\b`,
		Description: "Email address in diff, verify this is synthetic or intentional",
	},
	{
		Name:     "sensitive_env_assignment",
		Severity: "MEDIUM",
		Pattern: `(?i)(ANTHROPIC|OPENAI|AWS|AZURE|GCP|DATABASE|DB|SECRET|TOKEN)` +
			`[_A-Z]*\s*=\s*["'][^"']{8,}["']`,
		Description: "Direct assignment to a sensitive environment variable",
	},
	{
		Name:        "hardcoded_localhost_port",
		Severity:    "MEDIUM",
		Pattern:     `(?i)(host|server|url)\s*[=:]\s*["']?(localhost|127\.0\.0\.1):\d{4,5}["']?`,
		Description: "Hardcoded localhost with port, verify this is not production config",
	},
	{
		Name:        "pii_ssn_pattern",
		Severity:    "MEDIUM",
		Pattern:     `\b\d{3}-\d{2}-\d{4}\b`,
		Description: "Pattern matching a US Social Security Number",
		Validator:   "ssn",
	},
	{
		Name:        "pii_credit_card",
		Severity:    "MEDIUM",
		Pattern:     `\b(?:4[0-9]{12}(?:[0-9]{3})?|5[1-5][0-9]{14}|3[47][0-9]{13})\b`,
		Description: "Pattern matching a payment card number",
		Validator:   "luhn",
	},
}
