package rules

// Credentials and keys that grant direct access. All CRITICAL.
var credentialRules = []Definition{
	{
		Name:        "anthropic_api_key",
		Severity:    "CRITICAL",
		Pattern:     `sk-ant-[A-Za-z0-9\-_]{20,}`,
		Description: "Anthropic API key detected",
	},
	{
		Name:        "openai_api_key",
		Severity:    "CRITICAL",
		Pattern:     `\bsk-[A-Za-z0-9]{48}\b`,
		Description: "Possible OpenAI API key detected",
	},
	{
		Name:        "aws_access_key_id",
		Severity:    "CRITICAL",
		Pattern:     `\bAKIA[0-9A-Z]{16}\b`,
		Description: "AWS access key ID detected",
	},
	{
		Name:        "aws_secret_key",
		Severity:    "CRITICAL",
		Pattern:     `(?i)aws[_\-\s]?secret[_\-\s]?access[_\-\s]?key\s*[=:]\s*["']?[A-Za-z0-9+/]{40}["']?`,
		Description: "AWS secret access key assignment detected",
	},
	{
		Name:        "github_token",
		Severity:    "CRITICAL",
		Pattern:     `\bghp_[A-Za-z0-9]{36}\b|\bgithub[_\-\s]?token\s*[=:]\s*["'][A-Za-z0-9\-_]{20,}["']`,
		Description: "GitHub personal access token detected",
	},
	{
		Name:        "private_key_block",
		Severity:    "CRITICAL",
		Pattern:     `-----BEGIN\s+(RSA |EC |OPENSSH |DSA )?PRIVATE KEY-----`,
		Description: "Private key block present in diff",
	},
	{
		// six characters catches short throwaway passwords like "hunter2"
		Name:        "hardcoded_password",
		Severity:    "CRITICAL",
		Pattern:     `(?i)(password|passwd|pwd)\s*[=:]\s*["'][^"']{6,}["']`,
		Description: "Hardcoded password value detected",
	},
	{
		Name:        "connection_string_with_credentials",
		Severity:    "CRITICAL",
		Pattern:     `(?i)(mongodb|postgresql|postgres|mysql|redis|amqp|mssql|jdbc)\+?://[^@\s]{1,64}:[^@\s]{1,64}@`,
		Description: "Database or message-broker connection string with embedded credentials",
	},
	{
		Name:        "generic_api_key",
		Severity:    "CRITICAL",
		Pattern:     `(?i)\bapi[_\-]?key\s*[=:]\s*["']?[A-Za-z0-9\-_]{20,}["']?`,
		Description: "Possible API key assignment detected",
	},
}
