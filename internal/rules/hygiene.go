package rules

// Code quality and configuration concerns.
var hygieneRules = []Definition{
	{
		Name:        "security_todo_fixme",
		Severity:    "LOW",
		Pattern:     `(?i)(#|//)\s*(TODO|FIXME|HACK|XXX).{0,60}(security|auth|cred|secret|password|token)`,
		Description: "Security-related TODO or FIXME comment left in code",
	},
	{
		Name:        "debug_mode_enabled",
		Severity:    "LOW",
		Pattern:     `(?i)(debug\s*=\s*True|DEBUG\s*=\s*1|logging\.basicConfig\s*\(\s*level\s*=\s*logging\.DEBUG)`,
		Description: "Debug mode enabled, verify this is not present in production configuration",
	},
	{
		Name:        "insecure_ssl_verify_disabled",
		Severity:    "LOW",
		Pattern:     `(?i)verify\s*=\s*False|ssl_verify\s*=\s*False|InsecureSkipVerify\s*:\s*true|REQUESTS_CA_BUNDLE\s*=\s*['"]?['"]?`,
		Description: "SSL/TLS certificate verification disabled",
	},
}
