package rules

// Defaults returns the built-in rule definitions in catalog order:
// credentials, exposure, PII, hygiene.
func Defaults() []Definition {
	var out []Definition
	out = append(out, credentialRules...)
	out = append(out, exposureRules...)
	out = append(out, piiRules...)
	out = append(out, hygieneRules...)
	return out
}

// Builtin compiles the default catalog.
func Builtin(opts ...Option) Table {
	return MustCompile(Defaults(), opts...)
}

// Load compiles the built-in catalog followed by extra definitions, typically
// from configuration.
func Load(extra []Definition, opts ...Option) (Table, error) {
	return Compile(append(Defaults(), extra...), opts...)
}
