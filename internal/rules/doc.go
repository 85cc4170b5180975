// Package rules holds the catalog of detection rules used by diffgate.
// Each rule is an immutable (name, severity, description, matcher) record;
// a Table keeps them in a stable order so scan output is reproducible.
package rules
