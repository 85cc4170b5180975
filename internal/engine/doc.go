// Package engine wires the pieces of a scan together: it resolves the input
// (raw text or a git range), filters paths, runs the scanner and applies the
// gate policy. External consumers should use the stable facade in pkg/core.
package engine
