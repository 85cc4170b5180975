package report

import (
	"encoding/json"
	"io"

	"github.com/varalys/diffgate/internal/types"
)

type sarif struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool       sarifTool      `json:"tool"`
	Results    []sarifResult  `json:"results"`
	Properties map[string]any `json:"properties,omitempty"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version"`
	InformationURI string      `json:"informationUri,omitempty"`
	Rules          []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID               string       `json:"id"`
	ShortDescription sarifMessage `json:"shortDescription"`
	DefaultConfig    sarifConfig  `json:"defaultConfiguration"`
}

type sarifConfig struct {
	Level string `json:"level"`
}

type sarifResult struct {
	RuleID    string       `json:"ruleId"`
	RuleIndex int          `json:"ruleIndex"`
	Level     string       `json:"level"`
	Message   sarifMessage `json:"message"`
	Locations []sarifLoc   `json:"locations"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

type sarifLoc struct {
	PhysicalLocation sarifPhys `json:"physicalLocation"`
}

type sarifPhys struct {
	ArtifactLocation sarifArt     `json:"artifactLocation"`
	Region           *sarifRegion `json:"region,omitempty"`
}

type sarifArt struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine int `json:"startLine"`
}

func sevToLevel(s types.Severity) string {
	switch s {
	case types.SevCritical, types.SevHigh:
		return "error"
	case types.SevMedium:
		return "warning"
	default:
		return "note"
	}
}

// SARIFOptions describes the tool run embedded in the document.
type SARIFOptions struct {
	Version string
	// Stats lands in runs[0].properties when non-empty.
	Stats map[string]any
}

// WriteSARIF writes findings as SARIF 2.1.0. Each distinct rule is declared
// once in the driver and referenced by index from its results.
func WriteSARIF(w io.Writer, findings []types.Finding, opts SARIFOptions) error {
	version := opts.Version
	if version == "" {
		version = "dev"
	}
	run := sarifRun{
		Tool: sarifTool{Driver: sarifDriver{
			Name:           "diffgate",
			Version:        version,
			InformationURI: "https://github.com/varalys/diffgate",
			Rules:          []sarifRule{},
		}},
		Results: []sarifResult{},
	}
	if len(opts.Stats) > 0 {
		run.Properties = opts.Stats
	}
	index := map[string]int{}
	for _, f := range findings {
		idx, ok := index[f.Rule]
		if !ok {
			idx = len(run.Tool.Driver.Rules)
			index[f.Rule] = idx
			run.Tool.Driver.Rules = append(run.Tool.Driver.Rules, sarifRule{
				ID:               f.Rule,
				ShortDescription: sarifMessage{Text: f.Description},
				DefaultConfig:    sarifConfig{Level: sevToLevel(f.Severity)},
			})
		}
		phys := sarifPhys{ArtifactLocation: sarifArt{URI: f.File}}
		if f.HasLine() {
			phys.Region = &sarifRegion{StartLine: f.Line}
		}
		run.Results = append(run.Results, sarifResult{
			RuleID:    f.Rule,
			RuleIndex: idx,
			Level:     sevToLevel(f.Severity),
			Message:   sarifMessage{Text: string(f.Severity) + ": " + f.Description},
			Locations: []sarifLoc{{PhysicalLocation: phys}},
		})
	}
	doc := sarif{
		Schema:  "https://json.schemastore.org/sarif-2.1.0.json",
		Version: "2.1.0",
		Runs:    []sarifRun{run},
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
