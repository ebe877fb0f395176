package compiler

import (
	"encoding/json"
	"time"
)

// Manifest is the machine-readable summary of a build written next to the script.
type Manifest struct {
	BuildID  string          `json:"build_id"`
	Digest   string          `json:"digest"`
	Bytes    int             `json:"bytes"`
	BuiltAt  time.Time       `json:"built_at"`
	Duration string          `json:"duration"`
	Fields   []ManifestField `json:"fields"`
	Skipped  []Skip          `json:"skipped"`
}

// ManifestField describes one compiled field.
type ManifestField struct {
	Setting  string   `json:"setting"`
	StyleID  string   `json:"style_id"`
	Handlers []string `json:"handlers"`
}

// Manifest summarizes the result.
func (r *Result) Manifest() Manifest {
	m := Manifest{
		BuildID:  r.ID,
		Digest:   r.Digest,
		Bytes:    len(r.Script),
		BuiltAt:  r.StartedAt.UTC(),
		Duration: r.Duration.String(),
		Fields:   make([]ManifestField, 0, len(r.Fields)),
		Skipped:  append([]Skip{}, r.Skipped...),
	}
	for _, f := range r.Fields {
		m.Fields = append(m.Fields, ManifestField{Setting: f.Setting, StyleID: f.StyleID, Handlers: f.Handlers()})
	}
	return m
}

// MarshalManifest encodes the manifest as indented JSON.
func (r *Result) MarshalManifest() ([]byte, error) {
	return json.MarshalIndent(r.Manifest(), "", "  ")
}
