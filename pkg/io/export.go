package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/matzehuels/siteplan/pkg/audit"
	"github.com/matzehuels/siteplan/pkg/energy"
	"github.com/matzehuels/siteplan/pkg/layout"
	"github.com/matzehuels/siteplan/pkg/site"
)

// Document is a layout together with the site and audit it belongs to.
type Document struct {
	Site       site.Config
	Layout     layout.Layout
	Seed       uint64
	Energy     float64
	Violations []audit.Violation
}

// NewDocument audits l against cfg and scores it with the default weights.
func NewDocument(l layout.Layout, cfg site.Config) Document {
	vs := audit.Audit(l, cfg)
	return Document{
		Site:       cfg,
		Layout:     l,
		Energy:     energy.DefaultWeights.Evaluate(l, vs),
		Violations: vs,
	}
}

type document struct {
	Site       *site.Config    `json:"site,omitempty"`
	Buildings  []building      `json:"buildings"`
	NextID     int             `json:"next_id,omitempty"`
	Seed       uint64          `json:"seed,omitempty"`
	Energy     float64         `json:"energy"`
	Valid      bool            `json:"valid"`
	Violations []violationJSON `json:"violations"`
}

type building struct {
	ID     int     `json:"id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Type   string  `json:"type"`
}

type violationJSON struct {
	Kind      audit.Kind `json:"kind"`
	Buildings []int      `json:"buildings"`
	Distance  *float64   `json:"distance,omitempty"`
}

// WriteJSON encodes doc as indented JSON and writes it to w.
func WriteJSON(doc Document, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toJSON(doc)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// MarshalJSON returns the indented JSON encoding of doc.
func MarshalJSON(doc Document) ([]byte, error) {
	return json.MarshalIndent(toJSON(doc), "", "  ")
}

// ExportJSON writes doc to a JSON file at path.
func ExportJSON(doc Document, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteJSON(doc, f)
}

func toJSON(doc Document) document {
	cfg := doc.Site
	out := document{
		Site:       &cfg,
		Buildings:  make([]building, len(doc.Layout.Buildings)),
		NextID:     doc.Layout.NextID,
		Seed:       doc.Seed,
		Energy:     doc.Energy,
		Valid:      len(doc.Violations) == 0,
		Violations: make([]violationJSON, len(doc.Violations)),
	}
	for i, b := range doc.Layout.Buildings {
		out.Buildings[i] = building{ID: b.ID, X: b.X, Y: b.Y, Width: b.Width, Height: b.Height, Type: string(b.Type)}
	}
	for i, v := range doc.Violations {
		vj := violationJSON{Kind: v.Kind(), Buildings: v.BuildingIDs()}
		if p, ok := v.(audit.Proximity); ok {
			d := p.Distance
			vj.Distance = &d
		}
		out.Violations[i] = vj
	}
	return out
}
