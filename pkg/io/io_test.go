package io

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/siteplan/pkg/audit"
	"github.com/matzehuels/siteplan/pkg/errors"
	"github.com/matzehuels/siteplan/pkg/layout"
	"github.com/matzehuels/siteplan/pkg/site"
)

func sampleLayout() layout.Layout {
	var l layout.Layout
	l.Add(layout.Building{X: 20, Y: 20, Width: 30, Height: 20, Type: layout.TypeA})
	l.Add(layout.Building{X: 55, Y: 20, Width: 20, Height: 20, Type: layout.TypeB})
	return l
}

func TestRoundTrip(t *testing.T) {
	doc := NewDocument(sampleLayout(), site.Default())
	doc.Seed = 17

	var buf bytes.Buffer
	if err := WriteJSON(doc, &buf); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON: %v", err)
	}
	if !reflect.DeepEqual(got, doc) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, doc)
	}
}

func TestWriteJSONFields(t *testing.T) {
	doc := NewDocument(sampleLayout(), site.Default())
	data, err := MarshalJSON(doc)
	if err != nil {
		t.Fatal(err)
	}

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatal(err)
	}
	for _, key := range []string{"site", "buildings", "next_id", "energy", "valid", "violations"} {
		if _, ok := raw[key]; !ok {
			t.Errorf("missing key %q", key)
		}
	}

	// A and B are 5 apart, well inside the minimum gap.
	vs := raw["violations"].([]any)
	if len(vs) != 1 {
		t.Fatalf("violations = %v", vs)
	}
	v := vs[0].(map[string]any)
	if v["kind"] != string(audit.KindProximity) || v["distance"] != 5.0 {
		t.Errorf("violation = %v", v)
	}
	b := raw["buildings"].([]any)[0].(map[string]any)
	for _, key := range []string{"id", "x", "y", "width", "height", "type"} {
		if _, ok := b[key]; !ok {
			t.Errorf("building missing key %q", key)
		}
	}
}

func TestReadJSONDefaults(t *testing.T) {
	in := `{"buildings": [{"id": 4, "x": 50, "y": 50, "width": 30, "height": 20, "type": "a"}]}`
	doc, err := ReadJSON(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if doc.Site != site.Default() {
		t.Errorf("Site = %+v, want default", doc.Site)
	}
	if doc.Layout.NextID != 4 {
		t.Errorf("NextID = %d, want 4", doc.Layout.NextID)
	}
	if doc.Layout.Buildings[0].Type != layout.TypeA {
		t.Errorf("Type = %q", doc.Layout.Buildings[0].Type)
	}
	want := []audit.Violation{audit.NeighborMissing{Building: 4}}
	if !reflect.DeepEqual(doc.Violations, want) {
		t.Errorf("Violations = %v, want %v", doc.Violations, want)
	}
}

func TestReadJSONPartialSite(t *testing.T) {
	in := `{"site": {"min_gap": 2}, "buildings": []}`
	doc, err := ReadJSON(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if doc.Site.MinGap != 2 || doc.Site.Width != site.DefaultWidth {
		t.Errorf("Site = %+v", doc.Site)
	}
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		code errors.Code
	}{
		{"malformed", `{"buildings": [`, errors.ErrCodeInvalidInput},
		{"unknown type", `{"buildings": [{"id": 1, "type": "C"}]}`, errors.ErrCodeInvalidInput},
		{"duplicate id", `{"buildings": [{"id": 1, "type": "A"}, {"id": 1, "type": "B"}]}`, errors.ErrCodeInvalidInput},
		{"zero id", `{"buildings": [{"id": 0, "type": "A"}]}`, errors.ErrCodeInvalidInput},
		{"bad site", `{"site": {"width": -1}, "buildings": []}`, errors.ErrCodeInvalidConfig},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.in))
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestExportImportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "layout.json")
	doc := NewDocument(sampleLayout(), site.Default())
	if err := ExportJSON(doc, path); err != nil {
		t.Fatal(err)
	}
	got, err := ImportJSON(path)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got.Layout, doc.Layout) {
		t.Errorf("Layout = %+v, want %+v", got.Layout, doc.Layout)
	}

	_, err = ImportJSON(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file err = %v", err)
	}
}
