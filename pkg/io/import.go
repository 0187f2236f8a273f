package io

import (
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/siteplan/pkg/errors"
	"github.com/matzehuels/siteplan/pkg/layout"
	"github.com/matzehuels/siteplan/pkg/site"
)

// ReadJSON decodes a layout document from r.
//
// ReadJSON returns an INVALID_INPUT error if the JSON is malformed, a
// building has an unknown type, or building ids are not unique positive
// integers. Site fields present in the document override [site.Default] and
// the result must pass [site.Config.Validate].
// The audit and energy are recomputed against the decoded site. ReadJSON
// does not close r.
func ReadJSON(r io.Reader) (Document, error) {
	return ReadJSONSite(r, site.Default())
}

// ReadJSONSite is [ReadJSON] with base in place of [site.Default] for
// documents that omit or only partially specify their site.
func ReadJSONSite(r io.Reader, base site.Config) (Document, error) {
	cfg := base
	data := document{Site: &cfg}
	if err := json.NewDecoder(r).Decode(&data); err != nil {
		return Document{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode layout: %v", err)
	}

	if data.Site == nil {
		cfg = base
	} else if err := cfg.Validate(); err != nil {
		return Document{}, err
	}

	l := layout.Layout{Buildings: make([]layout.Building, 0, len(data.Buildings)), NextID: data.NextID}
	for _, b := range data.Buildings {
		t, err := layout.ParseType(b.Type)
		if err != nil {
			return Document{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "building %d: %v", b.ID, err)
		}
		l.Buildings = append(l.Buildings, layout.Building{
			ID: b.ID, X: b.X, Y: b.Y, Width: b.Width, Height: b.Height, Type: t,
		})
		if data.NextID == 0 {
			l.NextID = max(l.NextID, b.ID)
		}
	}
	if err := l.Validate(); err != nil {
		return Document{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid layout: %v", err)
	}

	doc := NewDocument(l, cfg)
	doc.Seed = data.Seed
	return doc, nil
}

// ImportJSON reads a layout document from the JSON file at path.
func ImportJSON(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Document{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "layout file %s not found", path)
		}
		return Document{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "open %s", path)
	}
	defer f.Close()
	return ReadJSON(f)
}
