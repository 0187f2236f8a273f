package render

import (
	"context"
	"testing"

	"github.com/matzehuels/siteplan/pkg/errors"
)

func TestMissingConverter(t *testing.T) {
	saved := converter
	converter = "siteplan-no-such-converter"
	defer func() { converter = saved }()

	if Available() {
		t.Fatal("Available() = true for a missing binary")
	}
	_, err := ToPDF(context.Background(), []byte("<svg/>"))
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("ToPDF err = %v, want INVALID_FORMAT", err)
	}
	_, err = ToPNG(context.Background(), []byte("<svg/>"), 2)
	if !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("ToPNG err = %v, want INVALID_FORMAT", err)
	}
}

func TestToPNG(t *testing.T) {
	if !Available() {
		t.Skip("rsvg-convert not installed")
	}
	svg := []byte(`<svg xmlns="http://www.w3.org/2000/svg" width="10" height="10"><rect width="10" height="10"/></svg>`)
	png, err := ToPNG(context.Background(), svg, 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(png) < 8 || string(png[1:4]) != "PNG" {
		t.Errorf("output is not a PNG: % x", png[:min(8, len(png))])
	}
}
