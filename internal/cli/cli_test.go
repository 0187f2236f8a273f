package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/matzehuels/siteplan/pkg/errors"
	siteio "github.com/matzehuels/siteplan/pkg/io"
	"github.com/matzehuels/siteplan/pkg/layout"
	"github.com/matzehuels/siteplan/pkg/site"
)

func newTestCLI() (*CLI, *bytes.Buffer) {
	var buf bytes.Buffer
	return New(&buf, LogInfo), &buf
}

func execute(t *testing.T, args ...string) error {
	t.Helper()
	c, _ := newTestCLI()
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	return root.Execute()
}

func TestRootCommandHasSubcommands(t *testing.T) {
	c, _ := newTestCLI()
	root := c.RootCommand()

	var names []string
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	for _, want := range []string{"optimize", "audit", "render", "site", "serve", "completion"} {
		found := false
		for _, n := range names {
			if n == want {
				found = true
			}
		}
		if !found {
			t.Errorf("missing subcommand %q (have %v)", want, names)
		}
	}
}

func TestNewIsNotInteractiveForBuffers(t *testing.T) {
	c, _ := newTestCLI()
	if c.interactive {
		t.Error("a buffer is not a terminal")
	}
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		input string
		want  []string
	}{
		{"", []string{"svg"}},
		{"svg", []string{"svg"}},
		{"svg,json,text", []string{"svg", "json", "text"}},
		{"svg, png", []string{"svg", "png"}},
	}
	for _, tt := range tests {
		if got := parseFormats(tt.input); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, fallback, want string
	}{
		{"", "layout", "layout"},
		{"plan", "layout", "plan"},
		{"out/plan.svg", "layout", "out/plan"},
		{"plan.json", "layout", "plan"},
		{"plan.v2", "layout", "plan.v2"},
	}
	for _, tt := range tests {
		if got := basePath(tt.output, tt.fallback); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.fallback, got, tt.want)
		}
	}
}

func TestOutputPath(t *testing.T) {
	if got := outputPath("plan", "svg", 0, 1); got != "plan.svg" {
		t.Errorf("single run = %q", got)
	}
	if got := outputPath("plan", "text", 2, 3); got != "plan_3.txt" {
		t.Errorf("batch run = %q", got)
	}
}

func TestLoadSite(t *testing.T) {
	cfg, err := loadSite("")
	if err != nil || cfg != site.Default() {
		t.Fatalf("loadSite(\"\") = %+v, %v", cfg, err)
	}

	path := filepath.Join(t.TempDir(), "site.toml")
	if err := os.WriteFile(path, []byte("min_gap = 20\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = loadSite(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.MinGap != 20 || cfg.Width != site.DefaultWidth {
		t.Errorf("loadSite = %+v", cfg)
	}

	if _, err := loadSite(filepath.Join(t.TempDir(), "missing.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v", err)
	}
}

func TestOptimizeWritesArtifacts(t *testing.T) {
	base := filepath.Join(t.TempDir(), "plan")
	if err := execute(t, "optimize", "--iterations", "200", "--seed", "5", "-f", "json,svg,text", "-o", base); err != nil {
		t.Fatalf("optimize: %v", err)
	}

	doc, err := siteio.ImportJSON(base + ".json")
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if doc.Seed != 5 {
		t.Errorf("seed = %d, want 5", doc.Seed)
	}
	svg, err := os.ReadFile(base + ".svg")
	if err != nil || !bytes.HasPrefix(svg, []byte("<svg")) {
		t.Errorf("svg output: %v", err)
	}
	if _, err := os.Stat(base + ".txt"); err != nil {
		t.Errorf("text output: %v", err)
	}
}

func TestOptimizeBatchWritesSheet(t *testing.T) {
	base := filepath.Join(t.TempDir(), "plan")
	if err := execute(t, "optimize", "-n", "2", "-i", "100", "--seed", "9", "-o", base); err != nil {
		t.Fatalf("optimize: %v", err)
	}
	for _, name := range []string{"plan_1.svg", "plan_2.svg", "plan_sheet.svg"} {
		if _, err := os.Stat(filepath.Join(filepath.Dir(base), name)); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
}

func TestOptimizeErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code errors.Code
	}{
		{"zero budget", []string{"optimize", "--iterations", "0"}, errors.ErrCodeInvalidBudget},
		{"bad budget", []string{"optimize", "--iterations", "-1"}, errors.ErrCodeInvalidBudget},
		{"bad format", []string{"optimize", "-f", "gif"}, errors.ErrCodeInvalidFormat},
		{"too many runs", []string{"optimize", "-n", "50"}, errors.ErrCodeInvalidInput},
		{"missing site", []string{"optimize", "--site", "nope.yaml"}, errors.ErrCodeFileNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := execute(t, append(tt.args, "-o", filepath.Join(t.TempDir(), "x"))...)
			if !errors.Is(err, tt.code) {
				t.Errorf("error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func writeLayout(t *testing.T, bs ...layout.Building) string {
	t.Helper()
	var l layout.Layout
	for _, b := range bs {
		l.Add(b)
	}
	path := filepath.Join(t.TempDir(), "layout.json")
	if err := siteio.ExportJSON(siteio.NewDocument(l, site.Default()), path); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestAuditCommand(t *testing.T) {
	valid := writeLayout(t,
		layout.Building{X: 20, Y: 20, Width: 30, Height: 20, Type: layout.TypeA},
		layout.Building{X: 20, Y: 60, Width: 20, Height: 20, Type: layout.TypeB},
	)
	if err := execute(t, "audit", "--strict", valid); err != nil {
		t.Errorf("valid layout: %v", err)
	}

	invalid := writeLayout(t, layout.Building{X: 0, Y: 0, Width: 20, Height: 20, Type: layout.TypeB})
	if err := execute(t, "audit", invalid); err != nil {
		t.Errorf("audit without --strict should succeed: %v", err)
	}
	if err := execute(t, "audit", "--strict", invalid); !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Errorf("strict audit error = %v", err)
	}
	if err := execute(t, "audit", filepath.Join(t.TempDir(), "none.json")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v", err)
	}
}

func TestRenderCommand(t *testing.T) {
	input := writeLayout(t, layout.Building{X: 20, Y: 20, Width: 30, Height: 20, Type: layout.TypeA})
	base := filepath.Join(filepath.Dir(input), "figure")

	if err := execute(t, "render", input, "-f", "svg,text", "-o", base, "--title", "Draft"); err != nil {
		t.Fatalf("render: %v", err)
	}
	svg, err := os.ReadFile(base + ".svg")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(svg), "Draft: VIOLATIONS: 1") {
		t.Error("title missing from svg")
	}
	text, err := os.ReadFile(base + ".txt")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(text), "neighbor_missing") {
		t.Errorf("text output missing violation:\n%s", text)
	}
}

func TestRenderDoesNotOverwriteInput(t *testing.T) {
	input := writeLayout(t)
	before, _ := os.ReadFile(input)
	if err := execute(t, "render", input, "-f", "json"); err != nil {
		t.Fatal(err)
	}
	after, _ := os.ReadFile(input)
	if !bytes.Equal(before, after) {
		t.Error("render overwrote its input")
	}
	if _, err := os.Stat(strings.TrimSuffix(input, ".json") + "_rendered.json"); err != nil {
		t.Errorf("renamed output: %v", err)
	}
}

func TestCompleteFormatList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"svg", "json", "text", "png", "pdf"}},
		{"p", []string{"png", "pdf"}},
		{"svg,", []string{"svg,json", "svg,text", "svg,png", "svg,pdf"}},
		{"svg,json,t", []string{"svg,json,text"}},
		{"svg,s", nil},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := completeFormatList(tt.in); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("completeFormatList(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFlagCompletion(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want []string
	}{
		{"optimize formats", []string{"optimize", "--format", "svg,j"}, []string{"svg,json"}},
		{"site encodings", []string{"site", "--format", ""}, []string{"toml", "yaml", "json"}},
		{"site files", []string{"audit", "--site", ""}, []string{"toml", "yaml", "yml", "json"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestCLI()
			root := c.RootCommand()
			var out bytes.Buffer
			root.SetOut(&out)
			root.SetErr(&bytes.Buffer{})
			root.SetArgs(append([]string{"__complete"}, tt.args...))
			if err := root.Execute(); err != nil {
				t.Fatal(err)
			}
			lines := strings.Split(strings.TrimSpace(out.String()), "\n")
			// The last line is the directive, e.g. ":36".
			got := lines[:len(lines)-1]
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("completions = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCompletionScript(t *testing.T) {
	c, _ := newTestCLI()
	root := c.RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"completion", "bash"})
	if err := root.Execute(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "siteplan") {
		t.Error("bash script does not mention siteplan")
	}
}
