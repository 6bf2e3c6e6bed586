// ABOUTME: Tests for the coursemap CLI: generation, exit codes, subcommands and configuration lookup.
// ABOUTME: Commands run in-process against temporary course trees with a fake renderer in place of Graphviz.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/2389-research/coursemap/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRenderer struct{ err error }

func (f *fakeRenderer) Render(_ context.Context, dotText []byte, format render.Format) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return append([]byte("<"+format.String()+">"), dotText...), nil
}

type harness struct {
	cli    *cli
	out    *bytes.Buffer
	errOut *bytes.Buffer
	env    map[string]string
}

func newHarness(t *testing.T, renderer render.Renderer) *harness {
	t.Helper()
	h := &harness{out: &bytes.Buffer{}, errOut: &bytes.Buffer{}, env: map[string]string{}}
	h.cli = newCLI(h.out, h.errOut)
	h.cli.version = "1.2.3"
	h.cli.getenv = func(k string) string { return h.env[k] }
	h.cli.renderer = renderer
	return h
}

func (h *harness) run(args ...string) int {
	return execute(context.Background(), h.cli, args)
}

func writeCourse(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, body := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	}
	return root
}

func cleanCourse(t *testing.T) string {
	return writeCourse(t, map[string]string{
		"intro.qmd": "---\ntitle: Intro\nphase: Pre\n---\n",
		"loops.qmd": "---\ntitle: Loops\nphase: InClass\nprerequisites: [intro]\n---\n",
	})
}

func TestGenerateDOT(t *testing.T) {
	h := newHarness(t, nil)
	out := filepath.Join(t.TempDir(), "map.dot")

	code := h.run("-i", cleanCourse(t), "-o", out)
	require.Equal(t, ExitCodeSuccess, code, h.errOut.String())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), "  intro -> loops\n")
	assert.Contains(t, h.out.String(), "Course map generated successfully!")
	assert.Contains(t, h.out.String(), "2 documents, 1 edges, 0 warnings")
}

func TestGenerateUsesRendererForImageFormats(t *testing.T) {
	h := newHarness(t, &fakeRenderer{})
	out := filepath.Join(t.TempDir(), "map.png")

	code := h.run("-i", cleanCourse(t), "-o", out, "--workers", "2")
	require.Equal(t, ExitCodeSuccess, code, h.errOut.String())

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "<png>digraph"))
}

func TestGenerateFormatFlagOverridesExtension(t *testing.T) {
	h := newHarness(t, &fakeRenderer{})
	out := filepath.Join(t.TempDir(), "map.out")

	require.Equal(t, ExitCodeSuccess, h.run("-i", cleanCourse(t), "-o", out, "-f", "pdf"))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "<pdf>"))
}

func TestGenerateStrictFailsOnWarnings(t *testing.T) {
	root := writeCourse(t, map[string]string{
		"a.qmd": "---\nprerequisites: [ghost]\n---\n",
	})
	out := filepath.Join(t.TempDir(), "map.dot")

	h := newHarness(t, nil)
	assert.Equal(t, ExitCodeWarnings, h.run("-i", root, "-o", out, "--strict"))
	assert.FileExists(t, out, "output is still written under --strict")
	assert.Contains(t, h.errOut.String(), "unresolved_reference")
	assert.NotContains(t, h.errOut.String(), "Error:")

	h = newHarness(t, nil)
	assert.Equal(t, ExitCodeSuccess, h.run("-i", root, "-o", out))
}

func TestGenerateMissingDirectory(t *testing.T) {
	h := newHarness(t, nil)
	out := filepath.Join(t.TempDir(), "map.dot")

	code := h.run("-i", filepath.Join(t.TempDir(), "missing"), "-o", out)
	assert.Equal(t, ExitCodeError, code)
	assert.Contains(t, h.errOut.String(), "directory not found")
	assert.Contains(t, h.errOut.String(), "Make sure the input directory exists")
	assert.NoFileExists(t, out)
}

func TestGenerateReportsWhyEveryFileWasRejected(t *testing.T) {
	root := writeCourse(t, map[string]string{
		"a.qmd": "no header\n",
		"b.qmd": "---\nid: [unterminated\n---\n",
	})
	out := filepath.Join(t.TempDir(), "map.dot")

	h := newHarness(t, nil)
	assert.Equal(t, ExitCodeError, h.run("-i", root, "-o", out))

	stderr := h.errOut.String()
	assert.Contains(t, stderr, "2 warning(s):")
	assert.Equal(t, 2, strings.Count(stderr, "parse_error"))
	assert.Contains(t, stderr, "a.qmd")
	assert.Contains(t, stderr, "b.qmd")
	assert.Contains(t, stderr, "no course documents found")
	assert.NoFileExists(t, out)

	h = newHarness(t, nil)
	assert.Equal(t, ExitCodeError, h.run("list", "-i", root))
	assert.Equal(t, 2, strings.Count(h.errOut.String(), "parse_error"))
}

func TestGenerateRenderFailure(t *testing.T) {
	h := newHarness(t, &fakeRenderer{err: &render.RenderError{Format: render.FormatSVG, Stderr: "syntax error"}})
	out := filepath.Join(t.TempDir(), "map.svg")

	assert.Equal(t, ExitCodeError, h.run("-i", cleanCourse(t), "-o", out))
	assert.Contains(t, h.errOut.String(), "syntax error")
	assert.Contains(t, h.errOut.String(), "--format dot")
	assert.NoFileExists(t, out)
}

func TestGenerateWithoutGraphviz(t *testing.T) {
	h := newHarness(t, nil)
	h.env[EnvGraphviz] = filepath.Join(t.TempDir(), "no-dot")
	out := filepath.Join(t.TempDir(), "map.svg")

	assert.Equal(t, ExitCodeError, h.run("-i", cleanCourse(t), "-o", out))
	assert.Contains(t, h.errOut.String(), "brew install graphviz")
	assert.NoFileExists(t, out)
}

func TestUsageErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad format", []string{"-f", "gif"}},
		{"unknown flag", []string{"--nope"}},
		{"positional argument", []string{"extra"}},
		{"subcommand argument", []string{"version", "extra"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, nil)
			args := append([]string{"-i", cleanCourse(t), "-o", filepath.Join(t.TempDir(), "m.dot")}, tt.args...)
			assert.Equal(t, ExitCodeUsage, h.run(args...))
			assert.Contains(t, h.errOut.String(), "Error:")
		})
	}
}

func TestListTable(t *testing.T) {
	h := newHarness(t, nil)
	require.Equal(t, ExitCodeSuccess, h.run("list", "-i", cleanCourse(t)))

	out := h.out.String()
	for _, want := range []string{"intro", "Intro", "loops", "Loops", "InClass", "Total:"} {
		assert.Contains(t, out, want)
	}
	assert.Less(t, strings.Index(out, "Intro"), strings.Index(out, "Loops"))
}

func TestListJSON(t *testing.T) {
	h := newHarness(t, nil)
	require.Equal(t, ExitCodeSuccess, h.run("list", "--json", "-i", cleanCourse(t)))

	var docs []struct {
		ID            string   `json:"id"`
		Title         string   `json:"title"`
		Phase         string   `json:"phase"`
		Prerequisites []string `json:"prerequisites"`
		FilePath      string   `json:"file_path"`
	}
	require.NoError(t, json.Unmarshal(h.out.Bytes(), &docs))
	require.Len(t, docs, 2)
	assert.Equal(t, "intro", docs[0].ID)
	assert.Equal(t, []string{"intro"}, docs[1].Prerequisites)
	assert.NotEmpty(t, docs[1].FilePath)
}

func TestListJSONReportsWarnings(t *testing.T) {
	root := writeCourse(t, map[string]string{
		"a.qmd": "---\nprerequisites: [ghost]\n---\n",
	})
	h := newHarness(t, nil)
	require.Equal(t, ExitCodeSuccess, h.run("list", "--json", "-i", root))

	assert.Contains(t, h.errOut.String(), "unresolved_reference")
	var docs []map[string]any
	require.NoError(t, json.Unmarshal(h.out.Bytes(), &docs))
	assert.Len(t, docs, 1)
}

func TestRenderTableEmpty(t *testing.T) {
	assert.Contains(t, renderTable(nil), "No documents found")
}

func TestConfigCommandDefaults(t *testing.T) {
	h := newHarness(t, nil)
	require.Equal(t, ExitCodeSuccess, h.run("config", "-i", t.TempDir()))

	out := h.out.String()
	assert.Contains(t, out, "# built-in defaults")
	assert.Contains(t, out, "root-key: course-map")
	assert.Contains(t, out, "lightgreen")
}

func TestConfigFromFlagAndEnvironment(t *testing.T) {
	dir := t.TempDir()
	tomlPath := filepath.Join(dir, "map.toml")
	require.NoError(t, os.WriteFile(tomlPath, []byte("root-key = \"syllabus\"\n\n[phase.Week1]\nface = \"pink\"\n"), 0o644))

	h := newHarness(t, nil)
	require.Equal(t, ExitCodeSuccess, h.run("config", "-c", tomlPath))
	assert.Contains(t, h.out.String(), "root-key: syllabus")
	assert.Contains(t, h.out.String(), "# loaded from "+tomlPath)

	h = newHarness(t, nil)
	h.env[EnvConfig] = tomlPath
	require.Equal(t, ExitCodeSuccess, h.run("config"))
	assert.Contains(t, h.out.String(), "Week1")

	h = newHarness(t, nil)
	assert.Equal(t, ExitCodeError, h.run("config", "-c", filepath.Join(dir, "missing.yml")))
}

func TestInvalidConfigIsRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("ignore:\n  - \"/\"\n"), 0o644))

	h := newHarness(t, nil)
	out := filepath.Join(t.TempDir(), "m.dot")
	assert.Equal(t, ExitCodeError, h.run("-c", path, "-i", cleanCourse(t), "-o", out))
	assert.Contains(t, h.errOut.String(), "invalid configuration")
	assert.NoFileExists(t, out)

	h = newHarness(t, nil)
	assert.Equal(t, ExitCodeError, h.run("config", "-c", path))
}

func TestConfigFoundInInputDirectory(t *testing.T) {
	root := writeCourse(t, map[string]string{
		"config.yml": "root-key: from-input\n",
		"a.qmd":      "---\nid: a\n---\n",
	})
	h := newHarness(t, nil)
	out := filepath.Join(t.TempDir(), "m.dot")
	require.Equal(t, ExitCodeSuccess, h.run("-i", root, "-o", out))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), `digraph "from-input" {`))
}

func TestVerboseOutput(t *testing.T) {
	h := newHarness(t, nil)
	out := filepath.Join(t.TempDir(), "m.dot")
	require.Equal(t, ExitCodeSuccess, h.run("-v", "-i", cleanCourse(t), "-o", out))

	assert.Contains(t, h.out.String(), "Loaded configuration:")
	assert.Contains(t, h.out.String(), "built-in defaults")
	assert.Contains(t, h.errOut.String(), "course map built")
}

func TestVersion(t *testing.T) {
	h := newHarness(t, nil)
	require.Equal(t, ExitCodeSuccess, h.run("version"))
	assert.Equal(t, "coursemap version 1.2.3\n", h.out.String())

	h = newHarness(t, nil)
	require.Equal(t, ExitCodeSuccess, h.run("--version"))
	assert.Equal(t, "coursemap version 1.2.3\n", h.out.String())
}

func TestCheckGraphvizMissing(t *testing.T) {
	h := newHarness(t, nil)
	h.env[EnvGraphviz] = filepath.Join(t.TempDir(), "no-dot")
	assert.Equal(t, ExitCodeError, h.run("check-graphviz"))
	assert.Contains(t, h.errOut.String(), "graphviz dot command not found")
	assert.Contains(t, h.errOut.String(), "apt-get install graphviz")
}

func TestHelpShowsEnvironment(t *testing.T) {
	h := newHarness(t, nil)
	h.env[EnvConfig] = "/etc/coursemap.yml"
	require.Equal(t, ExitCodeSuccess, h.run("--help"))

	out := h.out.String()
	assert.Contains(t, out, EnvConfig)
	assert.Contains(t, out, "/etc/coursemap.yml")
	assert.Contains(t, out, EnvGraphviz+"   (not set)")
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitCodeSuccess, exitCode(nil))
	assert.Equal(t, ExitCodeUsage, exitCode(&usageError{errors.New("bad")}))
	assert.Equal(t, ExitCodeWarnings, exitCode(&strictError{count: 2}))
	assert.Equal(t, ExitCodeError, exitCode(errors.New("boom")))
}
