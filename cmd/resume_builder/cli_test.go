package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// runCLI executes the root command in-process with flags reset to defaults
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.PersistentFlags().VisitAll(reset)
	cmd.Flags().VisitAll(reset)
	for _, sub := range cmd.Commands() {
		resetFlags(sub)
	}
}

// writeResume writes a loosely shaped resume with the given number of jobs
func writeResume(t *testing.T, dir string, jobs int, extra map[string]any) string {
	t.Helper()
	experience := make([]any, jobs)
	for i := range experience {
		experience[i] = map[string]any{"employer": fmt.Sprintf("Company %d", i), "job_title": "Engineer"}
	}
	doc := map[string]any{
		"personal":   map[string]any{"full_name": "Grace Hopper"},
		"about":      "Pioneer of compilers.",
		"skills":     []string{"COBOL", "FLOW-MATIC"},
		"experience": experience,
	}
	for k, v := range extra {
		doc[k] = v
	}
	data, err := json.Marshal(doc)
	require.NoError(t, err)

	path := filepath.Join(dir, "resume.json")
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func TestTemplatesCommand(t *testing.T) {
	out, err := runCLI(t, "templates")
	require.NoError(t, err)

	assert.Contains(t, out, "* classic")
	assert.Contains(t, out, "compact")
	assert.Contains(t, out, "modern")
}

func TestPaginateCommand_WritesLayout(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	tmpDir := t.TempDir()
	input := writeResume(t, tmpDir, 30, nil)
	output := filepath.Join(tmpDir, "out", "layout.json")

	out, err := runCLI(t, "paginate", "--in", input, "--out", output)
	require.NoError(t, err)
	assert.Contains(t, out, `Paginated "Grace Hopper" into 3 page(s)`)

	data, err := os.ReadFile(output)
	require.NoError(t, err)
	var lay layoutFile
	require.NoError(t, json.Unmarshal(data, &lay))
	assert.Equal(t, "classic", lay.Template)
	assert.Equal(t, 3, lay.TotalPages)
	require.Len(t, lay.Pages, 3)
	assert.Equal(t, []string{"about", "experience/0"}, lay.Pages[0].Right[:2])
	assert.Empty(t, lay.Pages[2].Left)
	assert.Empty(t, lay.Overflows)
}

func TestPaginateCommand_Verbose(t *testing.T) {
	tmpDir := t.TempDir()
	input := writeResume(t, tmpDir, 30, map[string]any{"education": []any{"not an object"}})

	out, err := runCLI(t, "paginate", "--in", input, "--page", "7", "-v")
	require.NoError(t, err)

	assert.Contains(t, out, "INPUT WARNINGS")
	assert.Contains(t, out, "PAGE LAYOUT")
	assert.Contains(t, out, "ALL PAGES WITHIN CAPACITY")
	// out-of-range pages clamp to the last one
	assert.Contains(t, out, "Page 3 of 3")
}

func TestPaginateCommand_TemplateAndConfig(t *testing.T) {
	tmpDir := t.TempDir()
	input := writeResume(t, tmpDir, 30, nil)
	cfgPath := filepath.Join(tmpDir, "config.json")
	require.NoError(t, os.WriteFile(cfgPath, []byte(`{"page_capacity": 500}`), 0644))

	out, err := runCLI(t, "paginate", "--in", input, "--config", cfgPath, "--template", "modern")
	require.NoError(t, err)
	assert.Contains(t, out, "into 1 page(s) (capacity 500.0)")
}

func TestPaginateCommand_Errors(t *testing.T) {
	tmpDir := t.TempDir()
	input := writeResume(t, tmpDir, 1, nil)
	noName := filepath.Join(tmpDir, "anonymous.json")
	require.NoError(t, os.WriteFile(noName, []byte(`{"about": "who am I"}`), 0644))
	badConfig := filepath.Join(tmpDir, "bad.json")
	require.NoError(t, os.WriteFile(badConfig, []byte(`{"export_strategy": "fax"}`), 0644))

	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"missing file", []string{"paginate", "--in", "/nonexistent/resume.json"}, "resume file not found"},
		{"no name", []string{"paginate", "--in", noName}, "full_name"},
		{"unknown template", []string{"paginate", "--in", input, "--template", "baroque"}, "baroque"},
		{"bad config", []string{"paginate", "--in", input, "--config", badConfig}, "export_strategy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := runCLI(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestExportCommand_Declarative(t *testing.T) {
	tmpDir := t.TempDir()
	input := writeResume(t, tmpDir, 3, nil)
	pdfPath := filepath.Join(tmpDir, "out", "resume.pdf")
	htmlPath := filepath.Join(tmpDir, "out", "resume.html")

	out, err := runCLI(t, "export", "--in", input, "--out", pdfPath, "--html", htmlPath, "--strategy", "declarative")
	require.NoError(t, err)
	assert.Contains(t, out, "with declarative strategy")

	pdf, err := os.ReadFile(pdfPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF-")))

	html, err := os.ReadFile(htmlPath)
	require.NoError(t, err)
	assert.Contains(t, string(html), `class="resume-page"`)
	assert.Contains(t, string(html), "Grace Hopper")
}

func TestExportCommand_HTMLWithFallback(t *testing.T) {
	tmpDir := t.TempDir()
	input := writeResume(t, tmpDir, 3, nil)
	pdfPath := filepath.Join(tmpDir, "resume.pdf")
	htmlPath := filepath.Join(tmpDir, "resume.html")

	// a file that exists but cannot be launched forces the raster strategy to fail
	notChrome := filepath.Join(tmpDir, "not-chrome")
	require.NoError(t, os.WriteFile(notChrome, []byte("plain text"), 0644))
	t.Setenv("CHROME_PATH", notChrome)

	out, err := runCLI(t, "export", "--in", input, "--out", pdfPath, "--html", htmlPath, "--strategy", "auto")
	require.NoError(t, err)
	assert.Contains(t, out, "with declarative strategy")

	html, err := os.ReadFile(htmlPath)
	require.NoError(t, err)
	assert.Contains(t, string(html), `id="resume-page-1"`)
}

func TestExportCommand_UnknownStrategy(t *testing.T) {
	tmpDir := t.TempDir()
	input := writeResume(t, tmpDir, 1, nil)

	_, err := runCLI(t, "export", "--in", input, "--out", filepath.Join(tmpDir, "x.pdf"), "--strategy", "fax")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown export strategy")
}

func TestValidateCommand(t *testing.T) {
	tmpDir := t.TempDir()

	canonical := filepath.Join(tmpDir, "canonical.json")
	require.NoError(t, os.WriteFile(canonical, []byte(`{"personal": {"full_name": "Ada Lovelace"}, "skills": ["Mathematics"]}`), 0644))

	out, err := runCLI(t, "validate", "--in", canonical, "--strict")
	require.NoError(t, err)
	assert.Contains(t, out, "Schema: valid")
	assert.Contains(t, out, "Validation passed")

	loose := writeResume(t, tmpDir, 1, map[string]any{"education": []any{map[string]any{"degree": "BA"}}})

	out, err = runCLI(t, "validate", "--in", loose)
	require.NoError(t, err)
	assert.Contains(t, out, "Schema: ")
	assert.Contains(t, out, "Warning: shape error: education[0].institution")
	assert.Contains(t, out, "entries would be dropped")

	_, err = runCLI(t, "validate", "--in", loose, "--strict")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "schema problem")
}
