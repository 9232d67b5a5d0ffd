package cli_test

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"coursepilot/internal/app"
	"coursepilot/internal/cli"
	"coursepilot/internal/config"
	"coursepilot/internal/domain"
	"coursepilot/internal/repository/memory"
)

func testConfig() *config.Config {
	return &config.Config{
		Parser:  config.ParserConfig{Dedup: "overlap"},
		Extract: config.ExtractConfig{Pdftotext: "pdftotext", Tesseract: "tesseract", TesseractLang: "eng"},
		Store:   config.StoreConfig{Driver: "memory"},
		Auth:    config.AuthConfig{JWTSecret: "cli-secret", Issuer: "coursepilot"},
	}
}

func writeDOCX(t *testing.T, dir, name string, paragraphs ...string) string {
	t.Helper()
	doc := `<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`
	for _, p := range paragraphs {
		doc += `<w:p><w:r><w:t>` + p + `</w:t></w:r></w:p>`
	}
	doc += `</w:body></w:document>`

	buf := new(bytes.Buffer)
	zw := zip.NewWriter(buf)
	fw, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = fw.Write([]byte(doc))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o600))
	return path
}

func execute(t *testing.T, a *app.App, args ...string) (string, string, error) {
	t.Helper()
	root := cli.NewRootCmd(func() (*app.App, error) { return a, nil })
	stdout, stderr := new(bytes.Buffer), new(bytes.Buffer)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func newApp(t *testing.T) *app.App {
	t.Helper()
	a, err := app.New(testConfig(), nil)
	require.NoError(t, err)
	return a
}

func TestParse_SingleFile(t *testing.T) {
	path := writeDOCX(t, t.TempDir(), "math.docx", "MATH 241 Midterm Exam: Wednesday, October 15, 2025. Credits: 4.")

	out, _, err := execute(t, newApp(t), "parse", path)

	require.NoError(t, err)
	var ps domain.ParsedSyllabus
	require.NoError(t, json.Unmarshal([]byte(out), &ps))
	assert.Equal(t, "MATH 241", ps.Course.Name)
	assert.Equal(t, 4, ps.Course.Credits)
	require.Len(t, ps.Tasks, 1)
	assert.Equal(t, domain.PriorityHigh, ps.Tasks[0].Priority)
}

func TestParse_HeuristicFlag(t *testing.T) {
	path := writeDOCX(t, t.TempDir(), "hw.docx", "Homework 1: 10/03/2025")

	out, _, err := execute(t, newApp(t), "parse", "--heuristic", path)

	require.NoError(t, err)
	assert.Contains(t, out, `"Unknown Course"`)
}

func TestParse_Batch(t *testing.T) {
	dir := t.TempDir()
	good := writeDOCX(t, dir, "good.docx", "Homework 1: 10/03/2025")
	bad := filepath.Join(dir, "notes.zip")
	require.NoError(t, os.WriteFile(bad, []byte("PK"), 0o600))

	out, _, err := execute(t, newApp(t), "parse", good, bad)

	assert.EqualError(t, err, "1 of 2 files failed")
	var items []map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	require.Len(t, items, 2)
	assert.Equal(t, "good.docx", items[0]["file"])
	assert.NotNil(t, items[0]["syllabus"])
	assert.Contains(t, items[1]["error"], "unsupported file type")
}

func TestParse_WarnsOnGenericDecoding(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.docx")
	require.NoError(t, os.WriteFile(path, []byte("Homework 1: 10/03/2025"), 0o600))

	out, stderr, err := execute(t, newApp(t), "parse", path)

	require.NoError(t, err)
	assert.Contains(t, out, "10/03/2025")
	assert.Contains(t, stderr, "warning: old.docx: text recovered by generic decoding")
	assert.Contains(t, stderr, "not a zip container")
}

func TestParse_RequiresFile(t *testing.T) {
	_, _, err := execute(t, newApp(t), "parse")

	assert.Error(t, err)
}

func TestDisplay_Table(t *testing.T) {
	path := writeDOCX(t, t.TempDir(), "quiz.docx", "Quiz 2 on Tue, Oct 7, 2025")

	out, _, err := execute(t, newApp(t), "display", path)

	require.NoError(t, err)
	assert.Contains(t, out, "CONFIDENCE")
	assert.Contains(t, out, "Tue, Oct 7, 2025")
	assert.Contains(t, out, "Quiz")
}

func TestText(t *testing.T) {
	path := writeDOCX(t, t.TempDir(), "t.docx", "Line one", "Line two")

	out, _, err := execute(t, newApp(t), "text", path)

	require.NoError(t, err)
	assert.Equal(t, "Line one\nLine two\n", out)
}

func TestSync_MemoryStore(t *testing.T) {
	a := newApp(t)
	path := writeDOCX(t, t.TempDir(), "lab.docx", "Lab 1 report 09-12-2025", "Lab 2 report 09-19-2025")

	out, _, err := execute(t, a, "sync", path)

	require.NoError(t, err)
	assert.Contains(t, out, "Added 2 tasks and 2 events (store: memory)")
	assert.Len(t, a.Tasks.(*memory.TaskStore).Tasks(), 2)
}

func TestToken(t *testing.T) {
	a := newApp(t)

	out, _, err := execute(t, a, "token", "user_7", "--email", "u@example.edu")

	require.NoError(t, err)
	assert.NotEmpty(t, out)
}
