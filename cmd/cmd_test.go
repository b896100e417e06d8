package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const ollamaReply = `[{"nameCN":"Test U","nameEN":"Test University","departments":[{"name":"Eng","programs":[{"nameCN":"CS"}]}]}]`

// fakeOllama answers every generate request with ollamaReply
func fakeOllama(t *testing.T) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(map[string]string{"response": ollamaReply}); err != nil {
			t.Errorf("Failed to encode reply: %v", err)
		}
	}))
	t.Cleanup(srv.Close)
	t.Setenv("OLLAMA_URL", srv.URL)
}

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func writeDump(t *testing.T, dir string) string {
	t.Helper()
	path := filepath.Join(dir, "dump.json")
	if err := os.WriteFile(path, []byte(`[{"text":"page one"},{"text":"page two"}]`), 0644); err != nil {
		t.Fatalf("Failed to write dump: %v", err)
	}
	return path
}

func TestImportCommitAndReset(t *testing.T) {
	fakeOllama(t)
	dir := t.TempDir()
	db := filepath.Join(dir, "catalog.db")
	reports := filepath.Join(dir, "reports")

	out, err := execute(t, "", "import", writeDump(t, dir), "--db", db, "--provider", "ollama", "--delay", "0", "--yes", "--report", reports)
	if err != nil {
		t.Fatalf("import failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "1 added") {
		t.Errorf("Expected commit summary, got:\n%s", out)
	}

	entries, err := os.ReadDir(reports)
	if err != nil || len(entries) != 1 {
		t.Errorf("Expected one run report, got %v (%v)", entries, err)
	}

	out, err = execute(t, "", "catalog", "list", "--db", db, "--query", "test u")
	if err != nil {
		t.Fatalf("catalog list failed: %v", err)
	}
	if !strings.Contains(out, "Test University") {
		t.Errorf("Imported university missing from listing:\n%s", out)
	}
	if !strings.Contains(out, "imported") {
		t.Errorf("Expected imported row to be marked:\n%s", out)
	}

	if _, err := execute(t, "", "catalog", "reset", "--db", db, "--yes"); err != nil {
		t.Fatalf("catalog reset failed: %v", err)
	}
	out, err = execute(t, "", "catalog", "list", "--db", db, "--query", "test u")
	if err != nil {
		t.Fatalf("catalog list failed: %v", err)
	}
	if strings.Contains(out, "Test University") {
		t.Errorf("Reset should remove imported data:\n%s", out)
	}
}

func TestImportDeclined(t *testing.T) {
	fakeOllama(t)
	dir := t.TempDir()
	db := filepath.Join(dir, "catalog.db")

	out, err := execute(t, "n\n", "import", writeDump(t, dir), "--db", db, "--provider", "ollama", "--delay", "0")
	if err != nil {
		t.Fatalf("import failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "Import discarded") {
		t.Errorf("Expected discard in log:\n%s", out)
	}

	out, err = execute(t, "", "catalog", "list", "--db", db, "--query", "test u")
	if err != nil {
		t.Fatalf("catalog list failed: %v", err)
	}
	if strings.Contains(out, "Test University") {
		t.Errorf("Declined import reached the catalog:\n%s", out)
	}
}

func TestImportInvalidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dump.json")
	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatalf("Failed to write dump: %v", err)
	}

	_, err := execute(t, "", "import", path, "--ephemeral", "--provider", "ollama", "--delay", "0", "--yes")
	if err == nil {
		t.Fatal("Expected an error for invalid input")
	}
}

func TestCatalogListMarksSource(t *testing.T) {
	out, err := execute(t, "", "catalog", "list", "--ephemeral")
	if err != nil {
		t.Fatalf("catalog list failed: %v", err)
	}
	if !strings.Contains(out, "SOURCE") || !strings.Contains(out, "bundled") {
		t.Errorf("Expected source column on bundled rows:\n%s", out)
	}
	if strings.Contains(out, "imported") {
		t.Errorf("Bundled catalog should have no imported rows:\n%s", out)
	}
}

func TestCatalogShow(t *testing.T) {
	out, err := execute(t, "", "catalog", "show", "u2", "--ephemeral")
	if err != nil {
		t.Fatalf("catalog show failed: %v", err)
	}
	if !strings.Contains(out, `"id": "u2"`) {
		t.Errorf("Unexpected output:\n%s", out)
	}

	if _, err := execute(t, "", "catalog", "show", "missing", "--ephemeral"); err == nil {
		t.Error("Expected error for unknown id")
	}
}
