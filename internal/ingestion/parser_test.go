package ingestion

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTestFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}
	return path
}

func TestParseFile_TxtDocument(t *testing.T) {
	path := writeTestFile(t, "ally-specs.txt", "ROG Xbox Ally has a 7-inch display.")

	doc, err := NewParser().ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile failed: %v", err)
	}

	if doc.Title != "ally-specs" {
		t.Errorf("Expected title ally-specs, got %s", doc.Title)
	}
	if doc.Content != "ROG Xbox Ally has a 7-inch display." {
		t.Errorf("Unexpected content: %s", doc.Content)
	}
	if doc.ID == "" {
		t.Error("Expected a generated document ID")
	}
}

func TestParseFile_RejectsUnsupportedExtension(t *testing.T) {
	path := writeTestFile(t, "specs.pdf", "binary")

	if _, err := NewParser().ParseFile(path); err == nil {
		t.Error("Expected an error for a non-txt file")
	}
}

func TestParseFile_RejectsEmptyFile(t *testing.T) {
	path := writeTestFile(t, "empty.txt", "")

	if _, err := NewParser().ParseFile(path); err == nil {
		t.Error("Expected an error for an empty file")
	}
}

func TestParseFile_MissingFile(t *testing.T) {
	if _, err := NewParser().ParseFile("/nonexistent/doc.txt"); err == nil {
		t.Error("Expected an error for a missing file")
	}
}
