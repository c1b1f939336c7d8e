package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestExtractPDFTextMissingFile(t *testing.T) {
	t.Parallel()

	_, err := ExtractPDFText(filepath.Join(t.TempDir(), "missing.pdf"))
	if err == nil {
		t.Fatal("expected an error for a nonexistent file")
	}
	if !strings.Contains(err.Error(), "failed to open pdf") {
		t.Fatalf("error not wrapped with context: %v", err)
	}
}

func TestExtractPDFTextRejectsNonPDF(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "not-a-pdf.pdf")
	if err := os.WriteFile(path, []byte("plain text, no pdf header"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	if _, err := ExtractPDFText(path); err == nil {
		t.Fatal("expected an error for a non-PDF payload")
	}
}
