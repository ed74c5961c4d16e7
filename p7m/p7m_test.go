package p7m

import (
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseGarbage(t *testing.T) {
	_, err := Parse([]byte("this is not an envelope"))
	if err == nil || !strings.Contains(err.Error(), "cannot parse CMS envelope") {
		t.Errorf("Parse: %v", err)
	}
}

func TestParseBase64Garbage(t *testing.T) {
	// Base64 wrapping is removed transparently, but the decoded bytes still
	// have to be a CMS structure.
	wrapped := base64.StdEncoding.EncodeToString([]byte("still not an envelope"))
	_, err := Parse([]byte(wrapped + "\n"))
	if err == nil || !strings.Contains(err.Error(), "cannot parse CMS envelope") {
		t.Errorf("Parse: %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.xml.p7m"))
	if err == nil || !os.IsNotExist(err) {
		t.Errorf("Load: %v", err)
	}
}

func TestLoadGarbageFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.xml.p7m")
	if err := os.WriteFile(path, []byte("garbage"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := Load(path)
	if err == nil || !strings.Contains(err.Error(), path) {
		t.Errorf("Load: %v", err)
	}
}
