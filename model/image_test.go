package model

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewImage(t *testing.T) {
	tests := []struct {
		name     string
		data     []byte
		wantMIME string
		wantErr  bool
	}{
		{"png", []byte("\x89PNG\r\n\x1a\n0000000000"), "image/png", false},
		{"jpeg", []byte("\xff\xd8\xff\xe0000000000000"), "image/jpeg", false},
		{"gif", []byte("GIF89a000000000"), "image/gif", false},
		{"plain text", []byte("I have a headache"), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := NewImage(tt.name, tt.data)
			if tt.wantErr {
				if !errors.Is(err, ErrNotImage) {
					t.Fatalf("expected ErrNotImage, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if img.MIMEType != tt.wantMIME {
				t.Errorf("MIMEType = %q, want %q", img.MIMEType, tt.wantMIME)
			}
		})
	}
}

func TestLoadImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scan.png")
	if err := os.WriteFile(path, []byte("\x89PNG\r\n\x1a\n0000000000"), 0600); err != nil {
		t.Fatal(err)
	}

	img, err := LoadImage(path)
	if err != nil {
		t.Fatalf("LoadImage: %v", err)
	}
	if img.Name != "scan.png" {
		t.Errorf("Name = %q", img.Name)
	}
	if !strings.HasPrefix(img.DataURL(), "data:image/png;base64,") {
		t.Errorf("DataURL = %q", img.DataURL())
	}

	if _, err := LoadImage(dir); !errors.Is(err, ErrNotImage) {
		t.Errorf("expected ErrNotImage for directory, got %v", err)
	}
	if _, err := LoadImage(filepath.Join(dir, "missing.png")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSessionIdentity(t *testing.T) {
	a, b := NewSession(), NewSession()
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("expected distinct non-empty ids, got %q and %q", a.ID, b.ID)
	}
	if a.History == nil || a.History.Len() != 0 {
		t.Error("new session should have an empty history")
	}
}
