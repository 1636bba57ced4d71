package utils

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"Home alone", "~", home},
		{"Under home", "~/.config/app.json", filepath.Join(home, ".config", "app.json")},
		{"Absolute", "/tmp/x/../y", "/tmp/y"},
		{"Relative", "creds/./key.json", filepath.Join("creds", "key.json")},
		{"Tilde user form untouched", "~other/x", "~other/x"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExpandPath(tt.in)
			if err != nil {
				t.Fatalf("ExpandPath(%q) failed: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("Expected %q, got: %q", tt.want, got)
			}
		})
	}
}

func TestAbsPath(t *testing.T) {
	t.Chdir(t.TempDir())
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}

	got, err := AbsPath("creds/key.json")
	if err != nil {
		t.Fatalf("AbsPath failed: %v", err)
	}
	want := filepath.Join(wd, "creds", "key.json")
	if got != want {
		t.Errorf("Expected %q, got: %q", want, got)
	}
}

func TestFindManifest(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	project := filepath.Join(home, "project")
	nested := filepath.Join(project, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatalf("Failed to create dirs: %v", err)
	}
	manifestPath := filepath.Join(project, "secenv.yaml")
	if err := os.WriteFile(manifestPath, []byte("version: \"0.1.0\"\n"), 0600); err != nil {
		t.Fatalf("Failed to write manifest: %v", err)
	}

	t.Chdir(nested)

	got, err := FindManifest()
	if err != nil {
		t.Fatalf("FindManifest failed: %v", err)
	}
	// Resolve symlinks so temp dirs under /private on macOS compare equal.
	wantResolved, _ := filepath.EvalSymlinks(manifestPath)
	gotResolved, _ := filepath.EvalSymlinks(got)
	if gotResolved != wantResolved {
		t.Errorf("Expected %s, got: %s", manifestPath, got)
	}
}

func TestFindManifestNone(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	empty := filepath.Join(home, "empty")
	if err := os.MkdirAll(empty, 0755); err != nil {
		t.Fatalf("Failed to create dir: %v", err)
	}
	t.Chdir(empty)

	got, err := FindManifest()
	if err != nil {
		t.Fatalf("FindManifest failed: %v", err)
	}
	if got != "" {
		t.Errorf("Expected no manifest, got: %s", got)
	}
}
