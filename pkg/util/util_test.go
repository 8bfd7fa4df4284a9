package util

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestExpandPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cases := map[string]string{
		"~":              home,
		"~/.gtotp/key":   filepath.Join(home, ".gtotp/key"),
		"/etc/gtotp.yml": "/etc/gtotp.yml",
		"relative/path":  "relative/path",
	}
	for in, want := range cases {
		got, err := ExpandPath(in)
		if err != nil {
			t.Fatalf("ExpandPath(%q): %v", in, err)
		}
		if got != want {
			t.Errorf("ExpandPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestWriteSecretFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "secret")
	if err := WriteSecretFile(path, []byte("GEZDGNBV\n"), false); err != nil {
		t.Fatalf("WriteSecretFile: %v", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != SecretFileMode {
		t.Fatalf("mode = %v, want %v", info.Mode().Perm(), SecretFileMode)
	}
	dir, err := os.Stat(filepath.Dir(path))
	if err != nil {
		t.Fatal(err)
	}
	if dir.Mode().Perm() != SecretDirMode {
		t.Fatalf("dir mode = %v, want %v", dir.Mode().Perm(), SecretDirMode)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "GEZDGNBV\n" {
		t.Fatalf("content = %q", data)
	}
}

func TestWriteSecretFileExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "secret")
	if err := os.WriteFile(path, []byte("old-old-old"), 0o644); err != nil {
		t.Fatal(err)
	}
	err := WriteSecretFile(path, []byte("new"), false)
	if !errors.Is(err, ErrFileExists) {
		t.Fatalf("expected ErrFileExists, got %v", err)
	}
	if err := WriteSecretFile(path, []byte("new"), true); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "new" {
		t.Fatalf("content = %q, want truncated overwrite", data)
	}
	info, _ := os.Stat(path)
	if info.Mode().Perm() != SecretFileMode {
		t.Fatalf("mode = %v after overwrite", info.Mode().Perm())
	}
}

func TestWriteSecretFileRefusesSymlink(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "target")
	if err := os.WriteFile(target, []byte("keep"), 0o600); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(dir, "link")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlink unsupported: %v", err)
	}
	if err := WriteSecretFile(link, []byte("evil"), true); err == nil {
		t.Fatal("expected symlink to be refused")
	}
	data, _ := os.ReadFile(target)
	if string(data) != "keep" {
		t.Fatalf("symlink target modified: %q", data)
	}
	if !FileExists(link) {
		t.Fatal("FileExists should see the symlink itself")
	}
}
