package driver

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSourceAppendsNewline(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main"+SourceExt)
	if err := os.WriteFile(path, []byte(`println("hi")`), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	src, err := LoadSource(path)
	if err != nil {
		t.Fatalf("LoadSource returned error: %v", err)
	}
	if !bytes.HasSuffix(src, []byte("\n")) {
		t.Fatalf("missing trailing newline: %q", src)
	}
}

func TestWithTrailingNewlineDoesNotAlias(t *testing.T) {
	buf := make([]byte, 3, 8)
	copy(buf, "a=1")
	out := withTrailingNewline(buf)
	out[0] = 'b'
	if buf[0] != 'a' {
		t.Fatalf("caller buffer mutated: %q", buf)
	}
}

func TestCacheDirHonoursEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(HomeEnv, dir)
	got, err := CacheDir()
	if err != nil {
		t.Fatalf("CacheDir returned error: %v", err)
	}
	if got != dir {
		t.Fatalf("CacheDir = %q, want %q", got, dir)
	}
}

func TestRunFileWritesOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main"+SourceExt)
	src := "a = 2\nb = a * 3\nprintln(b)\nprintln(args.0)\n"
	if err := os.WriteFile(path, []byte(src), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	var out bytes.Buffer
	if err := RunFile(context.Background(), path, RunOptions{Args: []string{"first"}, Stdout: &out}); err != nil {
		t.Fatalf("RunFile returned error: %v", err)
	}
	if got, want := out.String(), "6\nfirst\n"; got != want {
		t.Fatalf("output = %q, want %q", got, want)
	}
}

func TestRunFileMissing(t *testing.T) {
	err := RunFile(context.Background(), filepath.Join(t.TempDir(), "nope.rt"), RunOptions{})
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}
