package fileutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestCreateAtomicCommit(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "out", "pack.txt")

	out, err := CreateAtomic(dst)
	if err != nil {
		t.Fatal(err)
	}
	defer out.Abort()

	if _, err := out.Write([]byte("hello\n")); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(dst); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("destination should not exist before commit, stat err=%v", err)
	}
	if err := out.Commit(); err != nil {
		t.Fatal(err)
	}

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "hello\n" {
		t.Fatalf("content mismatch: got %q", got)
	}
	entries, err := os.ReadDir(filepath.Dir(dst))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the destination file, got %d entries", len(entries))
	}
	if err := out.Commit(); err == nil {
		t.Fatal("expected second commit to fail")
	}
}

func TestCreateAtomicAbortKeepsExistingFile(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "pack.txt")
	if err := os.WriteFile(dst, []byte("previous"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := CreateAtomic(dst)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := out.Write([]byte("partial")); err != nil {
		t.Fatal(err)
	}
	out.Abort()
	out.Abort()

	got, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "previous" {
		t.Fatalf("aborted write replaced destination: %q", got)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Fatalf("temp file left behind: %d entries", len(entries))
	}
	if _, err := out.Write([]byte("x")); err == nil {
		t.Fatal("expected write after abort to fail")
	}
}

func TestLockOutputExclusive(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "pack.txt")

	first, err := LockOutput(dst)
	if err != nil {
		t.Fatalf("first lock: %v", err)
	}
	if first.Path() != dst+".lock" {
		t.Fatalf("unexpected lock path %q", first.Path())
	}

	if _, err := LockOutput(dst); !errors.Is(err, ErrOutputLocked) {
		t.Fatalf("expected ErrOutputLocked, got %v", err)
	}

	if err := first.Release(); err != nil {
		t.Fatalf("release: %v", err)
	}
	second, err := LockOutput(dst)
	if err != nil {
		t.Fatalf("relock after release: %v", err)
	}
	_ = second.Release()
}
