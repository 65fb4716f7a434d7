package storage

import (
	"bytes"
	"os"
	"strings"
	"testing"
)

func newTestDiskStorage(t *testing.T) StorageAPI {
	t.Helper()
	return NewDiskStorage(&Bucket{ID: 1, Name: "test", StorageType: StorageTypeFile, Path: t.TempDir()})
}

func TestDiskStorageVersioning(t *testing.T) {
	s := newTestDiskStorage(t)

	if _, err := s.Save("ws/1/doc.txt", strings.NewReader("first"), "text/plain"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Save("ws/1/doc.txt", strings.NewReader("second!"), "text/plain"); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if _, err := s.Load("ws/1/doc.txt", &buf); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "second!" {
		t.Errorf("latest content = %q, want %q", buf.String(), "second!")
	}

	versions, err := s.ListVersions("ws/1/doc.txt")
	if err != nil {
		t.Fatal(err)
	}
	if len(versions) != 2 {
		t.Fatalf("got %d versions, want 2", len(versions))
	}
	if !versions[0].IsLatest || versions[1].IsLatest {
		t.Errorf("IsLatest flags wrong: %+v", versions)
	}
	if versions[0].Size != int64(len("second!")) || versions[1].Size != int64(len("first")) {
		t.Errorf("version sizes wrong: %+v", versions)
	}

	// The old version's locator still resolves to the old bytes
	locator, err := s.GetURL("ws/1/doc.txt", versions[1].ID)
	if err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(locator)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "first" {
		t.Errorf("old version content = %q, want %q", string(data), "first")
	}

	if _, err = s.GetURL("ws/1/doc.txt", "bogus"); err == nil {
		t.Error("expected error for unknown version id")
	}
}

func TestDiskStorageDelete(t *testing.T) {
	s := newTestDiskStorage(t)
	if _, err := s.Save("ws/1/doc.txt", strings.NewReader("data"), "text/plain"); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete("ws/1/doc.txt"); err != nil {
		t.Fatal(err)
	}
	if _, err := s.GetURL("ws/1/doc.txt", ""); err == nil {
		t.Error("expected error after delete")
	}
	versions, err := s.ListVersions("ws/1/doc.txt")
	if err != nil {
		t.Fatal(err)
	}
	if len(versions) != 0 {
		t.Errorf("got %d versions after delete, want 0", len(versions))
	}
}

func TestDiskStorageUnknownPath(t *testing.T) {
	s := newTestDiskStorage(t)
	if _, err := s.GetURL("nope/doc.txt", ""); err == nil {
		t.Error("expected error for unknown path")
	}
	versions, err := s.ListVersions("nope/doc.txt")
	if err != nil {
		t.Fatal(err)
	}
	if len(versions) != 0 {
		t.Errorf("got %d versions, want 0", len(versions))
	}
}
