package ops

import (
	"archive/tar"
	"compress/gzip"
	"os"
	"path/filepath"
	"testing"
)

func TestBackupRestore_RoundTrip(t *testing.T) {
	dataDir := t.TempDir()
	active := `[{"id":"1","title":"Call Mom","due_at":"2026-12-25T10:00:00","sent":false}]`
	archived := `[{"id":"2","title":"Standup","due_at":"2026-03-01T12:00:00","sent":true}]`

	if err := os.WriteFile(filepath.Join(dataDir, "tasks.json"), []byte(active), 0o644); err != nil {
		t.Fatalf("seed tasks.json: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dataDir, "archive_tasks.json"), []byte(archived), 0o644); err != nil {
		t.Fatalf("seed archive_tasks.json: %v", err)
	}

	archivePath := filepath.Join(t.TempDir(), "backups", "snap.tar.gz")
	if err := BackupDataDir(dataDir, archivePath); err != nil {
		t.Fatalf("backup: %v", err)
	}

	targetDir := filepath.Join(t.TempDir(), "restored")
	if err := RestoreDataDir(archivePath, targetDir); err != nil {
		t.Fatalf("restore: %v", err)
	}

	got, err := os.ReadFile(filepath.Join(targetDir, "tasks.json"))
	if err != nil {
		t.Fatalf("read restored tasks.json: %v", err)
	}
	if string(got) != active {
		t.Fatalf("tasks.json mismatch:\n got: %s\nwant: %s", got, active)
	}

	got, err = os.ReadFile(filepath.Join(targetDir, "archive_tasks.json"))
	if err != nil {
		t.Fatalf("read restored archive_tasks.json: %v", err)
	}
	if string(got) != archived {
		t.Fatalf("archive_tasks.json mismatch:\n got: %s\nwant: %s", got, archived)
	}
}

func TestBackup_MissingSourceFails(t *testing.T) {
	out := filepath.Join(t.TempDir(), "snap.tar.gz")
	if err := BackupDataDir(filepath.Join(t.TempDir(), "nope"), out); err == nil {
		t.Fatal("expected error for missing source directory")
	}
}

func TestRestore_RejectsPathTraversal(t *testing.T) {
	archivePath := filepath.Join(t.TempDir(), "evil.tar.gz")

	f, err := os.Create(archivePath)
	if err != nil {
		t.Fatalf("create archive: %v", err)
	}
	gz := gzip.NewWriter(f)
	tw := tar.NewWriter(gz)
	payload := []byte("owned")
	if err := tw.WriteHeader(&tar.Header{
		Name:     "../escape.json",
		Mode:     0o644,
		Size:     int64(len(payload)),
		Typeflag: tar.TypeReg,
	}); err != nil {
		t.Fatalf("write header: %v", err)
	}
	if _, err := tw.Write(payload); err != nil {
		t.Fatalf("write payload: %v", err)
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("close tar: %v", err)
	}
	if err := gz.Close(); err != nil {
		t.Fatalf("close gzip: %v", err)
	}
	if err := f.Close(); err != nil {
		t.Fatalf("close file: %v", err)
	}

	if err := RestoreDataDir(archivePath, t.TempDir()); err == nil {
		t.Fatal("expected traversal entry to be rejected")
	}
}

func TestSanitizeArchiveRelPath(t *testing.T) {
	if _, err := sanitizeArchiveRelPath("/etc/passwd"); err == nil {
		t.Fatal("expected absolute path to be rejected")
	}
	if _, err := sanitizeArchiveRelPath(".."); err == nil {
		t.Fatal("expected .. to be rejected")
	}
	got, err := sanitizeArchiveRelPath("nested/tasks.json")
	if err != nil {
		t.Fatalf("valid path rejected: %v", err)
	}
	if got != filepath.Join("nested", "tasks.json") {
		t.Fatalf("unexpected sanitized path: %s", got)
	}
}
