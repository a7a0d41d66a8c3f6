package diskstat

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDirSize(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a"), make([]byte, 100), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(sub, "b"), make([]byte, 23), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	size, err := DirSize(dir)
	if err != nil {
		t.Fatalf("DirSize: %v", err)
	}
	if size != 123 {
		t.Errorf("size = %d, want 123", size)
	}
}

func TestDirSize_Missing(t *testing.T) {
	if _, err := DirSize(filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatal("expected error for missing dir")
	}
}

func TestStat(t *testing.T) {
	dir := t.TempDir()
	before := time.Now().Add(-time.Minute)

	times, err := Stat(dir)
	if err != nil {
		t.Fatalf("Stat: %v", err)
	}
	if times.Modified.Before(before) {
		t.Errorf("modified = %v, want after %v", times.Modified, before)
	}
	if times.Created.IsZero() {
		t.Error("created is zero")
	}
}

func TestVolumeOf(t *testing.T) {
	vol, err := VolumeOf(t.TempDir())
	if err != nil {
		t.Fatalf("VolumeOf: %v", err)
	}
	if vol.AvailableBytes > vol.TotalBytes || vol.FreeBytes > vol.TotalBytes {
		t.Errorf("inconsistent volume figures: %+v", vol)
	}
}
