package health

import (
	"context"
	"errors"
	"testing"

	"github.com/kailas-cloud/textdex"
)

// --- Mocks ---

type mockIndexStatter struct {
	info textdex.IndexInfo
	err  error
}

func (m *mockIndexStatter) CurrentIndexInfo(_ context.Context) (textdex.IndexInfo, error) {
	return m.info, m.err
}

// --- Tests ---

func TestCheck_AllHealthy(t *testing.T) {
	svc := New(&mockIndexStatter{info: textdex.IndexInfo{VolumeAvailableBytes: 1 << 30}}, 1<<20)
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if r.Checks["index"] != CheckOK {
		t.Errorf("expected index %q, got %q", CheckOK, r.Checks["index"])
	}
	if r.Checks["disk"] != CheckOK {
		t.Errorf("expected disk %q, got %q", CheckOK, r.Checks["disk"])
	}
}

func TestCheck_IndexError(t *testing.T) {
	svc := New(&mockIndexStatter{err: errors.New("closed")}, 1<<20)
	r := svc.Check(context.Background())

	if r.Status != Unhealthy {
		t.Errorf("expected %q, got %q", Unhealthy, r.Status)
	}
	if r.Checks["index"] != CheckError {
		t.Errorf("expected index %q, got %q", CheckError, r.Checks["index"])
	}
	if _, ok := r.Checks["disk"]; ok {
		t.Error("disk check should be absent when the index is unreadable")
	}
}

func TestCheck_LowDisk(t *testing.T) {
	svc := New(&mockIndexStatter{info: textdex.IndexInfo{VolumeAvailableBytes: 10}}, 1<<20)
	r := svc.Check(context.Background())

	if r.Status != Degraded {
		t.Errorf("expected %q, got %q", Degraded, r.Status)
	}
	if r.Checks["index"] != CheckOK {
		t.Errorf("expected index %q, got %q", CheckOK, r.Checks["index"])
	}
	if r.Checks["disk"] != CheckError {
		t.Errorf("expected disk %q, got %q", CheckError, r.Checks["disk"])
	}
}

func TestCheck_NoDiskThreshold(t *testing.T) {
	svc := New(&mockIndexStatter{}, 0)
	r := svc.Check(context.Background())

	if r.Status != Healthy {
		t.Errorf("expected %q, got %q", Healthy, r.Status)
	}
	if _, ok := r.Checks["disk"]; ok {
		t.Error("disk check should be absent without a threshold")
	}
}
