package health

import "context"

// Status represents the aggregated health status.
type Status string

const (
	// Healthy indicates all components are operational.
	Healthy Status = "ok"
	// Degraded indicates partial failure.
	Degraded Status = "degraded"
	// Unhealthy indicates total failure.
	Unhealthy Status = "error"
)

// CheckResult represents an individual component health check outcome.
type CheckResult string

const (
	// CheckOK indicates a passing health check.
	CheckOK CheckResult = "ok"
	// CheckError indicates a failing health check.
	CheckError CheckResult = "error"
)

// Report aggregates health check results.
type Report struct {
	Status Status
	Checks map[string]CheckResult
}

// Service coordinates health checks.
type Service struct {
	index        IndexStatter
	minFreeBytes uint64
}

// New creates a Service. A zero minFreeBytes disables the disk check.
func New(index IndexStatter, minFreeBytes uint64) *Service {
	return &Service{index: index, minFreeBytes: minFreeBytes}
}

// Check reads the active index statistics. An unreadable index is
// unhealthy; a volume short of free space only degrades the service.
func (s *Service) Check(ctx context.Context) Report {
	checks := make(map[string]CheckResult)

	info, err := s.index.CurrentIndexInfo(ctx)
	if err != nil {
		checks["index"] = CheckError
		return Report{Status: Unhealthy, Checks: checks}
	}
	checks["index"] = CheckOK

	if s.minFreeBytes > 0 {
		if info.VolumeAvailableBytes < s.minFreeBytes {
			checks["disk"] = CheckError
		} else {
			checks["disk"] = CheckOK
		}
	}

	status := Healthy
	for _, v := range checks {
		if v == CheckError {
			status = Degraded
			break
		}
	}

	return Report{Status: status, Checks: checks}
}
