package health

import (
	"context"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

const defaultCheckTimeout = 2 * time.Second

// Checker reports whether one dependency is reachable.
type Checker func(ctx context.Context) error

// Service encapsulates health-related checks.
type Service struct {
	Timeout time.Duration

	mu     sync.RWMutex
	checks map[string]Checker
}

// NewService constructs a new health service.
func NewService() *Service {
	return &Service{checks: make(map[string]Checker)}
}

// Register adds a named dependency check.
func (s *Service) Register(name string, check Checker) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.checks[name] = check
}

// Status returns the liveness payload.
func (s *Service) Status() map[string]bool {
	return map[string]bool{"ok": true}
}

// Report is the outcome of all registered checks.
type Report struct {
	OK     bool              `json:"ok"`
	Checks map[string]string `json:"checks"`
}

// Ready runs every registered check concurrently.
func (s *Service) Ready(ctx context.Context) Report {
	timeout := s.Timeout
	if timeout <= 0 {
		timeout = defaultCheckTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	s.mu.RLock()
	names := make([]string, 0, len(s.checks))
	for name := range s.checks {
		names = append(names, name)
	}
	sort.Strings(names)
	checks := make([]Checker, len(names))
	for i, name := range names {
		checks[i] = s.checks[name]
	}
	s.mu.RUnlock()

	// Checks record into their own slot and never return an error, so one
	// failing dependency does not hide the others.
	results := make([]error, len(names))
	var eg errgroup.Group
	for i, check := range checks {
		eg.Go(func() error {
			results[i] = check(ctx)
			return nil
		})
	}
	_ = eg.Wait()

	report := Report{OK: true, Checks: make(map[string]string, len(names))}
	for i, name := range names {
		if results[i] != nil {
			report.OK = false
			report.Checks[name] = results[i].Error()
			continue
		}
		report.Checks[name] = "ok"
	}
	return report
}
