package handlers

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/turtacn/dockprep/internal/application/derivative"
)

// Component states reported by the health endpoints.
const (
	statusHealthy   = "healthy"
	statusUnhealthy = "unhealthy"
)

// HealthChecker is a dependency the readiness check waits for.
type HealthChecker interface {
	Name() string
	Check(ctx context.Context) error
}

// Describer is implemented by checkers that can say more than up/down.  Its
// output appears under "info" in /healthz/detail only.
type Describer interface {
	Describe(ctx context.Context) (map[string]string, error)
}

type checkerFunc struct {
	name string
	fn   func(ctx context.Context) error
}

func (c checkerFunc) Name() string                    { return c.name }
func (c checkerFunc) Check(ctx context.Context) error { return c.fn(ctx) }

// NewCheckerFunc returns a HealthChecker named name that runs fn.
func NewCheckerFunc(name string, fn func(ctx context.Context) error) HealthChecker {
	return checkerFunc{name: name, fn: fn}
}

type tableChecker struct {
	source derivative.TableSource
}

// NewTableChecker reports the substituent table healthy when it loads.  The
// detail view adds the table digest, its size and the skipped line count.
func NewTableChecker(source derivative.TableSource) HealthChecker {
	return tableChecker{source: source}
}

func (tableChecker) Name() string { return "substituents" }

func (c tableChecker) Check(ctx context.Context) error {
	_, err := c.source.Table(ctx)
	return err
}

func (c tableChecker) Describe(ctx context.Context) (map[string]string, error) {
	table, err := c.source.Table(ctx)
	if err != nil {
		return nil, err
	}
	return map[string]string{
		"digest":  table.Digest(),
		"entries": strconv.Itoa(table.Len()),
		"skipped": strconv.Itoa(len(table.Skipped())),
	}, nil
}

// HealthHandler serves the liveness, readiness and detail endpoints.
type HealthHandler struct {
	checkers []HealthChecker
	version  string
	startAt  time.Time
}

// NewHealthHandler creates a HealthHandler over checkers.
func NewHealthHandler(version string, checkers ...HealthChecker) *HealthHandler {
	return &HealthHandler{checkers: checkers, version: version, startAt: time.Now()}
}

// LivenessResponse is the body of /healthz.
type LivenessResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime"`
}

// ReadinessResponse is the body of /readyz.
type ReadinessResponse struct {
	Status     string                    `json:"status"`
	Components map[string]ComponentCheck `json:"components,omitempty"`
}

// DetailedResponse is the body of /healthz/detail.
type DetailedResponse struct {
	Status     string                    `json:"status"`
	Version    string                    `json:"version"`
	Uptime     string                    `json:"uptime"`
	Components map[string]ComponentCheck `json:"components"`
}

// ComponentCheck is the state of one dependency.
type ComponentCheck struct {
	Status  string            `json:"status"`
	Latency string            `json:"latency,omitempty"`
	Error   string            `json:"error,omitempty"`
	Info    map[string]string `json:"info,omitempty"`
}

// Liveness handles GET /healthz.  It never checks dependencies.
func (h *HealthHandler) Liveness(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, LivenessResponse{Status: "alive", Version: h.version, Uptime: h.uptime()})
}

// Readiness handles GET /readyz.  Any failing checker yields 503.
func (h *HealthHandler) Readiness(w http.ResponseWriter, r *http.Request) {
	if len(h.checkers) == 0 {
		writeJSON(w, http.StatusOK, ReadinessResponse{Status: "ready"})
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	components, ok := h.run(ctx, false)
	if !ok {
		writeJSON(w, http.StatusServiceUnavailable, ReadinessResponse{Status: "not_ready", Components: components})
		return
	}
	writeJSON(w, http.StatusOK, ReadinessResponse{Status: "ready", Components: components})
}

// Detailed handles GET /healthz/detail.
func (h *HealthHandler) Detailed(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 10*time.Second)
	defer cancel()

	components, ok := h.run(ctx, true)
	resp := DetailedResponse{Status: "healthy", Version: h.version, Uptime: h.uptime(), Components: components}
	code := http.StatusOK
	if !ok {
		resp.Status, code = "degraded", http.StatusServiceUnavailable
	}
	writeJSON(w, code, resp)
}

func (h *HealthHandler) uptime() string {
	return time.Since(h.startAt).Truncate(time.Second).String()
}

// run checks every dependency concurrently.  ok is false if any failed.
func (h *HealthHandler) run(ctx context.Context, describe bool) (map[string]ComponentCheck, bool) {
	var (
		mu      sync.Mutex
		results = make(map[string]ComponentCheck, len(h.checkers))
		ok      = true
		g       errgroup.Group
	)
	for _, c := range h.checkers {
		c := c
		g.Go(func() error {
			start := time.Now()
			err := c.Check(ctx)
			cc := ComponentCheck{Status: statusHealthy, Latency: time.Since(start).Truncate(time.Microsecond).String()}
			if err != nil {
				cc.Status, cc.Error = statusUnhealthy, err.Error()
			} else if d, isDescriber := c.(Describer); describe && isDescriber {
				// A describe failure after a passing check is not fatal.
				cc.Info, _ = d.Describe(ctx)
			}

			mu.Lock()
			results[c.Name()] = cc
			ok = ok && err == nil
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return results, ok
}

//Personal.AI order the ending
