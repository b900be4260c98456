package derivative

import (
	"context"
	"sync"

	"github.com/turtacn/dockprep/internal/domain/substituent"
	"github.com/turtacn/dockprep/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/dockprep/internal/infrastructure/monitoring/prometheus"
)

// TableSource supplies the substituent table for an expansion.
type TableSource interface {
	Table(ctx context.Context) (*substituent.Table, error)
}

// FileTableSource re-reads the definition file on every call.
type FileTableSource struct {
	path    string
	strict  bool
	logger  logging.Logger
	metrics *prometheus.AppMetrics
}

// NewFileTableSource returns a source for the definition file at path.  With
// strict false malformed lines are skipped and logged instead of failing.
func NewFileTableSource(path string, strict bool, logger logging.Logger, metrics *prometheus.AppMetrics) *FileTableSource {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	if metrics == nil {
		metrics = prometheus.NewNoopAppMetrics()
	}
	return &FileTableSource{path: path, strict: strict, logger: logger, metrics: metrics}
}

// Path returns the definition file path.
func (s *FileTableSource) Path() string { return s.path }

func (s *FileTableSource) Table(ctx context.Context) (*substituent.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var opts []substituent.ParseOption
	if !s.strict {
		opts = append(opts, substituent.WithLenient())
	}

	table, err := substituent.LoadFile(s.path, opts...)
	if err != nil {
		prometheus.RecordTableLoad(s.metrics, "file", 0, err)
		return nil, err
	}
	for _, skipped := range table.Skipped() {
		s.logger.Warn("skipped malformed substituent line",
			logging.String("path", s.path),
			logging.Int("line", skipped.Line),
			logging.String("reason", skipped.Reason))
	}
	prometheus.RecordTableLoad(s.metrics, "file", table.Len(), nil)
	s.logger.Debug("substituent table loaded",
		logging.String("path", s.path),
		logging.Int("entries", table.Len()),
		logging.String("digest", table.Digest()))
	return table, nil
}

// CachedTableSource memoises the table of an inner source until Invalidate
// or Reload is called.
type CachedTableSource struct {
	mu     sync.RWMutex
	inner  TableSource
	table  *substituent.Table
	logger logging.Logger
}

// NewCachedTableSource wraps inner.
func NewCachedTableSource(inner TableSource, logger logging.Logger) *CachedTableSource {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &CachedTableSource{inner: inner, logger: logger}
}

func (s *CachedTableSource) Table(ctx context.Context) (*substituent.Table, error) {
	s.mu.RLock()
	t := s.table
	s.mu.RUnlock()
	if t != nil {
		return t, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.table != nil {
		return s.table, nil
	}
	t, err := s.inner.Table(ctx)
	if err != nil {
		return nil, err
	}
	s.table = t
	return t, nil
}

// Invalidate drops the cached table; the next Table call reloads it.
func (s *CachedTableSource) Invalidate() {
	s.mu.Lock()
	s.table = nil
	s.mu.Unlock()
}

// Reload loads a fresh table and swaps it in.  On failure the previous table
// stays in service and the error is returned.  The digest of the replaced
// table is returned so dependent caches can be purged.
func (s *CachedTableSource) Reload(ctx context.Context) (previousDigest string, err error) {
	t, err := s.inner.Table(ctx)
	if err != nil {
		s.logger.Error("substituent table reload failed, keeping previous table", logging.Err(err))
		return "", err
	}

	s.mu.Lock()
	if s.table != nil {
		previousDigest = s.table.Digest()
	}
	s.table = t
	s.mu.Unlock()

	s.logger.Info("substituent table reloaded",
		logging.Int("entries", t.Len()),
		logging.String("digest", t.Digest()))
	return previousDigest, nil
}

//Personal.AI order the ending
