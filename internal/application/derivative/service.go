// Package derivative provides the application-level service that turns an
// R-group template into persisted derivative artifacts.  It sits between the
// CLI / HTTP handlers and the domain expander.
package derivative

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	domainDrv "github.com/turtacn/dockprep/internal/domain/derivative"
	"github.com/turtacn/dockprep/internal/domain/substituent"
	"github.com/turtacn/dockprep/internal/infrastructure/database/redis"
	"github.com/turtacn/dockprep/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/dockprep/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/dockprep/pkg/errors"
)

// Writer persists one derivative and returns where it was stored.
type Writer interface {
	Write(ctx context.Context, dir string, index int, smiles string) (string, error)
	Extension() string
	Sink() string
}

// preparer is implemented by writers that must create the output location
// before the first Write.
type preparer interface {
	Prepare(ctx context.Context, dir string) error
}

// Publisher announces completed batches.
type Publisher interface {
	PublishBatchGenerated(ctx context.Context, ev domainDrv.BatchGenerated) error
	Topic() string
}

// ExpansionCache memoises expansions per table digest.
type ExpansionCache interface {
	GetOrExpand(ctx context.Context, digest, placeholder, template string,
		expand func(ctx context.Context) (redis.CachedExpansion, error)) (redis.CachedExpansion, error)
	InvalidateTable(ctx context.Context, digest string) (int64, error)
}

// Service defines the derivative application operations.
type Service interface {
	Classify(template string) domainDrv.Classification
	Count(ctx context.Context, template string) (*CountResult, error)
	Expand(ctx context.Context, input *ExpandInput) (*ExpansionResult, error)
	Substituents(ctx context.Context) (*substituent.Table, error)
	// GenerateAndPersist writes every derivative of template to outputDir.
	// When a write fails the partial result, listing the artifacts already
	// written, is returned with the error.
	GenerateAndPersist(ctx context.Context, template, outputDir string) (*GenerationResult, error)
	GenerateBatch(ctx context.Context, jobs []Job) ([]*GenerationResult, error)
}

// ServiceConfig holds the tunables of the service.
type ServiceConfig struct {
	Placeholder string
	// MaxCount rejects templates expanding to more derivatives; 0 disables the guard.
	MaxCount    int64
	Concurrency int
}

// ExpandInput contains input for an in-memory expansion.
type ExpandInput struct {
	Template string
	// Limit overrides ServiceConfig.MaxCount when positive and smaller.
	Limit int64
}

// CountResult reports how many derivatives a template would produce.
type CountResult struct {
	Template    string            `json:"template"`
	Pattern     domainDrv.Pattern `json:"pattern"`
	Count       int64             `json:"count"`
	TableDigest string            `json:"table_digest"`
}

// ExpansionResult is an in-memory expansion.
type ExpansionResult struct {
	Template    string            `json:"template"`
	Pattern     domainDrv.Pattern `json:"pattern"`
	Count       int               `json:"count"`
	Derivatives []string          `json:"derivatives"`
	TableDigest string            `json:"table_digest"`
	Cached      bool              `json:"cached"`
}

// GenerationResult describes one persisted batch.
type GenerationResult struct {
	BatchID   string            `json:"batch_id"`
	Template  string            `json:"template"`
	Pattern   domainDrv.Pattern `json:"pattern"`
	Count     int               `json:"count"`
	OutputDir string            `json:"output_dir"`
	Locations []string          `json:"locations"`
}

type serviceImpl struct {
	source    TableSource
	writer    Writer
	publisher Publisher
	cache     ExpansionCache
	cfg       ServiceConfig
	logger    logging.Logger
	metrics   *prometheus.AppMetrics
}

// Option customises the service.
type Option func(*serviceImpl)

// WithPublisher announces every persisted batch through p.
func WithPublisher(p Publisher) Option { return func(s *serviceImpl) { s.publisher = p } }

// WithExpansionCache memoises Expand results in c.
func WithExpansionCache(c ExpansionCache) Option { return func(s *serviceImpl) { s.cache = c } }

// WithMetrics records expansion and write metrics in m.
func WithMetrics(m *prometheus.AppMetrics) Option { return func(s *serviceImpl) { s.metrics = m } }

// NewService creates a derivative service.
func NewService(source TableSource, writer Writer, cfg ServiceConfig, logger logging.Logger, opts ...Option) (Service, error) {
	if source == nil {
		return nil, errors.InvalidParam("table source must not be nil")
	}
	if cfg.Placeholder == "" {
		cfg.Placeholder = domainDrv.DefaultPlaceholder
	}
	if strings.TrimSpace(cfg.Placeholder) == "" {
		return nil, errors.New(errors.ErrCodeTemplatePlaceholderInvalid, "placeholder token must not be blank")
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	s := &serviceImpl{source: source, writer: writer, cfg: cfg, logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	if s.metrics == nil {
		s.metrics = prometheus.NewNoopAppMetrics()
	}
	return s, nil
}

func (s *serviceImpl) Classify(template string) domainDrv.Classification {
	return domainDrv.Classify(template, s.cfg.Placeholder)
}

func (s *serviceImpl) Substituents(ctx context.Context) (*substituent.Table, error) {
	return s.source.Table(ctx)
}

// expander loads the current table and binds an expander to it.
func (s *serviceImpl) expander(ctx context.Context) (*domainDrv.Expander, *substituent.Table, error) {
	table, err := s.source.Table(ctx)
	if err != nil {
		return nil, nil, err
	}
	exp, err := domainDrv.NewExpander(table, domainDrv.WithPlaceholder(s.cfg.Placeholder))
	if err != nil {
		return nil, nil, err
	}
	return exp, table, nil
}

func (s *serviceImpl) Count(ctx context.Context, template string) (*CountResult, error) {
	exp, table, err := s.expander(ctx)
	if err != nil {
		return nil, err
	}
	c := exp.Classify(template)
	return &CountResult{
		Template:    template,
		Pattern:     c.Pattern,
		Count:       exp.Count(template),
		TableDigest: table.Digest(),
	}, nil
}

func (s *serviceImpl) Expand(ctx context.Context, input *ExpandInput) (*ExpansionResult, error) {
	if input == nil {
		return nil, errors.InvalidParam("expand input must not be nil")
	}
	exp, table, err := s.expander(ctx)
	if err != nil {
		return nil, err
	}
	c := exp.Classify(input.Template)
	if err := s.checkLimit(exp.Count(input.Template), input.Limit); err != nil {
		return nil, err
	}

	digest := table.Digest()
	result := &ExpansionResult{Template: input.Template, Pattern: c.Pattern, TableDigest: digest}

	if s.cache == nil {
		result.Derivatives = s.expand(exp, c)
		result.Count = len(result.Derivatives)
		return result, nil
	}

	computed := false
	cached, err := s.cache.GetOrExpand(ctx, digest, s.cfg.Placeholder, input.Template,
		func(context.Context) (redis.CachedExpansion, error) {
			computed = true
			return redis.CachedExpansion{Pattern: c.Pattern.String(), Derivatives: s.expand(exp, c)}, nil
		})
	if err != nil {
		// A broken cache degrades to direct expansion.
		s.logger.Warn("expansion cache unavailable", logging.Err(err))
		prometheus.RecordError(s.metrics, "expansion_cache", string(errors.GetCode(err)))
		result.Derivatives = s.expand(exp, c)
		result.Count = len(result.Derivatives)
		return result, nil
	}
	prometheus.RecordCacheAccess(s.metrics, "expansion", !computed)

	result.Derivatives = cached.Derivatives
	if result.Derivatives == nil {
		result.Derivatives = []string{}
	}
	result.Count = len(result.Derivatives)
	result.Cached = !computed
	return result, nil
}

func (s *serviceImpl) GenerateAndPersist(ctx context.Context, template, outputDir string) (*GenerationResult, error) {
	if strings.TrimSpace(outputDir) == "" {
		return nil, errors.InvalidParam("output directory must not be empty")
	}
	if s.writer == nil {
		return nil, errors.New(errors.ErrCodeDerivativeFormatUnsupported, "no derivative writer configured")
	}

	exp, table, err := s.expander(ctx)
	if err != nil {
		return nil, err
	}
	c := exp.Classify(template)
	if err := s.checkLimit(exp.Count(template), 0); err != nil {
		return nil, err
	}

	smiles := s.expand(exp, c)
	result := &GenerationResult{
		BatchID:   uuid.New().String(),
		Template:  template,
		Pattern:   c.Pattern,
		Count:     len(smiles),
		OutputDir: outputDir,
		Locations: make([]string, 0, len(smiles)),
	}
	log := s.logger.With(
		logging.String("batch_id", result.BatchID),
		logging.String("template", template),
		logging.String("pattern", c.Pattern.String()))

	if len(smiles) == 0 {
		log.Warn("template produced no derivatives")
		return result, nil
	}

	if p, ok := s.writer.(preparer); ok {
		if err := p.Prepare(ctx, outputDir); err != nil {
			return nil, err
		}
	}
	for i, smi := range smiles {
		if err := ctx.Err(); err != nil {
			return result, partialWrite(err, i, len(smiles))
		}
		loc, err := s.writer.Write(ctx, outputDir, i, smi)
		prometheus.RecordArtifactWrite(s.metrics, s.writer.Sink(), s.writer.Extension(), err)
		if err != nil {
			log.Error("derivative write failed", logging.Int("index", i), logging.Err(err))
			return result, partialWrite(err, i, len(smiles))
		}
		result.Locations = append(result.Locations, loc)
	}
	log.Info("derivatives persisted",
		logging.Int("count", result.Count),
		logging.String("sink", s.writer.Sink()),
		logging.String("output_dir", outputDir))

	s.publish(ctx, result, table.Digest())
	return result, nil
}

func (s *serviceImpl) publish(ctx context.Context, result *GenerationResult, digest string) {
	if s.publisher == nil {
		return
	}
	err := s.publisher.PublishBatchGenerated(ctx, domainDrv.BatchGenerated{
		BatchID:     result.BatchID,
		Template:    result.Template,
		Pattern:     result.Pattern,
		Count:       result.Count,
		OutputDir:   result.OutputDir,
		Sink:        s.writer.Sink(),
		Format:      s.writer.Extension(),
		TableDigest: digest,
		GeneratedAt: time.Now().UTC(),
	})
	prometheus.RecordEventPublished(s.metrics, s.publisher.Topic(), err)
	if err != nil {
		// Artifacts are already stored; a lost notification does not fail the batch.
		s.logger.Warn("failed to publish batch event",
			logging.String("batch_id", result.BatchID),
			logging.Err(err))
	}
}

func (s *serviceImpl) expand(exp *domainDrv.Expander, c domainDrv.Classification) []string {
	start := time.Now()
	out := exp.ExpandClassified(c)
	prometheus.RecordExpansion(s.metrics, c.Pattern.String(), len(out), time.Since(start))
	return out
}

func (s *serviceImpl) checkLimit(count, override int64) error {
	limit := s.cfg.MaxCount
	if override > 0 && (limit == 0 || override < limit) {
		limit = override
	}
	if limit > 0 && count > limit {
		prometheus.RecordError(s.metrics, "derivative", string(errors.ErrCodeDerivativeLimitExceeded))
		s.metrics.ExpansionsRejected.WithLabelValues("limit").Inc()
		return errors.New(errors.ErrCodeDerivativeLimitExceeded, "derivative count exceeds configured limit").
			WithDetail(fmt.Sprintf("count=%d limit=%d", count, limit))
	}
	return nil
}

// partialWrite adds the write progress to err.  Artifacts 0..written-1 are
// in place and listed in the result returned alongside it.
func partialWrite(err error, written, total int) error {
	detail := fmt.Sprintf("%d of %d derivatives written", written, total)
	if ae, ok := err.(*errors.AppError); ok {
		if ae.Detail != "" {
			detail = ae.Detail + "; " + detail
		}
		return ae.WithDetail(detail)
	}
	return errors.Wrap(err, errors.CodeUnknown, "derivative write interrupted").WithDetail(detail)
}

//Personal.AI order the ending
