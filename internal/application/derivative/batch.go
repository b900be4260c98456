package derivative

import (
	"context"
	"fmt"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/turtacn/dockprep/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/dockprep/pkg/errors"
)

// Job is one template to expand into one output directory.
type Job struct {
	Template  string `yaml:"template" json:"template"`
	OutputDir string `yaml:"output_dir" json:"output_dir"`
}

// GenerateBatch runs independent jobs in parallel, at most
// ServiceConfig.Concurrency at a time.  Results are returned in job order.
// The first failure cancels the jobs still running and is returned.  Jobs
// must write to distinct output directories.
func (s *serviceImpl) GenerateBatch(ctx context.Context, jobs []Job) ([]*GenerationResult, error) {
	if len(jobs) == 0 {
		return nil, errors.InvalidParam("batch contains no jobs")
	}
	if err := checkDistinctOutputDirs(jobs); err != nil {
		return nil, err
	}

	results := make([]*GenerationResult, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.Concurrency)

	for i, job := range jobs {
		i, job := i, job
		g.Go(func() error {
			res, err := s.GenerateAndPersist(gctx, job.Template, job.OutputDir)
			if err != nil {
				return errors.Wrap(err, errors.CodeUnknown, "batch job failed").
					WithDetail(job.Template)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, r := range results {
		total += r.Count
	}
	s.logger.Info("batch complete",
		logging.Int("jobs", len(jobs)),
		logging.Int("derivatives", total))
	return results, nil
}

// checkDistinctOutputDirs rejects two jobs sharing a directory, since both
// would write the same {index}.{ext} names.
func checkDistinctOutputDirs(jobs []Job) error {
	seen := make(map[string]int, len(jobs))
	for i, job := range jobs {
		dir := filepath.Clean(job.OutputDir)
		if first, dup := seen[dir]; dup {
			return errors.InvalidParam("batch jobs share an output directory").
				WithDetail(fmt.Sprintf("jobs[%d] and jobs[%d]: %s", first, i, dir))
		}
		seen[dir] = i
	}
	return nil
}

//Personal.AI order the ending
