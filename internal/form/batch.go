package form

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"
)

// FillJob describes one source document to fill.
type FillJob struct {
	Source  string `validate:"required"`
	Output  string `validate:"required"`
	Data    map[string]any
	Flatten bool
}

// FillBatch fills independent documents concurrently, at most limit at a
// time. Each job gets its own facade; a single PDF must never run Fill from
// more than one goroutine, but separate instances share nothing.
func FillBatch(ctx context.Context, jobs []FillJob, limit int, opts ...Option) error {
	validate := validator.New()
	for i, job := range jobs {
		if err := validate.Struct(job); err != nil {
			return fmt.Errorf("job %d: %w", i, err)
		}
	}

	if limit < 1 {
		limit = 1
	}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p := Open(job.Source, opts...)
			if _, err := p.FillFile(job.Source, job.Output, job.Data, job.Flatten); err != nil {
				return fmt.Errorf("%s: %w", job.Source, err)
			}
			return nil
		})
	}
	return g.Wait()
}
