// Package worker scores batches of recorded flights concurrently. Each job is
// independent: the engine is stateless, so flights for the same route can run
// in parallel without coordination.
package worker

import (
	"context"
	"sync"

	"github.com/adequatepilot/nav-scoring-sub000/internal/cache"
	"github.com/adequatepilot/nav-scoring-sub000/internal/channel"
	"github.com/adequatepilot/nav-scoring-sub000/internal/queue"
	"github.com/adequatepilot/nav-scoring-sub000/internal/service"
	"github.com/adequatepilot/nav-scoring-sub000/pkg/nav"
)

// Job is one flight to score.
type Job struct {
	RouteName string
	GPXPath   string
	Plan      nav.FlightPlan
	Actuals   nav.FlightActuals
	Info      service.FlightInfo
}

// Outcome pairs a job with its result or failure. A failed job never aborts
// the batch.
type Outcome struct {
	Job    Job
	Result nav.ScoreResult
	Err    error
}

// Pool scores jobs on a fixed number of goroutines.
type Pool struct {
	svc     *service.Service
	workers int
	logger  service.Logger
}

// NewPool creates a pool with the given concurrency. workers < 1 means 1.
func NewPool(svc *service.Service, workers int, logger service.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	return &Pool{svc: svc, workers: workers, logger: logger}
}

// Run scores all jobs and returns one outcome per job, in completion order.
// Jobs not yet started when ctx is cancelled are reported with ctx.Err().
func (p *Pool) Run(ctx context.Context, jobs []Job) []Outcome {
	pending := channel.New[Job](len(jobs))
	go func() {
		for _, job := range jobs {
			pending.Send(job)
		}
		pending.Close()
	}()

	outcomes := queue.New[Outcome]()
	var failed cache.SafeCounter

	var wg sync.WaitGroup
	for i := 0; i < p.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range pending.Receive() {
				if err := ctx.Err(); err != nil {
					failed.Inc()
					outcomes.Push(Outcome{Job: job, Err: err})
					continue
				}

				result, err := p.svc.ScoreGPXFile(ctx, job.RouteName, job.GPXPath,
					job.Plan, job.Actuals, job.Info)
				if err != nil {
					failed.Inc()
					p.logger.Error("batch job failed",
						"route", job.RouteName, "track", job.GPXPath, "error", err)
				}
				outcomes.Push(Outcome{Job: job, Result: result, Err: err})
			}
		}()
	}
	wg.Wait()

	p.logger.Info("batch complete",
		"jobs", len(jobs), "failed", failed.Value())

	return outcomes.GetAndEmpty()
}
