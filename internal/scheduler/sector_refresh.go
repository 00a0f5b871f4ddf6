package scheduler

import (
	"context"
	"time"

	"kabu-dashboard/internal/sector"
)

// SectorRefreshJob rebuilds the sector table ahead of its TTL so that the
// first dashboard request after expiry does not pay the rebuild cost.
type SectorRefreshJob struct {
	agg     *sector.Aggregator
	timeout time.Duration
}

// NewSectorRefreshJob creates the sector warmup job.
func NewSectorRefreshJob(agg *sector.Aggregator) *SectorRefreshJob {
	return &SectorRefreshJob{
		agg:     agg,
		timeout: 5 * time.Minute,
	}
}

// Name returns the job name.
func (j *SectorRefreshJob) Name() string {
	return "sector-refresh"
}

// Run rebuilds the sector table.
func (j *SectorRefreshJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	_, err := j.agg.Load(ctx, true)
	return err
}
