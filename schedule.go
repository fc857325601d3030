package dirsync

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-co-op/gocron"
	log "github.com/sirupsen/logrus"
)

// SyncJob pairs a synchronizer with the folder and bucket it keeps in step.
type SyncJob struct {
	Synchronizer *Synchronizer
	Config       SyncConfig
}

// Run performs a single sync for the job.
func (j SyncJob) Run(ctx context.Context) error {
	_, err := j.Synchronizer.Sync(ctx, j.Config.SourceFolder, j.Config.DestinationBucket)
	return err
}

// NewScheduler registers one job per entry with a positive Interval.
// Entries without an interval are left for the caller to run once.
func NewScheduler(ctx context.Context, jobs []SyncJob) (*gocron.Scheduler, error) {
	scheduler := gocron.NewScheduler(time.UTC)

	for _, job := range jobs {
		if job.Config.Interval <= 0 {
			continue
		}
		job := job
		interval := time.Duration(job.Config.Interval) * time.Second
		_, doErr := scheduler.Every(interval).Do(func() {
			runErr := job.Run(ctx)
			switch {
			case runErr == nil:
			case errors.Is(runErr, ErrSyncInProgress):
				// previous tick still uploading
			default:
				log.Error(fmt.Sprintf("Scheduled sync %s -> %s failed: %s",
					job.Config.SourceFolder, job.Config.DestinationBucket, runErr))
			}
		})
		if doErr != nil {
			return nil, fmt.Errorf("scheduling sync for %s: %w", job.Config.SourceFolder, doErr)
		}
	}

	return scheduler, nil
}
