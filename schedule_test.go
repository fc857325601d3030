package dirsync

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSchedulerOnlySchedulesIntervals(t *testing.T) {
	synchronizer, _ := newTestSynchronizer(t, NewMockClient(nil))
	jobs := []SyncJob{
		{Synchronizer: synchronizer, Config: SyncConfig{SourceFolder: "/a", DestinationBucket: "b"}},
		{Synchronizer: synchronizer, Config: SyncConfig{SourceFolder: "/c", DestinationBucket: "d", Interval: 60}},
	}

	scheduler, err := NewScheduler(context.Background(), jobs)

	require.NoError(t, err)
	assert.Len(t, scheduler.Jobs(), 1)
}

func TestSyncJobRun(t *testing.T) {
	dir := feedDir(t)
	mockClient := NewMockClient(NewKeySet("feed/a.csv"))
	synchronizer, _ := newTestSynchronizer(t, mockClient)
	job := SyncJob{Synchronizer: synchronizer, Config: SyncConfig{SourceFolder: dir, DestinationBucket: "b"}}

	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, []string{"feed/sub/b.csv"}, mockClient.uploadedKeys())
}
