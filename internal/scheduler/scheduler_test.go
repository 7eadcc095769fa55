package scheduler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swiftclouddbs/Alpha-Seeker/pkg/config"
	"github.com/swiftclouddbs/Alpha-Seeker/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(&config.Config{Env: "development", LogLevel: "error", LogFormat: "json"})
}

type noopJob struct {
	name     string
	schedule string
}

func (j *noopJob) Name() string                  { return j.name }
func (j *noopJob) Schedule() string              { return j.schedule }
func (j *noopJob) Run(ctx context.Context) error { return nil }

func TestScheduler_AddJob(t *testing.T) {
	s := New(testLogger())

	err := s.AddJob(&noopJob{name: "pipeline", schedule: "0 30 16 * * 1-5"})
	require.NoError(t, err)

	assert.Equal(t, []string{"pipeline"}, s.JobNames())
}

func TestScheduler_AddJob_RejectsDuplicateName(t *testing.T) {
	s := New(testLogger())

	require.NoError(t, s.AddJob(&noopJob{name: "pipeline", schedule: "@daily"}))
	assert.Error(t, s.AddJob(&noopJob{name: "pipeline", schedule: "@hourly"}))
}

func TestScheduler_AddJob_RejectsBadSchedule(t *testing.T) {
	s := New(testLogger())

	err := s.AddJob(&noopJob{name: "pipeline", schedule: "not a cron expression"})
	assert.Error(t, err)
}

func TestScheduler_RunNow_UnknownJob(t *testing.T) {
	s := New(testLogger())
	assert.Error(t, s.RunNow("missing"))
}

func TestJobHistory_EvictsOldResults(t *testing.T) {
	h := &JobHistory{}
	for i := 0; i < historyLimit+10; i++ {
		h.AddResult(JobResult{JobName: "pipeline", Success: i%2 == 0})
	}

	assert.Len(t, h.Results, historyLimit)

	_, ok := h.Latest()
	assert.True(t, ok)
}

func TestJobHistory_SuccessRate(t *testing.T) {
	h := &JobHistory{}
	assert.Zero(t, h.SuccessRate())

	h.AddResult(JobResult{Success: true})
	h.AddResult(JobResult{Success: true})
	h.AddResult(JobResult{Success: false})
	h.AddResult(JobResult{Success: true})

	assert.InDelta(t, 0.75, h.SuccessRate(), 1e-9)
}
