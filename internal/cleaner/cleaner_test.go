package cleaner

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"

	"CampusPlacement-backend/internal/database"
	"CampusPlacement-backend/internal/model"
)

var testDB *database.DBinstanceStruct

func TestMain(m *testing.M) {
	var err error
	var midTeardown func(context.Context, ...testcontainers.TerminateOption) error
	midTeardown, testDB, err = database.GetTestDB()
	if err != nil {
		os.Exit(1)
	}
	m.Run()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if midTeardown != nil {
		_ = midTeardown(ctx)
	}
}

func TestNewJobSweeper_Validation(t *testing.T) {
	_, err := NewJobSweeper(nil, "")
	assert.Error(t, err)

	_, err = NewJobSweeper(testDB, "not a schedule")
	assert.Error(t, err)

	sweeper, err := NewJobSweeper(testDB, "")
	require.NoError(t, err)
	sweeper.Stop()
}

func TestSweepOnce_DeactivatesExpiredJobs(t *testing.T) {
	sweeper, err := NewJobSweeper(testDB, "@hourly")
	require.NoError(t, err)
	defer sweeper.Stop()

	// TestJobExpired is seeded active with a deadline in the past.
	affected, err := sweeper.SweepOnce()
	require.NoError(t, err)
	assert.GreaterOrEqual(t, affected, int64(1))

	var job model.Job
	require.NoError(t, testDB.Where("id = ?", database.TestJobExpired.ID).First(&job).Error)
	assert.False(t, job.IsActive)

	// Open postings are untouched.
	require.NoError(t, testDB.Where("id = ?", database.TestJob1.ID).First(&job).Error)
	assert.True(t, job.IsActive)

	// A second sweep finds nothing new.
	affected, err = sweeper.SweepOnce()
	require.NoError(t, err)
	assert.Zero(t, affected)
}
