// Package cleaner runs the background sweep that closes expired job postings.
package cleaner

import (
	"time"

	"github.com/pkg/errors"
	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"CampusPlacement-backend/internal/database"
	"CampusPlacement-backend/internal/metrics"
	"CampusPlacement-backend/internal/model"
)

// JobSweeper periodically deactivates jobs whose application deadline passed.
type JobSweeper struct {
	db   *database.DBinstanceStruct
	cron *cron.Cron
}

// NewJobSweeper starts the sweeper on the given cron schedule; an empty
// schedule defaults to hourly.
func NewJobSweeper(db *database.DBinstanceStruct, schedule string) (*JobSweeper, error) {

	if db == nil {
		return nil, errors.New("job sweeper needs a database")
	}
	if schedule == "" {
		schedule = "0 * * * *"
	}

	js := &JobSweeper{db: db, cron: cron.New()}

	if _, err := js.cron.AddFunc(schedule, js.sweep); err != nil {
		return nil, errors.Wrap(err, "invalid sweep schedule")
	}

	js.cron.Start()
	log.Infof("job sweeper started, schedule: %s", schedule)
	return js, nil
}

// Stop halts the cron scheduler.
func (js *JobSweeper) Stop() {
	js.cron.Stop()
}

func (js *JobSweeper) sweep() {
	affected, err := js.SweepOnce()
	if err != nil {
		log.Errorf("Failed to sweep expired jobs: %v", err)
	} else if affected > 0 {
		log.Infof("Deactivated %d job(s) past their deadline", affected)
	}
}

// SweepOnce deactivates every active job whose deadline has passed and
// returns the number of jobs affected.
func (js *JobSweeper) SweepOnce() (int64, error) {
	res := js.db.Model(&model.Job{}).
		Where("is_active = ? AND deadline IS NOT NULL AND deadline < ?", true, time.Now()).
		Update("is_active", false)
	if res.Error != nil {
		return 0, res.Error
	}
	metrics.JobsDeactivated.Add(float64(res.RowsAffected))
	return res.RowsAffected, nil
}
