// Package job contains the periodic background jobs of the API.
package job

import (
	"github.com/akraev/simple-api/database"
	"github.com/akraev/simple-api/logger"
	"github.com/akraev/simple-api/util/common"
)

// CheckpointJob periodically flushes the sqlite WAL back into the main
// database file so the WAL does not grow unbounded.
type CheckpointJob struct{}

// NewCheckpointJob creates a new WAL checkpoint job instance.
func NewCheckpointJob() *CheckpointJob {
	return new(CheckpointJob)
}

// Run executes the WAL checkpoint. A panic must not kill the cron scheduler.
func (j *CheckpointJob) Run() {
	defer common.Recover("wal checkpoint job")
	if err := database.Checkpoint(); err != nil {
		logger.Warning("wal checkpoint err:", err)
	}
}
