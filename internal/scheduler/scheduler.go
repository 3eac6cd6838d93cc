// Package scheduler runs periodic jobs for the server, currently the JSONL
// backup of the store.
package scheduler

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/mesh-intelligence/tilrettelegging/internal/paths"
	"github.com/mesh-intelligence/tilrettelegging/pkg/types"
)

// Backupper is the part of the store the backup job needs.
type Backupper interface {
	Backup(dir string) error
}

// Scheduler wraps a cron runner.
type Scheduler struct {
	cron *cron.Cron
	log  zerolog.Logger
}

// New returns a stopped scheduler.
func New(log zerolog.Logger) *Scheduler {
	return &Scheduler{
		cron: cron.New(),
		log:  log,
	}
}

// BackupDir returns a fresh backup directory under dataDir for time now.
func BackupDir(dataDir string, now time.Time) string {
	name := now.UTC().Format("20060102T150405Z") + "-" + uuid.NewString()[:8]
	return filepath.Join(paths.BackupsDir(dataDir), name)
}

// RunBackup writes one backup of store under dataDir and returns its directory.
func RunBackup(store Backupper, dataDir string, now time.Time) (string, error) {
	dir := BackupDir(dataDir, now)
	if err := store.Backup(dir); err != nil {
		return "", fmt.Errorf("backup to %s: %w", dir, err)
	}
	return dir, nil
}

// AddBackup registers a backup job on the standard five-field cron spec (or
// a descriptor such as @daily). An invalid spec wraps ErrInvalidData.
func (s *Scheduler) AddBackup(spec string, store Backupper, dataDir string) error {
	_, err := s.cron.AddFunc(spec, func() {
		dir, err := RunBackup(store, dataDir, time.Now())
		if err != nil {
			s.log.Error().Err(err).Msg("scheduled backup failed")
			return
		}
		s.log.Info().Str("dir", dir).Msg("scheduled backup written")
	})
	if err != nil {
		return fmt.Errorf("%w: backup schedule %q: %v", types.ErrInvalidData, spec, err)
	}
	s.log.Info().Str("schedule", spec).Msg("backup job registered")
	return nil
}

// Jobs returns the number of registered jobs.
func (s *Scheduler) Jobs() int {
	return len(s.cron.Entries())
}

// Start runs the scheduler in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the scheduler. The returned context is done once running jobs
// have finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}
