package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"tcx-utilities/internal/library"
	"tcx-utilities/internal/source"
	"tcx-utilities/internal/store"
)

// ImportOptions controls an import run
type ImportOptions struct {
	Overwrite    bool
	LookbackDays int // used when no start date is given
}

// ImportService downloads activities from a source into the library and
// indexes them
type ImportService struct {
	src     source.Source
	lib     *library.Library
	store   *store.DB
	indexer *IndexService
	opts    ImportOptions
	now     func() time.Time
	log     *logrus.Entry
}

// NewImportService creates a new import service
func NewImportService(src source.Source, lib *library.Library, db *store.DB, indexer *IndexService, opts ImportOptions) *ImportService {
	return &ImportService{
		src:     src,
		lib:     lib,
		store:   db,
		indexer: indexer,
		opts:    opts,
		now:     time.Now,
		log:     logrus.WithField("component", "import"),
	}
}

// ImportResult contains the results of an import run
type ImportResult struct {
	RunID      string
	Start, End time.Time
	Listed     int
	Downloaded int
	Skipped    int // already in the library and not overwritten
	Index      *IndexResult
	Errors     []error
}

// Err combines download and index errors
func (r *ImportResult) Err() error {
	err := multierr.Combine(r.Errors...)
	if r.Index != nil {
		err = multierr.Append(err, r.Index.Err())
	}
	return err
}

// DateRange fills in a missing end with today and a missing start with
// lookbackDays before the end
func DateRange(start, end time.Time, lookbackDays int, now time.Time) (time.Time, time.Time) {
	if end.IsZero() {
		end = now
	}
	if start.IsZero() {
		start = end.AddDate(0, 0, -lookbackDays)
	}
	return start, end
}

// Import lists the activities in [start, end], saves each one into the
// library and indexes the files that are new or not yet indexed. Zero start
// or end dates are filled in by DateRange. A failed download is recorded and
// the run carries on.
func (s *ImportService) Import(ctx context.Context, start, end time.Time, progress chan<- Progress) (*ImportResult, error) {
	if progress != nil {
		defer close(progress)
	}

	start, end = DateRange(start, end, s.opts.LookbackDays, s.now())
	if end.Before(start) {
		return nil, fmt.Errorf("end date %s is before start date %s", end.Format("2006-01-02"), start.Format("2006-01-02"))
	}

	result := &ImportResult{RunID: uuid.NewString(), Start: start, End: end}
	log := s.log.WithField("run_id", result.RunID)

	// Phase 1: list
	send(progress, Progress{Phase: PhaseList})
	listed, err := s.src.ListActivities(ctx, start, end)
	if err != nil {
		return result, fmt.Errorf("listing activities: %w", err)
	}
	result.Listed = len(listed)
	log.WithField("count", len(listed)).Info("listed activities")

	// Phase 2: download
	var toIndex []string
	for i, meta := range listed {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		send(progress, Progress{
			Phase:     PhaseDownload,
			Total:     len(listed),
			Completed: i,
			Current:   meta.ActivityName,
		})

		path, ok, err := s.download(ctx, meta, result)
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			result.Errors = append(result.Errors, fmt.Errorf("activity %d: %w", meta.ActivityID, err))
			log.WithField("activity_id", meta.ActivityID).WithError(err).Warn("download failed")
			continue
		}
		if ok {
			toIndex = append(toIndex, path)
		}
	}
	send(progress, Progress{Phase: PhaseDownload, Total: len(listed), Completed: len(listed)})

	// Phase 3: index
	if s.indexer != nil && len(toIndex) > 0 {
		result.Index, err = s.indexer.IndexPaths(ctx, toIndex, progress)
		if err != nil {
			return result, fmt.Errorf("indexing: %w", err)
		}
	}

	if err := s.store.SetSyncTime(store.KeyLastImportAt, s.now()); err != nil {
		log.WithError(err).Warn("could not record import time")
	}
	if err := s.store.SetSyncState(store.KeyLastImportRun, result.RunID); err != nil {
		log.WithError(err).Warn("could not record import run")
	}

	log.WithFields(logrus.Fields{
		"listed":     result.Listed,
		"downloaded": result.Downloaded,
		"skipped":    result.Skipped,
		"errors":     len(result.Errors),
	}).Info("import finished")

	return result, nil
}

// download saves one activity and reports whether its file needs indexing
func (s *ImportService) download(ctx context.Context, meta source.Metadata, result *ImportResult) (string, bool, error) {
	start := meta.StartTimeLocal.Time
	path := s.lib.PathFor(start, meta.ActivityID)

	if !s.opts.Overwrite && fileExists(path) {
		result.Skipped++
		_, err := s.store.GetActivity(meta.ActivityID)
		if errors.Is(err, store.ErrActivityNotFound) {
			return path, true, nil
		}
		return path, false, err
	}

	data, err := s.src.DownloadTCX(ctx, meta.ActivityID)
	if err != nil {
		return "", false, err
	}

	path, written, err := s.lib.Save(start, meta.ActivityID, data, s.opts.Overwrite)
	if err != nil {
		return "", false, err
	}
	if written {
		result.Downloaded++
	} else {
		result.Skipped++
	}
	return path, true, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
