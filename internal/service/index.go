package service

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"
	"golang.org/x/sync/errgroup"

	"tcx-utilities/internal/library"
	"tcx-utilities/internal/store"
	"tcx-utilities/internal/tcx"
)

// IndexService parses library files and stores the results
type IndexService struct {
	store   *store.DB
	lib     *library.Library
	reader  *tcx.Reader
	workers int
	log     *logrus.Entry
}

// NewIndexService creates an index service over the files of lib, parsing up
// to workers files at once
func NewIndexService(db *store.DB, lib *library.Library, workers int) *IndexService {
	if workers < 1 {
		workers = 1
	}
	return &IndexService{
		store:   db,
		lib:     lib,
		reader:  tcx.NewReader(tcx.DefaultNamespaces()),
		workers: workers,
		log:     logrus.WithField("component", "index"),
	}
}

// IndexResult contains the results of an index run
type IndexResult struct {
	RunID   string
	Files   int
	Indexed int
	Failed  int
	Errors  []error // one per file that failed, in input order
}

// Err combines the per-file errors, or returns nil when every file indexed
func (r *IndexResult) Err() error {
	return multierr.Combine(r.Errors...)
}

type parseOutcome struct {
	entry    library.Entry
	activity *tcx.Activity
	err      error
}

// IndexPaths parses every path and stores the activities that parse.
// A file that fails is recorded in the failure table and does not stop the
// others; a failure record is cleared once its file indexes cleanly. Only
// cancellation of ctx ends a run early.
func (s *IndexService) IndexPaths(ctx context.Context, paths []string, progress chan<- Progress) (*IndexResult, error) {
	result := &IndexResult{RunID: uuid.NewString(), Files: len(paths)}
	log := s.log.WithField("run_id", result.RunID)

	outcomes, err := s.parseAll(ctx, paths, progress)
	if err != nil {
		return result, err
	}

	for i, o := range outcomes {
		path := paths[i]
		if o.err == nil {
			o.err = s.save(o)
		}
		if o.err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Errorf("%s: %w", path, o.err))
			log.WithField("path", path).WithError(o.err).Warn("could not index file")

			failure := store.ParseFailure{
				Path:    path,
				Kind:    failureKind(o.err),
				Message: o.err.Error(),
				RunID:   result.RunID,
			}
			if err := s.store.RecordParseFailure(failure); err != nil {
				result.Errors = append(result.Errors, fmt.Errorf("recording failure for %s: %w", path, err))
			}
			continue
		}

		result.Indexed++
		if err := s.store.ClearParseFailure(path); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("clearing failure for %s: %w", path, err))
		}
	}

	if err := s.store.SetSyncTime(store.KeyLastIndexAt, time.Now()); err != nil {
		log.WithError(err).Warn("could not record index time")
	}

	log.WithFields(logrus.Fields{
		"files":   result.Files,
		"indexed": result.Indexed,
		"failed":  result.Failed,
	}).Info("index run finished")

	return result, nil
}

// IndexLibrary indexes every library file dated within [start, end]. A zero
// start or end leaves that side of the range open.
func (s *IndexService) IndexLibrary(ctx context.Context, start, end time.Time, progress chan<- Progress) (*IndexResult, error) {
	entries, err := s.lib.Find(start, end)
	if err != nil {
		return nil, fmt.Errorf("finding library files: %w", err)
	}

	paths := make([]string, len(entries))
	for i, e := range entries {
		paths[i] = e.Path
	}
	return s.IndexPaths(ctx, paths, progress)
}

// parseAll reads and parses paths on the worker pool. Parse failures are
// kept per file; the returned error is only ever a context error.
func (s *IndexService) parseAll(ctx context.Context, paths []string, progress chan<- Progress) ([]parseOutcome, error) {
	outcomes := make([]parseOutcome, len(paths))
	var completed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			outcomes[i] = s.parseOne(path)

			send(progress, Progress{
				Phase:     PhaseIndex,
				Total:     len(paths),
				Completed: int(completed.Add(1)),
				Current:   path,
				Error:     outcomes[i].err,
			})
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

func (s *IndexService) parseOne(path string) parseOutcome {
	entry, err := library.ParseEntry(path)
	if err != nil {
		return parseOutcome{err: err}
	}

	data, err := s.lib.Read(path)
	if err != nil {
		return parseOutcome{entry: entry, err: err}
	}

	activity, err := s.reader.Parse(data)
	if err != nil {
		return parseOutcome{entry: entry, err: err}
	}
	return parseOutcome{entry: entry, activity: activity}
}

func (s *IndexService) save(o parseOutcome) error {
	activity, laps, points := convertActivity(o.entry, o.activity)
	if err := s.store.SaveActivity(activity, laps, points); err != nil {
		return fmt.Errorf("storing activity %d: %w", o.entry.ActivityID, err)
	}
	return nil
}
