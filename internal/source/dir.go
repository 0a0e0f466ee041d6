package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"
)

// IndexFile is the metadata listing inside an export folder
const IndexFile = "activities.json"

// DirSource serves activities from an export folder holding activities.json
// and one <activityId>.tcx per activity
type DirSource struct {
	dir string
}

// NewDirSource returns a Source reading from dir
func NewDirSource(dir string) *DirSource {
	return &DirSource{dir: dir}
}

// ListActivities returns the listed activities in range, ordered by start time
func (s *DirSource) ListActivities(ctx context.Context, start, end time.Time) ([]Metadata, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filepath.Join(s.dir, IndexFile))
	if err != nil {
		return nil, fmt.Errorf("reading activity list: %w", err)
	}

	var all []Metadata
	if err := json.Unmarshal(data, &all); err != nil {
		return nil, fmt.Errorf("parsing activity list: %w", err)
	}

	var out []Metadata
	for _, m := range all {
		if inRange(m.StartTimeLocal.Time, start, end) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartTimeLocal.Before(out[j].StartTimeLocal.Time)
	})

	return out, nil
}

// DownloadTCX returns the raw document for activityID
func (s *DirSource) DownloadTCX(ctx context.Context, activityID int64) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	path := filepath.Join(s.dir, strconv.FormatInt(activityID, 10)+".tcx")
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %d", ErrActivityNotFound, activityID)
	}
	if err != nil {
		return nil, fmt.Errorf("reading activity %d: %w", activityID, err)
	}
	return data, nil
}
