// Package library stores downloaded TCX files in a date-organised folder tree:
//
//	<root>/<year>/<Month>/<day>-<activityId>.tcx
package library

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

const ext = ".tcx"

// ErrNotEntry is returned by ParseEntry for paths outside the library layout
var ErrNotEntry = errors.New("not a library entry")

// Entry is one stored activity file
type Entry struct {
	Path       string
	Date       time.Time // local calendar date, midnight UTC
	ActivityID int64
}

// Library is a folder of TCX files
type Library struct {
	root string
}

// New returns a Library rooted at dir. The directory is created on first save.
func New(dir string) *Library {
	return &Library{root: dir}
}

// Root returns the library directory
func (l *Library) Root() string {
	return l.root
}

// PathFor returns where the activity starting at start is stored. Only the
// calendar date of start in its own location is used.
func (l *Library) PathFor(start time.Time, activityID int64) string {
	return filepath.Join(
		l.root,
		strconv.Itoa(start.Year()),
		start.Month().String(),
		fmt.Sprintf("%d-%d%s", start.Day(), activityID, ext),
	)
}

// Save writes data for an activity. An existing file is left alone unless
// overwrite is set; written reports whether the file was (re)written.
func (l *Library) Save(start time.Time, activityID int64, data []byte, overwrite bool) (path string, written bool, err error) {
	path = l.PathFor(start, activityID)

	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return path, false, nil
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return path, false, fmt.Errorf("creating activity directory: %w", err)
	}

	// write through a temp file so a failed write never leaves a truncated document
	tmp, err := os.CreateTemp(filepath.Dir(path), ".download-*")
	if err != nil {
		return path, false, fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return path, false, fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return path, false, fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return path, false, fmt.Errorf("moving %s into place: %w", path, err)
	}

	return path, true, nil
}

// Read returns the contents of a stored file
func (l *Library) Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading activity file: %w", err)
	}
	return data, nil
}

// ParseEntry recovers the date and activity id from a path laid out by PathFor
func ParseEntry(path string) (Entry, error) {
	base := filepath.Base(path)
	if !strings.HasSuffix(base, ext) {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotEntry, path)
	}
	dayStr, idStr, ok := strings.Cut(strings.TrimSuffix(base, ext), "-")
	if !ok {
		return Entry{}, fmt.Errorf("%w: %s", ErrNotEntry, path)
	}
	day, err := strconv.Atoi(dayStr)
	if err != nil || day < 1 || day > 31 {
		return Entry{}, fmt.Errorf("%w: bad day in %s", ErrNotEntry, path)
	}
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return Entry{}, fmt.Errorf("%w: bad activity id in %s", ErrNotEntry, path)
	}

	monthDir := filepath.Dir(path)
	month, ok := parseMonth(filepath.Base(monthDir))
	if !ok {
		return Entry{}, fmt.Errorf("%w: bad month in %s", ErrNotEntry, path)
	}
	year, err := strconv.Atoi(filepath.Base(filepath.Dir(monthDir)))
	if err != nil {
		return Entry{}, fmt.Errorf("%w: bad year in %s", ErrNotEntry, path)
	}

	date := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if date.Day() != day {
		return Entry{}, fmt.Errorf("%w: %d %s %d is not a date", ErrNotEntry, day, month, year)
	}

	return Entry{Path: path, Date: date, ActivityID: id}, nil
}

// Find returns the entries dated within [start, end], comparing calendar
// dates only. A zero start or end leaves that side of the range open.
// Results are sorted by date, then activity id. Files that do not follow the
// layout are skipped.
func (l *Library) Find(start, end time.Time) ([]Entry, error) {
	from, to := dateOf(start), dateOf(end)
	if !start.IsZero() && !end.IsZero() && to.Before(from) {
		return nil, nil
	}

	years, err := l.years()
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for _, year := range years {
		if (!start.IsZero() && year < from.Year()) || (!end.IsZero() && year > to.Year()) {
			continue
		}
		yearDir := filepath.Join(l.root, strconv.Itoa(year))
		err := filepath.WalkDir(yearDir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			entry, err := ParseEntry(path)
			if err != nil {
				return nil
			}
			if (!start.IsZero() && entry.Date.Before(from)) || (!end.IsZero() && entry.Date.After(to)) {
				return nil
			}
			entries = append(entries, entry)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", yearDir, err)
		}
	}

	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].Date.Equal(entries[j].Date) {
			return entries[i].Date.Before(entries[j].Date)
		}
		return entries[i].ActivityID < entries[j].ActivityID
	})

	return entries, nil
}

// years lists the numeric year folders under the root in ascending order
func (l *Library) years() ([]int, error) {
	dirs, err := os.ReadDir(l.root)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading library: %w", err)
	}

	var years []int
	for _, d := range dirs {
		if !d.IsDir() {
			continue
		}
		if year, err := strconv.Atoi(d.Name()); err == nil {
			years = append(years, year)
		}
	}
	sort.Ints(years)
	return years, nil
}

// dateOf truncates t to its calendar date, expressed at midnight UTC
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func parseMonth(name string) (time.Month, bool) {
	for m := time.January; m <= time.December; m++ {
		if m.String() == name {
			return m, true
		}
	}
	return 0, false
}
