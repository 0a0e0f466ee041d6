package cli

import (
	"io"
	"time"

	"github.com/schollz/progressbar/v3"

	"tcx-utilities/internal/service"
)

var barTheme = progressbar.Theme{
	Saucer:        "=",
	SaucerHead:    ">",
	SaucerPadding: " ",
	BarStart:      "[",
	BarEnd:        "]",
}

var phaseLabels = map[string]string{
	service.PhaseList:     "listing",
	service.PhaseDownload: "downloading",
	service.PhaseIndex:    "indexing",
}

func newBar(w io.Writer, phase string, total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetTheme(barTheme),
		progressbar.OptionSetDescription(phaseLabels[phase]),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionOnCompletion(func() { _, _ = io.WriteString(w, "\n") }),
	)
}

// drawProgress renders one bar per phase until progress is closed. The
// returned channel is closed once drawing has finished.
func drawProgress(w io.Writer, progress <-chan service.Progress) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)

		var (
			bar   *progressbar.ProgressBar
			phase string
		)
		finish := func() {
			if bar != nil {
				_ = bar.Finish()
				bar = nil
			}
		}

		for p := range progress {
			if p.Total == 0 {
				continue
			}
			if bar == nil || p.Phase != phase {
				finish()
				phase = p.Phase
				bar = newBar(w, phase, p.Total)
			}
			_ = bar.Set(p.Completed)
		}
		finish()
	}()
	return done
}
