package service

// Progress reports how far an import or index run has got
type Progress struct {
	Phase     string // "list", "download", "index"
	Total     int
	Completed int
	Current   string // file or activity being worked on
	Error     error
}

// Phases reported through Progress
const (
	PhaseList     = "list"
	PhaseDownload = "download"
	PhaseIndex    = "index"
)

func send(progress chan<- Progress, p Progress) {
	if progress != nil {
		progress <- p
	}
}
