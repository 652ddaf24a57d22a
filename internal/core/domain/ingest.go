package domain

import "time"

// IngestRun records one ingestion pass over a source.
type IngestRun struct {
	ID         string
	SourcePath string
	StartedAt  time.Time
	FinishedAt time.Time
	Documents  int
	Chunks     int
	Failed     int
	Removed    int
}

// Duration returns how long the run took.
func (r IngestRun) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}
