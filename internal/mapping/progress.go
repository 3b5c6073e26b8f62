package mapping

import "time"

// Stats summarizes a completed build.
type Stats struct {
	Files       int
	SourceFiles int
	Types       int
	Methods     int
	CacheHits   int
	Duration    time.Duration
}

// ProgressReporter provides callbacks for reporting build progress.
// Calls are serialized by the builder, so implementations need no locking.
type ProgressReporter interface {
	// OnFilesDiscovered is called once with the number of candidates.
	OnFilesDiscovered(total int)

	// OnFileProcessed is called after each file is processed.
	OnFileProcessed(path string)

	// OnComplete is called when the build succeeds.
	OnComplete(stats *Stats)
}

// NoOpProgressReporter is a progress reporter that does nothing.
type NoOpProgressReporter struct{}

func (NoOpProgressReporter) OnFilesDiscovered(total int) {}
func (NoOpProgressReporter) OnFileProcessed(path string) {}
func (NoOpProgressReporter) OnComplete(stats *Stats)     {}
