package sync

import (
	"fmt"
	"strings"
	"time"
)

// Summary counts what a run did, or would have done in dry-run mode.
type Summary struct {
	LibrariesCreated int
	LibrariesReused  int
	FoldersCreated   int
	FoldersReused    int
	FilesUploaded    int

	// FilesReplaced counts the uploads that purged an existing file first.
	// They're also counted in FilesUploaded.
	FilesReplaced int

	// DatasetsSynced doesn't include datasets without a local directory.
	DatasetsSynced  int
	DatasetsSkipped int
	DatasetsMissing int

	Elapsed time.Duration
}

func (s Summary) String() string {
	lines := []string{
		fmt.Sprintf("Datasets: %d synced, %d skipped, %d without a local directory",
			s.DatasetsSynced, s.DatasetsSkipped, s.DatasetsMissing),
		fmt.Sprintf("Libraries: %d created, %d reused", s.LibrariesCreated, s.LibrariesReused),
		fmt.Sprintf("Folders: %d created, %d reused", s.FoldersCreated, s.FoldersReused),
		fmt.Sprintf("Files: %d uploaded (%d replaced)", s.FilesUploaded, s.FilesReplaced),
		fmt.Sprintf("Took %s", s.Elapsed.Round(time.Millisecond)),
	}
	return strings.Join(lines, "\n")
}
