// Package manifest parses the dataset manifest: a tab-separated file that
// records when each dataset archive was last transferred.
//
//	run-2023-05.7z	2023-05-04 12:00:00
//	run-2023-06.7z	2023-06-01 08:30:00
//
// Only `.7z` archives are datasets. The suffix is stripped, so the dataset
// above is called `run-2023-05`. Timestamps are in UTC.
package manifest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/sidkik/libsync/pkg/errors"
)

// TimeLayout is the layout of the transfer timestamps.
const TimeLayout = "2006-01-02 15:04:05"

// ArchiveSuffix marks the manifest entries that are datasets.
const ArchiveSuffix = ".7z"

// Mocked out for unit testing.
var fs = afero.NewOsFs()

// Datasets maps each dataset name to the time it was last transferred.
type Datasets map[string]time.Time

// Names returns the dataset names in sorted order.
func (datasets Datasets) Names() []string {
	names := make([]string, 0, len(datasets))
	for name := range datasets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Read parses the manifest at `path`.
func Read(path string) (Datasets, error) {
	f, err := fs.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.FileNotFound{Path: path}
		}
		return nil, errors.WithContext(err, "open")
	}
	defer f.Close()

	return Parse(f)
}

// Parse reads manifest entries from `r`. Blank lines are ignored, and a
// dataset that's listed twice takes the timestamp of its last entry.
func Parse(r io.Reader) (Datasets, error) {
	datasets := Datasets{}
	scanner := bufio.NewScanner(r)
	for lineNum := 1; scanner.Scan(); lineNum++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		name, transferred, err := parseLine(line)
		if err != nil {
			return nil, errors.WithContext(err, fmt.Sprintf("line %d", lineNum))
		}

		if !strings.HasSuffix(name, ArchiveSuffix) {
			continue
		}

		name = strings.TrimSuffix(name, ArchiveSuffix)
		if err := ValidateName(name); err != nil {
			return nil, errors.WithContext(err, fmt.Sprintf("line %d", lineNum))
		}
		datasets[name] = transferred
	}

	if err := scanner.Err(); err != nil {
		return nil, errors.WithContext(err, "read")
	}
	return datasets, nil
}

// ValidateName makes sure a dataset name can be used as a single path
// element, both locally and on the Galaxy server.
func ValidateName(name string) error {
	switch {
	case name == "":
		return errors.New("empty dataset name")
	case name == "." || name == "..":
		return errors.New("invalid dataset name %q", name)
	case strings.ContainsAny(name, `/\`):
		return errors.New("dataset name %q contains a path separator", name)
	}
	return nil
}

func parseLine(line string) (string, time.Time, error) {
	fields := strings.Split(line, "\t")
	if len(fields) != 2 {
		return "", time.Time{}, errors.New(
			"expected 2 tab-separated columns, got %d", len(fields))
	}

	transferred, err := time.ParseInLocation(TimeLayout, strings.TrimSpace(fields[1]), time.UTC)
	if err != nil {
		return "", time.Time{}, errors.WithContext(err, "parse transfer time")
	}
	return strings.TrimSpace(fields[0]), transferred, nil
}
