package status

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/buger/goterm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sidkik/libsync/pkg/config"
	"github.com/sidkik/libsync/pkg/errors"
	"github.com/sidkik/libsync/pkg/galaxy"
	"github.com/sidkik/libsync/pkg/galaxy/mocks"
	"github.com/sidkik/libsync/pkg/manifest"
	"github.com/sidkik/libsync/pkg/sync"
)

var (
	earlier = time.Date(2020, 3, 1, 10, 0, 0, 0, time.UTC)
	later   = time.Date(2020, 3, 2, 10, 0, 0, 0, time.UTC)
)

func TestPrintPlan(t *testing.T) {
	lib := galaxy.Library{ID: "L1", Name: "old", CreateTime: galaxy.Time{Time: later}}
	plan := sync.Plan{
		{Dataset: "new", Transferred: later, Sync: true, Reason: sync.ReasonNew},
		{Dataset: "old", Transferred: earlier, Library: &lib, Reason: sync.ReasonStale},
	}

	var out bytes.Buffer
	printPlan(&out, plan, false)
	assert.Equal(t,
		"DATASET   TRANSFERRED           LIBRARY CREATED       STATUS\n"+
			"new       2020-03-02 10:00:00   -                     sync (new)\n"+
			"old       2020-03-01 10:00:00   2020-03-02 10:00:00   skip (already transferred)\n"+
			"\n"+
			"1 to sync, 1 skipped\n",
		out.String())
}

func TestPrintPlanColor(t *testing.T) {
	plan := sync.Plan{
		{Dataset: "new", Transferred: later, Sync: true, Reason: sync.ReasonNew},
	}

	var out bytes.Buffer
	printPlan(&out, plan, true)
	assert.Contains(t, out.String(), goterm.Color("sync (new)", goterm.GREEN))
}

func TestStatusColor(t *testing.T) {
	tests := []struct {
		reason sync.Reason
		exp    int
	}{
		{sync.ReasonNew, goterm.GREEN},
		{sync.ReasonModified, goterm.YELLOW},
		{sync.ReasonForced, goterm.YELLOW},
		{sync.ReasonStale, goterm.BLACK},
		{sync.ReasonNotSelected, goterm.BLACK},
	}

	for _, test := range tests {
		assert.Equal(t, test.exp, statusColor(sync.Decision{Reason: test.reason}),
			string(test.reason))
	}
}

func TestRun(t *testing.T) {
	loadOptions = func(flags config.Options, _ ...string) (config.Options, error) {
		return flags, nil
	}
	readManifest = func(string) (manifest.Datasets, error) {
		return manifest.Datasets{"a": later, "b": later}, nil
	}

	client := &mocks.Client{}
	client.On("Libraries", mock.Anything).Return(nil, nil)
	newGalaxyClient = func(config.Options) (galaxy.Client, error) {
		return client, nil
	}

	var out bytes.Buffer
	stdout = &out
	require.NoError(t, run(context.Background(), config.Options{Only: []string{"b"}}, false))
	assert.Contains(t, out.String(), "skip (not selected)")
	assert.Contains(t, out.String(), "1 to sync, 1 skipped")

	// The plan only needs the library listing.
	client.AssertExpectations(t)
	client.AssertNotCalled(t, "CheckVersion", mock.Anything, mock.Anything)
}

func TestRunMissingDatasetsFile(t *testing.T) {
	loadOptions = func(flags config.Options, _ ...string) (config.Options, error) {
		return flags, nil
	}
	readManifest = func(path string) (manifest.Datasets, error) {
		return nil, errors.FileNotFound{Path: path}
	}
	newGalaxyClient = func(config.Options) (galaxy.Client, error) {
		t.Fatal("the client shouldn't be created without a datasets file")
		return nil, nil
	}

	err := run(context.Background(), config.Options{DatasetsFile: "/data/datasets.tsv"}, false)
	assert.Equal(t, errors.NewFriendlyError(
		`The datasets file "/data/datasets.tsv" doesn't exist.`), err)
}
