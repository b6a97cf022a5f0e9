package sync

import (
	"context"
	goErrors "errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"
	logrusTest "github.com/sirupsen/logrus/hooks/test"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sidkik/libsync/pkg/galaxy"
	"github.com/sidkik/libsync/pkg/galaxy/mocks"
	"github.com/sidkik/libsync/pkg/manifest"
)

var uploadOpts = galaxy.UploadOptions{
	LinkDataOnly: "link_to_files",
	FileType:     "auto",
	DBKey:        "?",
}

func uploadTo(folderID string) galaxy.UploadOptions {
	opts := uploadOpts
	opts.FolderID = folderID
	return opts
}

func writeSource(t *testing.T, paths ...string) {
	fs = afero.NewMemMapFs()
	for _, path := range paths {
		require.NoError(t, afero.WriteFile(fs, path, []byte("data"), 0644))
	}
}

func newTestSyncer(client galaxy.Client, opts Options) (*Syncer, *logrusTest.Hook, clockwork.FakeClock) {
	opts.SourceDir = "/src"
	opts.GalaxyPath = "/galaxy"
	opts.Upload = uploadOpts

	logger, hook := logrusTest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	clock := clockwork.NewFakeClock()
	return NewSyncer(client, opts, logger, clock), hook, clock
}

func TestRun(t *testing.T) {
	writeSource(t,
		"/src/ds1/top.txt",
		"/src/ds1/raw/a.fastq",
		"/src/ds2/ignored.txt",
	)

	client := &mocks.Client{}
	syncer, _, clock := newTestSyncer(client, Options{})

	client.On("Libraries", mock.Anything).
		Run(func(mock.Arguments) { clock.Advance(time.Second) }).
		Return([]galaxy.Library{library("2", "ds2", later)}, nil)

	client.On("LibrariesByName", mock.Anything, "ds1").Return(nil, nil)
	client.On("CreateLibrary", mock.Anything, "ds1", "ds1", "ds1").
		Return(galaxy.Library{ID: "L1", Name: "ds1", RootFolderID: "F1"}, nil)

	client.On("Folders", mock.Anything, "L1", "/raw").Return(nil, nil)
	client.On("CreateFolder", mock.Anything, "L1", "raw", "F1").
		Return(galaxy.Folder{ID: "F2", Name: "raw"}, nil)

	client.On("FolderContents", mock.Anything, "F2").Return(nil, nil)
	client.On("UploadFromServerPath", mock.Anything, "L1", "/galaxy/ds1/raw/a.fastq", uploadTo("F2")).
		Return([]galaxy.Dataset{{ID: "D1", Name: "a.fastq"}}, nil)

	client.On("FolderContents", mock.Anything, "F1").Return([]galaxy.FolderItem{
		{ID: "F2", Name: "raw", Type: galaxy.TypeFolder},
		{ID: "D9", Name: "top.txt", Type: galaxy.TypeFile},
	}, nil)
	client.On("DeleteDataset", mock.Anything, "L1", "D9", true).Return(nil)
	client.On("UploadFromServerPath", mock.Anything, "L1", "/galaxy/ds1/top.txt", uploadTo("F1")).
		Return([]galaxy.Dataset{{ID: "D2", Name: "top.txt"}}, nil)

	datasets := manifest.Datasets{"ds1": later, "ds2": earlier}
	summary, err := syncer.Run(context.Background(), datasets)
	require.NoError(t, err)
	client.AssertExpectations(t)

	assert.Equal(t, Summary{
		LibrariesCreated: 1,
		FoldersCreated:   1,
		FilesUploaded:    2,
		FilesReplaced:    1,
		DatasetsSynced:   1,
		DatasetsSkipped:  1,
		Elapsed:          time.Second,
	}, summary)
}

func TestSyncDatasetReusesFolders(t *testing.T) {
	writeSource(t, "/src/ds/raw/run1/b.fastq")

	client := &mocks.Client{}
	syncer, _, _ := newTestSyncer(client, Options{})

	client.On("LibrariesByName", mock.Anything, "ds").
		Return([]galaxy.Library{library("L1", "ds", earlier)}, nil)
	client.On("Folders", mock.Anything, "L1", "/raw").
		Return([]galaxy.Folder{{ID: "F2", Name: "/raw"}}, nil)
	client.On("Folders", mock.Anything, "L1", "/raw/run1").Return(nil, nil)
	client.On("CreateFolder", mock.Anything, "L1", "run1", "F2").
		Return(galaxy.Folder{ID: "F3", Name: "run1"}, nil)
	client.On("FolderContents", mock.Anything, "F3").Return(nil, nil)
	client.On("UploadFromServerPath", mock.Anything, "L1", "/galaxy/ds/raw/run1/b.fastq", uploadTo("F3")).
		Return([]galaxy.Dataset{{ID: "D1", Name: "b.fastq"}}, nil)

	var summary Summary
	require.NoError(t, syncer.SyncDataset(context.Background(), "ds", &summary))
	client.AssertExpectations(t)

	assert.Equal(t, Summary{
		LibrariesReused: 1,
		FoldersReused:   1,
		FoldersCreated:  1,
		FilesUploaded:   1,
		DatasetsSynced:  1,
	}, summary)
}

func TestSyncDatasetMultipleLibraries(t *testing.T) {
	writeSource(t, "/src/ds/top.txt")

	client := &mocks.Client{}
	syncer, hook, _ := newTestSyncer(client, Options{})

	client.On("LibrariesByName", mock.Anything, "ds").Return([]galaxy.Library{
		library("L1", "ds", earlier),
		library("L2", "ds", earlier),
	}, nil)
	client.On("FolderContents", mock.Anything, "FL1").Return(nil, nil)
	client.On("UploadFromServerPath", mock.Anything, "L1", "/galaxy/ds/top.txt", uploadTo("FL1")).
		Return(nil, nil)

	var summary Summary
	require.NoError(t, syncer.SyncDataset(context.Background(), "ds", &summary))
	client.AssertExpectations(t)

	var warned bool
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.WarnLevel {
			warned = true
			assert.Equal(t, 2, entry.Data["count"])
		}
	}
	assert.True(t, warned)
}

func TestSyncDatasetMissingSource(t *testing.T) {
	writeSource(t)

	client := &mocks.Client{}
	syncer, hook, _ := newTestSyncer(client, Options{})

	var summary Summary
	require.NoError(t, syncer.SyncDataset(context.Background(), "ds", &summary))
	client.AssertExpectations(t)

	assert.Equal(t, Summary{DatasetsMissing: 1}, summary)
	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "ds", entry.Data["dataset"])
}

func TestSyncDatasetInvalidName(t *testing.T) {
	writeSource(t, "/src/ds/top.txt", "/etc/passwd")

	client := &mocks.Client{}
	syncer, _, _ := newTestSyncer(client, Options{})

	for _, name := range []string{"", "..", "../etc"} {
		var summary Summary
		err := syncer.SyncDataset(context.Background(), name, &summary)
		assert.Error(t, err, name)
		assert.Equal(t, Summary{}, summary, name)
	}
	client.AssertExpectations(t)
}

func TestSyncDatasetDryRunNewLibrary(t *testing.T) {
	writeSource(t, "/src/ds/top.txt", "/src/ds/raw/a.fastq")

	client := &mocks.Client{}
	syncer, _, _ := newTestSyncer(client, Options{DryRun: true})

	// Nothing exists yet, so there's nothing else to look up.
	client.On("LibrariesByName", mock.Anything, "ds").Return(nil, nil)

	var summary Summary
	require.NoError(t, syncer.SyncDataset(context.Background(), "ds", &summary))
	client.AssertExpectations(t)

	assert.Equal(t, Summary{
		LibrariesCreated: 1,
		FoldersCreated:   1,
		FilesUploaded:    2,
		DatasetsSynced:   1,
	}, summary)
}

func TestSyncDatasetDryRunExistingLibrary(t *testing.T) {
	writeSource(t, "/src/ds/top.txt", "/src/ds/raw/a.fastq")

	client := &mocks.Client{}
	syncer, _, _ := newTestSyncer(client, Options{DryRun: true})

	client.On("LibrariesByName", mock.Anything, "ds").
		Return([]galaxy.Library{library("L1", "ds", earlier)}, nil)
	client.On("Folders", mock.Anything, "L1", "/raw").Return(nil, nil)
	client.On("FolderContents", mock.Anything, "FL1").Return([]galaxy.FolderItem{
		{ID: "D9", Name: "top.txt", Type: galaxy.TypeFile},
	}, nil)

	var summary Summary
	require.NoError(t, syncer.SyncDataset(context.Background(), "ds", &summary))
	client.AssertExpectations(t)

	assert.Equal(t, Summary{
		LibrariesReused: 1,
		FoldersCreated:  1,
		FilesUploaded:   2,
		FilesReplaced:   1,
		DatasetsSynced:  1,
	}, summary)
}

func TestRunError(t *testing.T) {
	writeSource(t, "/src/ds1/top.txt", "/src/ds2/top.txt")

	client := &mocks.Client{}
	syncer, _, _ := newTestSyncer(client, Options{})

	client.On("Libraries", mock.Anything).Return(nil, nil)
	client.On("LibrariesByName", mock.Anything, "ds1").Return(nil, nil)
	client.On("CreateLibrary", mock.Anything, "ds1", "ds1", "ds1").
		Return(galaxy.Library{}, goErrors.New("boom"))

	datasets := manifest.Datasets{"ds1": later, "ds2": later}
	_, err := syncer.Run(context.Background(), datasets)
	assert.EqualError(t, err, "sync ds1: create library: boom")
	client.AssertNotCalled(t, "LibrariesByName", mock.Anything, "ds2")
}

func TestRunListError(t *testing.T) {
	client := &mocks.Client{}
	syncer, _, _ := newTestSyncer(client, Options{})

	client.On("Libraries", mock.Anything).Return(nil, goErrors.New("boom"))

	_, err := syncer.Run(context.Background(), manifest.Datasets{"ds": later})
	assert.EqualError(t, err, "list libraries: boom")
}

func TestPlanOptions(t *testing.T) {
	libs := []galaxy.Library{library("1", "stale", later)}
	datasets := manifest.Datasets{"stale": earlier, "new": later}

	tests := []struct {
		name    string
		opts    Options
		expSync []string
		expWarn bool
	}{
		{
			name:    "Default",
			expSync: []string{"new"},
		},
		{
			name:    "Force",
			opts:    Options{Force: true},
			expSync: []string{"new", "stale"},
		},
		{
			name:    "ForceOnly",
			opts:    Options{Force: true, Only: []string{"stale", "unknown"}},
			expSync: []string{"stale"},
			expWarn: true,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			client := &mocks.Client{}
			client.On("Libraries", mock.Anything).Return(libs, nil)
			syncer, hook, _ := newTestSyncer(client, test.opts)

			plan, err := syncer.Plan(context.Background(), datasets)
			require.NoError(t, err)
			assert.Equal(t, test.expSync, names(plan.ToSync()))

			if test.expWarn {
				entry := hook.LastEntry()
				require.NotNil(t, entry)
				assert.Equal(t, "unknown", entry.Data["dataset"])
			} else {
				assert.Empty(t, hook.AllEntries())
			}
		})
	}
}

func TestSummaryString(t *testing.T) {
	summary := Summary{
		LibrariesCreated: 1,
		FoldersReused:    2,
		FilesUploaded:    3,
		FilesReplaced:    1,
		DatasetsSynced:   1,
		DatasetsSkipped:  4,
		Elapsed:          1500 * time.Millisecond,
	}
	assert.Equal(t, "Datasets: 1 synced, 4 skipped, 0 without a local directory\n"+
		"Libraries: 1 created, 0 reused\n"+
		"Folders: 0 created, 2 reused\n"+
		"Files: 3 uploaded (1 replaced)\n"+
		"Took 1.5s", summary.String())
}
