package sync

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sidkik/libsync/pkg/config"
	"github.com/sidkik/libsync/pkg/errors"
	"github.com/sidkik/libsync/pkg/galaxy"
	"github.com/sidkik/libsync/pkg/galaxy/mocks"
	"github.com/sidkik/libsync/pkg/manifest"
)

var testOpts = config.Options{
	Server:       "https://galaxy.example.org",
	APIKey:       "key",
	DatasetsFile: "/data/datasets.tsv",
	SourceDir:    "/data/extracted",
	GalaxyPath:   "/galaxy/extracted",
	LinkDataOnly: config.LinkToFiles,
	FileType:     config.DefaultFileType,
	DBKey:        config.DefaultDBKey,
}

func mockOptions(opts config.Options, err error) {
	loadOptions = func(config.Options, ...string) (config.Options, error) {
		return opts, err
	}
}

func TestRunSkipsStale(t *testing.T) {
	transferred := time.Date(2020, 3, 1, 10, 0, 0, 0, time.UTC)
	mockOptions(testOpts, nil)
	readManifest = func(path string) (manifest.Datasets, error) {
		assert.Equal(t, testOpts.DatasetsFile, path)
		return manifest.Datasets{"ds": transferred}, nil
	}

	client := &mocks.Client{}
	client.On("Libraries", mock.Anything).Return([]galaxy.Library{{
		ID:         "L1",
		Name:       "ds",
		CreateTime: galaxy.Time{Time: transferred.Add(time.Hour)},
	}}, nil)
	connectGalaxy = func(_ context.Context, opts config.Options) (galaxy.Client, error) {
		assert.Equal(t, testOpts, opts)
		return client, nil
	}

	var out bytes.Buffer
	stdout = &out
	require.NoError(t, run(context.Background(), config.Options{}))
	client.AssertExpectations(t)
	assert.Contains(t, out.String(), "Datasets: 0 synced, 1 skipped")
}

func TestRunDryRun(t *testing.T) {
	opts := testOpts
	opts.DryRun = true
	mockOptions(opts, nil)
	readManifest = func(string) (manifest.Datasets, error) {
		return manifest.Datasets{}, nil
	}

	client := &mocks.Client{}
	client.On("Libraries", mock.Anything).Return(nil, nil)
	connectGalaxy = func(context.Context, config.Options) (galaxy.Client, error) {
		return client, nil
	}

	var out bytes.Buffer
	stdout = &out
	require.NoError(t, run(context.Background(), config.Options{}))
	assert.Contains(t, out.String(), "Dry run, nothing was changed.")
}

func TestRunErrors(t *testing.T) {
	mockOptions(config.Options{}, errors.MissingFieldError{Field: config.FieldServer})
	err := run(context.Background(), config.Options{})
	assert.Equal(t, errors.MissingFieldError{Field: config.FieldServer}, err)

	mockOptions(testOpts, nil)
	readManifest = func(path string) (manifest.Datasets, error) {
		return nil, errors.FileNotFound{Path: path}
	}
	err = run(context.Background(), config.Options{})
	assert.Equal(t, errors.NewFriendlyError(
		`The datasets file "/data/datasets.tsv" doesn't exist.`), err)

	readManifest = func(string) (manifest.Datasets, error) {
		return manifest.Datasets{}, nil
	}
	connectGalaxy = func(context.Context, config.Options) (galaxy.Client, error) {
		return nil, errors.New("refused")
	}
	err = run(context.Background(), config.Options{})
	assert.EqualError(t, err, "connect to Galaxy: refused")
}

func TestSyncOptions(t *testing.T) {
	opts := testOpts
	opts.Only = []string{"ds"}
	opts.Force = true

	assert.Equal(t, "/galaxy/extracted", syncOptions(opts).GalaxyPath)
	assert.Equal(t, galaxy.UploadOptions{
		LinkDataOnly: config.LinkToFiles,
		FileType:     config.DefaultFileType,
		DBKey:        config.DefaultDBKey,
		PreserveDirs: true,
	}, syncOptions(opts).Upload)
	assert.True(t, syncOptions(opts).Force)
	assert.Equal(t, []string{"ds"}, syncOptions(opts).Only)
}
