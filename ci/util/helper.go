package util

import (
	"bytes"
	"context"
	"fmt"
	"io/ioutil"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/sidkik/libsync/pkg/galaxy"
	"github.com/sidkik/libsync/pkg/manifest"
)

// TestHelper contains methods commonly used during integration tests.
type TestHelper struct {
	Galaxy galaxy.Client

	// SourceDir must be mounted at GalaxyPath on the Galaxy server.
	SourceDir  string
	GalaxyPath string

	server string
	apiKey string
}

// NewTestHelper creates a new TestHelper.
func NewTestHelper(server, apiKey, sourceDir, galaxyPath string) (*TestHelper, error) {
	client, err := galaxy.New(server, apiKey, 0)
	if err != nil {
		return nil, err
	}

	return &TestHelper{
		Galaxy:     client,
		SourceDir:  sourceDir,
		GalaxyPath: galaxyPath,
		server:     server,
		apiKey:     apiKey,
	}, nil
}

// NewDataset creates a uniquely named dataset directory containing `files`,
// which map relative paths to contents.
func (helper *TestHelper) NewDataset(files map[string]string) (string, error) {
	name := "libsync-ci-" + uuid.New().String()
	for path, contents := range files {
		path = filepath.Join(helper.SourceDir, name, path)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return "", err
		}
		if err := ioutil.WriteFile(path, []byte(contents), 0644); err != nil {
			return "", err
		}
	}
	return name, nil
}

// WriteManifest writes a datasets file listing the archives of `datasets`
// as transferred at `transferred`.
func (helper *TestHelper) WriteManifest(transferred time.Time, datasets ...string) (string, error) {
	var buf bytes.Buffer
	for _, dataset := range datasets {
		fmt.Fprintf(&buf, "%s%s\t%s\n", dataset, manifest.ArchiveSuffix,
			transferred.UTC().Format(manifest.TimeLayout))
	}

	f, err := ioutil.TempFile("", "datasets-*.tsv")
	if err != nil {
		return "", err
	}
	defer f.Close()

	if _, err := f.Write(buf.Bytes()); err != nil {
		return "", err
	}
	return f.Name(), nil
}

// Run runs the given libsync command against the test server, and returns
// its combined output.
func (helper *TestHelper) Run(ctx context.Context, args ...string) (string, error) {
	args = append(args,
		"--server", helper.server,
		"--api-key", helper.apiKey)
	cmd := exec.CommandContext(ctx, "libsync", args...)
	cmd.Env = append(os.Environ(), "LIBSYNC_LOG_VERBOSE=true")

	out, err := cmd.CombinedOutput()
	log.WithField("args", args).Debugf("libsync output:\n%s", out)
	return string(out), err
}

// Cleanup deletes the local copy of `dataset`.
func (helper *TestHelper) Cleanup(dataset string) {
	if err := os.RemoveAll(filepath.Join(helper.SourceDir, dataset)); err != nil {
		log.WithError(err).WithField("dataset", dataset).Warn("Failed to cleanup dataset")
	}
}
