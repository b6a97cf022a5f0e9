package sync

import (
	"context"
	"fmt"
	"path"
	"path/filepath"

	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"github.com/sidkik/libsync/pkg/errors"
	"github.com/sidkik/libsync/pkg/galaxy"
	"github.com/sidkik/libsync/pkg/manifest"
)

// Options configure a Syncer.
type Options struct {
	// SourceDir contains one directory per dataset.
	SourceDir string

	// GalaxyPath is the path of SourceDir on the Galaxy server.
	GalaxyPath string

	// Upload is used for every file. Its FolderID is ignored.
	Upload galaxy.UploadOptions

	// Only restricts the run to the named datasets.
	Only []string

	// Force syncs datasets even if they're stale.
	Force bool

	// DryRun only looks up what exists on the server. Nothing is created,
	// deleted, or uploaded.
	DryRun bool
}

// Syncer mirrors datasets into Galaxy libraries.
type Syncer struct {
	client galaxy.Client
	opts   Options
	log    *logrus.Logger
	clock  clockwork.Clock
}

// NewSyncer creates a Syncer that talks to the server through `client`.
func NewSyncer(client galaxy.Client, opts Options, log *logrus.Logger,
	clock clockwork.Clock) *Syncer {
	return &Syncer{client: client, opts: opts, log: log, clock: clock}
}

// Mocked out for unit testing.
var snapshotSource = SnapshotSource

// Plan lists the libraries on the server and decides which datasets to sync.
func (s *Syncer) Plan(ctx context.Context, datasets manifest.Datasets) (Plan, error) {
	libs, err := s.client.Libraries(ctx)
	if err != nil {
		return nil, errors.WithContext(err, "list libraries")
	}

	plan := SelectModified(datasets, libs)
	if s.opts.Force {
		plan = plan.Force()
	}

	for _, name := range plan.Unknown(s.opts.Only) {
		s.log.WithField("dataset", name).Warn("Dataset isn't in the manifest")
	}
	return plan.Only(s.opts.Only), nil
}

// Run syncs every dataset that was modified since its last sync. It stops at
// the first error.
func (s *Syncer) Run(ctx context.Context, datasets manifest.Datasets) (Summary, error) {
	start := s.clock.Now()

	var summary Summary
	plan, err := s.Plan(ctx, datasets)
	if err != nil {
		return summary, err
	}

	for _, decision := range plan {
		log := s.log.WithField("dataset", decision.Dataset)
		if !decision.Sync {
			if decision.Reason == ReasonStale {
				log.Info("Dataset was already transferred, skipping")
			} else {
				log.Debugf("Skipping dataset: %s", decision.Reason)
			}
			summary.DatasetsSkipped++
			continue
		}

		log.WithField("reason", decision.Reason).Info("Syncing dataset")
		if err := s.SyncDataset(ctx, decision.Dataset, &summary); err != nil {
			summary.Elapsed = s.clock.Now().Sub(start)
			return summary, errors.WithContext(err, fmt.Sprintf("sync %s", decision.Dataset))
		}
	}

	summary.Elapsed = s.clock.Now().Sub(start)
	return summary, nil
}

// datasetSync holds the state of syncing a single dataset.
type datasetSync struct {
	*Syncer
	dataset string
	log     *logrus.Entry
	summary *Summary

	// libraryID is empty if the library would be created in a dry run.
	libraryID string

	// folderIDs maps library paths (e.g. `/raw/run1`) to folder IDs. The ID
	// is empty for folders that would be created in a dry run.
	folderIDs map[string]string
}

// SyncDataset mirrors the directory of `dataset` into its library, and adds
// what it did to `summary`.
func (s *Syncer) SyncDataset(ctx context.Context, dataset string, summary *Summary) error {
	if err := manifest.ValidateName(dataset); err != nil {
		return err
	}

	log := s.log.WithField("dataset", dataset)
	root := filepath.Join(s.opts.SourceDir, dataset)
	tree, err := snapshotSource(root)
	if err != nil {
		if _, ok := errors.RootCause(err).(errors.FileNotFound); ok {
			log.WithField("path", root).Warn("Dataset has no local directory, skipping")
			summary.DatasetsMissing++
			return nil
		}
		return errors.WithContext(err, "list local files")
	}

	ds := datasetSync{
		Syncer:    s,
		dataset:   dataset,
		log:       log,
		summary:   summary,
		folderIDs: map[string]string{},
	}

	lib, err := ds.ensureLibrary(ctx)
	if err != nil {
		return err
	}
	ds.libraryID = lib.ID
	ds.folderIDs[galaxy.RootFolderName] = lib.RootFolderID

	for _, dir := range tree.Dirs {
		if err := ds.ensureFolder(ctx, dir); err != nil {
			return errors.WithContext(err, fmt.Sprintf("create folder %s", dir))
		}
	}

	for _, f := range tree.Files {
		if err := ds.upload(ctx, f); err != nil {
			return errors.WithContext(err, fmt.Sprintf("upload %s", f.RelativePath()))
		}
	}

	summary.DatasetsSynced++
	log.WithFields(logrus.Fields{
		"folders": len(tree.Dirs),
		"files":   len(tree.Files),
	}).Info("Synced dataset")
	return nil
}

// ensureLibrary returns the library named after the dataset, creating it
// if it doesn't exist.
func (ds *datasetSync) ensureLibrary(ctx context.Context) (galaxy.Library, error) {
	libs, err := ds.client.LibrariesByName(ctx, ds.dataset)
	if err != nil {
		return galaxy.Library{}, errors.WithContext(err, "look up library")
	}

	if len(libs) > 0 {
		if len(libs) > 1 {
			ds.log.WithField("count", len(libs)).Warn(
				"Multiple libraries have the dataset's name. Using the first one.")
		}
		ds.summary.LibrariesReused++
		return libs[0], nil
	}

	ds.summary.LibrariesCreated++
	if ds.opts.DryRun {
		ds.log.Info("Would create library")
		return galaxy.Library{Name: ds.dataset}, nil
	}

	lib, err := ds.client.CreateLibrary(ctx, ds.dataset, ds.dataset, ds.dataset)
	if err != nil {
		return galaxy.Library{}, errors.WithContext(err, "create library")
	}
	ds.log.WithField("library", lib.ID).Info("Created library")
	return lib, nil
}

// ensureFolder makes sure the local directory `dir` exists as a folder in
// the library. Its parent must have been handled already.
func (ds *datasetSync) ensureFolder(ctx context.Context, dir string) error {
	name := libraryPath(dir)

	if ds.libraryID != "" {
		folders, err := ds.client.Folders(ctx, ds.libraryID, name)
		if err != nil {
			return errors.WithContext(err, "look up folder")
		}

		if len(folders) > 0 {
			ds.folderIDs[name] = folders[0].ID
			ds.summary.FoldersReused++
			return nil
		}
	}

	ds.summary.FoldersCreated++
	if ds.opts.DryRun {
		ds.log.WithField("folder", name).Debug("Would create folder")
		ds.folderIDs[name] = ""
		return nil
	}

	parentID, ok := ds.folderIDs[path.Dir(name)]
	if !ok || parentID == "" {
		return errors.New("parent of %s is unknown", name)
	}

	folder, err := ds.client.CreateFolder(ctx, ds.libraryID, path.Base(name), parentID)
	if err != nil {
		return err
	}
	ds.folderIDs[name] = folder.ID
	ds.log.WithField("folder", name).Debug("Created folder")
	return nil
}

// upload imports `f` into its folder, purging any file of the same name
// that's already there.
func (ds *datasetSync) upload(ctx context.Context, f LocalFile) error {
	folderName := libraryPath(f.Dir)
	folderID, ok := ds.folderIDs[folderName]
	if !ok {
		return errors.New("folder %s is unknown", folderName)
	}

	if folderID != "" {
		existing, err := ds.findFile(ctx, folderID, f.Name)
		if err != nil {
			return errors.WithContext(err, "list folder")
		}

		if existing != "" {
			ds.summary.FilesReplaced++
			ds.log.WithField("file", f.RelativePath()).Debug("Replacing existing file")
			if !ds.opts.DryRun {
				if err := ds.client.DeleteDataset(ctx, ds.libraryID, existing, true); err != nil {
					return errors.WithContext(err, "delete existing file")
				}
			}
		}
	}

	ds.summary.FilesUploaded++
	serverPath := ds.serverPath(f)
	if ds.opts.DryRun {
		ds.log.WithField("path", serverPath).Debug("Would upload file")
		return nil
	}

	opts := ds.opts.Upload
	opts.FolderID = folderID
	if _, err := ds.client.UploadFromServerPath(ctx, ds.libraryID, serverPath, opts); err != nil {
		return err
	}
	ds.log.WithField("path", serverPath).Debug("Uploaded file")
	return nil
}

// findFile returns the ID of the file called `name` in the folder, or an
// empty string if there is none.
func (ds *datasetSync) findFile(ctx context.Context, folderID, name string) (string, error) {
	items, err := ds.client.FolderContents(ctx, folderID)
	if err != nil {
		return "", err
	}

	for _, item := range items {
		if item.Type == galaxy.TypeFile && item.Name == name {
			return item.ID, nil
		}
	}
	return "", nil
}

// serverPath returns where the Galaxy server sees the local file.
func (ds *datasetSync) serverPath(f LocalFile) string {
	return path.Join(ds.opts.GalaxyPath, ds.dataset, filepath.ToSlash(f.Dir), f.Name)
}

// libraryPath converts a directory relative to the dataset root into the
// folder name used by the library, e.g. `raw/run1` into `/raw/run1`.
func libraryPath(dir string) string {
	return path.Join(galaxy.RootFolderName, filepath.ToSlash(dir))
}
