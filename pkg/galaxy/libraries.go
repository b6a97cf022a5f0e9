package galaxy

import (
	"context"
	"fmt"
	"net/url"

	"github.com/sidkik/libsync/pkg/errors"
)

// Libraries returns all libraries that haven't been deleted.
func (c *httpClient) Libraries(ctx context.Context) ([]Library, error) {
	var libs []Library
	if err := c.do(ctx, "GET", "/api/libraries", nil, &libs); err != nil {
		return nil, err
	}

	var active []Library
	for _, lib := range libs {
		if !lib.Deleted {
			active = append(active, lib)
		}
	}
	return active, nil
}

// LibrariesByName returns the libraries called `name`. Galaxy doesn't
// enforce unique names, so there may be more than one.
func (c *httpClient) LibrariesByName(ctx context.Context, name string) ([]Library, error) {
	libs, err := c.Libraries(ctx)
	if err != nil {
		return nil, err
	}

	var matches []Library
	for _, lib := range libs {
		if lib.Name == name {
			matches = append(matches, lib)
		}
	}
	return matches, nil
}

func (c *httpClient) CreateLibrary(ctx context.Context, name, description, synopsis string) (
	Library, error) {

	req := map[string]string{
		"name":        name,
		"description": description,
		"synopsis":    synopsis,
	}

	var lib Library
	if err := c.do(ctx, "POST", "/api/libraries", req, &lib); err != nil {
		return Library{}, err
	}
	return lib, nil
}

func (c *httpClient) getLibrary(ctx context.Context, libraryID string) (Library, error) {
	var lib Library
	path := fmt.Sprintf("/api/libraries/%s", url.PathEscape(libraryID))
	if err := c.do(ctx, "GET", path, nil, &lib); err != nil {
		return Library{}, err
	}
	return lib, nil
}

// Folders returns the folders of the library whose path equals `name`, e.g.
// `/` for the root folder or `/raw/run1`.
func (c *httpClient) Folders(ctx context.Context, libraryID, name string) ([]Folder, error) {
	var items []FolderItem
	if err := c.do(ctx, "GET", contentsPath(libraryID), nil, &items); err != nil {
		return nil, err
	}

	var folders []Folder
	for _, item := range items {
		if item.Type == TypeFolder && item.Name == name {
			folders = append(folders, Folder{ID: item.ID, Name: item.Name})
		}
	}
	return folders, nil
}

// CreateFolder creates the folder `name` inside `baseFolderID`, or inside
// the library's root folder if `baseFolderID` is empty.
func (c *httpClient) CreateFolder(ctx context.Context, libraryID, name, baseFolderID string) (
	Folder, error) {

	if baseFolderID == "" {
		lib, err := c.getLibrary(ctx, libraryID)
		if err != nil {
			return Folder{}, errors.WithContext(err, "get root folder")
		}
		baseFolderID = lib.RootFolderID
	}

	req := map[string]string{
		"create_type": TypeFolder,
		"folder_id":   baseFolderID,
		"name":        name,
	}

	var created []Folder
	if err := c.do(ctx, "POST", contentsPath(libraryID), req, &created); err != nil {
		return Folder{}, err
	}

	if len(created) != 1 {
		return Folder{}, errors.New("expected 1 created folder, got %d", len(created))
	}
	return created[0], nil
}

// DeleteDataset deletes a dataset from the library. Purged datasets can't be
// undeleted, and their files are removed from the server.
func (c *httpClient) DeleteDataset(ctx context.Context, libraryID, datasetID string, purge bool) error {
	path := fmt.Sprintf("%s/%s", contentsPath(libraryID), url.PathEscape(datasetID))
	req := map[string]bool{"purged": purge}
	return c.do(ctx, "DELETE", path, req, nil)
}

// UploadFromServerPath imports the file or directory at `path` on the Galaxy
// server's filesystem into the library.
func (c *httpClient) UploadFromServerPath(ctx context.Context, libraryID, path string,
	opts UploadOptions) ([]Dataset, error) {

	req := map[string]interface{}{
		"create_type":      TypeFile,
		"folder_id":        opts.FolderID,
		"upload_option":    "upload_paths",
		"filesystem_paths": path,
		"link_data_only":   opts.LinkDataOnly,
		"file_type":        opts.FileType,
		"dbkey":            opts.DBKey,
		"preserve_dirs":    opts.PreserveDirs,
	}

	var datasets []Dataset
	if err := c.do(ctx, "POST", contentsPath(libraryID), req, &datasets); err != nil {
		return nil, err
	}
	return datasets, nil
}

func contentsPath(libraryID string) string {
	return fmt.Sprintf("/api/libraries/%s/contents", url.PathEscape(libraryID))
}
