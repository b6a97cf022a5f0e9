package galaxy

import (
	"strings"
	"time"

	"github.com/sidkik/libsync/pkg/errors"
)

// Item types in folder listings.
const (
	TypeFile   = "file"
	TypeFolder = "folder"
)

// RootFolderName is the name of the top folder of every library.
const RootFolderName = "/"

// Library is a data library.
type Library struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	Synopsis     string `json:"synopsis"`
	RootFolderID string `json:"root_folder_id"`
	CreateTime   Time   `json:"create_time"`
	Deleted      bool   `json:"deleted"`
}

// Folder is a folder within a library. Name is the path from the library
// root, e.g. `/raw/run1`, when returned by Folders. CreateFolder only
// returns the folder's own name.
type Folder struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// FolderItem is an entry of a folder listing.
type FolderItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Type string `json:"type"`
}

// Dataset is a library dataset created by an upload.
type Dataset struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// UploadOptions control how files on the server's filesystem are imported.
type UploadOptions struct {
	FolderID string

	// LinkDataOnly is either `copy_files` or `link_to_files`.
	LinkDataOnly string
	FileType     string
	DBKey        string
	PreserveDirs bool
}

// Galaxy reports times in UTC without a zone.
var timeLayouts = []string{
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	time.RFC3339Nano,
}

// Time is a timestamp as reported by the Galaxy API.
type Time struct {
	time.Time
}

// ParseTime parses a Galaxy timestamp.
func ParseTime(s string) (Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return Time{t.UTC()}, nil
		}
	}
	return Time{}, errors.New("unrecognized time format %q", s)
}

// UnmarshalJSON implements json.Unmarshaler.
func (t *Time) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*t = Time{}
		return nil
	}

	parsed, err := ParseTime(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
