package sync

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/sidkik/libsync/pkg/errors"
)

// Mocked out for unit testing.
var fs = afero.NewOsFs()

// A LocalFile is a file in a dataset's source directory.
type LocalFile struct {
	// Dir is the directory containing the file, relative to the dataset's
	// source directory. It's empty for files at the top level.
	Dir string

	Name string

	// ContentsPath is the path to the file on the local machine.
	ContentsPath string
}

// RelativePath returns the path of the file relative to the dataset's
// source directory.
func (f LocalFile) RelativePath() string {
	return filepath.Join(f.Dir, f.Name)
}

// LocalTree is the contents of a dataset's source directory.
type LocalTree struct {
	// Dirs are relative to the source directory. Parents always come before
	// their children.
	Dirs  []string
	Files []LocalFile
}

// SnapshotSource lists the directories and files under `root`. Hidden files
// are left out.
func SnapshotSource(root string) (LocalTree, error) {
	fi, err := fs.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return LocalTree{}, errors.FileNotFound{Path: root}
		}
		return LocalTree{}, errors.WithContext(err, "stat")
	}

	if !fi.IsDir() {
		return LocalTree{}, errors.New("%q is not a directory", root)
	}

	var tree LocalTree
	err = afero.Walk(fs, root, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relativePath, err := filepath.Rel(root, path)
		if err != nil {
			return errors.WithContext(err, "normalize path")
		}
		if strings.HasPrefix(relativePath, "..") {
			return errors.New("%q is outside of %q", path, root)
		}

		if relativePath == "." {
			return nil
		}

		if fi.IsDir() {
			tree.Dirs = append(tree.Dirs, relativePath)
			return nil
		}

		if strings.HasPrefix(fi.Name(), ".") {
			return nil
		}

		dir := filepath.Dir(relativePath)
		if dir == "." {
			dir = ""
		}
		tree.Files = append(tree.Files, LocalFile{
			Dir:          dir,
			Name:         fi.Name(),
			ContentsPath: path,
		})
		return nil
	})
	if err != nil {
		return LocalTree{}, errors.WithContext(err, "walk")
	}
	return tree, nil
}
