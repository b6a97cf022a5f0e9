package config

import (
	"os"
	"path/filepath"

	"github.com/ghodss/yaml"
	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/afero"

	"github.com/sidkik/libsync/pkg/errors"
)

const (
	// UserConfigPath is the default path to the libsync user config.
	UserConfigPath = "~/.libsync.yaml"

	// InitialUserConfigVersion is the version assumed for config files that
	// don't specify one.
	InitialUserConfigVersion = "v1alpha1"

	// SupportedUserConfigVersion is the config version understood by this
	// binary.
	SupportedUserConfigVersion = "v1alpha1"
)

// User holds the defaults for every run. Any of them can be overridden on
// the command line.
type User struct {
	Version string `json:"version,omitempty"`

	// Server is the base URL of the Galaxy server, e.g.
	// https://usegalaxy.example.org.
	Server string `json:"server"`
	APIKey string `json:"apiKey,omitempty"`

	// DatasetsFile is the manifest listing the transferred archives.
	DatasetsFile string `json:"datasetsFile"`

	// SourceDir holds one extracted directory per dataset.
	SourceDir string `json:"sourceDir"`

	// GalaxyPath is where SourceDir is visible on the Galaxy server's
	// filesystem. It's never expanded locally.
	GalaxyPath string `json:"galaxyPath"`

	LinkDataOnly string  `json:"linkDataOnly,omitempty"`
	FileType     string  `json:"fileType,omitempty"`
	DBKey        string  `json:"dbkey,omitempty"`
	RateLimit    float64 `json:"rateLimit,omitempty"`
}

func (u User) getVersion() string {
	return u.Version
}

// homedirExpand will be overridden in mock tests
var homedirExpand = homedir.Expand

// ParseUser attempts to parse the User stored in the default path.
func ParseUser() (User, error) {
	path, err := GetUserConfigPath()
	if err != nil {
		return User{}, errors.WithContext(err, "expand config path")
	}

	config := User{Version: InitialUserConfigVersion}
	if err := parseConfig(path, &config, SupportedUserConfigVersion); err != nil {
		if _, ok := err.(errors.FileNotFound); ok {
			return User{}, errors.NewFriendlyError("The libsync user config "+
				"file doesn't exist at %q. Please run `libsync config` to "+
				"create it, or pass all settings as flags.", path)
		}
		return User{}, errors.WithContext(err, "parse")
	}

	// Local paths are evaluated relative to the config file.
	for _, field := range []*string{&config.DatasetsFile, &config.SourceDir} {
		if *field, err = resolveLocalPath(*field, filepath.Dir(path)); err != nil {
			return User{}, errors.WithContext(err, "expand path")
		}
	}
	return config, nil
}

// ParseUserIfExists is like ParseUser, but returns an empty config if the
// file doesn't exist, so that every setting can come from flags instead.
func ParseUserIfExists() (User, error) {
	path, err := GetUserConfigPath()
	if err != nil {
		return User{}, errors.WithContext(err, "expand config path")
	}

	if _, err := fs.Stat(path); os.IsNotExist(err) {
		return User{}, nil
	}
	return ParseUser()
}

func resolveLocalPath(path, relativeTo string) (string, error) {
	if path == "" {
		return "", nil
	}

	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", err
	}

	if !filepath.IsAbs(expanded) {
		expanded = filepath.Join(relativeTo, expanded)
	}
	return expanded, nil
}

// WriteUser writes the given user config to disk. The file is only readable
// by the owner since it may contain the API key.
func WriteUser(cfg User) error {
	cfg.Version = SupportedUserConfigVersion
	path, err := GetUserConfigPath()
	if err != nil {
		return errors.WithContext(err, "expand config path")
	}

	yamlBytes, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.WithContext(err, "marshal")
	}

	if err := afero.WriteFile(fs, path, yamlBytes, 0600); err != nil {
		return errors.WithContext(err, "write")
	}
	return nil
}

// GetUserConfigPath returns the expanded path to the user's libsync
// configuration, so it can be passed directly to file operations.
func GetUserConfigPath() (string, error) {
	return homedirExpand(UserConfigPath)
}
