package config

import (
	"os"
	"strings"

	"github.com/sidkik/libsync/pkg/errors"
)

// APIKeyEnvKey is consulted when the API key isn't set by flag or config.
const APIKeyEnvKey = "LIBSYNC_API_KEY"

// Names of the settings, matching the command line flags.
const (
	FieldServer       = "server"
	FieldAPIKey       = "api-key"
	FieldDatasetsFile = "datasets-file"
	FieldSourceDir    = "source-dir"
	FieldGalaxyPath   = "galaxy-path"
)

// Upload modes understood by the Galaxy library upload API.
const (
	LinkCopyFiles   = "copy_files"
	LinkToFiles     = "link_to_files"
	DefaultFileType = "auto"
	DefaultDBKey    = "?"
)

// Mocked for unit testing.
var getenv = os.Getenv

// Options are the settings for a single run, after the command line flags
// have been merged over the user config.
type Options struct {
	Server       string
	APIKey       string
	DatasetsFile string
	SourceDir    string
	GalaxyPath   string
	LinkDataOnly string
	FileType     string
	DBKey        string
	RateLimit    float64

	// Only restricts the run to the named datasets.
	Only []string

	// Force syncs datasets that look stale.
	Force  bool
	DryRun bool
}

// Merge fills every unset option from `user`, then from the environment and
// the built-in defaults.
func (opts Options) Merge(user User) Options {
	fill := func(field *string, fallbacks ...string) {
		for _, fallback := range fallbacks {
			if *field != "" {
				return
			}
			*field = fallback
		}
	}

	fill(&opts.Server, user.Server)
	fill(&opts.APIKey, user.APIKey, getenv(APIKeyEnvKey))
	fill(&opts.DatasetsFile, user.DatasetsFile)
	fill(&opts.SourceDir, user.SourceDir)
	fill(&opts.GalaxyPath, user.GalaxyPath)
	fill(&opts.LinkDataOnly, user.LinkDataOnly, LinkCopyFiles)
	fill(&opts.FileType, user.FileType, DefaultFileType)
	fill(&opts.DBKey, user.DBKey, DefaultDBKey)
	if opts.RateLimit == 0 {
		opts.RateLimit = user.RateLimit
	}

	opts.Server = strings.TrimRight(opts.Server, "/")
	return opts
}

// Require returns a MissingFieldError for the first of `fields` that's
// unset, and checks the values that have a fixed set of choices.
func (opts Options) Require(fields ...string) error {
	values := map[string]string{
		FieldServer:       opts.Server,
		FieldAPIKey:       opts.APIKey,
		FieldDatasetsFile: opts.DatasetsFile,
		FieldSourceDir:    opts.SourceDir,
		FieldGalaxyPath:   opts.GalaxyPath,
	}
	for _, field := range fields {
		if values[field] == "" {
			return errors.MissingFieldError{Field: field}
		}
	}

	switch opts.LinkDataOnly {
	case "", LinkCopyFiles, LinkToFiles:
	default:
		return errors.NewFriendlyError("Unknown link-data-only mode %q.\n"+
			"Use %q to copy the files into Galaxy, or %q to link to them in place.",
			opts.LinkDataOnly, LinkCopyFiles, LinkToFiles)
	}

	if opts.RateLimit < 0 {
		return errors.NewFriendlyError("The rate limit must not be negative (got %v).",
			opts.RateLimit)
	}
	return nil
}
