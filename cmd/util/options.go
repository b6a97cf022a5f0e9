package util

import (
	"context"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sidkik/libsync/pkg/config"
	"github.com/sidkik/libsync/pkg/errors"
	"github.com/sidkik/libsync/pkg/galaxy"
)

// Mocked for unit testing.
var (
	parseUserConfig = config.ParseUserIfExists
	newGalaxyClient = galaxy.New
)

// AddConnectionFlags adds the flags needed to reach the Galaxy server.
func AddConnectionFlags(cmd *cobra.Command, opts *config.Options) {
	cmd.Flags().StringVar(&opts.Server, config.FieldServer, "",
		"The base URL of the Galaxy server")
	cmd.Flags().StringVar(&opts.APIKey, config.FieldAPIKey, "",
		"The Galaxy API key. Defaults to $"+config.APIKeyEnvKey+
			", or is prompted for when running in a terminal.")
	cmd.Flags().Float64Var(&opts.RateLimit, "rate-limit", 0,
		"The maximum number of API requests per second (0 means unlimited)")
}

// AddSelectionFlags adds the flags that decide which datasets are synced.
func AddSelectionFlags(cmd *cobra.Command, opts *config.Options) {
	cmd.Flags().StringVar(&opts.DatasetsFile, config.FieldDatasetsFile, "",
		"The manifest of transferred dataset archives")
	cmd.Flags().StringSliceVar(&opts.Only, "only", nil,
		"Only consider the given datasets. Can be repeated.")
	cmd.Flags().BoolVar(&opts.Force, "force", false,
		"Sync datasets even if their library is newer than their last transfer")
}

// LoadOptions merges the command line options over the user config, and
// checks that the `required` fields are set. A missing API key is prompted
// for if possible.
func LoadOptions(flags config.Options, required ...string) (config.Options, error) {
	userConfig, err := parseUserConfig()
	if err != nil {
		return config.Options{}, errors.WithContext(err, "parse user config")
	}

	opts := flags.Merge(userConfig)
	if opts.APIKey == "" && requires(required, config.FieldAPIKey) {
		if key, err := ReadAPIKey(); err == nil {
			opts.APIKey = key
		} else {
			log.WithError(err).Debug("Failed to prompt for API key")
		}
	}

	if err := opts.Require(required...); err != nil {
		return config.Options{}, err
	}
	return opts, nil
}

func requires(fields []string, field string) bool {
	for _, f := range fields {
		if f == field {
			return true
		}
	}
	return false
}

// ManifestError converts an error from reading the datasets file into
// something that can be shown to the user.
func ManifestError(path string, err error) error {
	if _, ok := errors.RootCause(err).(errors.FileNotFound); ok {
		return errors.NewFriendlyError("The datasets file %q doesn't exist.", path)
	}
	return errors.WithContext(err, "read datasets file")
}

// NewGalaxyClient creates a client for the configured server without
// contacting it.
func NewGalaxyClient(opts config.Options) (galaxy.Client, error) {
	client, err := newGalaxyClient(opts.Server, opts.APIKey, opts.RateLimit)
	if err != nil {
		return nil, errors.WithContext(err, "create client")
	}
	return client, nil
}

// ConnectGalaxy creates a client for the configured server, and makes sure
// the server is recent enough.
func ConnectGalaxy(ctx context.Context, opts config.Options) (galaxy.Client, error) {
	client, err := NewGalaxyClient(opts)
	if err != nil {
		return nil, err
	}

	if err := client.CheckVersion(ctx, galaxy.MinimumVersion); err != nil {
		return nil, errors.WithContext(err, "check server version")
	}
	return client, nil
}
