package version

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sidkik/libsync/cmd/util"
	"github.com/sidkik/libsync/pkg/config"
	"github.com/sidkik/libsync/pkg/errors"
	"github.com/sidkik/libsync/pkg/galaxy"
	"github.com/sidkik/libsync/pkg/version"
)

// Mocked for unit testing.
var (
	stdout          io.Writer = os.Stdout
	loadOptions               = util.LoadOptions
	newGalaxyClient           = galaxy.New
)

// New creates a new `version` command.
func New() *cobra.Command {
	var opts config.Options
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the local version of libsync and the Galaxy release.",
		Long: "Print the local version of libsync, and the release of the\n" +
			"configured Galaxy server if one is set.",
		Run: func(_ *cobra.Command, _ []string) {
			if err := run(context.Background(), opts); err != nil {
				util.HandleFatalError(err)
			}
		},
	}
	util.AddConnectionFlags(cmd, &opts)
	return cmd
}

func run(ctx context.Context, flags config.Options) error {
	fmt.Fprintf(stdout, "local version:  %s\n", version.Version)

	opts, err := loadOptions(flags)
	if err != nil {
		return errors.WithContext(err, "load options")
	}

	// The version endpoint doesn't need an API key, so only the server is
	// required.
	if opts.Server == "" {
		return nil
	}

	client, err := newGalaxyClient(opts.Server, opts.APIKey, opts.RateLimit)
	if err != nil {
		return errors.WithContext(err, "create client")
	}

	remoteVersion, err := client.Version(ctx)
	if err != nil {
		return errors.WithContext(err, "get remote version")
	}

	fmt.Fprintf(stdout, "galaxy version: %s\n", remoteVersion.Original())
	if remoteVersion.LessThan(galaxy.MinimumVersion) {
		fmt.Fprintf(stdout, "The Galaxy server is too old, libsync needs at least %s.\n",
			galaxy.MinimumVersion.Original())
	}
	return nil
}
