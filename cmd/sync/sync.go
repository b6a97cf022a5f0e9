package sync

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sidkik/libsync/cmd/util"
	"github.com/sidkik/libsync/pkg/config"
	"github.com/sidkik/libsync/pkg/errors"
	"github.com/sidkik/libsync/pkg/galaxy"
	"github.com/sidkik/libsync/pkg/manifest"
	"github.com/sidkik/libsync/pkg/sync"
)

// Mocked for unit testing.
var (
	stdout        io.Writer = os.Stdout
	loadOptions             = util.LoadOptions
	connectGalaxy           = util.ConnectGalaxy
	readManifest            = manifest.Read
)

// New creates a new `sync` command.
func New() *cobra.Command {
	var opts config.Options
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Upload modified datasets into Galaxy data libraries",
		Long: `Upload every dataset that was transferred after its Galaxy data library
was created.

Each dataset gets a library of the same name. The folders of the library
mirror the dataset's directory under the source directory, and existing
files are replaced.`,
		Run: func(cmd *cobra.Command, _ []string) {
			ctx, cancel := util.SignalContext()
			defer cancel()

			if err := run(ctx, opts); err != nil {
				util.HandleCommandError(cmd, err)
			}
		},
	}

	util.AddConnectionFlags(cmd, &opts)
	util.AddSelectionFlags(cmd, &opts)
	cmd.Flags().StringVar(&opts.SourceDir, config.FieldSourceDir, "",
		"The local directory containing one directory per dataset")
	cmd.Flags().StringVar(&opts.GalaxyPath, config.FieldGalaxyPath, "",
		"The path of the source directory on the Galaxy server")
	cmd.Flags().StringVar(&opts.LinkDataOnly, "link-data-only", "",
		fmt.Sprintf("Either %q or %q (default %q)",
			config.LinkCopyFiles, config.LinkToFiles, config.LinkCopyFiles))
	cmd.Flags().StringVar(&opts.FileType, "file-type", "",
		fmt.Sprintf("The Galaxy datatype of the uploaded files (default %q)",
			config.DefaultFileType))
	cmd.Flags().StringVar(&opts.DBKey, "dbkey", "",
		fmt.Sprintf("The genome build of the uploaded files (default %q)",
			config.DefaultDBKey))
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false,
		"Print what would be done without changing anything on the server")
	return cmd
}

func run(ctx context.Context, flags config.Options) error {
	opts, err := loadOptions(flags,
		config.FieldServer, config.FieldAPIKey, config.FieldDatasetsFile,
		config.FieldSourceDir, config.FieldGalaxyPath)
	if err != nil {
		return err
	}

	datasets, err := readManifest(opts.DatasetsFile)
	if err != nil {
		return util.ManifestError(opts.DatasetsFile, err)
	}
	log.WithField("count", len(datasets)).Debug("Read datasets file")

	client, err := connectGalaxy(ctx, opts)
	if err != nil {
		return errors.WithContext(err, "connect to Galaxy")
	}

	syncer := sync.NewSyncer(client, syncOptions(opts), log.StandardLogger(),
		clockwork.NewRealClock())
	summary, err := syncer.Run(ctx, datasets)
	if opts.DryRun {
		fmt.Fprintln(stdout, "Dry run, nothing was changed. Would have done:")
	}
	fmt.Fprintln(stdout, summary)
	return err
}

func syncOptions(opts config.Options) sync.Options {
	return sync.Options{
		SourceDir:  opts.SourceDir,
		GalaxyPath: opts.GalaxyPath,
		Upload: galaxy.UploadOptions{
			LinkDataOnly: opts.LinkDataOnly,
			FileType:     opts.FileType,
			DBKey:        opts.DBKey,
			PreserveDirs: true,
		},
		Only:   opts.Only,
		Force:  opts.Force,
		DryRun: opts.DryRun,
	}
}
