package status

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/buger/goterm"
	"github.com/jonboulle/clockwork"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sidkik/libsync/cmd/util"
	"github.com/sidkik/libsync/pkg/config"
	"github.com/sidkik/libsync/pkg/manifest"
	"github.com/sidkik/libsync/pkg/sync"
)

// Mocked for unit testing.
var (
	stdout          io.Writer = os.Stdout
	loadOptions               = util.LoadOptions
	newGalaxyClient           = util.NewGalaxyClient
	readManifest              = manifest.Read
)

// New creates a new `status` command.
func New() *cobra.Command {
	var opts config.Options
	var noColor bool
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show which datasets would be synced",
		Long: "Compare the datasets file with the libraries on the Galaxy server, " +
			"and print\nwhether each dataset would be synced. Nothing is changed.",
		Run: func(cmd *cobra.Command, _ []string) {
			ctx, cancel := util.SignalContext()
			defer cancel()

			if err := run(ctx, opts, !noColor); err != nil {
				util.HandleCommandError(cmd, err)
			}
		},
	}
	util.AddConnectionFlags(cmd, &opts)
	util.AddSelectionFlags(cmd, &opts)
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Don't color the output")
	return cmd
}

func run(ctx context.Context, flags config.Options, color bool) error {
	opts, err := loadOptions(flags,
		config.FieldServer, config.FieldAPIKey, config.FieldDatasetsFile)
	if err != nil {
		return err
	}

	datasets, err := readManifest(opts.DatasetsFile)
	if err != nil {
		return util.ManifestError(opts.DatasetsFile, err)
	}

	// Only the library listing is needed, so the version check is skipped.
	client, err := newGalaxyClient(opts)
	if err != nil {
		return err
	}

	syncer := sync.NewSyncer(client, sync.Options{Only: opts.Only, Force: opts.Force},
		log.StandardLogger(), clockwork.NewRealClock())
	plan, err := syncer.Plan(ctx, datasets)
	if err != nil {
		return err
	}

	printPlan(stdout, plan, color)
	return nil
}

func printPlan(out io.Writer, plan sync.Plan, color bool) {
	w := tabwriter.NewWriter(out, 0, 10, 3, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "DATASET\tTRANSFERRED\tLIBRARY CREATED\tSTATUS")
	for _, decision := range plan {
		created := "-"
		if decision.Library != nil {
			created = formatTime(decision.Library.CreateTime.Time)
		}

		status := statusString(decision)
		if color {
			status = goterm.Color(status, statusColor(decision))
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", decision.Dataset,
			formatTime(decision.Transferred), created, status)
	}

	toSync, skipped := len(plan.ToSync()), len(plan.Skipped())
	fmt.Fprintf(w, "\n%d to sync, %d skipped\n", toSync, skipped)
}

func statusString(decision sync.Decision) string {
	if decision.Sync {
		return fmt.Sprintf("sync (%s)", decision.Reason)
	}
	return fmt.Sprintf("skip (%s)", decision.Reason)
}

func statusColor(decision sync.Decision) int {
	switch decision.Reason {
	case sync.ReasonNew:
		return goterm.GREEN
	case sync.ReasonModified, sync.ReasonForced:
		return goterm.YELLOW
	default:
		return goterm.BLACK
	}
}

func formatTime(t time.Time) string {
	return t.Format(manifest.TimeLayout)
}
