package cmd

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	configCmd "github.com/sidkik/libsync/cmd/config"
	"github.com/sidkik/libsync/cmd/status"
	syncCmd "github.com/sidkik/libsync/cmd/sync"
	"github.com/sidkik/libsync/cmd/util"
	"github.com/sidkik/libsync/cmd/version"
)

// verboseLogKey is the environment variable used to enable verbose logging.
// When it's set to `true`, Debug events are logged, rather than just Info and
// above.
const verboseLogKey = "LIBSYNC_LOG_VERBOSE"

// Execute runs the main CLI process.
func Execute() {
	if os.Getenv(verboseLogKey) == "true" {
		log.SetLevel(log.DebugLevel)
	}

	rootCmd := &cobra.Command{
		Use:   "libsync",
		Short: "Mirror transferred datasets into Galaxy data libraries",
		Long: "libsync uploads the datasets listed in a datasets file into Galaxy data\n" +
			"libraries. Datasets whose library is newer than their last transfer are\n" +
			"skipped.",
		SilenceUsage: true,

		// The call to rootCmd.Execute prints the error, so we silence errors
		// here to avoid double printing.
		SilenceErrors: true,
	}
	rootCmd.AddCommand(
		configCmd.New(),
		status.New(),
		syncCmd.New(),
		version.New(),
	)

	if err := rootCmd.Execute(); err != nil {
		util.HandleFatalError(err)
	}
}
