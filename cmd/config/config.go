package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/sidkik/libsync/cmd/util"
	"github.com/sidkik/libsync/pkg/config"
	"github.com/sidkik/libsync/pkg/errors"
)

// Mocked for unit testing.
var (
	stdout              io.Writer = os.Stdout
	stdin               io.Reader = os.Stdin
	guessDefaults                 = guessDefaultsImpl
	parseUserConfig               = config.ParseUser
	writeUserConfig               = config.WriteUser
	readAPIKey                    = util.ReadAPIKey
	stat                          = os.Stat
	getWorkingDirectory           = os.Getwd
)

// New creates a new `config` command.
func New() *cobra.Command {
	var cliOpts config.User
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Setup the libsync user configuration",
		Run: func(_ *cobra.Command, _ []string) {
			if err := SetupConfig(cliOpts); err != nil {
				err = errors.NewFriendlyError("Failed to setup configuration:\n%s", err)
				util.HandleFatalError(err)
			}
		},
	}
	cmd.Flags().StringVar(&cliOpts.Server, config.FieldServer, "",
		"Set the Galaxy server in the config. "+
			"Optional: If not set, `libsync config` will interactively prompt.")
	cmd.Flags().StringVar(&cliOpts.DatasetsFile, config.FieldDatasetsFile, "",
		"Set the datasets file in the config. "+
			"Optional: If not set, `libsync config` will interactively prompt.")
	cmd.Flags().StringVar(&cliOpts.SourceDir, config.FieldSourceDir, "",
		"Set the source directory in the config. "+
			"Optional: If not set, `libsync config` will interactively prompt.")
	cmd.Flags().StringVar(&cliOpts.GalaxyPath, config.FieldGalaxyPath, "",
		"Set the path of the source directory on the Galaxy server. "+
			"Optional: If not set, `libsync config` will interactively prompt.")

	// Setup the commands for querying the contents of the user config.
	type getterSpec struct {
		use, short string
		fn         func(config.User) string
	}

	getters := []getterSpec{
		{
			use:   "get-server",
			short: "Get the currently configured Galaxy server",
			fn:    func(cfg config.User) string { return cfg.Server },
		},
		{
			use:   "get-galaxy-path",
			short: "Get the path of the source directory on the Galaxy server",
			fn:    func(cfg config.User) string { return cfg.GalaxyPath },
		},
	}
	for _, getter := range getters {
		getter := getter
		cmd.AddCommand(&cobra.Command{
			Use:   getter.use,
			Short: getter.short,
			Run: func(_ *cobra.Command, _ []string) {
				cfg, err := parseUserConfig()
				if err != nil {
					err = errors.WithContext(err, "read config")
					util.HandleFatalError(err)
				}

				fmt.Fprintln(stdout, getter.fn(cfg))
			},
		})
	}

	return cmd
}

// SetupConfig prompts for any settings not in `cliOpts`, and writes the
// result to the user config.
func SetupConfig(cliOpts config.User) error {
	cfg, err := generateConfig(cliOpts)
	if err != nil {
		return errors.WithContext(err, "generate config")
	}

	if err := writeUserConfig(cfg); err != nil {
		return errors.WithContext(err, "write config")
	}

	path, err := config.GetUserConfigPath()
	if err != nil {
		return errors.WithContext(err, "get user config path")
	}

	fmt.Fprintf(stdout, "Wrote config to %s\n", path)
	return nil
}

func serverValidationFn(server string) (string, bool) {
	if strings.HasPrefix(server, "http://") || strings.HasPrefix(server, "https://") {
		return "", true
	}
	return "The server must be a URL starting with http:// or https://.", false
}

func absPathValidationFn(path string) (string, bool) {
	if strings.HasPrefix(path, "/") {
		return "", true
	}
	return "The path on the Galaxy server must be absolute.", false
}

type prompt struct {
	helpString, prompt, defaultAnswer, currAnswer string
	field                                         *string
	validationFn                                  func(string) (string, bool)
}

// generateConfig interacts with the user to decide what the user's desired
// configuration is.
// It makes best guesses at reasonable defaults, and allows users to explicitly
// override them if desired.
func generateConfig(cliOpts config.User) (config.User, error) {
	defaults := guessDefaults()
	currConfig, err := parseUserConfig()
	if err != nil {
		currConfig = config.User{}
		log.WithError(err).Debug("Failed to read current config")
	}

	// Settings without prompts are kept as they are.
	cfg := currConfig
	cfg.Server = cliOpts.Server
	cfg.DatasetsFile = cliOpts.DatasetsFile
	cfg.SourceDir = cliOpts.SourceDir
	cfg.GalaxyPath = cliOpts.GalaxyPath

	var prompts []prompt
	if cliOpts.Server == "" {
		prompts = append(prompts, prompt{
			helpString: "Enter the URL of the Galaxy server.\n" +
				"Datasets are uploaded into data libraries on this server.",
			prompt:       "Galaxy server",
			currAnswer:   currConfig.Server,
			field:        &cfg.Server,
			validationFn: serverValidationFn,
		})
	}

	if cliOpts.DatasetsFile == "" {
		prompts = append(prompts, prompt{
			helpString: "Enter the path to the datasets file.\n" +
				"It lists every transferred archive along with the time it was transferred.",
			prompt:        "Datasets file",
			defaultAnswer: defaults.DatasetsFile,
			currAnswer:    currConfig.DatasetsFile,
			field:         &cfg.DatasetsFile,
		})
	}

	if cliOpts.SourceDir == "" {
		prompts = append(prompts, prompt{
			helpString: "Enter the directory containing the extracted datasets.\n" +
				"It should have one directory per dataset.\n" +
				"It defaults to the current directory.",
			prompt:        "Source directory",
			defaultAnswer: defaults.SourceDir,
			currAnswer:    currConfig.SourceDir,
			field:         &cfg.SourceDir,
		})
	}

	if cliOpts.GalaxyPath == "" {
		prompts = append(prompts, prompt{
			helpString: "Enter the path of the source directory on the Galaxy server.\n" +
				"Galaxy imports the files from this path, so it must be mounted on the server.",
			prompt:        "Path on the Galaxy server",
			defaultAnswer: defaults.GalaxyPath,
			currAnswer:    currConfig.GalaxyPath,
			field:         &cfg.GalaxyPath,
			validationFn:  absPathValidationFn,
		})
	}

	for _, prompt := range prompts {
		var resp string
		for {
			resp, err = promptUser(prompt.helpString, prompt.prompt,
				prompt.defaultAnswer, prompt.currAnswer)
			if err != nil {
				return config.User{}, errors.WithContext(err, "read response")
			}

			if prompt.validationFn == nil {
				break
			}

			validationErr, ok := prompt.validationFn(resp)
			if ok {
				break
			}

			fmt.Fprintln(stdout, validationErr)
		}

		*prompt.field = resp
	}

	if cfg.APIKey == "" {
		fmt.Fprintf(stdout, "Enter your Galaxy API key, or leave it empty to "+
			"use $%s.\n", config.APIKeyEnvKey)
		key, err := readAPIKey()
		if err != nil {
			log.WithError(err).Debug("Failed to read API key")
		}
		cfg.APIKey = key
	}

	return cfg, nil
}

// guessDefaults tries to guess reasonable defaults for the fields in the user
// config.
func guessDefaultsImpl() (cfg config.User) {
	currDir, err := getWorkingDirectory()
	if err != nil {
		log.WithError(err).Info("Failed to get current directory")
		return cfg
	}

	cfg.SourceDir = currDir
	if datasetsFile, err := guessDatasetsFile(currDir); err == nil {
		cfg.DatasetsFile = datasetsFile
	} else {
		log.WithError(err).Info("Failed to guess datasets file")
	}
	return cfg
}

// guessDatasetsFile returns the path to the datasets.tsv in `dir` if it
// exists.
func guessDatasetsFile(dir string) (string, error) {
	path := filepath.Join(dir, "datasets.tsv")
	if _, err := stat(path); err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errors.WithContext(err, "stat")
	}
	return path, nil
}

func promptUser(helpString, prompt, defaultAnswer, currAnswer string) (string, error) {
	// Display a new line at the end to separate different fields to make it
	// look clearer.
	defer fmt.Fprintln(stdout)

	options := []string{}
	if defaultAnswer != "" {
		options = append(options, defaultAnswer)
	}
	if currAnswer != "" && currAnswer != defaultAnswer {
		options = append(options, currAnswer)
	}
	options = append(options, "(Enter manually)")

	fmt.Fprintln(stdout, helpString+"\n"+prompt+":")

	stdinReader := bufio.NewReader(stdin)

	if nOptions := len(options); nOptions > 1 {
		// defaultAnswer or currAnswer exists.
		fmt.Fprintln(stdout)
		for i, option := range options {
			if i == 0 {
				option = fmt.Sprintf("%s (recommended)", option)
			}
			fmt.Fprintf(stdout, "\t%d. %s\n", i+1, option)
		}
		fmt.Fprintln(stdout)

		for {
			fmt.Fprintf(stdout, "Please choose one [1-%d]: ", nOptions)
			choiceStr, err := stdinReader.ReadString('\n')
			if err != nil {
				return "", err
			}

			var choice int
			choiceStr = strings.TrimSpace(choiceStr)

			// Default to the first choice if user doesn't enter anything.
			if choiceStr == "" {
				choice = 1
			} else {
				choice, err = strconv.Atoi(choiceStr)
				if err != nil || choice < 1 || choice > nOptions {
					// Try again if the input is invalid.
					continue
				}
			}

			if choice == nOptions {
				// Enter manually.
				break
			}

			return options[choice-1], nil
		}
	}

	fmt.Fprint(stdout, "Please enter manually: ")
	resp, err := stdinReader.ReadString('\n')
	if err != nil {
		return "", err
	}

	return strings.TrimSpace(resp), nil
}
