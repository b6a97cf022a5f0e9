package config

import (
	"fmt"
	"os"

	"github.com/ghodss/yaml"
	"github.com/spf13/afero"

	"github.com/sidkik/libsync/pkg/errors"
)

// parseConfigErrTemplate is shown when a config file isn't valid YAML, or
// contains fields of the wrong type or fields we don't know about. The yaml
// library doesn't give us positions, so the parser's message is passed
// through as is.
const parseConfigErrTemplate = "The libsync configuration file could not be parsed. " +
	"Please review %q.\n" +
	"Common pitfalls include:\n" +
	" - Using the wrong types for fields (e.g. quoting the rateLimit)\n" +
	" - Misspelled or extra fields\n\n" +
	"The parser reported:\n" +
	"%s"

type versioned interface {
	getVersion() string
}

type incompatibleVersionError struct {
	path, exp, actual string
}

func (err incompatibleVersionError) Error() string {
	return err.FriendlyMessage()
}

func (err incompatibleVersionError) FriendlyMessage() string {
	return fmt.Sprintf("The configuration file %q was written for a "+
		"different version of libsync.\n"+
		"Expected version %q, but got %q.", err.path, err.exp, err.actual)
}

// parseConfig reads the YAML file at `path` into `config`. The version is
// checked before unknown fields so that a config from a newer release
// reports the version mismatch rather than the new fields.
func parseConfig(path string, config versioned, expVersion string) error {
	configBytes, err := afero.ReadFile(fs, path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.FileNotFound{Path: path}
		}
		return errors.WithContext(err, "read file")
	}

	if err := yaml.Unmarshal(configBytes, config); err != nil {
		return errors.NewFriendlyError(parseConfigErrTemplate, path, err)
	}

	if config.getVersion() != expVersion {
		return incompatibleVersionError{path, expVersion, config.getVersion()}
	}

	err = yaml.UnmarshalStrict(configBytes, config, yaml.DisallowUnknownFields)
	if err != nil {
		return errors.NewFriendlyError(parseConfigErrTemplate, path, err)
	}
	return nil
}
