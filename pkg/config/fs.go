package config

import "github.com/spf13/afero"

// fs is swapped for afero.NewMemMapFs() in the tests.
var fs = afero.NewOsFs()
