package manifest

import (
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sidkik/libsync/pkg/errors"
)

func TestParse(t *testing.T) {
	may := time.Date(2023, 5, 4, 12, 0, 0, 0, time.UTC)
	june := time.Date(2023, 6, 1, 8, 30, 0, 0, time.UTC)

	tests := []struct {
		name     string
		input    string
		exp      Datasets
		expError string
	}{
		{
			name:  "empty",
			input: "",
			exp:   Datasets{},
		},
		{
			name: "archives only",
			input: "run-may.7z\t2023-05-04 12:00:00\n" +
				"notes.txt\t2023-05-04 12:00:00\n" +
				"run-june.7z\t2023-06-01 08:30:00\n",
			exp: Datasets{"run-may": may, "run-june": june},
		},
		{
			name:  "only the suffix is stripped",
			input: "a.7z.b.7z\t2023-05-04 12:00:00\n",
			exp:   Datasets{"a.7z.b": may},
		},
		{
			name: "blank lines and surrounding whitespace",
			input: "\n  run-may.7z\t2023-05-04 12:00:00  \r\n\n" +
				"run-june.7z\t 2023-06-01 08:30:00\n",
			exp: Datasets{"run-may": may, "run-june": june},
		},
		{
			name: "last entry wins",
			input: "run.7z\t2023-05-04 12:00:00\n" +
				"run.7z\t2023-06-01 08:30:00\n",
			exp: Datasets{"run": june},
		},
		{
			name:     "missing column",
			input:    "run-may.7z\t2023-05-04 12:00:00\nrun-june.7z\n",
			expError: "line 2: expected 2 tab-separated columns, got 1",
		},
		{
			name:     "empty name",
			input:    "run.7z\t2023-05-04 12:00:00\n.7z\t2023-05-04 12:00:00\n",
			expError: "line 2: empty dataset name",
		},
		{
			name:     "parent directory",
			input:    "...7z\t2023-05-04 12:00:00\n",
			expError: `line 1: invalid dataset name ".."`,
		},
		{
			name:     "current directory",
			input:    "..7z\t2023-05-04 12:00:00\n",
			expError: `line 1: invalid dataset name "."`,
		},
		{
			name:     "relative path",
			input:    "../etc.7z\t2023-05-04 12:00:00\n",
			expError: `line 1: dataset name "../etc" contains a path separator`,
		},
		{
			name:     "windows path",
			input:    "runs\\may.7z\t2023-05-04 12:00:00\n",
			expError: `line 1: dataset name "runs\\may" contains a path separator`,
		},
		{
			name:     "bad timestamp",
			input:    "run-may.7z\t04/05/2023\n",
			expError: "line 1: parse transfer time:",
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			datasets, err := Parse(strings.NewReader(test.input))
			if test.expError != "" {
				require.Error(t, err)
				assert.True(t, strings.HasPrefix(err.Error(), test.expError), err.Error())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.exp, datasets)
		})
	}
}

func TestRead(t *testing.T) {
	fs = afero.NewMemMapFs()

	_, err := Read("/data/datasets.tsv")
	assert.Equal(t, errors.FileNotFound{Path: "/data/datasets.tsv"}, err)

	require.NoError(t, afero.WriteFile(fs, "/data/datasets.tsv",
		[]byte("b.7z\t2023-05-04 12:00:00\na.7z\t2023-05-04 12:00:00\n"), 0644))
	datasets, err := Read("/data/datasets.tsv")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, datasets.Names())
}
