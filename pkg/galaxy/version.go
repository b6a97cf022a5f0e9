package galaxy

import (
	"context"

	goVersion "github.com/hashicorp/go-version"

	"github.com/sidkik/libsync/pkg/errors"
)

// MinimumVersion is the oldest Galaxy release with the folders API.
var MinimumVersion = goVersion.Must(goVersion.NewVersion("17.09"))

// Version returns the release of the Galaxy server, e.g. 23.1.
func (c *httpClient) Version(ctx context.Context) (*goVersion.Version, error) {
	var resp struct {
		Major string `json:"version_major"`
	}
	if err := c.do(ctx, "GET", "/api/version", nil, &resp); err != nil {
		return nil, err
	}

	v, err := goVersion.NewVersion(resp.Major)
	if err != nil {
		return nil, errors.WithContext(err, "parse version")
	}
	return v, nil
}

// CheckVersion fails if the server is older than `minimum`.
func (c *httpClient) CheckVersion(ctx context.Context, minimum *goVersion.Version) error {
	v, err := c.Version(ctx)
	if IsNotFound(err) {
		return errors.NewFriendlyError("%s doesn't serve /api/version. "+
			"Is it a Galaxy server?", c.baseURL)
	}
	if err != nil {
		return errors.WithContext(err, "get server version")
	}

	if v.LessThan(minimum) {
		return errors.NewFriendlyError("The Galaxy server at %s runs release %s, "+
			"but libsync needs at least %s.", c.baseURL, v.Original(), minimum.Original())
	}
	return nil
}
