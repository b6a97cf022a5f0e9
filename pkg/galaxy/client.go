// Package galaxy is a small client for the parts of the Galaxy REST API that
// manage data libraries.
package galaxy

//go:generate mockery -name Client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	goVersion "github.com/hashicorp/go-version"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/sidkik/libsync/pkg/errors"
)

const (
	apiKeyHeader    = "x-api-key"
	requestIDHeader = "X-Request-Id"

	// requestTimeout bounds a single API call. Uploads from the server's
	// filesystem are queued as jobs by Galaxy, so the call itself is quick.
	requestTimeout = 5 * time.Minute
)

// Client is used for managing data libraries on a Galaxy server.
type Client interface {
	Version(ctx context.Context) (*goVersion.Version, error)
	CheckVersion(ctx context.Context, minimum *goVersion.Version) error

	Libraries(ctx context.Context) ([]Library, error)
	LibrariesByName(ctx context.Context, name string) ([]Library, error)
	CreateLibrary(ctx context.Context, name, description, synopsis string) (Library, error)

	Folders(ctx context.Context, libraryID, name string) ([]Folder, error)
	CreateFolder(ctx context.Context, libraryID, name, baseFolderID string) (Folder, error)
	FolderContents(ctx context.Context, folderID string) ([]FolderItem, error)

	DeleteDataset(ctx context.Context, libraryID, datasetID string, purge bool) error
	UploadFromServerPath(ctx context.Context, libraryID, path string,
		opts UploadOptions) ([]Dataset, error)
}

type httpClient struct {
	baseURL *url.URL
	apiKey  string
	limiter *rate.Limiter
	http    *http.Client
}

// New creates a client for the Galaxy server at `server`. At most
// `requestsPerSecond` calls are made per second. Zero means no limit.
func New(server, apiKey string, requestsPerSecond float64) (Client, error) {
	baseURL, err := url.Parse(strings.TrimRight(server, "/"))
	if err != nil {
		return nil, errors.WithContext(err, "parse server URL")
	}

	if baseURL.Scheme != "http" && baseURL.Scheme != "https" {
		return nil, errors.NewFriendlyError("The Galaxy server URL %q must "+
			"start with http:// or https://.", server)
	}

	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}

	return &httpClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		limiter: rate.NewLimiter(limit, 1),
		http:    &http.Client{Timeout: requestTimeout},
	}, nil
}

// HTTPError is returned when the server responds with a non-2xx status.
type HTTPError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
}

func (err HTTPError) Error() string {
	msg := fmt.Sprintf("%s %s: server responded with %d", err.Method, err.Path, err.StatusCode)
	if err.Message != "" {
		msg += fmt.Sprintf(" (%s)", err.Message)
	}
	return msg
}

// IsNotFound returns whether err was caused by a 404 response.
func IsNotFound(err error) bool {
	httpErr, ok := errors.RootCause(err).(HTTPError)
	return ok && httpErr.StatusCode == http.StatusNotFound
}

// do sends a request to the API and decodes the JSON response into `out`,
// unless `out` is nil.
func (c *httpClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return errors.WithContext(err, "wait for rate limiter")
	}

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return errors.WithContext(err, "marshal request")
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	endpoint := *c.baseURL
	endpoint.Path = c.baseURL.Path + path
	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), bodyReader)
	if err != nil {
		return errors.WithContext(err, "create request")
	}

	requestID := uuid.New().String()
	req.Header.Set(apiKeyHeader, c.apiKey)
	req.Header.Set(requestIDHeader, requestID)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	log.WithFields(log.Fields{
		"method":    method,
		"path":      path,
		"requestID": requestID,
	}).Debug("Galaxy API request")

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.WithContext(err, "connect to Galaxy")
	}
	defer resp.Body.Close()

	respBytes, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return errors.WithContext(err, "read response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return responseError(method, path, resp.StatusCode, respBytes)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBytes, out); err != nil {
		return errors.WithContext(err, "parse response")
	}
	return nil
}

func responseError(method, path string, status int, body []byte) error {
	var parsed struct {
		Message string `json:"err_msg"`
	}
	// Some error pages aren't JSON. The status code is enough then.
	_ = json.Unmarshal(body, &parsed)

	httpErr := HTTPError{
		Method:     method,
		Path:       path,
		StatusCode: status,
		Message:    parsed.Message,
	}

	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return errors.NewFriendlyError("The Galaxy server rejected the API key "+
			"(%s).\nCheck that the key is valid and belongs to a user that "+
			"may manage data libraries (usually an admin).", httpErr)
	}
	return httpErr
}
