package jamf

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jssimporter/spruce/internal/model"
)

// ErrNotFound reports a 404 from the server, typically an object deleted
// between listing and fetching, or a stale id in a removal document.
var ErrNotFound = errors.New("object not found")

// endpoints maps each object kind to its Classic API resource name under
// /JSSResource/.
var endpoints = map[model.ObjectKind]string{
	model.KindPackage:             "packages",
	model.KindScript:              "scripts",
	model.KindPrinter:             "printers",
	model.KindPolicy:              "policies",
	model.KindComputerGroup:       "computergroups",
	model.KindMobileDeviceGroup:   "mobiledevicegroups",
	model.KindComputerProfile:     "osxconfigurationprofiles",
	model.KindMobileDeviceProfile: "mobiledeviceconfigurationprofiles",
	model.KindMobileDeviceApp:     "mobiledeviceapplications",
	model.KindEBook:               "ebooks",
	model.KindImagingConfig:       "computerconfigurations",
	model.KindProvisioningProfile: "mobiledeviceprovisioningprofiles",
	model.KindComputer:            "computers",
	model.KindMobileDevice:        "mobiledevices",
}

// Client talks to one server's Classic API with basic auth.
// It implements the pipeline's Catalog interface.
type Client struct {
	// baseURL is the server root without a trailing slash.
	baseURL string

	// username and password authenticate every request.
	username string
	password string

	// httpClient performs the requests. Replaceable for tests.
	httpClient *http.Client

	// concurrency bounds parallel per-object fetches.
	concurrency int

	// logger for structured logging.
	logger *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithInsecureSkipVerify disables TLS certificate verification.
// Self-signed server certificates are common enough on intranet
// installations that this mirrors the server tools' own toggle.
func WithInsecureSkipVerify(skip bool) Option {
	return func(c *Client) {
		if !skip {
			return
		}
		c.httpClient.Transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}
}

// WithConcurrency bounds how many per-object fetches run in parallel.
// Values below one are ignored.
func WithConcurrency(n int) Option {
	return func(c *Client) {
		if n >= 1 {
			c.concurrency = n
		}
	}
}

// WithLogger sets a custom logger for the client.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a client for the server at serverURL.
func NewClient(serverURL, username, password string, opts ...Option) (*Client, error) {
	serverURL = strings.TrimRight(serverURL, "/")
	if !strings.HasPrefix(serverURL, "http://") && !strings.HasPrefix(serverURL, "https://") {
		return nil, fmt.Errorf("server URL %q has no http(s) scheme", serverURL)
	}

	c := &Client{
		baseURL:  serverURL,
		username: username,
		password: password,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		concurrency: 8,
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// get fetches one resource path and parses the response body as a Record.
func (c *Client) get(ctx context.Context, path string) (*model.Record, error) {
	url := c.baseURL + "/JSSResource/" + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request for %s: %w", path, err)
	}
	req.SetBasicAuth(c.username, c.password)
	req.Header.Set("Accept", "application/xml")

	c.logger.Debug("fetching", "endpoint", path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", path, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return nil, fmt.Errorf("fetch %s: %w", path, ErrNotFound)
	default:
		return nil, fmt.Errorf("fetch %s: unexpected status %d", path, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	record, err := model.ParseRecord(body)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return record, nil
}

// List returns the flat (id, name) catalog list for an object type.
// The list document's children carry the kind's tag, e.g. <package>
// entries under <packages>.
func (c *Client) List(ctx context.Context, kind model.ObjectKind) ([]model.Identity, error) {
	endpoint, ok := endpoints[kind]
	if !ok {
		return nil, fmt.Errorf("no endpoint for kind %s", kind.Tag())
	}

	record, err := c.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	return record.Identities(kind.Tag()), nil
}

// Containers returns the fully-populated records for every object of the
// given kind. Each object needs its own request; the fetches run
// concurrently, bounded by the client's concurrency limit, and the result
// preserves list order.
func (c *Client) Containers(ctx context.Context, kind model.ObjectKind) ([]*model.Record, error) {
	endpoint, ok := endpoints[kind]
	if !ok {
		return nil, fmt.Errorf("no endpoint for kind %s", kind.Tag())
	}

	ids, err := c.List(ctx, kind)
	if err != nil {
		return nil, err
	}

	records := make([]*model.Record, len(ids))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, id := range ids {
		g.Go(func() error {
			record, err := c.get(ctx, fmt.Sprintf("%s/id/%d", endpoint, id.ID))
			if err != nil {
				return err
			}
			records[i] = record
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	c.logger.Debug("fetched records", "kind", kind.Tag(), "count", len(records))
	return records, nil
}

// Groups returns the typed group views for a group kind.
func (c *Client) Groups(ctx context.Context, kind model.ObjectKind) ([]model.Group, error) {
	if !kind.IsGroup() {
		return nil, fmt.Errorf("kind %s is not a group kind", kind.Tag())
	}

	records, err := c.Containers(ctx, kind)
	if err != nil {
		return nil, err
	}

	groups := make([]model.Group, 0, len(records))
	for _, record := range records {
		group, err := parseGroup(kind, record)
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	return groups, nil
}

// Devices returns the typed inventory views for a device kind.
func (c *Client) Devices(ctx context.Context, kind model.ObjectKind) ([]model.Device, error) {
	if !kind.IsDevice() {
		return nil, fmt.Errorf("kind %s is not a device kind", kind.Tag())
	}

	records, err := c.Containers(ctx, kind)
	if err != nil {
		return nil, err
	}

	devices := make([]model.Device, 0, len(records))
	for _, record := range records {
		device, err := parseDevice(kind, record)
		if err != nil {
			return nil, err
		}
		devices = append(devices, device)
	}
	return devices, nil
}

// Delete removes one object by kind and id. Used by the removal workflow;
// deleting an already-deleted object reports ErrNotFound.
func (c *Client) Delete(ctx context.Context, kind model.ObjectKind, id int) error {
	endpoint, ok := endpoints[kind]
	if !ok {
		return fmt.Errorf("no endpoint for kind %s", kind.Tag())
	}

	path := fmt.Sprintf("%s/id/%d", endpoint, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/JSSResource/"+path, nil)
	if err != nil {
		return fmt.Errorf("create request for %s: %w", path, err)
	}
	req.SetBasicAuth(c.username, c.password)

	c.logger.Info("deleting", "kind", kind.Tag(), "id", id)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusNotFound:
		return fmt.Errorf("delete %s: %w", path, ErrNotFound)
	default:
		return fmt.Errorf("delete %s: unexpected status %d", path, resp.StatusCode)
	}
}
