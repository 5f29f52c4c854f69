package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/go-json-experiment/json"
	"github.com/google/uuid"
	"github.com/imroc/req/v3"

	"github.com/nao1215/reportscope/internal/model"
)

const (
	// DefaultBaseURL is where the report service listens in a local setup.
	DefaultBaseURL = "http://localhost:3000"

	// DefaultTimeout bounds every request made by the client.
	DefaultTimeout = 30 * time.Second

	// RequestIDHeader carries a per-request identifier for server-side tracing.
	RequestIDHeader = "X-Request-ID"

	userAgent = "reportscope"
)

// Routes holds the path templates of the report service.
// "{id}" is replaced by the escaped resource id.
type Routes struct {
	Projects string `yaml:"projects"`
	Scan     string `yaml:"scan"`
	Project  string `yaml:"project"`
}

// DefaultRoutes returns the routes of the reference service.
func DefaultRoutes() Routes {
	return Routes{
		Projects: "/projects",
		Scan:     "/scan/{id}",
		Project:  "/project/{id}",
	}
}

// Client talks to the report service.
type Client struct {
	http    *req.Client
	baseURL string
	routes  Routes
	logger  *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithRoutes overrides the route templates. Empty fields keep their defaults.
func WithRoutes(r Routes) Option {
	return func(c *Client) {
		if r.Projects != "" {
			c.routes.Projects = normalizeRoute(r.Projects)
		}
		if r.Scan != "" {
			c.routes.Scan = normalizeRoute(r.Scan)
		}
		if r.Project != "" {
			c.routes.Project = normalizeRoute(r.Project)
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.SetTimeout(d)
		}
	}
}

// WithProxy routes all requests through the given proxy URL
// (http, https or socks5 scheme).
func WithProxy(proxyURL string) Option {
	return func(c *Client) {
		if proxyURL != "" {
			c.http.SetProxyURL(proxyURL)
		}
	}
}

// WithLogger sets the logger used for request tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient returns a client for the service at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	baseURL = strings.TrimRight(baseURL, "/")

	c := &Client{
		baseURL: baseURL,
		routes:  DefaultRoutes(),
		logger:  slog.Default(),
	}
	c.http = newHTTPClient(baseURL)

	for _, opt := range opts {
		opt(c)
	}

	c.http.OnBeforeRequest(func(_ *req.Client, r *req.Request) error {
		id := uuid.NewString()
		r.SetHeader(RequestIDHeader, id)
		c.logger.Debug("sending request", "method", r.Method, "url", r.RawURL, "request_id", id)
		return nil
	})
	return c
}

// newHTTPClient builds the shared req client. Retries are disabled:
// a failed fetch is surfaced to the caller as is.
func newHTTPClient(baseURL string) *req.Client {
	return req.C().
		SetBaseURL(baseURL).
		SetUserAgent(userAgent).
		SetCommonHeader("Accept", "application/json").
		SetTimeout(DefaultTimeout).
		SetJsonMarshal(func(v any) ([]byte, error) {
			return json.Marshal(v)
		}).
		SetJsonUnmarshal(func(data []byte, v any) error {
			return json.Unmarshal(data, v)
		})
}

// BaseURL returns the service root the client was created with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// ListProjects returns every project with its scan summaries.
func (c *Client) ListProjects(ctx context.Context) ([]model.Project, error) {
	var projects []model.Project
	if err := c.get(ctx, "list projects", c.routes.Projects, "", &projects); err != nil {
		return nil, err
	}
	if projects == nil {
		projects = []model.Project{}
	}
	return projects, nil
}

// GetScan returns the scan with the given id. Its project may be unresolved.
func (c *Client) GetScan(ctx context.Context, scanID string) (*model.Scan, error) {
	var scan model.Scan
	if err := c.get(ctx, "get scan", c.routes.Scan, scanID, &scan); err != nil {
		return nil, err
	}
	return &scan, nil
}

// GetProject returns the project with the given id.
func (c *Client) GetProject(ctx context.Context, projectID string) (*model.Project, error) {
	var project model.Project
	if err := c.get(ctx, "get project", c.routes.Project, projectID, &project); err != nil {
		return nil, err
	}
	return &project, nil
}

// get fetches route and decodes the JSON body into out.
func (c *Client) get(ctx context.Context, op, route, id string, out any) error {
	r := c.http.R().SetContext(ctx)
	if strings.Contains(route, "{id}") {
		r.SetPathParam("id", id)
	}
	resp, err := r.Get(route)
	return c.decode(op, c.expand(route, id), resp, err, out)
}

// post sends body as JSON to an absolute endpoint and decodes the reply into out.
func (c *Client) post(ctx context.Context, op, endpoint string, body, out any) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		Post(endpoint)
	return c.decode(op, endpoint, resp, err, out)
}

func (c *Client) decode(op, target string, resp *req.Response, err error, out any) error {
	if err != nil {
		return &FetchError{Op: op, URL: target, Err: err}
	}
	if !resp.IsSuccessState() {
		c.logger.Debug("request failed", "op", op, "url", target, "status", resp.StatusCode)
		return &FetchError{Op: op, URL: target, StatusCode: resp.StatusCode}
	}
	if err := json.Unmarshal(resp.Bytes(), out); err != nil {
		return &FetchError{
			Op:         op,
			URL:        target,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("failed to decode response: %w", err),
		}
	}
	return nil
}

// expand returns the absolute URL of a route for error reporting.
func (c *Client) expand(route, id string) string {
	if strings.HasPrefix(route, "http://") || strings.HasPrefix(route, "https://") {
		return strings.ReplaceAll(route, "{id}", url.PathEscape(id))
	}
	return c.baseURL + strings.ReplaceAll(route, "{id}", url.PathEscape(id))
}

func normalizeRoute(route string) string {
	if strings.HasPrefix(route, "/") || strings.Contains(route, "://") {
		return route
	}
	return "/" + route
}
