package platform

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/nerrad567/impt/internal/entity"
	"github.com/nerrad567/impt/internal/resolver"
)

// DefaultTimeout bounds a single request when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// maxErrorBody caps how much of an error response is read.
const maxErrorBody = 64 << 10

// Logger defines the logging interface used by the Client.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Client is an HTTP client for the platform API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	logger  Logger
}

// NewClient creates a client for the platform at endpoint, for example
// "http://localhost:8080". A zero timeout uses DefaultTimeout.
func NewClient(endpoint, token string, timeout time.Duration) (*Client, error) {
	endpoint = strings.TrimRight(strings.TrimSpace(endpoint), "/")
	if endpoint == "" {
		return nil, ErrNoEndpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("platform: invalid endpoint %q", endpoint)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	return &Client{
		baseURL: endpoint + APIPrefix,
		token:   token,
		http:    &http.Client{Timeout: timeout},
		logger:  noopLogger{},
	}, nil
}

// SetLogger sets the logger for the client.
func (c *Client) SetLogger(logger Logger) {
	if logger == nil {
		logger = noopLogger{}
	}
	c.logger = logger
}

// Lookup implements resolver.Gateway.
func (c *Client) Lookup(ctx context.Context, t entity.Type, attribute, value string, scope resolver.Scope) ([]entity.Entity, error) {
	q := url.Values{}
	q.Set(FilterParam(attribute), value)
	if scope.OwnerID != "" {
		q.Set(FilterParam(FilterOwner), scope.OwnerID)
	}
	if scope.ProductID != "" {
		q.Set(FilterParam(FilterProduct), scope.ProductID)
	}

	var doc Document
	if err := c.do(ctx, http.MethodGet, "/"+t.Collection()+"?"+q.Encode(), nil, &doc); err != nil {
		return nil, err
	}
	return documentEntities(doc), nil
}

// CurrentAccount implements resolver.Gateway.
func (c *Client) CurrentAccount(ctx context.Context) (*entity.Entity, error) {
	return c.getResource(ctx, http.MethodGet, "/accounts/me", nil)
}

// ListMembers implements resolver.Gateway.
func (c *Client) ListMembers(ctx context.Context, deviceGroupID string) ([]entity.Entity, error) {
	var doc Document
	if err := c.do(ctx, http.MethodGet, groupPath(deviceGroupID)+"/devices", nil, &doc); err != nil {
		return nil, err
	}
	return documentEntities(doc), nil
}

// CurrentDeployment implements resolver.Gateway. It returns nil, nil for
// a group that has never been deployed to.
func (c *Client) CurrentDeployment(ctx context.Context, deviceGroupID string) (*entity.Build, error) {
	var doc BuildDocument
	if err := c.do(ctx, http.MethodGet, groupPath(deviceGroupID)+"/deployment", nil, &doc); err != nil {
		return nil, err
	}
	return doc.Data, nil
}

// Login exchanges an account identifier for a bearer token. The client's
// own token is not sent and not changed.
func (c *Client) Login(ctx context.Context, account string) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", LoginRequest{Account: account}, &resp); err != nil {
		return nil, err
	}
	if resp.AccessToken == "" {
		return nil, fmt.Errorf("%w: login returned no token", ErrRequestFailed)
	}
	return &resp, nil
}

// CreateProduct creates a product owned by the caller.
func (c *Client) CreateProduct(ctx context.Context, name, description string) (*entity.Entity, error) {
	return c.getResource(ctx, http.MethodPost, "/products", CreateProductRequest{Name: name, Description: description})
}

// DeleteProduct removes a product. With force its device groups are
// removed too and their devices unassigned.
func (c *Client) DeleteProduct(ctx context.Context, productID string, force bool) error {
	return c.do(ctx, http.MethodDelete, "/products/"+url.PathEscape(productID)+forceQuery(force), nil, nil)
}

// CreateDeviceGroup creates a device group inside a product. An empty
// groupType lets the platform pick its default.
func (c *Client) CreateDeviceGroup(ctx context.Context, productID, name, groupType, description string) (*entity.Entity, error) {
	return c.getResource(ctx, http.MethodPost, "/devicegroups", CreateDeviceGroupRequest{
		Name:        name,
		Type:        groupType,
		Description: description,
		ProductID:   productID,
	})
}

// Deploy records a new build for a device group, making it the group's
// current deployment.
func (c *Client) Deploy(ctx context.Context, deviceGroupID, sha, description string) (*entity.Build, error) {
	var doc BuildDocument
	req := DeployRequest{SHA: sha, Description: description}
	if err := c.do(ctx, http.MethodPost, groupPath(deviceGroupID)+"/deployments", req, &doc); err != nil {
		return nil, err
	}
	if doc.Data == nil {
		return nil, fmt.Errorf("%w: deploy returned no build", ErrRequestFailed)
	}
	return doc.Data, nil
}

// RenameDevice changes a device's display name.
func (c *Client) RenameDevice(ctx context.Context, deviceID, name string) (*entity.Entity, error) {
	return c.getResource(ctx, http.MethodPatch, devicePath(deviceID), UpdateDeviceRequest{Name: name})
}

// DeleteDevice removes a device. An assigned device needs force.
func (c *Client) DeleteDevice(ctx context.Context, deviceID string, force bool) error {
	return c.do(ctx, http.MethodDelete, devicePath(deviceID)+forceQuery(force), nil, nil)
}

// AssignDevice moves a device into a device group.
func (c *Client) AssignDevice(ctx context.Context, deviceID, deviceGroupID string) (*entity.Entity, error) {
	return c.getResource(ctx, http.MethodPut, devicePath(deviceID)+"/devicegroup", AssignRequest{DeviceGroupID: deviceGroupID})
}

// UnassignDevice removes a device from its device group.
func (c *Client) UnassignDevice(ctx context.Context, deviceID string) (*entity.Entity, error) {
	return c.getResource(ctx, http.MethodDelete, devicePath(deviceID)+"/devicegroup", nil)
}

// RestartDevice asks a device to restart.
func (c *Client) RestartDevice(ctx context.Context, deviceID string, conditional bool) error {
	return c.do(ctx, http.MethodPost, devicePath(deviceID)+"/restart", RestartRequest{Conditional: conditional}, nil)
}

func (c *Client) getResource(ctx context.Context, method, path string, body any) (*entity.Entity, error) {
	var doc ResourceDocument
	if err := c.do(ctx, method, path, body, &doc); err != nil {
		return nil, err
	}
	if doc.Data.ID == "" {
		return nil, fmt.Errorf("%w: %s %s returned no entity", ErrRequestFailed, method, path)
	}
	e := doc.Data.Entity()
	return &e, nil
}

// do sends one request. body is encoded as JSON when non-nil; a 2xx
// response is decoded into out when out is non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("platform request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp, method, path)
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: decoding %s %s: %v", ErrRequestFailed, method, path, err)
	}
	return nil
}

func decodeError(resp *http.Response, method, path string) error {
	apiErr := &APIError{Method: method, Path: path, StatusCode: resp.StatusCode}
	data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody)) //nolint:errcheck // Best effort, the status is enough
	var body ErrorBody
	if json.Unmarshal(data, &body) == nil {
		apiErr.Code = body.Code
		apiErr.Message = body.Message
	}
	return apiErr
}

func documentEntities(doc Document) []entity.Entity {
	out := make([]entity.Entity, 0, len(doc.Data))
	for _, r := range doc.Data {
		out = append(out, r.Entity())
	}
	return out
}

func groupPath(id string) string {
	return "/" + entity.TypeDeviceGroup.Collection() + "/" + url.PathEscape(id)
}

func devicePath(id string) string {
	return "/" + entity.TypeDevice.Collection() + "/" + url.PathEscape(id)
}

func forceQuery(force bool) string {
	if !force {
		return ""
	}
	return "?" + ParamForce + "=" + strconv.FormatBool(true)
}

var _ resolver.Gateway = (*Client)(nil)
