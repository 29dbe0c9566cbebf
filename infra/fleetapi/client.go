// Package fleetapi is the HTTP client for the remote fleet authority. The
// authority owns vehicles and delivery assignments; this client only requests
// transitions and reads snapshots.
package fleetapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/azvmotors/fleetcore/auth"
	"github.com/azvmotors/fleetcore/core/logger"
	"github.com/azvmotors/fleetcore/core/model"
	"github.com/azvmotors/fleetcore/core/reservation"
	infralogger "github.com/azvmotors/fleetcore/infra/logger"
)

// Config defines the connection parameters for the fleet authority API.
type Config struct {
	BaseURL string `json:"base_url"`
	// Token is a static bearer credential. It is ignored when Auth configures
	// a token endpoint.
	Token          string    `json:"token"`
	TimeoutSeconds int       `json:"timeout_seconds"`
	Auth           auth.Conf `json:"auth"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.TimeoutSeconds <= 0 {
		c.TimeoutSeconds = 10
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("fleetapi: base_url is required")
	}
	return nil
}

var (
	_ reservation.FleetAPI     = (*Client)(nil)
	_ reservation.BackendError = (*APIError)(nil)
)

// Client talks JSON over HTTP to the fleet authority.
type Client struct {
	http    *http.Client
	baseURL string
	token   string
	creds   *auth.ClientCred
	log     logger.Logger
}

// NewClient builds a Client from the config.
func NewClient(cfg Config) (*Client, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Client{
		http:    &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
		log:     infralogger.New("fleetapi"),
	}
	if cfg.Auth.Enabled() {
		c.creds = auth.NewClientCred(cfg.Auth)
	}
	return c, nil
}

type reserveBody struct {
	Duration    int      `json:"duration"`
	Unit        string   `json:"unit"`
	DeliveryLng *float64 `json:"delivery_lng,omitempty"`
	DeliveryLat *float64 `json:"delivery_lat,omitempty"`
}

// ReserveVehicle requests a standard reservation.
func (c *Client) ReserveVehicle(ctx context.Context, req reservation.Request) error {
	body := reserveBody{Duration: req.Duration, Unit: req.Unit.String()}
	url := fmt.Sprintf("%s/vehicles/%d/reserve", c.baseURL, req.VehicleID)
	return c.post(ctx, url, req.RequestID, body)
}

// ReserveDelivery requests a delivery reservation.
func (c *Client) ReserveDelivery(ctx context.Context, req reservation.Request) error {
	if req.Target == nil {
		return fmt.Errorf("fleetapi: delivery reservation without target")
	}
	body := reserveBody{
		Duration:    req.Duration,
		Unit:        req.Unit.String(),
		DeliveryLng: &req.Target.Lng,
		DeliveryLat: &req.Target.Lat,
	}
	url := fmt.Sprintf("%s/vehicles/%d/reserve-delivery", c.baseURL, req.VehicleID)
	return c.post(ctx, url, req.RequestID, body)
}

// CurrentDeliveryAssignment fetches the single active assignment for the
// actor. A 404 means no assignment and is not an error.
func (c *Client) CurrentDeliveryAssignment(ctx context.Context, role model.Role) (*model.DeliveryAssignment, error) {
	url := fmt.Sprintf("%s/deliveries/current?role=%s", c.baseURL, role)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if err := c.setHeaders(req, ""); err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}
	var a assignmentPayload
	if err := json.NewDecoder(resp.Body).Decode(&a); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	out, err := a.toModel(c.log)
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetVehicle fetches a single vehicle snapshot.
func (c *Client) GetVehicle(ctx context.Context, id int64) (model.Vehicle, error) {
	url := fmt.Sprintf("%s/vehicles/%d", c.baseURL, id)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return model.Vehicle{}, fmt.Errorf("failed to create request: %w", err)
	}
	if err := c.setHeaders(req, ""); err != nil {
		return model.Vehicle{}, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return model.Vehicle{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return model.Vehicle{}, decodeError(resp)
	}
	var p vehiclePayload
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return model.Vehicle{}, fmt.Errorf("failed to decode response: %w", err)
	}
	return p.toModel(c.log), nil
}

// ListVehicles fetches the visible fleet.
func (c *Client) ListVehicles(ctx context.Context) ([]model.Vehicle, error) {
	url := c.baseURL + "/vehicles"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if err := c.setHeaders(req, ""); err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return nil, decodeError(resp)
	}
	var ps []vehiclePayload
	if err := json.NewDecoder(resp.Body).Decode(&ps); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	out := make([]model.Vehicle, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.toModel(c.log))
	}
	return out, nil
}

func (c *Client) post(ctx context.Context, url, requestID string, body any) error {
	buf, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to encode request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(buf))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if err := c.setHeaders(req, requestID); err != nil {
		return err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()
	if resp.StatusCode != http.StatusOK {
		return decodeError(resp)
	}
	// drain so the connection can be reused
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

func (c *Client) setHeaders(req *http.Request, requestID string) error {
	req.Header.Set("Content-Type", "application/json")
	if requestID != "" {
		req.Header.Set("Idempotency-Key", requestID)
	}
	if c.creds != nil {
		return c.creds.SetAuthHeader(req.Context(), req)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	return nil
}
