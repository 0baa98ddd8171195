package devicegw

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/attendsync/attendance-backend-go/internal/domain/device"
)

// Client polls biometric attendance devices over their HTTP bridge. The
// bridge wraps everything in {device_response: {info: {...}}}; event batches
// arrive under info.SearchInfo, directory listings under info.List.
type Client struct {
	httpClient *http.Client
}

func NewClient(timeout time.Duration) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
	}
}

type envelope struct {
	DeviceResponse struct {
		Info struct {
			DeviceID    json.Number        `json:"DeviceID"`
			DeviceModel string             `json:"DeviceModel"`
			SearchInfo  []device.RawRecord `json:"SearchInfo"`
			List        []device.RawRecord `json:"List"`
		} `json:"info"`
	} `json:"device_response"`
}

// FetchEvents implements device.Gateway.
func (c *Client) FetchEvents(ctx context.Context, ep device.Endpoint, from, to time.Time) (device.Batch, error) {
	body := map[string]string{
		"from": from.UTC().Format(time.RFC3339),
		"to":   to.UTC().Format(time.RFC3339),
	}

	env, err := c.post(ctx, ep, body)
	if err != nil {
		return device.Batch{}, err
	}

	if env.DeviceResponse.Info.SearchInfo == nil {
		return device.Batch{}, fmt.Errorf("unexpected attendance response format: missing device_response.info.SearchInfo")
	}

	return device.Batch{
		Records: env.DeviceResponse.Info.SearchInfo,
		Info:    infoOf(env),
	}, nil
}

// FetchUsers implements device.Gateway.
func (c *Client) FetchUsers(ctx context.Context, ep device.Endpoint) (device.Batch, error) {
	env, err := c.post(ctx, ep, map[string]string{})
	if err != nil {
		return device.Batch{}, err
	}

	// Some firmware returns the directory in the SearchInfo slot.
	records := env.DeviceResponse.Info.List
	if records == nil {
		records = env.DeviceResponse.Info.SearchInfo
	}
	if records == nil {
		return device.Batch{}, fmt.Errorf("unexpected user response format: no device_response.info.List or .SearchInfo")
	}

	return device.Batch{
		Records: records,
		Info:    infoOf(env),
	}, nil
}

// Probe implements device.Gateway with a short HEAD request. Any HTTP
// answer counts as alive; only transport failures mean the endpoint is down.
func (c *Client) Probe(ctx context.Context, url string) bool {
	probeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(probeCtx, http.MethodHead, url, nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return true
}

func (c *Client) post(ctx context.Context, ep device.Endpoint, body any) (envelope, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return envelope{}, fmt.Errorf("marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ep.URL, bytes.NewReader(payload))
	if err != nil {
		return envelope{}, fmt.Errorf("build device request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if ep.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+ep.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return envelope{}, fmt.Errorf("device request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return envelope{}, fmt.Errorf("device returned status %d", resp.StatusCode)
	}

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return envelope{}, fmt.Errorf("decode device response: %w", err)
	}
	return env, nil
}

func infoOf(env envelope) device.Info {
	return device.Info{
		DeviceID:    env.DeviceResponse.Info.DeviceID.String(),
		DeviceModel: env.DeviceResponse.Info.DeviceModel,
	}
}
