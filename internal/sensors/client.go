package sensors

// #region imports
import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/smart-bin/go-controller/internal/facts"
)

// #endregion

// #region client-struct
// Client wraps the HTTP connection to the Arduino bridge service, which
// exposes one raw measurement sweep per request. Range validation (humidity
// 0..100, normalized 0..1 signals) happens bridge-side.
type Client struct {
	baseURL string
	http    *http.Client
}
// #endregion client-struct

// #region constructor
// NewClient creates a client for the sensor bridge at baseURL.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// NewClientWithHTTP creates a Client with an injected http.Client.
// Used for testing against httptest servers.
func NewClientWithHTTP(baseURL string, hc *http.Client) *Client {
	return &Client{baseURL: baseURL, http: hc}
}
// #endregion constructor

// #region read
// Read fetches one raw sensor sweep for the item currently on the tray.
func (c *Client) Read(ctx context.Context) (facts.Readings, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/readings", nil)
	if err != nil {
		return facts.Readings{}, fmt.Errorf("build readings request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return facts.Readings{}, fmt.Errorf("sensor read: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return facts.Readings{}, fmt.Errorf("sensor read: unexpected status %s", resp.Status)
	}

	var r facts.Readings
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return facts.Readings{}, fmt.Errorf("decode readings: %w", err)
	}
	return r, nil
}
// #endregion read
