package vision

// #region imports
import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// #endregion

// #region types
// Detection is the vision service's best guess for the item under the camera.
type Detection struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
}
// #endregion types

// #region client-struct
// Client wraps the HTTP connection to the Python YOLO bridge service.
type Client struct {
	baseURL string
	http    *http.Client
}
// #endregion client-struct

// #region constructor
// NewClient creates a client for the vision bridge at baseURL.
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

// #region detect
// Detect asks the vision service for the current item's label and confidence.
func (c *Client) Detect(ctx context.Context) (Detection, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/detect", nil)
	if err != nil {
		return Detection{}, fmt.Errorf("build detect request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return Detection{}, fmt.Errorf("vision detect: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Detection{}, fmt.Errorf("vision detect: unexpected status %s", resp.Status)
	}

	var d Detection
	if err := json.NewDecoder(resp.Body).Decode(&d); err != nil {
		return Detection{}, fmt.Errorf("decode detection: %w", err)
	}
	return d, nil
}
// #endregion detect
