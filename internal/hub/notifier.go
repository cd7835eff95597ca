package hub

// #region imports
import (
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/smart-bin/go-controller/internal/waste"
)

// #endregion

// #region types

// Event is one decision pushed to the live dashboard feed.
type Event struct {
	ClassificationID string         `json:"classification_id"`
	Category         waste.Category `json:"category"`
	Confidence       float64        `json:"confidence"`
	DisposalLocation string         `json:"disposal_location"`
	IsManualOverride bool           `json:"is_manual_override"`
	CreatedAt        time.Time      `json:"created_at"`
}

// Config holds dashboard hub parameters.
type Config struct {
	URL              string
	Enabled          bool
	HandshakeTimeout time.Duration
}

// DefaultConfig returns a disabled hub pointed at the local dashboard.
func DefaultConfig() Config {
	return Config{
		URL:              "ws://localhost:5000/hub/classifications",
		Enabled:          false,
		HandshakeTimeout: 5 * time.Second,
	}
}

// #endregion types

// #region notifier

// Notifier maintains one persistent websocket to the dashboard hub and
// publishes decision events on it. Publishing is best effort: the caller
// logs failures but never blocks a classification cycle on the dashboard.
type Notifier struct {
	config Config

	mu   sync.Mutex
	conn *websocket.Conn
}

// NewNotifier creates a notifier; no connection is made until the first
// publish.
func NewNotifier(config Config) *Notifier {
	return &Notifier{config: config}
}

// #endregion notifier

// #region publish

// Publish sends one event, dialing lazily and redialing once if the
// connection went stale since the last publish. A disabled notifier accepts
// and drops everything.
func (n *Notifier) Publish(e Event) error {
	if !n.config.Enabled {
		return nil
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if n.conn == nil {
		if err := n.dial(); err != nil {
			return err
		}
	}

	if err := n.conn.WriteJSON(e); err == nil {
		return nil
	}

	// Stale connection: redial once and retry.
	n.conn.Close()
	n.conn = nil
	if err := n.dial(); err != nil {
		return err
	}
	if err := n.conn.WriteJSON(e); err != nil {
		n.conn.Close()
		n.conn = nil
		return fmt.Errorf("hub publish: %w", err)
	}
	return nil
}

func (n *Notifier) dial() error {
	dialer := websocket.Dialer{HandshakeTimeout: n.config.HandshakeTimeout}
	conn, _, err := dialer.Dial(n.config.URL, nil)
	if err != nil {
		return fmt.Errorf("hub dial %s: %w", n.config.URL, err)
	}
	n.conn = conn
	return nil
}

// #endregion publish

// #region close

// Close shuts down the hub connection if one is open.
func (n *Notifier) Close() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.conn == nil {
		return nil
	}
	err := n.conn.Close()
	n.conn = nil
	return err
}

// #endregion close
