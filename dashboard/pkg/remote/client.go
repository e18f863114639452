// Package remote talks to the command interpretation service that answers
// chat messages with a reply and, optionally, a layout action.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/bryantinsley/dashtailor/dashboard/pkg/command"
	"github.com/bryantinsley/dashtailor/dashboard/pkg/layout"
	"github.com/bryantinsley/dashtailor/dashboard/pkg/logging"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ErrUnavailable wraps every failure to get a usable answer. Callers fall
// back to local interpretation when they see it.
var ErrUnavailable = errors.New("assistant unavailable")

// ChatPath is the endpoint the service exposes.
const ChatPath = "/admin-chat"

// Action names understood in a Response.
const (
	ActionAdd    = "add_element"
	ActionDelete = "delete_element"
	ActionSwap   = "swap_elements"
	ActionColor  = "change_color"
	ActionReset  = "reset_layout"
)

// Request is the body sent with each chat message.
type Request struct {
	Message       string         `json:"message"`
	Profile       layout.Profile `json:"profile"`
	CurrentLayout layout.Layout  `json:"current_layout"`
}

// Response is what the service answers. Message is always shown; Action and
// its arguments are optional.
type Response struct {
	Message  string   `json:"message"`
	Action   string   `json:"action,omitempty"`
	Element  string   `json:"element,omitempty"`
	Elements []string `json:"elements,omitempty"`
	Icon     string   `json:"icon,omitempty"`
	Color    string   `json:"color,omitempty"`
}

// Outcome maps the action to a command outcome. It returns nil when there is
// no action, the action is unknown, or its arguments are incomplete.
func (r *Response) Outcome() command.Outcome {
	switch r.Action {
	case ActionAdd:
		if r.Element == "" {
			return nil
		}
		return command.AddCard{Title: r.Element, Icon: r.Icon}
	case ActionDelete:
		if r.Element == "" {
			return nil
		}
		return command.RemoveCard{Title: r.Element}
	case ActionSwap:
		if len(r.Elements) < 2 || r.Elements[0] == "" || r.Elements[1] == "" {
			return nil
		}
		return command.SwapCards{First: r.Elements[0], Second: r.Elements[1]}
	case ActionColor:
		if r.Element == "" {
			return nil
		}
		return command.ChangeColor{Title: r.Element, Color: r.Color}
	case ActionReset:
		return command.ResetLayout{}
	}
	return nil
}

// Client calls the service over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *zap.Logger
}

// NewClient returns a client for baseURL, e.g. http://localhost:5000.
func NewClient(baseURL string, timeout time.Duration, log *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		log:        logging.OrNop(log).Named("remote"),
	}
}

// BaseURL reports the service address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Chat sends one message. Any transport error, non-2xx status or malformed
// body is returned wrapped in ErrUnavailable.
func (c *Client) Chat(ctx context.Context, in Request) (*Response, error) {
	in.CurrentLayout.Normalize()
	blob, err := json.Marshal(in)
	if err != nil {
		return nil, fmt.Errorf("marshal request payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+ChatPath, bytes.NewReader(blob))
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %v", ErrUnavailable, err)
	}
	requestID := uuid.NewString()
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)

	log := c.log.With(zap.String("request_id", requestID), zap.String("profile", string(in.Profile)))
	start := time.Now()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Info("assistant request failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		log.Info("assistant returned error status", zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var out Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		log.Warn("assistant returned malformed body", zap.Error(err))
		return nil, fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}

	log.Debug("assistant replied",
		zap.String("action", out.Action),
		zap.Duration("elapsed", time.Since(start)))
	return &out, nil
}
