// Package tagmein provides a client for the tagme.in scroll API.
package tagmein

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Nyirongo2000/tagme.in/internal/hours"
	"github.com/Nyirongo2000/tagme.in/internal/models"
)

// DefaultURL is the public instance.
const DefaultURL = "https://tagme.in"

// Client is a tagme.in API client.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client
}

// NewClient creates a new client.
func NewClient(baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	return &Client{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// APIError is a non-2xx response. Message is the server's response body.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("tagme.in error %d: %s", e.Status, e.Message)
}

// doRequest performs an HTTP request.
func (c *Client) doRequest(method, path string, body []byte) ([]byte, error) {
	req, err := http.NewRequest(method, c.BaseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		return nil, &APIError{Status: resp.StatusCode, Message: strings.TrimSpace(string(respBody))}
	}

	return respBody, nil
}

func (c *Client) getJSON(path string, v interface{}) error {
	respBody, err := c.doRequest("GET", path, nil)
	if err != nil {
		return err
	}
	return json.Unmarshal(respBody, v)
}

// SendRequest is the request body for a send.
type SendRequest struct {
	Channel  string  `json:"channel"`
	Message  string  `json:"message"`
	Velocity float64 `json:"velocity"`
}

// Send posts message to channel, or votes on it when it already exists.
func (c *Client) Send(channel, message string, velocity float64) error {
	body, err := json.Marshal(SendRequest{Channel: channel, Message: message, Velocity: velocity})
	if err != nil {
		return err
	}
	_, err = c.doRequest("POST", "/send", body)
	return err
}

// SeekResponse is the response from a seek.
type SeekResponse struct {
	Response models.Snapshot `json:"response"`
}

// Seek reads channel as of hour h.
func (c *Client) Seek(channel string, h hours.Hour) (*models.Snapshot, error) {
	q := url.Values{}
	q.Set("channel", channel)
	q.Set("hour", strconv.FormatInt(int64(h), 10))

	var resp SeekResponse
	if err := c.getJSON("/seek?"+q.Encode(), &resp); err != nil {
		return nil, err
	}
	if resp.Response.Messages == nil {
		resp.Response.Messages = map[string]models.MessageRecord{}
	}
	return &resp.Response, nil
}

// ChannelsResponse is the popular channels response.
type ChannelsResponse struct {
	Hour     hours.Hour                `json:"hour"`
	Channels []models.ChannelAggregate `json:"channels"`
}

// Channels lists channels by popularity as of hour h.
func (c *Client) Channels(h hours.Hour) (*ChannelsResponse, error) {
	var resp ChannelsResponse
	if err := c.getJSON("/channels?hour="+strconv.FormatInt(int64(h), 10), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// HourResponse describes an hour bucket as the server sees it.
type HourResponse struct {
	Hour  hours.Hour `json:"hour"`
	Start string     `json:"start"`
	hours.Calendar
}

// Hour returns the server's current hour bucket.
func (c *Client) Hour() (*HourResponse, error) {
	var resp HourResponse
	if err := c.getJSON("/hour", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// HealthResponse is the health check response.
type HealthResponse struct {
	Status    string                     `json:"status"`
	Version   string                     `json:"version"`
	Instance  string                     `json:"instance,omitempty"`
	Window    int                        `json:"window"`
	Checks    map[string]json.RawMessage `json:"checks"`
	Timestamp string                     `json:"timestamp"`
}

// Health checks server health. A degraded server answers 503, which is
// reported as an *APIError.
func (c *Client) Health() (*HealthResponse, error) {
	var resp HealthResponse
	if err := c.getJSON("/health", &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
