package thingspeak

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vbarros/aquaponia-monitor/internal/models"
)

const (
	DEFAULT_BASE_URL = "https://api.thingspeak.com"
	USER_AGENT       = "Aquaponia Monitor/1.0"
	REQUEST_TIMEOUT  = 10 * time.Second
)

// Config holds the channel endpoint and credentials.
type Config struct {
	BaseURL     string
	ChannelID   string
	ReadAPIKey  string
	WriteAPIKey string
	Timeout     time.Duration
}

// Client talks to one ThingSpeak channel. It performs single read and write
// calls with a bounded timeout and no retries; retry policy belongs to the
// caller.
type Client struct {
	httpClient http.Client
	config     Config
	logger     *slog.Logger
}

// NewClient creates a channel client. The logger may be nil.
func NewClient(config Config, logger *slog.Logger) *Client {
	if config.BaseURL == "" {
		config.BaseURL = DEFAULT_BASE_URL
	}
	if config.Timeout <= 0 {
		config.Timeout = REQUEST_TIMEOUT
	}

	return &Client{
		httpClient: http.Client{
			Timeout: config.Timeout,
		},
		config: config,
		logger: logger,
	}
}

func (client *Client) log(level slog.Level, msg string, args ...any) {
	if client.logger != nil {
		client.logger.Log(context.Background(), level, msg, args...)
	}
}

type feedsResponse struct {
	Feeds []feedEntry `json:"feeds"`
}

type feedEntry struct {
	CreatedAt time.Time `json:"created_at"`
	EntryID   int64     `json:"entry_id"`
	Field1    string    `json:"field1"`
	Field2    string    `json:"field2"`
}

// FetchLatest reads the single most recent feed entry from the channel.
// An empty feed list returns (nil, nil); that is normal quiescence, not a
// failure. Missing or non-numeric fields map to nil, never to an error.
func (client *Client) FetchLatest(ctx context.Context) (*models.Reading, error) {
	endpoint := fmt.Sprintf("%s/channels/%s/feeds.json", client.config.BaseURL, client.config.ChannelID)

	params := url.Values{}
	params.Set("api_key", client.config.ReadAPIKey)
	params.Set("results", "1")

	body, err := client.get(ctx, endpoint+"?"+params.Encode())
	if err != nil {
		return nil, fmt.Errorf("failed to fetch channel feed: %w", err)
	}

	var response feedsResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to unmarshal channel feed: %w", err)
	}

	if len(response.Feeds) == 0 {
		client.log(slog.LevelDebug, "Channel reported no feed data")
		return nil, nil
	}

	feed := response.Feeds[0]
	reading := &models.Reading{
		Temperature: parseField(feed.Field1),
		Level:       parseField(feed.Field2),
		Timestamp:   feed.CreatedAt,
	}

	client.log(slog.LevelDebug, "Fetched feed entry",
		"entry_id", feed.EntryID,
		"created_at", feed.CreatedAt,
	)

	return reading, nil
}

// Publish writes the full sensor+actuator state of a reading to the channel.
// The channel has no partial updates, so nil numeric fields are coerced to 0.
// It returns the channel-assigned entry id, or 0 when the channel's response
// is not parseable as one (ThingSpeak answers "0" for a rejected update).
func (client *Client) Publish(ctx context.Context, reading *models.Reading) (int64, error) {
	params := url.Values{}
	params.Set("api_key", client.config.WriteAPIKey)
	params.Set("field1", formatNumericField(reading.Temperature))
	params.Set("field2", formatNumericField(reading.Level))
	params.Set("field3", formatStatusField(reading.PumpStatus))
	params.Set("field4", formatStatusField(reading.HeaterStatus))

	body, err := client.get(ctx, client.config.BaseURL+"/update?"+params.Encode())
	if err != nil {
		return 0, fmt.Errorf("failed to publish to channel: %w", err)
	}

	entryID, err := strconv.ParseInt(strings.TrimSpace(string(body)), 10, 64)
	if err != nil {
		client.log(slog.LevelWarn, "Channel response is not an entry id", "body", string(body))
		return 0, nil
	}

	client.log(slog.LevelDebug, "Published reading to channel", "entry_id", entryID)

	return entryID, nil
}

func (client *Client) get(ctx context.Context, rawURL string) ([]byte, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	request.Header.Set("User-Agent", USER_AGENT)

	response, err := client.httpClient.Do(request)
	if err != nil {
		return nil, err
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if response.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %s: %s", response.Status, strings.TrimSpace(string(body)))
	}

	return body, nil
}

func parseField(raw string) *float64 {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return nil
	}

	return &value
}

func formatNumericField(value *float64) string {
	if value == nil {
		return "0.00"
	}

	return strconv.FormatFloat(*value, 'f', 2, 64)
}

func formatStatusField(on bool) string {
	if on {
		return "1"
	}

	return "0"
}
