package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/dghubble/oauth1"

	"github.com/bft-labs/chainreport/internal/domain"
	"github.com/bft-labs/chainreport/internal/ports"
	"github.com/bft-labs/chainreport/pkg/log"
)

// DefaultTwitterURL is the base URL of the Twitter v2 API.
const DefaultTwitterURL = "https://api.twitter.com"

const createTweetEndpoint = "/2/tweets"

// Credentials are the OAuth 1.0a user-context keys of the posting account.
// They are passed through as-is; missing values surface as an
// authentication error from the API.
type Credentials struct {
	APIKey            string
	APISecret         string
	AccessToken       string
	AccessTokenSecret string
}

// NewOAuthClient returns an HTTP client that signs every request with creds.
func NewOAuthClient(ctx context.Context, creds Credentials, timeout time.Duration) *http.Client {
	cfg := oauth1.NewConfig(creds.APIKey, creds.APISecret)
	token := oauth1.NewToken(creds.AccessToken, creds.AccessTokenSecret)
	hc := cfg.Client(ctx, token)
	hc.Timeout = timeout
	return hc
}

// TwitterClient implements ports.Poster with the Twitter v2 API.
type TwitterClient struct {
	baseURL string
	client  ports.HTTPClient
	logger  ports.Logger
}

// NewTwitterClient creates a poster. client must already sign requests,
// see NewOAuthClient.
func NewTwitterClient(baseURL string, client ports.HTTPClient, logger ports.Logger) *TwitterClient {
	return &TwitterClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		logger:  logger,
	}
}

type tweetReply struct {
	InReplyToTweetID string `json:"in_reply_to_tweet_id"`
}

type createTweetRequest struct {
	Text  string      `json:"text"`
	Reply *tweetReply `json:"reply,omitempty"`
}

type createTweetResponse struct {
	Data *struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"data"`
}

// CreatePost publishes a tweet, as a reply when replyTo is set.
func (c *TwitterClient) CreatePost(ctx context.Context, text, replyTo string) (string, error) {
	body := createTweetRequest{Text: text}
	if replyTo != "" {
		body.Reply = &tweetReply{InReplyToTweetID: replyTo}
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal tweet: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+createTweetEndpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: send request: %w", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %w", domain.ErrTransport, err)
	}
	if resp.StatusCode/100 != 2 {
		return "", fmt.Errorf("%w: server returned %d: %s", domain.ErrTransport, resp.StatusCode, string(respBody))
	}

	var out createTweetResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", domain.ErrTransport, err)
	}
	if out.Data == nil || out.Data.ID == "" {
		return "", fmt.Errorf("%w: response has no tweet id", domain.ErrTransport)
	}
	c.logger.Debug("tweet created", log.String("id", out.Data.ID), log.String("reply_to", replyTo))
	return out.Data.ID, nil
}
