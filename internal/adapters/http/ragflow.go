package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/bft-labs/chainreport/internal/domain"
	"github.com/bft-labs/chainreport/internal/ports"
	"github.com/bft-labs/chainreport/pkg/log"
)

// DefaultRagflowURL is the base URL of the Ragflow chat API.
const DefaultRagflowURL = "http://demo.ragflow.io/v1/api"

const (
	newConversationEndpoint = "/new_conversation"
	completionEndpoint      = "/completion"
)

// RagflowClient implements ports.Completer with the Ragflow chat API.
// Every completion runs in a fresh conversation.
type RagflowClient struct {
	baseURL string
	userID  string
	apiKey  string
	client  ports.HTTPClient
	logger  ports.Logger
}

// NewRagflowClient creates a Ragflow completer.
func NewRagflowClient(baseURL, userID, apiKey string, client ports.HTTPClient, logger ports.Logger) *RagflowClient {
	return &RagflowClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		userID:  userID,
		apiKey:  apiKey,
		client:  client,
		logger:  logger,
	}
}

// Name returns the provider identifier.
func (c *RagflowClient) Name() string { return "ragflow" }

type ragflowConversation struct {
	Data *struct {
		ID string `json:"id"`
	} `json:"data"`
}

type ragflowMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type ragflowCompletionRequest struct {
	ConversationID string           `json:"conversation_id"`
	Messages       []ragflowMessage `json:"messages"`
	Quote          bool             `json:"quote"`
	Stream         bool             `json:"stream"`
}

type ragflowCompletionResponse struct {
	RetCode *int   `json:"retcode"`
	RetMsg  string `json:"retmsg"`
	Data    *struct {
		Answer string `json:"answer"`
	} `json:"data"`
}

// Complete opens a conversation and sends prompt as a single user message.
func (c *RagflowClient) Complete(ctx context.Context, prompt string) (string, error) {
	convID, err := c.newConversation(ctx)
	if err != nil {
		return "", err
	}
	c.logger.Debug("ragflow conversation created", log.String("conversation_id", convID))

	payload, err := json.Marshal(ragflowCompletionRequest{
		ConversationID: convID,
		Messages:       []ragflowMessage{{Role: "user", Content: prompt}},
	})
	if err != nil {
		return "", fmt.Errorf("marshal completion: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+completionEndpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	var out ragflowCompletionResponse
	if err := c.do(req, &out); err != nil {
		return "", fmt.Errorf("completion: %w", err)
	}
	if out.RetCode == nil || *out.RetCode != 0 || out.Data == nil {
		return "", fmt.Errorf("%w: ragflow retcode %v: %s", domain.ErrCompletionFailed, derefInt(out.RetCode), out.RetMsg)
	}
	if strings.TrimSpace(out.Data.Answer) == "" {
		return "", fmt.Errorf("%w: empty answer", domain.ErrCompletionFailed)
	}
	return out.Data.Answer, nil
}

func (c *RagflowClient) newConversation(ctx context.Context) (string, error) {
	q := url.Values{}
	q.Set("user_id", c.userID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+newConversationEndpoint+"?"+q.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	var out ragflowConversation
	if err := c.do(req, &out); err != nil {
		return "", fmt.Errorf("new conversation: %w", err)
	}
	if out.Data == nil || out.Data.ID == "" {
		return "", fmt.Errorf("%w: no conversation id", domain.ErrCompletionFailed)
	}
	return out.Data.ID, nil
}

func (c *RagflowClient) do(req *http.Request, out interface{}) error {
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: send request: %w", domain.ErrTransport, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %w", domain.ErrTransport, err)
	}
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("%w: server returned %d: %s", domain.ErrTransport, resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode response: %v", domain.ErrTransport, err)
	}
	return nil
}

func derefInt(p *int) interface{} {
	if p == nil {
		return "missing"
	}
	return *p
}
