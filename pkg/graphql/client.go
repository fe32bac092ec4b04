// Package graphql searches dispatched messages through the indexer's
// GraphQL API.
package graphql

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/praetorian-inc/hyperlane-cli/pkg/matchlist"
	"github.com/praetorian-inc/hyperlane-cli/pkg/types"
	"golang.org/x/oauth2"
)

// DefaultEndpoint is the public Hyperlane indexer.
const DefaultEndpoint = "https://api.hyperlane.xyz/v1/graphql"

// MessageQuery selects messages by the flat-cased canonical variables.
// Variables left unset are unconstrained.
const MessageQuery = `
query Message(
  $senderaddress: [bytea!],
  $recipientaddress: [bytea!],
  $origindomain: [Int!],
  $destinationdomain: [Int!],
  $limit: Int
) {
  message(
    where: {
      sender: {_in: $senderaddress},
      recipient: {_in: $recipientaddress},
      origin: {_in: $origindomain},
      destination: {_in: $destinationdomain}
    }
    order_by: {time_created: desc}
    limit: $limit
  ) {
    destination
    id
    msg_body
    msg_id
    nonce
    origin
    origin_mailbox
    origin_tx_id
    recipient
    sender
    time_created
  }
}
`

// Query is the request envelope.
type Query struct {
	Query     string `json:"query"`
	Variables any    `json:"variables,omitempty"`
}

// Response is the response envelope.
type Response[T any] struct {
	Data   T      `json:"data"`
	Errors Errors `json:"errors,omitempty"`
}

// Error is a single GraphQL error.
type Error struct {
	Message string `json:"message"`
}

// Errors is the GraphQL error list.
type Errors []Error

func (e Errors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, err := range e {
		msgs = append(msgs, err.Message)
	}
	return "graphql: " + strings.Join(msgs, "; ")
}

type messageData struct {
	Message []*types.Message `json:"message"`
}

// Config configures a Client.
type Config struct {
	Endpoint   string       // defaults to DefaultEndpoint
	Token      string       // optional bearer token
	HTTPClient *http.Client // defaults to http.DefaultClient
}

// Client issues GraphQL requests.
type Client struct {
	endpoint string
	client   *http.Client
}

// NewClient creates a client. A non-empty token is attached as a bearer
// token to every request.
func NewClient(cfg Config) *Client {
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	client := cfg.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	if cfg.Token != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, client)
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.Token})
		client = oauth2.NewClient(ctx, ts)
	}

	return &Client{
		endpoint: endpoint,
		client:   client,
	}
}

// Endpoint returns the configured endpoint URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// Do posts a query and decodes the "data" member into out.
func (c *Client) Do(ctx context.Context, query string, variables any, out any) error {
	body, err := json.Marshal(Query{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("encoding request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(snippet)))
	}

	envelope := Response[json.RawMessage]{}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	if len(envelope.Errors) > 0 {
		return envelope.Errors
	}
	if out == nil || len(envelope.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(envelope.Data, out); err != nil {
		return fmt.Errorf("decoding data: %w", err)
	}
	return nil
}

// Search runs MessageQuery for one canonical payload.
func (c *Client) Search(ctx context.Context, vars matchlist.Variables, limit int) ([]*types.Message, error) {
	variables := vars.Map()
	if limit > 0 {
		variables["limit"] = limit
	}

	var data messageData
	if err := c.Do(ctx, MessageQuery, variables, &data); err != nil {
		return nil, err
	}
	return data.Message, nil
}
