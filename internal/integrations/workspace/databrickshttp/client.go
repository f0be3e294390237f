package databrickshttp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/pkg/errors"
)

// Client issues short-lived database credentials from a workspace API.
type Client struct {
	baseURL string
	token   string
	httpc   *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpc: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type credentialRequest struct {
	RequestID     string   `json:"request_id"`
	InstanceNames []string `json:"instance_names"`
}

type credentialResponse struct {
	Token          string `json:"token"`
	ExpirationTime string `json:"expiration_time"`
}

func (c *Client) Issue(ctx context.Context, requestID, instanceName string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", errors.Wrap(err, "parse base url")
	}
	u.Path = "/api/2.0/database/credentials"

	body, err := json.Marshal(credentialRequest{
		RequestID:     requestID,
		InstanceNames: []string{instanceName},
	})
	if err != nil {
		return "", errors.Wrap(err, "marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.String(), bytes.NewReader(body))
	if err != nil {
		return "", errors.Wrap(err, "new request")
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "do request")
	}
	defer resp.Body.Close()

	if resp.StatusCode/100 != 2 {
		return "", fmt.Errorf("workspace credentials http %d", resp.StatusCode)
	}

	var r credentialResponse
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return "", errors.Wrap(err, "decode")
	}
	if r.Token == "" {
		return "", errors.New("workspace credentials: empty token in response")
	}
	return r.Token, nil
}
