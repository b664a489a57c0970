package gateway

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"shareit/internal/api"
	"shareit/internal/config"
	"shareit/internal/models"
)

// ServerClient forwards validated calls to the ShareIt server.
type ServerClient struct {
	baseURL    string
	authHeader string
	apiKey     string
	httpClient *http.Client
}

// NewServerClient constructs a client with the server base URL and the
// shared key the server expects.
func NewServerClient(baseURL string, timeout time.Duration, auth config.InternalAuth) *ServerClient {
	header := auth.Header
	if header == "" {
		header = "x-api-key"
	}
	return &ServerClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		authHeader: header,
		apiKey:     auth.Key,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Forward replays method, path, query, caller header and body against the
// server. The caller must close the response body.
func (c *ServerClient) Forward(ctx context.Context, in *http.Request, body []byte) (*http.Response, error) {
	endpoint := c.baseURL + in.URL.Path
	if in.URL.RawQuery != "" {
		endpoint += "?" + in.URL.RawQuery
	}

	var reader io.Reader
	if len(body) > 0 {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, in.Method, endpoint, reader)
	if err != nil {
		return nil, err
	}
	if len(body) > 0 {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID := in.Header.Get(models.HeaderUserID); userID != "" {
		req.Header.Set(models.HeaderUserID, userID)
	}
	if requestID := api.RequestIDFrom(ctx); requestID != "" {
		req.Header.Set(models.HeaderRequestID, requestID)
	}
	c.addHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("forward %s %s: %w", in.Method, in.URL.Path, err)
	}
	return resp, nil
}

func (c *ServerClient) addHeaders(req *http.Request) {
	if c.apiKey != "" {
		req.Header.Set(c.authHeader, c.apiKey)
	}
}
