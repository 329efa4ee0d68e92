package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gunjanbelwal79/TRAVELTINDER/internal/adapters/httpapi"
)

const defaultTimeout = 10 * time.Second

// apiError is a non-2xx response decoded from the API error envelope.
type apiError struct {
	Status  int
	Code    string
	Message string
}

func (e *apiError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.Status, e.Code, e.Message)
}

type client struct {
	base string
	http *http.Client
}

func newClient(base string, timeout time.Duration) *client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &client{
		base: strings.TrimRight(base, "/"),
		http: &http.Client{Timeout: timeout},
	}
}

func (c *client) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode >= 300 {
		var er struct {
			Error struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			} `json:"error"`
		}
		_ = json.Unmarshal(raw, &er)
		return &apiError{Status: resp.StatusCode, Code: er.Error.Code, Message: er.Error.Message}
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(raw, out)
}

func (c *client) register(ctx context.Context, email, password, name string) (httpapi.SessionResponse, error) {
	var out httpapi.SessionResponse
	err := c.do(ctx, http.MethodPost, "/api/register", "", httpapi.RegisterRequest{
		Email:    email,
		Password: password,
		Name:     name,
	}, &out)
	return out, err
}

func (c *client) createTrip(ctx context.Context, token string, in map[string]any) (httpapi.CreateTripResponse, error) {
	var out httpapi.CreateTripResponse
	err := c.do(ctx, http.MethodPost, "/api/trips", token, in, &out)
	return out, err
}

func (c *client) joinTrip(ctx context.Context, token, tripID string) error {
	return c.do(ctx, http.MethodPost, "/api/trips/"+tripID+"/join", token, nil, nil)
}

func (c *client) sendMessage(ctx context.Context, token, tripID, content string) error {
	return c.do(ctx, http.MethodPost, "/api/messages/"+tripID, token, httpapi.SendMessageRequest{Content: content}, nil)
}

func (c *client) listMessages(ctx context.Context, token, tripID string) ([]httpapi.Message, error) {
	var out []httpapi.Message
	err := c.do(ctx, http.MethodGet, "/api/messages/"+tripID, token, nil, &out)
	return out, err
}
