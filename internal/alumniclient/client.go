package alumniclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"alumni/internal/alumni"
	"alumni/internal/bulkimport"
)

// Client calls the alumni API's record endpoints.
type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

// New creates a client with a default timeout.
func New(baseURL, token string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		HTTP: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Create posts one record. Rejections by the server are returned as a
// response with Success false; only transport and decoding problems are errors.
func (c *Client) Create(ctx context.Context, rec alumni.Record) (bulkimport.CreateResponse, error) {
	body, err := json.Marshal(rec)
	if err != nil {
		return bulkimport.CreateResponse{}, err
	}
	req, err := c.newRequest(ctx, http.MethodPost, "/student", bytes.NewReader(body))
	if err != nil {
		return bulkimport.CreateResponse{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return bulkimport.CreateResponse{}, fmt.Errorf("alumni service request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return bulkimport.CreateResponse{}, fmt.Errorf("read response: %w", err)
	}
	var out bulkimport.CreateResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		if resp.StatusCode >= 300 {
			return bulkimport.CreateResponse{}, fmt.Errorf("alumni service error %s: %s", resp.Status, strings.TrimSpace(string(raw)))
		}
		return bulkimport.CreateResponse{}, fmt.Errorf("failed to decode response: %w", err)
	}
	if resp.StatusCode >= 300 {
		out.Success = false
		if out.Message == "" {
			out.Message = resp.Status
		}
	}
	return out, nil
}

// List returns every stored alumnus. Both a bare JSON array and a
// {"success":..,"students":[..]} envelope are accepted.
func (c *Client) List(ctx context.Context) ([]alumni.Alumnus, error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/students", nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, fmt.Errorf("alumni service request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("alumni service error %s: %s", resp.Status, strings.TrimSpace(string(raw)))
	}
	return decodeList(raw)
}

func decodeList(raw []byte) ([]alumni.Alumnus, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var list []alumni.Alumnus
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("failed to decode response: %w", err)
		}
		return list, nil
	}
	var env struct {
		Success  bool             `json:"success"`
		Message  string           `json:"message"`
		Students []alumni.Alumnus `json:"students"`
	}
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	if !env.Success && env.Students == nil {
		return nil, fmt.Errorf("alumni service error: %s", env.Message)
	}
	return env.Students, nil
}

// ExistingIDs returns the set of stored alumni ids.
func (c *Client) ExistingIDs(ctx context.Context) (bulkimport.IDSet, error) {
	list, err := c.List(ctx)
	if err != nil {
		return nil, err
	}
	ids := bulkimport.NewIDSet()
	for _, a := range list {
		if a.AlumniID != "" {
			ids.Add(a.AlumniID)
		}
	}
	return ids, nil
}

// Export downloads the directory in the given format ("csv" or "xlsx") into w.
func (c *Client) Export(ctx context.Context, format string, w io.Writer) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/students/export?format="+format, nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("alumni service request failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("alumni service error %s: %s", resp.Status, strings.TrimSpace(string(bodyBytes)))
	}
	_, err = io.Copy(w, resp.Body)
	return err
}

// Health checks if the alumni service is available.
func (c *Client) Health(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/healthz", nil)
	if err != nil {
		return err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("alumni service unavailable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("alumni service unhealthy: %s", resp.Status)
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}
	return req, nil
}
