package store

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"bylines/internal/models"
)

// APIClient is the HTTP Fetcher used by editor-side tooling. It talks to
// the same JSON endpoints the editor UI consumes.
type APIClient struct {
	baseURL string
	client  *http.Client
}

func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *APIClient) Post(ctx context.Context, id int64) (PostRecord, error) {
	var record PostRecord
	err := c.getJSON(ctx, fmt.Sprintf("/api/posts/%d", id), &record)
	return record, err
}

func (c *APIClient) Roles(ctx context.Context) ([]models.Role, error) {
	var roles []models.Role
	if err := c.getJSON(ctx, "/api/roles", &roles); err != nil {
		return nil, err
	}
	return roles, nil
}

func (c *APIClient) Contributors(ctx context.Context, ids []int64) ([]models.Contributor, error) {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprintf("%d", id)
	}
	var contributors []models.Contributor
	path := "/api/contributors?include=" + strings.Join(parts, ",")
	if err := c.getJSON(ctx, path, &contributors); err != nil {
		return nil, err
	}
	return contributors, nil
}

func (c *APIClient) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("GET %s: unexpected status %d", path, resp.StatusCode)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
