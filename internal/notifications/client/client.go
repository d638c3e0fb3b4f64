// Package client is the notifications service's HTTP view of the winners
// service.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"dundies/internal/notifications/models"
	"dundies/internal/platform/config"
	dErrors "dundies/pkg/domain-errors"
)

// WinnersClient fetches the current winner set.
type WinnersClient struct {
	baseURL string
	http    *http.Client
}

func NewWinnersClient(baseURL string) *WinnersClient {
	return &WinnersClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: config.UpstreamTimeout},
	}
}

func (c *WinnersClient) List(ctx context.Context) ([]models.WinnerSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/winners", nil)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "build winners request")
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "unable to fetch winners")
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, dErrors.Newf(dErrors.CodeUnavailable, "winners service returned %d", resp.StatusCode)
	}
	var winners []models.WinnerSnapshot
	if err := json.NewDecoder(resp.Body).Decode(&winners); err != nil {
		return nil, dErrors.Wrap(fmt.Errorf("decode winners: %w", err), dErrors.CodeUnavailable, "unable to fetch winners")
	}
	return winners, nil
}
