// Package client is the voting service's HTTP view of the nominations
// service. Calls carry finite timeouts; failures surface as unavailable, not
// hangs.
package client

import (
	"context"
	"fmt"
	"net/http"

	"dundies/internal/platform/config"
	dErrors "dundies/pkg/domain-errors"
)

// NominationsClient verifies nominations exist before a vote is accepted.
type NominationsClient struct {
	baseURL string
	http    *http.Client
}

func NewNominationsClient(baseURL string) *NominationsClient {
	return &NominationsClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: config.UpstreamTimeout},
	}
}

// Exists checks the nomination by ID. Unknown ID is not_found; transport or
// upstream failure is unavailable.
func (c *NominationsClient) Exists(ctx context.Context, nominationID string) error {
	url := fmt.Sprintf("%s/nominations/%s", c.baseURL, nominationID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "build nomination lookup request")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeUnavailable, "unable to verify nomination")
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		return dErrors.Newf(dErrors.CodeNotFound, "nomination %s not found", nominationID)
	default:
		return dErrors.Newf(dErrors.CodeUnavailable, "nominations service returned %d", resp.StatusCode)
	}
}
