// Package client holds the winners service's HTTP views of the nomination
// and voting services. Both snapshots are point-in-time reads with no
// cross-service consistency guarantee; the resolver tolerates skew between
// them.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"dundies/internal/platform/config"
	"dundies/internal/winners/models"
	dErrors "dundies/pkg/domain-errors"
)

// NominationsClient fetches the full nomination set in retrieval order.
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

// List returns every nomination. Order is the upstream's insertion order and
// must be preserved: the resolver's tie-break depends on it.
func (c *NominationsClient) List(ctx context.Context) ([]models.NominationSnapshot, error) {
	var snapshots []models.NominationSnapshot
	if err := getJSON(ctx, c.http, c.baseURL+"/nominations", &snapshots); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "unable to fetch nominations")
	}
	return snapshots, nil
}

// VotingClient fetches the per-nomination vote counts.
type VotingClient struct {
	baseURL string
	http    *http.Client
}

func NewVotingClient(baseURL string) *VotingClient {
	return &VotingClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: config.UpstreamTimeout},
	}
}

type voteResult struct {
	NominationID string `json:"nomination_id"`
	VoteCount    int    `json:"vote_count"`
}

// ResultsByNomination returns the vote-count snapshot keyed by nomination ID.
func (c *VotingClient) ResultsByNomination(ctx context.Context) (map[string]int, error) {
	var results []voteResult
	if err := getJSON(ctx, c.http, c.baseURL+"/votes/results", &results); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeUnavailable, "unable to fetch voting results")
	}
	counts := make(map[string]int, len(results))
	for _, r := range results {
		counts[r.NominationID] = r.VoteCount
	}
	return counts, nil
}

func getJSON(ctx context.Context, client *http.Client, url string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("upstream returned %d", resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
