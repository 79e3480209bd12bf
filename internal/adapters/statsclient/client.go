package statsclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"eventboard/internal/domain"
)

type statsHTTPClient struct {
	baseURL string
	client  *http.Client
}

// New returns a StatsClient talking to the stats server at baseURL.
func New(baseURL string, client *http.Client) domain.StatsClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &statsHTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

type hitPayload struct {
	App       string `json:"app"`
	URI       string `json:"uri"`
	IP        string `json:"ip"`
	Timestamp string `json:"timestamp"`
}

func (c *statsHTTPClient) Hit(ctx context.Context, hit *domain.EndpointHit) error {
	body, err := json.Marshal(hitPayload{
		App:       hit.App,
		URI:       hit.URI,
		IP:        hit.IP,
		Timestamp: hit.Timestamp.Format(domain.DateTimeLayout),
	})
	if err != nil {
		return fmt.Errorf("marshal hit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/hit", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create hit request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send hit: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("stats server returned status %d", resp.StatusCode)
	}
	return nil
}

type statsResponse struct {
	Data  []*domain.ViewStats `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *statsHTTPClient) Stats(ctx context.Context, filter domain.StatsFilter) ([]*domain.ViewStats, error) {
	params := url.Values{}
	params.Set("start", filter.Start.Format(domain.DateTimeLayout))
	params.Set("end", filter.End.Format(domain.DateTimeLayout))
	params.Set("unique", strconv.FormatBool(filter.Unique))
	for _, uri := range filter.URIs {
		params.Add("uris", uri)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/stats?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create stats request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch stats: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("stats server returned status %d", resp.StatusCode)
	}

	var parsed statsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode stats response: %w", err)
	}
	if parsed.Error != nil {
		return nil, fmt.Errorf("stats server error: %s", parsed.Error.Message)
	}
	return parsed.Data, nil
}
