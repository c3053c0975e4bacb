// Package client is a Go client for the mock campaigns API.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/foxzi/campaignmock/internal/api"
	"github.com/foxzi/campaignmock/internal/campaign"
)

// ErrNotFound is returned by GetCampaign for unknown ids
var ErrNotFound = errors.New("campaign not found")

// APIError is a non-2xx response
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("HTTP %d", e.StatusCode)
	}
	return fmt.Sprintf("API error (HTTP %d): %s", e.StatusCode, e.Message)
}

// Client is a campaigns API client
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// NewClient creates a new API client
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// ListOptions selects a page of campaigns. Zero values are left out of the
// request so the server defaults apply.
type ListOptions struct {
	Automation          *bool
	OrderBySendDate     string // "asc" or "desc"
	OrderByLastSendDate string
	Limit               int
	Offset              int
}

func (o ListOptions) values() url.Values {
	v := url.Values{}
	if o.Automation != nil {
		v.Set(api.ParamAutomation, strconv.FormatBool(*o.Automation))
	}
	if o.OrderBySendDate != "" {
		v.Set(api.ParamOrderSend, o.OrderBySendDate)
	}
	if o.OrderByLastSendDate != "" {
		v.Set(api.ParamOrderLast, o.OrderByLastSendDate)
	}
	if o.Limit > 0 {
		v.Set(api.ParamLimit, strconv.Itoa(o.Limit))
	}
	if o.Offset > 0 {
		v.Set(api.ParamOffset, strconv.Itoa(o.Offset))
	}
	return v
}

// request performs a GET request against the API
func (c *Client) request(ctx context.Context, path string, query url.Values, result any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	req.Header.Set(api.TokenHeader, c.token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var errResp api.ErrorResponse
		if body, err := io.ReadAll(resp.Body); err == nil && json.Unmarshal(body, &errResp) == nil {
			apiErr.Message = errResp.Message
		}
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	return nil
}

// Health checks server health
func (c *Client) Health(ctx context.Context) (*api.HealthResponse, error) {
	var resp api.HealthResponse
	if err := c.request(ctx, "/health", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListCampaigns fetches one page of campaigns
func (c *Client) ListCampaigns(ctx context.Context, opts ListOptions) (*api.ListResponse, error) {
	var resp api.ListResponse
	if err := c.request(ctx, "/api/3/campaigns", opts.values(), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// GetCampaign fetches a single campaign
func (c *Client) GetCampaign(ctx context.Context, id int64) (*api.CampaignResource, error) {
	var resp api.CampaignResponse
	err := c.request(ctx, "/api/3/campaigns/"+strconv.FormatInt(id, 10), nil, &resp)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
			return nil, fmt.Errorf("%w: %d", ErrNotFound, id)
		}
		return nil, err
	}
	return &resp.Campaign, nil
}

// AllCampaigns pages through every campaign matching opts, starting at
// opts.Offset. opts.Limit is the page size (default: the server maximum).
func (c *Client) AllCampaigns(ctx context.Context, opts ListOptions) ([]api.CampaignResource, error) {
	if opts.Limit <= 0 {
		opts.Limit = campaign.MaxLimit
	}

	var all []api.CampaignResource
	for {
		page, err := c.ListCampaigns(ctx, opts)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Campaigns...)

		total, err := strconv.Atoi(page.Meta.Total)
		if err != nil {
			return nil, fmt.Errorf("invalid meta.total %q: %w", page.Meta.Total, err)
		}

		opts.Offset += len(page.Campaigns)
		if len(page.Campaigns) == 0 || opts.Offset >= total {
			return all, nil
		}
	}
}
