// FILE: pkg/adsapi/client.go
package adsapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// APIError carries a non-200 response from the ads management API. The status
// and body are surfaced to the user verbatim; calls are never retried.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("ads api error (status %d): %s", e.StatusCode, e.Body)
}

// AuthResult is the outcome of an authenticate call. Either RefreshToken is
// set (credentials already authorized) or AuthURL and State are set and the
// user must complete the OAuth consent flow.
type AuthResult struct {
	RefreshToken string `json:"refresh_token"`
	AuthURL      string `json:"auth_url"`
	State        string `json:"state"`
}

func (r *AuthResult) Authorized() bool { return r.RefreshToken != "" }

type AuthStatus struct {
	Status       string `json:"status"`
	RefreshToken string `json:"refresh_token"`
}

func (s *AuthStatus) Complete() bool { return s.Status == "complete" }

type Campaign struct {
	ID   json.Number `json:"id"`
	Name string      `json:"name"`
}

type CampaignRequest struct {
	CampaignName string                 `json:"campaign_name"`
	DailyBudget  float64                `json:"daily_budget"`
	StartDate    string                 `json:"start_date"`
	EndDate      string                 `json:"end_date"`
	CustomerID   string                 `json:"customer_id"`
	Credentials  map[string]interface{} `json:"credentials"`
}

type AdRequest struct {
	CustomerID      string                 `json:"customer_id"`
	BusinessWebsite string                 `json:"business_website"`
	CampaignName    string                 `json:"campaign_name"`
	Headlines       []string               `json:"headlines"`
	Descriptions    []string               `json:"descriptions"`
	Keywords        []string               `json:"keywords"`
	Credentials     map[string]interface{} `json:"credentials"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *Client) post(ctx context.Context, path string, payload interface{}) ([]byte, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(bodyBytes)}
	}
	return bodyBytes, nil
}

// Authenticate trades the stored credentials for a refresh token or, when the
// account has not yet granted consent, an authorization URL and state handle.
func (c *Client) Authenticate(ctx context.Context, customerID string, credentials map[string]interface{}) (*AuthResult, error) {
	body, err := c.post(ctx, "/authenticate", map[string]interface{}{
		"customer_id": customerID,
		"credentials": credentials,
	})
	if err != nil {
		return nil, err
	}

	var result AuthResult
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("unexpected response format: %s", string(body))
	}
	if !result.Authorized() && (result.AuthURL == "" || result.State == "") {
		return nil, fmt.Errorf("unexpected authentication response: %s", string(body))
	}
	return &result, nil
}

// CheckAuthStatus polls the consent flow identified by state.
func (c *Client) CheckAuthStatus(ctx context.Context, state string) (*AuthStatus, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/check_auth_status/"+state, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, &APIError{StatusCode: resp.StatusCode, Body: string(bodyBytes)}
	}

	var status AuthStatus
	if err := json.Unmarshal(bodyBytes, &status); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return &status, nil
}

func (c *Client) GetCampaigns(ctx context.Context, customerID string, credentials map[string]interface{}) ([]Campaign, error) {
	body, err := c.post(ctx, "/get_campaigns", map[string]interface{}{
		"customer_id": customerID,
		"credentials": credentials,
	})
	if err != nil {
		return nil, err
	}

	var campaigns []Campaign
	if err := json.Unmarshal(body, &campaigns); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return campaigns, nil
}

// CreateCampaign creates a paused campaign and returns its id.
func (c *Client) CreateCampaign(ctx context.Context, req CampaignRequest) (string, error) {
	body, err := c.post(ctx, "/create_campaign", req)
	if err != nil {
		return "", err
	}

	var result struct {
		CampaignID json.Number `json:"campaign_id"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", fmt.Errorf("failed to decode response: %w", err)
	}
	return result.CampaignID.String(), nil
}

// CreateAd creates a single responsive search ad in the named campaign.
func (c *Client) CreateAd(ctx context.Context, req AdRequest) error {
	_, err := c.post(ctx, "/create_ad", req)
	return err
}
