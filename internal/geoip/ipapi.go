// Honeypot Attack Map - Attack Ingestion and Live Dissemination
// Copyright 2026 Rayane A. (RayaneAll)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/RayaneAll/honeypot-attack-map

package geoip

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/RayaneAll/honeypot-attack-map/internal/models"
)

// DefaultIPAPIURL is the free ip-api.com JSON endpoint.
const DefaultIPAPIURL = "http://ip-api.com/json"

const ipAPIFields = "status,message,country,countryCode,region,regionName,city,zip,lat,lon,timezone,isp,query"

// IPAPIProvider implements Provider against an ip-api.com compatible endpoint.
// The free tier allows 45 requests per minute; spacing is enforced by the
// Resolver, not here.
type IPAPIProvider struct {
	client  *http.Client
	baseURL string
}

type ipAPIResponse struct {
	Status      string  `json:"status"`  // "success" or "fail"
	Message     string  `json:"message"` // set when status is "fail"
	Country     string  `json:"country"`
	CountryCode string  `json:"countryCode"`
	Region      string  `json:"region"`
	RegionName  string  `json:"regionName"`
	City        string  `json:"city"`
	Zip         string  `json:"zip"`
	Lat         float64 `json:"lat"`
	Lon         float64 `json:"lon"`
	Timezone    string  `json:"timezone"`
	ISP         string  `json:"isp"`
	Query       string  `json:"query"`
}

// NewIPAPIProvider creates a provider for baseURL with a per-request timeout.
func NewIPAPIProvider(baseURL string, timeout time.Duration) *IPAPIProvider {
	if baseURL == "" {
		baseURL = DefaultIPAPIURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &IPAPIProvider{
		client:  &http.Client{Timeout: timeout},
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Name returns the provider name.
func (p *IPAPIProvider) Name() string {
	return "ip-api"
}

// Lookup queries the endpoint for ipAddress.
func (p *IPAPIProvider) Lookup(ctx context.Context, ipAddress string) (models.LocationRecord, error) {
	result, err := p.query(ctx, ipAddress)
	if err != nil {
		return models.LocationRecord{}, err
	}
	return convertIPAPIResponse(result), nil
}

func (p *IPAPIProvider) query(ctx context.Context, ipAddress string) (*ipAPIResponse, error) {
	url := fmt.Sprintf("%s/%s?fields=%s", p.baseURL, ipAddress, ipAPIFields)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query ip-api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("ip-api returned status %d", resp.StatusCode)
	}

	var result ipAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode ip-api response: %w", err)
	}

	if result.Status != "success" {
		return nil, fmt.Errorf("%w: %s", ErrLookupFailed, result.Message)
	}

	return &result, nil
}

func convertIPAPIResponse(result *ipAPIResponse) models.LocationRecord {
	return models.LocationRecord{
		Country:     orUnknown(result.Country),
		CountryCode: result.CountryCode,
		City:        orUnknown(result.City),
		Region:      orUnknown(result.RegionName),
		Timezone:    orDefault(result.Timezone, "UTC"),
		ISP:         orUnknown(result.ISP),
		Latitude:    result.Lat,
		Longitude:   result.Lon,
		ResolvedAt:  time.Now().UTC(),
	}
}

func orUnknown(s string) string {
	return orDefault(s, models.UnknownValue)
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
