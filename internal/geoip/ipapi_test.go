// Honeypot Attack Map - Attack Ingestion and Live Dissemination
// Copyright 2026 Rayane A. (RayaneAll)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/RayaneAll/honeypot-attack-map

package geoip

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/RayaneAll/honeypot-attack-map/internal/models"
)

func TestIPAPIProvider_Lookup(t *testing.T) {
	var gotPath, gotFields string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotFields = r.URL.Query().Get("fields")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(ipAPIResponse{
			Status:      "success",
			Country:     "Germany",
			CountryCode: "DE",
			RegionName:  "Hesse",
			City:        "Frankfurt am Main",
			Lat:         50.1109,
			Lon:         8.6821,
			Timezone:    "Europe/Berlin",
			ISP:         "Hetzner Online GmbH",
			Query:       "203.0.113.7",
		})
	}))
	defer server.Close()

	provider := NewIPAPIProvider(server.URL+"/json/", time.Second)
	record, err := provider.Lookup(context.Background(), "203.0.113.7")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}

	if gotPath != "/json/203.0.113.7" {
		t.Errorf("request path = %q, want /json/203.0.113.7", gotPath)
	}
	if !strings.Contains(gotFields, "status") || !strings.Contains(gotFields, "isp") {
		t.Errorf("fields parameter = %q, want status and isp", gotFields)
	}

	want := models.LocationRecord{
		Country:     "Germany",
		CountryCode: "DE",
		City:        "Frankfurt am Main",
		Region:      "Hesse",
		Timezone:    "Europe/Berlin",
		ISP:         "Hetzner Online GmbH",
		Latitude:    50.1109,
		Longitude:   8.6821,
	}
	record.ResolvedAt = time.Time{}
	if record != want {
		t.Errorf("Lookup() = %+v, want %+v", record, want)
	}
}

func TestIPAPIProvider_MissingFieldsDefaultToUnknown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"status":"success","country":"Iceland","lat":64.1,"lon":-21.9}`))
	}))
	defer server.Close()

	record, err := NewIPAPIProvider(server.URL, time.Second).Lookup(context.Background(), "198.51.100.1")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if record.City != models.UnknownValue || record.ISP != models.UnknownValue {
		t.Errorf("missing fields = %q/%q, want Unknown", record.City, record.ISP)
	}
	if record.Timezone != "UTC" {
		t.Errorf("Timezone = %q, want UTC", record.Timezone)
	}
}

func TestIPAPIProvider_Errors(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		body          string
		wantNotFound  bool
		wantErrSubstr string
	}{
		{
			name:          "fail status",
			status:        http.StatusOK,
			body:          `{"status":"fail","message":"reserved range"}`,
			wantNotFound:  true,
			wantErrSubstr: "reserved range",
		},
		{
			name:          "server error",
			status:        http.StatusServiceUnavailable,
			body:          `unavailable`,
			wantErrSubstr: "status 503",
		},
		{
			name:          "rate limited",
			status:        http.StatusTooManyRequests,
			body:          `{}`,
			wantErrSubstr: "status 429",
		},
		{
			name:          "malformed json",
			status:        http.StatusOK,
			body:          `{"status":`,
			wantErrSubstr: "decode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			_, err := NewIPAPIProvider(server.URL, time.Second).Lookup(context.Background(), "198.51.100.1")
			if err == nil {
				t.Fatal("Lookup() error = nil, want error")
			}
			if got := errors.Is(err, ErrLookupFailed); got != tt.wantNotFound {
				t.Errorf("errors.Is(err, ErrLookupFailed) = %v, want %v", got, tt.wantNotFound)
			}
			if !strings.Contains(err.Error(), tt.wantErrSubstr) {
				t.Errorf("error %q does not contain %q", err, tt.wantErrSubstr)
			}
		})
	}
}

func TestIPAPIProvider_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	start := time.Now()
	_, err := NewIPAPIProvider(server.URL, 50*time.Millisecond).Lookup(context.Background(), "198.51.100.1")
	if err == nil {
		t.Fatal("Lookup() error = nil, want timeout")
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Lookup() took %v, want client timeout to apply", elapsed)
	}
}

func TestNewIPAPIProvider_Defaults(t *testing.T) {
	p := NewIPAPIProvider("", 0)
	if p.baseURL != DefaultIPAPIURL {
		t.Errorf("baseURL = %q, want %q", p.baseURL, DefaultIPAPIURL)
	}
	if p.client.Timeout != 10*time.Second {
		t.Errorf("timeout = %v, want 10s", p.client.Timeout)
	}
	if p.Name() != "ip-api" {
		t.Errorf("Name() = %q", p.Name())
	}
}
