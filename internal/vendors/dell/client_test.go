package dell

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/CC-Digital-Innovation/warranty-sync/pkg/errors"
)

func newTokenHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"test-token","token_type":"Bearer","expires_in":3600}`))
	}
}

func newTestClient(t *testing.T, entitlements http.HandlerFunc) *Client {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/oauth/token", newTokenHandler())
	mux.HandleFunc("/entitlements", entitlements)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return New(context.Background(), Config{
		ClientID:     "client-id",
		ClientSecret: "client-secret",
		TokenURL:     server.URL + "/oauth/token",
		WarrantyURL:  server.URL + "/entitlements",
	}, WithHTTPClient(server.Client()))
}

// TestLookupEntitlements tests per-entitlement records and the uncovered
// shapes for invalid and entitlement-less tags.
func TestLookupEntitlements(t *testing.T) {
	var gotTags string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("Expected bearer token, got %q", got)
		}
		gotTags = r.URL.Query().Get("servicetags")
		w.Write([]byte(`[
			{"serviceTag":"ABC1234","invalid":false,"entitlements":[
				{"startDate":"2021-02-01T06:00:00Z","endDate":"2024-02-01T23:59:59.999Z","serviceLevelDescription":"Basic Hardware Warranty"},
				{"startDate":"2021-02-01T06:00:00Z","endDate":"2026-02-01T23:59:59.999Z","serviceLevelDescription":"ProSupport Plus"}
			]},
			{"serviceTag":"DEF5678","invalid":true,"entitlements":[]},
			{"serviceTag":"GHI9012","invalid":false,"entitlements":[]}
		]`))
	})

	records, err := client.Lookup(context.Background(), []string{"ABC1234", "DEF5678", "GHI9012"})
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}

	if gotTags != "ABC1234,DEF5678,GHI9012" {
		t.Errorf("Expected comma-joined servicetags, got %q", gotTags)
	}
	if len(records) != 4 {
		t.Fatalf("Expected 4 records (2 entitlements + 2 uncovered), got %d: %v", len(records), records)
	}

	first, second := records[0], records[1]
	if first.ServiceLevel != "Basic Hardware Warranty" || second.ServiceLevel != "ProSupport Plus" {
		t.Errorf("Unexpected service levels: %q, %q", first.ServiceLevel, second.ServiceLevel)
	}
	if first.WarrantyEnd.String() != "2024-02-01" || second.WarrantyEnd.String() != "2026-02-01" {
		t.Errorf("Unexpected warranty ends: %q, %q", first.WarrantyEnd.String(), second.WarrantyEnd.String())
	}
	if first.WarrantyStart.String() != "2021-02-01" {
		t.Errorf("Unexpected warranty start: %q", first.WarrantyStart.String())
	}
	if first.Covered == nil || !*first.Covered {
		t.Error("Entitled tag should be covered")
	}

	for _, rec := range records[2:] {
		if rec.Covered == nil || *rec.Covered {
			t.Errorf("Tag %s should be uncovered", rec.Serial)
		}
		if rec.WarrantyEnd != nil || rec.HasWarrantyData() {
			t.Errorf("Tag %s should carry no warranty data", rec.Serial)
		}
	}
}

// TestLookupBatchSplitting tests the 100-tag batch limit.
func TestLookupBatchSplitting(t *testing.T) {
	var batches []int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		batches = append(batches, len(strings.Split(r.URL.Query().Get("servicetags"), ",")))
		w.Write([]byte(`[]`))
	})

	serials := make([]string, 120)
	for i := range serials {
		serials[i] = fmt.Sprintf("TAG%04d", i)
	}

	if _, err := client.Lookup(context.Background(), serials); err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if len(batches) != 2 || batches[0] != 100 || batches[1] != 20 {
		t.Errorf("Expected batches of 100 and 20, got %v", batches)
	}
}

// TestLookupSkipsFailedBatches tests that one failed batch does not lose the
// other batches.
func TestLookupSkipsFailedBatches(t *testing.T) {
	var calls int
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`[{"serviceTag":"SURVIVOR","invalid":false,"entitlements":[
			{"endDate":"2027-06-30T23:59:59Z","serviceLevelDescription":"ProSupport"}
		]}]`))
	})

	serials := make([]string, 101)
	for i := range serials {
		serials[i] = fmt.Sprintf("TAG%04d", i)
	}

	records, err := client.Lookup(context.Background(), serials)
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if len(records) != 1 || records[0].Serial != "SURVIVOR" {
		t.Fatalf("Expected the second batch to survive, got %v", records)
	}
}

// TestLookupOutage tests that an error comes back when no batch succeeds.
func TestLookupOutage(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	records, err := client.Lookup(context.Background(), []string{"ABC1234"})
	if err == nil {
		t.Fatal("Expected an error when every batch fails")
	}
	if records != nil {
		t.Errorf("Expected no records, got %v", records)
	}
}

// TestVerify tests eager token fetching against a rejecting endpoint.
func TestVerify(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	})
	if err := client.Verify(context.Background()); err != nil {
		t.Errorf("Verify() error = %v", err)
	}

	rejecting := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid_client"}`))
	}))
	defer rejecting.Close()

	bad := New(context.Background(), Config{
		ClientID:     "bad-id",
		ClientSecret: "bad-secret",
		TokenURL:     rejecting.URL,
		WarrantyURL:  rejecting.URL,
	}, WithHTTPClient(rejecting.Client()))

	err := bad.Verify(context.Background())
	var authErr *pkgerrors.AuthenticationError
	if !errors.As(err, &authErr) {
		t.Fatalf("Expected AuthenticationError, got %v", err)
	}
	if authErr.System != "dell" {
		t.Errorf("Expected system 'dell', got %q", authErr.System)
	}
}
