package transport

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/CC-Digital-Innovation/warranty-sync/pkg/errors"
)

// TestClientAppliesAuthAndHeaders tests that Do applies authentication and
// the common headers.
func TestClientAppliesAuthAndHeaders(t *testing.T) {
	var gotAuth, gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAccept = r.Header.Get("Accept")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := New("cisco", &BearerAuth{Token: "tok"})
	resp, err := client.Get(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	resp.Body.Close()

	if gotAuth != "Bearer tok" {
		t.Errorf("Expected 'Bearer tok', got '%s'", gotAuth)
	}
	if gotAccept != "application/json" {
		t.Errorf("Expected Accept header 'application/json', got '%s'", gotAccept)
	}
}

// TestClientPatchSetsContentType tests that PATCH requests carry a JSON
// content type.
func TestClientPatchSetsContentType(t *testing.T) {
	var gotContentType, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		buf := make([]byte, r.ContentLength)
		r.Body.Read(buf)
		gotBody = string(buf)
		w.Write([]byte(`{"result":{}}`))
	}))
	defer server.Close()

	client := New("servicenow", &BasicAuth{Username: "u", Password: "p"})
	err := client.Patch(context.Background(), server.URL, strings.NewReader(`{"warranty_expiration":"2027-01-31"}`), nil)
	if err != nil {
		t.Fatalf("Patch() error = %v", err)
	}

	if gotContentType != "application/json" {
		t.Errorf("Expected Content-Type 'application/json', got '%s'", gotContentType)
	}
	if !strings.Contains(gotBody, "warranty_expiration") {
		t.Errorf("Expected body to carry the patch payload, got '%s'", gotBody)
	}
}

// TestDecodeResponseStatusError tests mapping of non-2xx responses.
func TestDecodeResponseStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error":"Developer Inactive"}`))
	}))
	defer server.Close()

	client := New("cisco", &NoAuth{})
	var target map[string]any
	err := client.GetJSON(context.Background(), server.URL, &target)
	if err == nil {
		t.Fatal("Expected an error for 403 response")
	}

	var apiErr *pkgerrors.APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("Expected APIError, got %T", err)
	}
	if apiErr.StatusCode != http.StatusForbidden {
		t.Errorf("Expected status 403, got %d", apiErr.StatusCode)
	}
	if apiErr.System != "cisco" {
		t.Errorf("Expected system 'cisco', got '%s'", apiErr.System)
	}
	if !strings.Contains(apiErr.Message, "Developer Inactive") {
		t.Errorf("Expected body in message, got '%s'", apiErr.Message)
	}
	if !errors.Is(err, pkgerrors.ErrCredentialsInvalid) {
		t.Error("403 should map to ErrCredentialsInvalid")
	}
}

// TestDecodeResponseMalformedJSON tests that bad payloads become parse errors.
func TestDecodeResponseMalformedJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"serial_numbers": [`))
	}))
	defer server.Close()

	client := New("dell", &NoAuth{})
	var target map[string]any
	err := client.GetJSON(context.Background(), server.URL, &target)
	if err == nil {
		t.Fatal("Expected an error for malformed JSON")
	}

	var parseErr *pkgerrors.ParseError
	if !errors.As(err, &parseErr) {
		t.Fatalf("Expected ParseError, got %T", err)
	}
	if parseErr.Format != "json" {
		t.Errorf("Expected format 'json', got '%s'", parseErr.Format)
	}
}

// TestDecodeResponseNilTarget tests that callers can discard bodies.
func TestDecodeResponseNilTarget(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"result":{}}`))
	}))
	defer server.Close()

	client := New("servicenow", &NoAuth{})
	resp, err := client.Get(context.Background(), server.URL)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if err := DecodeResponse("servicenow", resp, nil); err != nil {
		t.Errorf("DecodeResponse() with nil target error = %v", err)
	}
}

// TestClientCredentialsTokenFetch tests the OAuth2 session against a fake
// token endpoint.
func TestClientCredentialsTokenFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST, got %s", r.Method)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("ParseForm() error = %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"granted-token","token_type":"Bearer","expires_in":3599}`))
	}))
	defer server.Close()

	source := ClientCredentials(context.Background(), server.Client(), "client-id", "client-secret", server.URL)
	if err := VerifyTokenSource("cisco", source); err != nil {
		t.Fatalf("VerifyTokenSource() error = %v", err)
	}

	token, err := source.Token()
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if token.AccessToken != "granted-token" {
		t.Errorf("Expected 'granted-token', got '%s'", token.AccessToken)
	}
}

// TestVerifyTokenSourceRejection tests that a rejecting endpoint surfaces an
// authentication error.
func TestVerifyTokenSourceRejection(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"error":"invalid_client"}`))
	}))
	defer server.Close()

	source := ClientCredentials(context.Background(), server.Client(), "bad-id", "bad-secret", server.URL)
	err := VerifyTokenSource("dell", source)
	if err == nil {
		t.Fatal("Expected an error from rejecting token endpoint")
	}

	var authErr *pkgerrors.AuthenticationError
	if !errors.As(err, &authErr) {
		t.Fatalf("Expected AuthenticationError, got %T", err)
	}
	if authErr.System != "dell" {
		t.Errorf("Expected system 'dell', got '%s'", authErr.System)
	}
}

// TestNewHTTPClientInsecure tests the TLS opt-out wiring.
func TestNewHTTPClientInsecure(t *testing.T) {
	client := NewHTTPClient(true)
	transport, ok := client.Transport.(*http.Transport)
	if !ok {
		t.Fatal("Expected *http.Transport")
	}
	if transport.TLSClientConfig == nil || !transport.TLSClientConfig.InsecureSkipVerify {
		t.Error("Expected InsecureSkipVerify to be set")
	}

	secure := NewHTTPClient(false)
	if secure.Transport != nil {
		t.Error("Expected default transport when verification is on")
	}
}
