package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rambozzang/smart-turbo-cli/internal/domain/session"
)

// memTokens implements TokenSource and session.TokenStore in memory.
type memTokens struct {
	mu    sync.Mutex
	token string
}

func (m *memTokens) Token() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

func (m *memTokens) SetToken(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *memTokens) ClearToken() error {
	return m.SetToken("")
}

// countingInvalidator implements Invalidator, clearing the token store
// and counting invocations.
type countingInvalidator struct {
	tokens *memTokens
	calls  int
}

func (i *countingInvalidator) SessionInvalid() {
	i.calls++
	_ = i.tokens.ClearToken()
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestAuthorizationHeaderFollowsTokenSource(t *testing.T) {
	var gotAuth []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = append(gotAuth, r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("[]"))
	}))
	defer server.Close()

	tokens := &memTokens{}
	client := NewClient(
		WithBaseURL(server.URL),
		WithTokenSource(tokens),
		WithLogger(testLogger()),
	)

	// No token: the request goes out unauthenticated.
	if _, err := client.ListTests(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Token appears mid-session: honored on the very next call.
	_ = tokens.SetToken("tok-1")
	if _, err := client.ListTests(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Token cleared: every subsequent request omits the header.
	_ = tokens.ClearToken()
	if _, err := client.ListTests(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{"", "Bearer tok-1", ""}
	for i, w := range want {
		if gotAuth[i] != w {
			t.Errorf("request %d: auth header %q, want %q", i, gotAuth[i], w)
		}
	}
}

func TestRequestIDHeaderSet(t *testing.T) {
	var gotID string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get("X-Request-Id")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL), WithLogger(testLogger()))
	if err := client.Do(context.Background(), http.MethodGet, "/api/tests", nil, nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotID == "" {
		t.Error("expected X-Request-Id to be set")
	}
}

func TestUnauthorizedClearsSessionOnce(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(ErrorResponse{
			Status: 401, Error: "Unauthorized", Message: "token expired", Path: r.URL.Path,
		})
	}))
	defer server.Close()

	tokens := &memTokens{token: "stale"}
	inv := &countingInvalidator{tokens: tokens}
	client := NewClient(
		WithBaseURL(server.URL),
		WithTokenSource(tokens),
		WithInvalidator(inv),
		WithLogger(testLogger()),
	)

	_, err := client.ListTests(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, ErrUnauthorized) {
		t.Errorf("expected ErrUnauthorized, got %T", err)
	}
	var authErr *AuthError
	if !errors.As(err, &authErr) {
		t.Fatal("expected *AuthError")
	}
	if authErr.Payload.Message != "token expired" {
		t.Errorf("expected payload message, got %q", authErr.Payload.Message)
	}

	// Both 401 effects, exactly once per failing call.
	if inv.calls != 1 {
		t.Errorf("expected one invalidation, got %d", inv.calls)
	}
	if tokens.Token() != "" {
		t.Error("expected persisted token to be cleared")
	}

	// A second failing call invalidates again; redirects are idempotent.
	_, _ = client.ListTests(context.Background())
	if inv.calls != 2 {
		t.Errorf("expected one invalidation per failing call, got %d", inv.calls)
	}
}

func TestForbiddenLeavesSessionIntact(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_ = json.NewEncoder(w).Encode(ErrorResponse{
			Status: 403, Error: "Forbidden", Message: "insufficient role", Path: r.URL.Path,
		})
	}))
	defer server.Close()

	tokens := &memTokens{token: "tok"}
	inv := &countingInvalidator{tokens: tokens}
	client := NewClient(
		WithBaseURL(server.URL),
		WithTokenSource(tokens),
		WithInvalidator(inv),
		WithLogger(testLogger()),
	)

	_, err := client.ListUsers(context.Background(), 0, 20)
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if inv.calls != 0 {
		t.Error("403 must not invalidate the session")
	}
	if tokens.Token() != "tok" {
		t.Error("403 must not touch the persisted token")
	}
	if got := Message(err); got != "insufficient role" {
		t.Errorf("expected payload message, got %q", got)
	}
}

func TestServerErrorClassification(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL), WithLogger(testLogger()))

	_, err := client.ListResults(context.Background())
	if !errors.Is(err, ErrServer) {
		t.Fatalf("expected ErrServer, got %v", err)
	}
	var srvErr *ServerError
	if !errors.As(err, &srvErr) {
		t.Fatal("expected *ServerError")
	}
	if srvErr.StatusCode != http.StatusBadGateway {
		t.Errorf("expected 502, got %d", srvErr.StatusCode)
	}
}

func TestValidationErrorPassedThrough(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(ErrorResponse{
			Timestamp: "2024-05-01T12:00:00Z",
			Status:    400,
			Error:     "Bad Request",
			Message:   "duration must be a positive interval",
			Path:      "/api/tests",
		})
	}))
	defer server.Close()

	client := NewClient(WithBaseURL(server.URL), WithLogger(testLogger()))

	_, err := client.CreateTest(context.Background(), CreateTestRequest{Name: "t"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	// Payload is carried verbatim for field-level display.
	if apiErr.Payload.Message != "duration must be a positive interval" {
		t.Errorf("unexpected message %q", apiErr.Payload.Message)
	}
	if apiErr.Payload.Path != "/api/tests" {
		t.Errorf("unexpected path %q", apiErr.Payload.Path)
	}
	if errors.Is(err, ErrUnauthorized) || errors.Is(err, ErrForbidden) || errors.Is(err, ErrServer) {
		t.Error("validation error must not match other kinds")
	}
}

func TestConnectivityFailureDistinct(t *testing.T) {
	// A server that is immediately closed gives connection refused.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	client := NewClient(
		WithBaseURL(server.URL),
		WithTimeout(2*time.Second),
		WithLogger(testLogger()),
	)

	_, err := client.ListTests(context.Background())
	if !errors.Is(err, ErrUnreachable) {
		t.Fatalf("expected ErrUnreachable, got %v", err)
	}
	var connErr *ConnError
	if !errors.As(err, &connErr) || connErr.Cause == nil {
		t.Error("expected *ConnError with a cause")
	}
	if errors.Is(err, ErrServer) {
		t.Error("connectivity failure must not look like a received error status")
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name   string
		status int
		body   string
		is     error
	}{
		{"unauthorized", 401, `{"status":401}`, ErrUnauthorized},
		{"forbidden", 403, `{"status":403}`, ErrForbidden},
		{"not found", 404, `{"status":404,"message":"no such test"}`, nil},
		{"conflict", 409, ``, nil},
		{"internal", 500, `{"status":500}`, ErrServer},
		{"bad gateway non-json", 502, `upstream down`, ErrServer},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := classify(tc.status, []byte(tc.body))
			if err == nil {
				t.Fatal("classify must never return nil for an error status")
			}
			if tc.is != nil && !errors.Is(err, tc.is) {
				t.Errorf("expected errors.Is match for %v", tc.is)
			}
		})
	}

	// Non-JSON bodies keep the raw text for display.
	var srvErr *ServerError
	if errors.As(classify(502, []byte("upstream down")), &srvErr) {
		if srvErr.Payload.Message != "upstream down" {
			t.Errorf("expected raw body as message, got %q", srvErr.Payload.Message)
		}
	}
}

func TestLoginRoundTripArmsGateway(t *testing.T) {
	const token = "abc123"
	var testsAuth string

	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode login request: %v", err)
		}
		if req.Username != "alice" || req.Password != "secret" {
			t.Errorf("unexpected credentials %q/%q", req.Username, req.Password)
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"success":   true,
			"token":     token,
			"expiresIn": 3600,
			"user": map[string]any{
				"id": 1, "username": "alice", "email": "alice@example.com",
				"role": "TESTER", "permissions": []string{"CREATE_TESTS"}, "status": "ACTIVE",
			},
		})
	})
	mux.HandleFunc("/api/tests", func(w http.ResponseWriter, r *http.Request) {
		testsAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("[]"))
	})

	server := httptest.NewServer(mux)
	defer server.Close()

	tokens := &memTokens{}
	client := NewClient(
		WithBaseURL(server.URL),
		WithTokenSource(tokens),
		WithLogger(testLogger()),
	)
	store := session.NewStore(client, tokens, testLogger())

	if err := store.Login(context.Background(), "alice", "secret"); err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if !store.IsAuthenticated() {
		t.Error("expected authenticated session")
	}
	if store.Token() != token {
		t.Errorf("expected token %q, got %q", token, store.Token())
	}

	// The very next gateway call carries the new bearer header.
	if _, err := client.ListTests(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if testsAuth != "Bearer "+token {
		t.Errorf("expected Bearer %s, got %q", token, testsAuth)
	}
}

func TestRejectedLoginSurfacesServerMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status":401,"error":"Unauthorized","message":"Invalid credentials","path":"/api/auth/login"}`))
	}))
	defer server.Close()

	tokens := &memTokens{}
	client := NewClient(
		WithBaseURL(server.URL),
		WithTokenSource(tokens),
		WithLogger(testLogger()),
	)
	store := session.NewStore(client, tokens, testLogger())

	if err := store.Login(context.Background(), "alice", "wrong"); err == nil {
		t.Fatal("expected login error")
	}
	// The stored display message is the server text, not the classified
	// error string.
	if got := store.LastError(); got != "Invalid credentials" {
		t.Errorf("LastError = %q, want bare server message", got)
	}
}
