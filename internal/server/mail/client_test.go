package mail

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestAPIClient_Send(t *testing.T) {
	t.Parallel()

	var gotReq sendRequest
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("api-key")
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode error: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	c := NewAPIClient(srv.URL, "key-123", "noreply@example.com", "authkeeper")
	err := c.Send(context.Background(), Message{
		To:      "a@x.com",
		Subject: "Account Verification OTP",
		Body:    "Your OTP is 123456. Verify your account using this OTP.",
	})
	if err != nil {
		t.Fatalf("Send error: %v", err)
	}

	if gotKey != "key-123" {
		t.Fatalf("api key not forwarded: %q", gotKey)
	}
	if gotReq.Sender["email"] != "noreply@example.com" {
		t.Fatalf("unexpected sender: %+v", gotReq.Sender)
	}
	if len(gotReq.To) != 1 || gotReq.To[0]["email"] != "a@x.com" {
		t.Fatalf("unexpected recipient: %+v", gotReq.To)
	}
	if !strings.Contains(gotReq.TextContent, "123456") {
		t.Fatalf("body must literally contain the OTP digits: %q", gotReq.TextContent)
	}
}

func TestAPIClient_Send_APIError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := NewAPIClient(srv.URL, "bad-key", "noreply@example.com", "authkeeper")
	err := c.Send(context.Background(), Message{To: "a@x.com", Subject: "s", Body: "b"})
	if err == nil {
		t.Fatalf("expected error for 4xx response")
	}
}

func TestAPIClient_Send_EmptyFields(t *testing.T) {
	t.Parallel()

	c := NewAPIClient("http://unused", "k", "f@x.com", "n")
	if err := c.Send(context.Background(), Message{To: "", Subject: "s", Body: "b"}); err == nil {
		t.Fatalf("expected error for empty recipient")
	}
}
