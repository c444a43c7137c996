package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDoGetAndPostAgainstService(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == "GET" && r.URL.Path == "/api/contacts":
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"contacts":[],"count":0}`))
		case r.Method == "POST" && r.URL.Path == "/api/emergency/activate":
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"error":"Conflict","code":409}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	apiFlag = srv.URL

	data, err := doGet("/api/contacts")
	if err != nil {
		t.Fatalf("doGet: %v", err)
	}
	if !strings.Contains(string(data), `"count":0`) {
		t.Fatalf("unexpected body: %s", data)
	}

	if _, err := doPostJSON("/api/emergency/activate", nil); err == nil {
		t.Fatal("expected error for 409 response")
	} else if !strings.Contains(err.Error(), "409") {
		t.Fatalf("expected status in error, got: %v", err)
	}
}
