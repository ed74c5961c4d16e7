package vies

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if got := r.Header.Get("Content-Type"); got != "application/x-www-form-urlencoded" {
			t.Errorf("content type = %q", got)
		}
		if got := r.Header.Get("User-Agent"); got != "fatturex" {
			t.Errorf("user agent = %q", got)
		}
		if got := r.FormValue("memberStateCode"); got != "IT" {
			t.Errorf("memberStateCode = %q", got)
		}
		if got := r.FormValue("number"); got != "01234567890" {
			t.Errorf("number = %q", got)
		}
		w.Write([]byte("the answer page"))
	}))
	defer srv.Close()

	c := &Client{BaseURL: srv.URL}
	res, err := c.Check(context.Background(), "IT", "01234567890")
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	if res.StatusCode != http.StatusOK {
		t.Errorf("status = %d", res.StatusCode)
	}
	if res.Body != "the answer page" {
		t.Errorf("body = %q", res.Body)
	}
}

func TestCheckConnectionError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := &Client{BaseURL: srv.URL}
	if _, err := c.Check(context.Background(), "IT", "01234567890"); err == nil {
		t.Errorf("Check against closed server did not fail")
	}
}
