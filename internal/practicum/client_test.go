package practicum

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c, err := NewClient(srv.URL, "secret-token", time.Second)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	return c
}

func TestHomeworkStatusesOK(t *testing.T) {
	t.Parallel()
	var gotAuth, gotFrom string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotFrom = r.URL.Query().Get("from_date")
		w.Write([]byte(`{"homeworks": [], "current_date": 1700000000}`))
	})

	body, err := c.HomeworkStatuses(context.Background(), 1690000000)
	if err != nil {
		t.Fatalf("HomeworkStatuses: %v", err)
	}
	if gotAuth != "OAuth secret-token" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
	if gotFrom != "1690000000" {
		t.Fatalf("from_date = %q", gotFrom)
	}
	if len(body) == 0 {
		t.Fatal("empty body")
	}
}

func TestHomeworkStatusesBadStatus(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := c.HomeworkStatuses(context.Background(), 0)
	if !errors.Is(err, ErrAPI) {
		t.Fatalf("error = %v, want ErrAPI", err)
	}
}

func TestHomeworkStatusesNotJSON(t *testing.T) {
	t.Parallel()
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>definitely not json</html>"))
	})

	_, err := c.HomeworkStatuses(context.Background(), 0)
	if !errors.Is(err, ErrAPI) {
		t.Fatalf("error = %v, want ErrAPI", err)
	}
}

func TestHomeworkStatusesConnectionError(t *testing.T) {
	t.Parallel()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, err := NewClient(url, "secret-token", time.Second)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	if _, err := c.HomeworkStatuses(context.Background(), 0); !errors.Is(err, ErrAPI) {
		t.Fatalf("error = %v, want ErrAPI", err)
	}
}

func TestNewClientValidation(t *testing.T) {
	t.Parallel()
	if _, err := NewClient("", "tok", time.Second); err == nil {
		t.Fatal("expected error for empty endpoint")
	}
	if _, err := NewClient("https://example.com", " ", time.Second); err == nil {
		t.Fatal("expected error for empty token")
	}
}
