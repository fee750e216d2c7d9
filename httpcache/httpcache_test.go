package httpcache

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestTransport(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(`{"value": 42}`))
	}))
	defer srv.Close()

	ctx := context.Background()
	for _, period := range []Period{Daily, Monthly} {
		t.Run(period.String(), func(t *testing.T) {
			calls = 0
			client := NewClient(t.TempDir(), period)
			for i := 0; i < 3; i++ {
				var got struct{ Value int }
				if err := GetJSON(ctx, client, srv.URL+"/data", &got); err != nil {
					t.Fatalf("GetJSON() unexpected error: %v", err)
				}
				if got.Value != 42 {
					t.Errorf("GetJSON() = %d want 42", got.Value)
				}
			}
			if calls != 1 {
				t.Errorf("server called %d times want 1", calls)
			}
		})
	}

	t.Run("errors are not cached", func(t *testing.T) {
		calls = 0
		client := NewClient(t.TempDir(), Daily)
		for i := 0; i < 2; i++ {
			_, err := Get(ctx, client, srv.URL+"/missing")
			if err == nil || !strings.Contains(err.Error(), "404") {
				t.Errorf("Get() error = %v want 404", err)
			}
		}
		if calls != 2 {
			t.Errorf("server called %d times want 2", calls)
		}
	})
}
