package ratelim

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/julienschmidt/httprouter"
)

func TestLimitAllowsBurstThenRejects(t *testing.T) {
	rl := NewRateLimiter()
	handler := rl.Limit(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusOK)
	})

	for i := 0; i < rl.burst; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/meals", nil)
		req.RemoteAddr = "10.0.0.1:4000"
		rec := httptest.NewRecorder()
		handler(rec, req, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d rejected with %d inside burst", i+1, rec.Code)
		}
	}

	req := httptest.NewRequest(http.MethodPost, "/api/meals", nil)
	req.RemoteAddr = "10.0.0.1:4000"
	rec := httptest.NewRecorder()
	handler(rec, req, nil)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("request past burst got %d, want 429", rec.Code)
	}
}

func TestLimitTracksAddressesSeparately(t *testing.T) {
	rl := NewRateLimiter()
	handler := rl.Limit(func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		w.WriteHeader(http.StatusOK)
	})

	for i := 0; i <= rl.burst; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/meals", nil)
		req.RemoteAddr = "10.0.0.1:4000"
		handler(httptest.NewRecorder(), req, nil)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/meals", nil)
	req.RemoteAddr = "10.0.0.2:4000"
	rec := httptest.NewRecorder()
	handler(rec, req, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("fresh address got %d, want 200", rec.Code)
	}
}
