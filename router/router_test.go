package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestMethodRegistration(t *testing.T) {
	r := New()
	r.Get("/ping", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte("pong"))
	}))
	r.Post("/submit", http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/ping", nil))
	if rec.Code != http.StatusOK || rec.Body.String() != "pong" {
		t.Errorf("GET /ping: code=%d body=%q", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("POST", "/submit", nil))
	if rec.Code != http.StatusCreated {
		t.Errorf("POST /submit: code=%d", rec.Code)
	}

	// Wrong method on a registered path.
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("POST", "/ping", nil))
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("POST /ping: code=%d, want 405", rec.Code)
	}
}

func TestChainOrder(t *testing.T) {
	var order []string
	mw := func(name string) func(http.Handler) http.Handler {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := NewChain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	})).WithMiddleware(mw("first"), mw("second")).Handler()

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))

	want := []string{"first", "second", "handler"}
	if len(order) != len(want) {
		t.Fatalf("order = %v, want %v", order, want)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order = %v, want %v", order, want)
		}
	}
}
