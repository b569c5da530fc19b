package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

func TestSingleDeleteRejectsConcurrentRequests(t *testing.T) {
	guard := NewDeleteGuard()

	release := make(chan struct{})
	started := make(chan struct{})
	var startedOnce sync.Once

	handler := SingleDelete(guard, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		startedOnce.Do(func() { close(started) })
		<-release
		w.WriteHeader(http.StatusOK)
	}))

	var wg sync.WaitGroup
	wg.Add(1)
	first := httptest.NewRecorder()
	go func() {
		defer wg.Done()
		handler.ServeHTTP(first, httptest.NewRequest(http.MethodDelete, "/api/v1/products/x", nil))
	}()

	<-started

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, httptest.NewRequest(http.MethodDelete, "/api/v1/products/y", nil))
	if second.Code != http.StatusConflict {
		t.Fatalf("expected 409 while busy, got %d", second.Code)
	}

	close(release)
	wg.Wait()

	if first.Code != http.StatusOK {
		t.Fatalf("first request should succeed, got %d", first.Code)
	}

	third := httptest.NewRecorder()
	handler.ServeHTTP(third, httptest.NewRequest(http.MethodDelete, "/api/v1/products/z", nil))
	if third.Code != http.StatusOK {
		t.Fatalf("guard not released, got %d", third.Code)
	}
}

func TestDeleteGuardReleaseOnPanicPath(t *testing.T) {
	guard := NewDeleteGuard()

	handler := SingleDelete(guard, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	func() {
		defer func() { _ = recover() }()
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/x", nil))
	}()

	if guard.InFlight() {
		t.Fatal("guard must be released after panic")
	}
}
