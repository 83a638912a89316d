package middleware

import (
	"testing"
	"time"
)

func TestRateLimiterAllow(t *testing.T) {
	limiter := NewRateLimiter()
	for i := 0; i < 3; i++ {
		if !limiter.Allow("k", 3, time.Minute) {
			t.Fatalf("request %d should pass", i+1)
		}
	}
	if limiter.Allow("k", 3, time.Minute) {
		t.Fatal("fourth request in the window should be blocked")
	}
	// An unrelated key has its own bucket.
	if !limiter.Allow("other", 3, time.Minute) {
		t.Fatal("unrelated key should pass")
	}
}

func TestRateLimiterWindowReset(t *testing.T) {
	limiter := NewRateLimiter()
	if !limiter.Allow("k", 1, time.Millisecond) {
		t.Fatal("first request should pass")
	}
	if limiter.Allow("k", 1, time.Millisecond) {
		t.Fatal("second request in the window should be blocked")
	}
	time.Sleep(5 * time.Millisecond)
	if !limiter.Allow("k", 1, time.Millisecond) {
		t.Fatal("new window should pass")
	}
}
