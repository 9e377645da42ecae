package middleware_test

import (
	"testing"
	"time"

	"github.com/taskpilot/taskpilot/internal/api/middleware"
)

func TestRateLimiter_Allow(t *testing.T) {
	rl := middleware.NewRateLimiter(5, time.Second, 5)

	key := "test-client"

	for i := 0; i < 5; i++ {
		if !rl.Allow(key) {
			t.Errorf("request %d should be allowed", i+1)
		}
	}

	if rl.Allow(key) {
		t.Error("6th request should be denied")
	}
}

func TestRateLimiter_TokenRefill(t *testing.T) {
	rl := middleware.NewRateLimiter(10, 100*time.Millisecond, 2)

	key := "test-client"

	rl.Allow(key)
	rl.Allow(key)

	if rl.Allow(key) {
		t.Error("should be denied after burst exhausted")
	}

	time.Sleep(110 * time.Millisecond)

	if !rl.Allow(key) {
		t.Error("should be allowed after token refill")
	}
}

func TestRateLimiter_MultipleClients(t *testing.T) {
	rl := middleware.NewRateLimiter(2, time.Second, 2)

	rl.Allow("client-1")
	rl.Allow("client-1")

	if rl.Allow("client-1") {
		t.Error("client 1 should be denied")
	}

	if !rl.Allow("client-2") {
		t.Error("client 2 should still be allowed")
	}
}
