package ratelimit

import (
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-apicall/core"
	goerrors "github.com/goliatone/go-errors"
)

func TestKeyedLimiter_BurstThenThrottle(t *testing.T) {
	limiter := NewKeyedLimiter(1, 2, time.Minute)
	now := time.Date(2026, 2, 13, 12, 0, 0, 0, time.UTC)
	key := Key("user_1", "CreateInvoice")

	if !limiter.Allow(key, now) || !limiter.Allow(key, now) {
		t.Fatalf("expected burst of two to be admitted")
	}
	if limiter.Allow(key, now) {
		t.Fatalf("expected third call to be throttled")
	}
	if !limiter.Allow(Key("user_2", "CreateInvoice"), now) {
		t.Fatalf("expected other caller to have its own bucket")
	}
	if !limiter.Allow(key, now.Add(time.Second)) {
		t.Fatalf("expected token to refill after one second")
	}
	if limiter.Len() != 2 {
		t.Fatalf("expected two buckets, got %d", limiter.Len())
	}
	if limiter.RetryAfter() != time.Second {
		t.Fatalf("expected one second retry hint, got %s", limiter.RetryAfter())
	}
}

func TestKeyedLimiter_NilAndBlankKeyAdmit(t *testing.T) {
	var limiter *KeyedLimiter
	if !limiter.Allow("k", time.Now()) {
		t.Fatalf("expected nil limiter to admit")
	}
	if NewKeyedLimiter(0, 1, 0) != nil {
		t.Fatalf("expected invalid rate to return nil limiter")
	}
	configured := NewKeyedLimiter(1, 1, 0)
	now := time.Now()
	for i := 0; i < 3; i++ {
		if !configured.Allow("  ", now) {
			t.Fatalf("expected blank key to bypass limiting")
		}
	}
}

func TestThrottledError_ToServiceError(t *testing.T) {
	err := ThrottledError{CallerID: "user_1", Name: "CreateInvoice", RetryAfter: 3 * time.Second}

	mapped := err.ToServiceError()
	if mapped.TextCode != core.ErrorRateLimited {
		t.Fatalf("expected %q text code, got %q", core.ErrorRateLimited, mapped.TextCode)
	}
	if mapped.Code != 429 {
		t.Fatalf("expected status code 429, got %d", mapped.Code)
	}
	var rich *goerrors.Error
	if !errors.As(error(mapped), &rich) || rich.Category != goerrors.CategoryRateLimit {
		t.Fatalf("expected rate limit category")
	}
	if mapped.Metadata["retry_after_ms"] != int64(3000) {
		t.Fatalf("expected retry hint metadata, got %#v", mapped.Metadata)
	}
}
