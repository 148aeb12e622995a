package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-service/internal/config"
	"github.com/spec-kit/helpdesk-service/internal/observability"
)

func TestMemoryStoreCountsPerKey(t *testing.T) {
	store := NewMemoryRateLimitStore()
	ctx := context.Background()

	for want := 1; want <= 3; want++ {
		count, err := store.Increment(ctx, "a", time.Minute)
		if err != nil {
			t.Fatalf("Increment: %v", err)
		}
		if count != want {
			t.Errorf("count = %d, want %d", count, want)
		}
	}

	count, err := store.Increment(ctx, "b", time.Minute)
	if err != nil {
		t.Fatalf("Increment: %v", err)
	}
	if count != 1 {
		t.Errorf("separate key count = %d, want 1", count)
	}
}

func TestMemoryStoreExpiresWindows(t *testing.T) {
	store := NewMemoryRateLimitStore()
	ctx := context.Background()

	if _, err := store.Increment(ctx, "a", 10*time.Millisecond); err != nil {
		t.Fatalf("Increment: %v", err)
	}
	time.Sleep(20 * time.Millisecond)

	count, err := store.Increment(ctx, "a", time.Minute)
	if err != nil {
		t.Fatalf("Increment: %v", err)
	}
	if count != 1 {
		t.Errorf("count after expiry = %d, want 1", count)
	}
}

func rateLimitedApp(cfg config.RateLimitConfig) *fiber.App {
	app := fiber.New()
	RegisterMiddlewares(app, zap.NewNop(), observability.NewMetrics(), 0)
	limiter := NewRateLimiter(NewMemoryRateLimitStore(), cfg)
	app.Post("/auth/login", limiter.Handle, func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	return app
}

func TestRateLimiterBlocksOverBudget(t *testing.T) {
	app := rateLimitedApp(config.RateLimitConfig{Enabled: true, Limit: 2, WindowSeconds: 60})

	for i := 0; i < 2; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/auth/login", nil))
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i+1, resp.StatusCode)
		}
	}

	resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/auth/login", nil))
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", resp.StatusCode)
	}
	body := decodeErrorBody(t, resp)
	if body.Error.Code != "RATE_LIMITED" {
		t.Errorf("error code = %q", body.Error.Code)
	}
}

func TestRateLimiterDisabledPassesEverything(t *testing.T) {
	app := rateLimitedApp(config.RateLimitConfig{Enabled: false, Limit: 1, WindowSeconds: 60})

	for i := 0; i < 5; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodPost, "/auth/login", nil))
		if err != nil {
			t.Fatalf("app.Test: %v", err)
		}
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("request %d status = %d, want 200", i+1, resp.StatusCode)
		}
	}
}
