package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

const correlationHeader = "X-Correlation-ID"

type cachedResponse struct {
	Status int    `json:"status"`
	Body   []byte `json:"body"`
}

// IdempotencyMiddleware replays the stored response when a mutating request is
// retried with the same X-Correlation-ID inside ttl. Keys are scoped to the
// caller, the method and the path, so an id reused on another route runs it.
func IdempotencyMiddleware(redisClient *redis.Client, ttl time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		switch c.Method() {
		case fiber.MethodPost, fiber.MethodPut, fiber.MethodPatch, fiber.MethodDelete:
		default:
			return c.Next()
		}

		correlationID := c.Get(correlationHeader)
		if correlationID == "" {
			return c.Next()
		}

		caller := "anonymous"
		if p, ok := GetPrincipal(c); ok {
			caller = p.ID
		}
		key := fmt.Sprintf("idempotency:%s:%s:%s:%s", caller, c.Method(), c.Path(), correlationID)

		if raw, err := redisClient.Get(c.UserContext(), key).Bytes(); err == nil {
			var cached cachedResponse
			if json.Unmarshal(raw, &cached) == nil {
				c.Set("X-Idempotent-Replay", "true")
				c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
				return c.Status(cached.Status).Send(cached.Body)
			}
		}

		if err := c.Next(); err != nil {
			return err
		}

		status := c.Response().StatusCode()
		if status < 200 || status >= 300 {
			return nil
		}

		// fasthttp reuses the response buffer once the handler returns
		body := append([]byte(nil), c.Response().Body()...)
		payload, err := json.Marshal(cachedResponse{Status: status, Body: body})
		if err != nil {
			return nil
		}

		go func() {
			bgCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			redisClient.Set(bgCtx, key, payload, ttl)
		}()

		return nil
	}
}
