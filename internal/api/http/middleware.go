package http

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/codemindhq/codemind/internal/domain"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
)

const identityKey = "identity"

const (
	rateLimitWindow   = time.Minute
	rateLimitRequests = 180
)

// devIdentity is the fixed caller used when auth is optional and no token
// is presented. Local development only.
var devIdentity = domain.Identity{UserID: "dev-user", Email: "dev@localhost"}

// Auth validates a bearer token and attaches the caller identity to the
// request. With optional=true a missing header falls back to the local
// identity, but a present-and-invalid token is still rejected.
func Auth(secret string, optional bool) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		if header == "" {
			if optional {
				ctx.Set(identityKey, devIdentity)
				ctx.Next()
				return
			}
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "malformed authorization header"})
			return
		}

		claims := jwt.MapClaims{}
		_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
			}
			return []byte(secret), nil
		})
		if err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		sub, _ := claims["sub"].(string)
		if sub == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "token has no subject"})
			return
		}
		email, _ := claims["email"].(string)

		ctx.Set(identityKey, domain.Identity{UserID: sub, Email: email})
		ctx.Next()
	}
}

// CurrentIdentity returns the caller set by Auth. The boolean is false on
// routes that skipped the middleware.
func CurrentIdentity(ctx *gin.Context) (domain.Identity, bool) {
	v, ok := ctx.Get(identityKey)
	if !ok {
		return domain.Identity{}, false
	}
	identity, ok := v.(domain.Identity)
	return identity, ok
}

// RateLimit enforces a fixed-window per-IP budget backed by redis. A nil
// client disables the limiter, and a redis failure lets the request
// through rather than taking the API down with the cache.
func RateLimit(client *redis.Client) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		if client == nil {
			ctx.Next()
			return
		}
		key := "ratelimit:" + ctx.ClientIP()
		count, err := client.Incr(ctx.Request.Context(), key).Result()
		if err != nil {
			ctx.Next()
			return
		}
		if count == 1 {
			client.Expire(ctx.Request.Context(), key, rateLimitWindow)
		}
		if count > rateLimitRequests {
			ctx.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "rate limit exceeded"})
			return
		}
		ctx.Next()
	}
}

func SecurityHeaders() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		ctx.Header("X-Content-Type-Options", "nosniff")
		ctx.Header("X-Frame-Options", "DENY")
		ctx.Header("Referrer-Policy", "no-referrer")
		ctx.Header("X-XSS-Protection", "1; mode=block")
		ctx.Next()
	}
}
