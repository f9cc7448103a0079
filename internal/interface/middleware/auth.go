package middleware

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-marketplace-api/internal/domain/entity"
	"github.com/oksasatya/go-marketplace-api/internal/domain/repository"
	"github.com/oksasatya/go-marketplace-api/pkg/helpers"
	"github.com/oksasatya/go-marketplace-api/pkg/response"
)

const (
	// CtxIdentityKey holds the entity.Identity of the authenticated caller.
	CtxIdentityKey = "authIdentity"
	// CtxTokenKey holds the raw bearer token for the ownership gate.
	CtxTokenKey = "authToken"
	// CtxUserIDKey holds the caller's user id.
	CtxUserIDKey = "userID"

	identityCacheTTL = 15 * time.Minute
)

func identityKey(token string) string { return "auth:token:" + token }

// Auth validates the Authorization bearer token against the user store and
// attaches the caller's identity projection to the request context. Tokens
// never rotate, so a redis cache in front of the store is safe; the cache is
// fail-open and purely an optimization.
func Auth(users repository.UserRepository, rdb *redis.Client, logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			response.AbortUnauthorized(c)
			return
		}
		token := strings.TrimPrefix(header, "Bearer ")
		if token == "" {
			response.AbortUnauthorized(c)
			return
		}

		ctx := c.Request.Context()
		if rdb != nil {
			var id entity.Identity
			if ok, err := helpers.RedisGetJSON(ctx, rdb, identityKey(token), &id); err == nil && ok {
				c.Set(CtxIdentityKey, id)
				c.Set(CtxUserIDKey, id.ID)
				c.Set(CtxTokenKey, token)
				c.Next()
				return
			}
		}

		u, err := users.GetByToken(ctx, token)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				response.AbortUnauthorized(c)
				return
			}
			if logger != nil {
				logger.WithError(err).Warn("token lookup failed")
			}
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		id := u.Identity()
		if rdb != nil {
			_ = helpers.RedisSetJSON(ctx, rdb, identityKey(token), id, identityCacheTTL)
		}
		c.Set(CtxIdentityKey, id)
		c.Set(CtxUserIDKey, id.ID)
		c.Set(CtxTokenKey, token)
		c.Next()
	}
}
