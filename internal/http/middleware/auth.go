package middleware

import (
	"errors"

	"todo_api/internal/domain"
	"todo_api/internal/http/respond"
	"todo_api/internal/logger"
	"todo_api/internal/service"

	"github.com/gin-gonic/gin"
)

const identityKey = "auth.identity"

// RequireUser runs the guard against the Authorization header and the
// :user_id path segment. On success the identity is stored on the context.
func RequireUser(guard *service.Guard, dev bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := guard.Authenticate(c.GetHeader("Authorization"), c.Param("user_id"))
		if err != nil {
			reason := failureReason(err)
			AuthFailures.WithLabelValues(reason).Inc()

			l := logger.FromContext(c.Request.Context())
			var mismatch *service.MismatchError
			if errors.As(err, &mismatch) {
				l.Warn("user id mismatch", "token_user_id", mismatch.TokenUserID, "path_user_id", mismatch.PathUserID)
			} else {
				l.Info("authentication failed", "reason", reason, "error", err)
			}

			respond.Error(c, err, dev)
			return
		}

		c.Set(identityKey, id)
		c.Next()
	}
}

// CurrentUser returns the identity stored by RequireUser.
func CurrentUser(c *gin.Context) (domain.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return domain.Identity{}, false
	}
	id, ok := v.(domain.Identity)
	return id, ok
}

func failureReason(err error) string {
	var mismatch *service.MismatchError
	switch {
	case errors.Is(err, service.ErrMissingToken):
		return "missing_token"
	case errors.Is(err, service.ErrTokenExpired):
		return "token_expired"
	case errors.As(err, &mismatch):
		return "user_mismatch"
	default:
		return "token_invalid"
	}
}
