package middleware

import (
	"net/http"
	"strings"

	"admin/internal/app/dto"
	"admin/internal/app/session"

	"github.com/gin-gonic/gin"
)

type AuthMiddleware struct {
	Session *session.Session
}

func NewAuthMiddleware(s *session.Session) *AuthMiddleware {
	return &AuthMiddleware{Session: s}
}

// WithAuthCheck lets the request through only when it carries the bearer
// token of the logged-in admin and, when roles are given, only for one of them.
func (am *AuthMiddleware) WithAuthCheck(assignedRoles ...string) gin.HandlerFunc {
	return func(gCtx *gin.Context) {
		user, err := am.Session.Authorize(bearerToken(gCtx))
		if err != nil {
			gCtx.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{
				Status:  "fail",
				Message: err.Error(),
			})
			return
		}

		if len(assignedRoles) > 0 && !hasRequiredRole(user.Role, assignedRoles) {
			gCtx.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{
				Status:  "fail",
				Message: "insufficient role",
			})
			return
		}

		gCtx.Set(currentUserKey, user)
		gCtx.Next()
	}
}

func bearerToken(gCtx *gin.Context) string {
	header := gCtx.GetHeader("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found {
		return ""
	}
	return strings.TrimSpace(token)
}

func hasRequiredRole(userRole string, requiredRoles []string) bool {
	for _, requiredRole := range requiredRoles {
		if userRole == requiredRole {
			return true
		}
	}
	return false
}
