package handler

import (
	"net/http"
	"time"

	"admin/internal/app/console"
	"admin/internal/app/ds"
	"admin/internal/app/dto"
	"admin/internal/app/middleware"
	"admin/internal/app/session"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Handler serves the page shell of the console as a JSON API.
type Handler struct {
	Console        *console.Console
	Sessions       *session.Manager
	AllowOrigins   []string
	MaxUploadBytes int64
	AdminRoles     []string // empty lets any logged-in user reach the resources
}

func NewHandler(c *console.Console, s *session.Manager) *Handler {
	return &Handler{
		Console:        c,
		Sessions:       s,
		MaxUploadBytes: 8 << 20,
		AdminRoles:     []string{ds.RoleAdmin},
	}
}

// RegisterMiddleware installs recovery, request logging and CORS. It must run
// before the routes are registered.
func (h *Handler) RegisterMiddleware(router *gin.Engine) {
	router.Use(gin.Recovery(), middleware.RequestLogger())

	origins := h.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173"}
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Confirm", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	router.MaxMultipartMemory = h.MaxUploadBytes
}

// ============ Helpers ============

func errorResponse(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, dto.ErrorResponse{
		Status:  "fail",
		Message: message,
	})
}

func successResponse(c *gin.Context, statusCode int, message string, data interface{}) {
	response := dto.SuccessResponse{
		Status:  "success",
		Message: message,
	}
	if data != nil {
		response.Data = data
	}
	c.JSON(statusCode, response)
}

// errorHandler logs err and answers with it.
func errorHandler(c *gin.Context, statusCode int, err error) {
	_ = c.Error(err)
	if statusCode >= http.StatusInternalServerError {
		logrus.WithError(err).Error("request failed")
	}
	errorResponse(c, statusCode, err.Error())
}
