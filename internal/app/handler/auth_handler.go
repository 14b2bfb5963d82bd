package handler

import (
	"errors"
	"net/http"

	"admin/internal/app/apiclient"
	"admin/internal/app/ds"
	"admin/internal/app/dto"
	"admin/internal/app/session"

	"github.com/gin-gonic/gin"
)

func sessionResponse(s *session.Session, user ds.User) dto.SessionResponse {
	resp := dto.SessionResponse{User: user}
	if exp := s.ExpiresAt(); !exp.IsZero() {
		resp.ExpiresAt = exp.Unix()
	}
	return resp
}

// authError keeps the content API status for auth failures it reported.
func authError(c *gin.Context, err error) {
	var serverErr *apiclient.ServerError
	var loginErr *session.LoginError
	switch {
	case errors.As(err, &loginErr):
		errorHandler(c, http.StatusUnauthorized, err)
	case errors.As(err, &serverErr) && serverErr.StatusCode < http.StatusInternalServerError:
		errorResponse(c, serverErr.StatusCode, serverErr.Message)
	case errors.Is(err, session.ErrNotLoggedIn):
		errorHandler(c, http.StatusUnauthorized, err)
	default:
		errorHandler(c, http.StatusBadGateway, err)
	}
}

// Login authenticates the admin against the content API
// @Summary Admin login
// @Description Exchanges credentials for a token kept in the console session. The returned token goes in the Authorization header of every other call
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "credentials"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var request dto.LoginRequest
	if err := c.ShouldBindJSON(&request); err != nil {
		errorHandler(c, http.StatusBadRequest, err)
		return
	}

	user, err := h.Sessions.Login(c.Request.Context(), request)
	if err != nil {
		authError(c, err)
		return
	}

	resp := sessionResponse(h.Sessions.Session(), user)
	resp.Token = h.Sessions.Session().Token()
	successResponse(c, http.StatusOK, "logged in", resp)
}

// Logout drops the console session
// @Summary Admin logout
// @Tags Authentication
// @Produce json
// @Success 200 {object} dto.SuccessResponse
// @Router /api/auth/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	if err := h.Sessions.Logout(c.Request.Context()); err != nil {
		errorHandler(c, http.StatusInternalServerError, err)
		return
	}
	successResponse(c, http.StatusOK, "logged out", nil)
}

// Me returns the logged-in admin
// @Summary Current admin
// @Tags Authentication
// @Produce json
// @Success 200 {object} dto.SuccessResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/auth/me [get]
func (h *Handler) Me(c *gin.Context) {
	user, err := h.Sessions.Me(c.Request.Context())
	if err != nil {
		authError(c, err)
		return
	}
	successResponse(c, http.StatusOK, "", sessionResponse(h.Sessions.Session(), user))
}

// Dashboard returns the number of entities of every resource
// @Summary Dashboard counters
// @Tags Dashboard
// @Produce json
// @Success 200 {object} dto.SuccessResponse
// @Failure 502 {object} dto.ErrorResponse
// @Router /api/dashboard [get]
func (h *Handler) Dashboard(c *gin.Context) {
	stats, err := h.Console.Stats(c.Request.Context())
	if err != nil {
		errorHandler(c, http.StatusBadGateway, err)
		return
	}
	successResponse(c, http.StatusOK, "", dto.DashboardResponse{
		Services:       stats.Services,
		Blog:           stats.Blog,
		Projects:       stats.Projects,
		CorporatePlans: stats.CorporatePlans,
		Clients:        stats.Clients,
	})
}
