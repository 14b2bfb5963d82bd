package dto

import "admin/internal/app/ds"

// ============ Content API envelopes ============

// APIResponse - envelope every content API endpoint answers with
type APIResponse[T any] struct {
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Count   int    `json:"count,omitempty"`
	Total   int    `json:"total,omitempty"`
	Message string `json:"message,omitempty"`
}

// APIError - body of a failed content API call
type APIError struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Success bool    `json:"success"`
	Token   string  `json:"token"`
	User    ds.User `json:"user"`
	Message string  `json:"message,omitempty"`
}

// ============ Console shell ============

type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

type SuccessResponse struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// ListResponse - what the list view renders
type ListResponse[E any] struct {
	Items     []E  `json:"items"`
	IsLoading bool `json:"isLoading"`
	Total     int  `json:"total"`
}

// ModalResponse - state of the create/edit modal
type ModalResponse[E any] struct {
	State    string `json:"state"`
	Mode     string `json:"mode,omitempty"`
	TargetID string `json:"targetId,omitempty"`
	Values   *E     `json:"values,omitempty"`
	Preview  string `json:"preview,omitempty"`
	Error    string `json:"error,omitempty"`
}

type ListEntryRequest struct {
	Value string `json:"value"`
}

type DashboardResponse struct {
	Services       int `json:"services"`
	Blog           int `json:"blog"`
	Projects       int `json:"projects"`
	CorporatePlans int `json:"plans"`
	Clients        int `json:"clients"`
}

// SessionResponse carries the token on login only; the shell expects it back
// as a bearer token.
type SessionResponse struct {
	Token     string  `json:"token,omitempty"`
	User      ds.User `json:"user"`
	ExpiresAt int64   `json:"expiresAt,omitempty"`
}
