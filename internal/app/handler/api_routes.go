package handler

import (
	"admin/internal/app/console"
	"admin/internal/app/middleware"

	_ "admin/docs"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RegisterAPIRoutes registers the shell under /api. Everything but login
// needs the admin's bearer token; the resource routes also need one of
// AdminRoles.
func (h *Handler) RegisterAPIRoutes(router *gin.Engine) {
	authMiddleware := middleware.NewAuthMiddleware(h.Sessions.Session())

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api")

	// ============ Authentication ============
	auth := api.Group("/auth")
	{
		auth.POST("/login", h.Login)
		auth.POST("/logout", authMiddleware.WithAuthCheck(), h.Logout)
		auth.GET("/me", authMiddleware.WithAuthCheck(), h.Me)
	}

	protected := api.Group("")
	protected.Use(authMiddleware.WithAuthCheck(h.AdminRoles...))

	protected.GET("/dashboard", h.Dashboard)

	// ============ Resources ============
	registerResource(protected, h.Console.Services)
	registerResource(protected, h.Console.Blog)
	registerResource(protected, h.Console.Projects)
	registerResource(protected, h.Console.CorporatePlans)
	registerResource(protected, h.Console.Clients)
}

func registerResource[E any](api *gin.RouterGroup, r *console.Resource[E]) {
	h := NewResourceHandler(r)

	group := api.Group("/" + r.Descriptor().Resource)
	{
		group.GET("", h.GetList)
		group.POST("/reload", h.Reload)
		group.DELETE("/:id", h.Delete)
	}

	m := group.Group("/modal")
	{
		m.GET("", h.GetModal)
		m.POST("", h.OpenCreate)
		m.POST("/:id", h.OpenEdit)
		m.DELETE("", h.Cancel)
		m.PUT("/form", h.ReplaceForm)
		m.PUT("/lists/:field/:index", h.UpdateListEntry)
		m.POST("/lists/:field", h.AddListEntry)
		m.DELETE("/lists/:field/:index", h.RemoveListEntry)
		m.POST("/asset", h.SelectAsset)
		m.POST("/submit", h.Submit)
	}
}
