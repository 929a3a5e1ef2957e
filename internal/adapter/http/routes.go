package http

import (
	"github.com/labstack/echo/v4"

	"tuka-portal/internal/adapter/middleware"
	"tuka-portal/internal/domain/user"
)

// Routes groups everything RegisterRoutes mounts. Idempotency may be nil.
type Routes struct {
	Health      *Handler
	Auth        *AuthHandler
	Loans       *LoanHandler
	Eligibility *EligibilityHandler
	Review      *ReviewHandler

	Sessions    *middleware.SessionStore
	Idempotency echo.MiddlewareFunc
	Metrics     *middleware.Metrics
}

func RegisterRoutes(e *echo.Echo, r Routes) {
	e.GET("/health", r.Health.Health)
	if r.Metrics != nil {
		e.GET("/metrics", r.Metrics.Handler())
	}

	load := r.Sessions.Load()

	a := e.Group("/auth", load)
	a.POST("/register", r.Auth.Register)
	a.POST("/login", r.Auth.Login)
	a.POST("/logout", r.Auth.Logout)
	a.GET("/me", r.Auth.Me, middleware.RequireLogin())

	fin := e.Group("/finance", load, middleware.RequireLogin())
	var submit []echo.MiddlewareFunc
	if r.Idempotency != nil {
		submit = append(submit, r.Idempotency)
	}
	fin.POST("/loans", r.Loans.Submit, submit...)
	fin.POST("/eligibility", r.Eligibility.Check)
	fin.GET("/dashboard", r.Loans.Dashboard)
	fin.GET("/my-loans", r.Loans.MyLoans)
	fin.GET("/loans/edit/:id", r.Loans.EditForm)
	fin.POST("/loans/edit/:id", r.Loans.Edit, submit...)

	adm := e.Group("/admin/loans", load, middleware.RequireRole(user.LoanReviewers...))
	adm.GET("", r.Review.List)
	adm.GET("/:id", r.Review.Detail)
	adm.POST("/:id", r.Review.Decide)
	adm.POST("/delete/:id", r.Review.Delete)
	adm.GET("/attachments/*", r.Review.Attachment)

	usr := e.Group("/admin/users", load, middleware.RequireRole(user.RoleSuperAdmin))
	usr.GET("", r.Auth.ListUsers)
	usr.POST("/:id/active", r.Auth.SetActive)
}
