// Package router đăng ký các route thuộc domain Content Item.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	contentitemhdl "media_scheduler/internal/api/contentitem/handler"
	"media_scheduler/internal/api/middleware"
	apirouter "media_scheduler/internal/api/router"
)

// Register đăng ký tất cả route content item lên v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	handler, err := contentitemhdl.NewContentItemHandler()
	if err != nil {
		return fmt.Errorf("create content item handler: %w", err)
	}

	// Base CRUD (find/count/distinct... dùng cho admin tooling)
	r.RegisterCRUDRoutes(v1, "/content-items", handler, apirouter.ReadOnlyConfig)

	// Các operation vòng đời đi qua state machine, không qua base CRUD
	auth := middleware.APIKeyAuth()
	chain := []fiber.Handler{auth}
	apirouter.RegisterRouteWithMiddleware(v1, "/content-items", "POST", "/create", chain, handler.Create)
	apirouter.RegisterRouteWithMiddleware(v1, "/content-items", "PUT", "/:id/update", chain, handler.Update)
	apirouter.RegisterRouteWithMiddleware(v1, "/content-items", "POST", "/:id/toggle", chain, handler.Toggle)
	apirouter.RegisterRouteWithMiddleware(v1, "/content-items", "POST", "/:id/duplicate", chain, handler.Duplicate)
	apirouter.RegisterRouteWithMiddleware(v1, "/content-items", "DELETE", "/:id", chain, handler.Delete)
	apirouter.RegisterRouteWithMiddleware(v1, "/content-items", "POST", "/batch-delete", chain, handler.BatchDelete)
	apirouter.RegisterRouteWithMiddleware(v1, "/content-items", "GET", "/next-upcoming", chain, handler.NextUpcoming)

	return nil
}
