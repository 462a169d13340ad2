// Package router đăng ký các route thuộc domain Importer.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	"media_scheduler/internal/api/asset"
	importerhdl "media_scheduler/internal/api/importer/handler"
	"media_scheduler/internal/api/middleware"
	apirouter "media_scheduler/internal/api/router"
)

// Register đăng ký các route import/export lên v1. Store được bootstrap truyền vào qua closure.
func Register(store asset.Store) apirouter.RegisterFunc {
	return func(v1 fiber.Router, r *apirouter.Router) error {
		handler, err := importerhdl.NewImportHandler(store)
		if err != nil {
			return fmt.Errorf("create import handler: %w", err)
		}

		chain := []fiber.Handler{middleware.APIKeyAuth()}
		apirouter.RegisterRouteWithMiddleware(v1, "/import", "POST", "/preview", chain, handler.Preview)
		apirouter.RegisterRouteWithMiddleware(v1, "/import", "POST", "/:id/commit", chain, handler.Commit)
		apirouter.RegisterRouteWithMiddleware(v1, "/import", "GET", "/export", chain, handler.Export)

		// CRUD đọc batch phục vụ tra cứu lại preview
		r.RegisterCRUDRoutes(v1, "/import/batches", handler, apirouter.ReadOnlyConfig)
		return nil
	}
}
