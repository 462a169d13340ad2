// Package router đăng ký các route thuộc domain Asset.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	"media_scheduler/internal/api/asset"
	assethdl "media_scheduler/internal/api/asset/handler"
	"media_scheduler/internal/api/middleware"
	apirouter "media_scheduler/internal/api/router"
)

// Register đăng ký các route asset lên v1. Store được bootstrap truyền vào qua closure.
func Register(store asset.Store) apirouter.RegisterFunc {
	return func(v1 fiber.Router, r *apirouter.Router) error {
		handler, err := assethdl.NewAssetHandler(store)
		if err != nil {
			return fmt.Errorf("create asset handler: %w", err)
		}

		chain := []fiber.Handler{middleware.APIKeyAuth()}
		apirouter.RegisterRouteWithMiddleware(v1, "/assets", "POST", "/upload", chain, handler.Upload)
		apirouter.RegisterRouteWithMiddleware(v1, "/assets", "DELETE", "/delete", chain, handler.Delete)
		return nil
	}
}
