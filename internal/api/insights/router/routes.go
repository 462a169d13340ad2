// Package router đăng ký các route thuộc domain Insights.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	insightshdl "media_scheduler/internal/api/insights/handler"
	insightssvc "media_scheduler/internal/api/insights/service"
	"media_scheduler/internal/api/middleware"
	apirouter "media_scheduler/internal/api/router"
)

// Register đăng ký các route insights lên v1. Fetcher được bootstrap truyền vào qua closure
// (nil nếu analytics source chưa cấu hình).
func Register(fetcher insightssvc.Fetcher) apirouter.RegisterFunc {
	return func(v1 fiber.Router, r *apirouter.Router) error {
		handler, err := insightshdl.NewInsightsHandler(fetcher)
		if err != nil {
			return fmt.Errorf("create insights handler: %w", err)
		}

		chain := []fiber.Handler{middleware.APIKeyAuth()}
		apirouter.RegisterRouteWithMiddleware(v1, "/insights", "POST", "/merge", chain, handler.Merge)
		apirouter.RegisterRouteWithMiddleware(v1, "/insights", "GET", "/aggregate", chain, handler.Aggregate)
		return nil
	}
}
