// Package router đăng ký các route thuộc domain Calendar.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	calendarhdl "media_scheduler/internal/api/calendar/handler"
	"media_scheduler/internal/api/middleware"
	apirouter "media_scheduler/internal/api/router"
)

// Register đăng ký các route calendar lên v1.
func Register(v1 fiber.Router, r *apirouter.Router) error {
	handler, err := calendarhdl.NewCalendarHandler()
	if err != nil {
		return fmt.Errorf("create calendar handler: %w", err)
	}

	chain := []fiber.Handler{middleware.APIKeyAuth()}
	apirouter.RegisterRouteWithMiddleware(v1, "/calendar", "GET", "/events", chain, handler.Events)
	apirouter.RegisterRouteWithMiddleware(v1, "/calendar", "POST", "/:id/reschedule", chain, handler.Reschedule)
	apirouter.RegisterRouteWithMiddleware(v1, "/calendar", "GET", "/navigate", chain, handler.Navigate)
	return nil
}
