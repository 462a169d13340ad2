package middleware

import (
	"crypto/subtle"

	"github.com/gofiber/fiber/v3"

	"media_scheduler/internal/common"
	"media_scheduler/internal/global"
)

// APIKeyAuth middleware xác thực request bằng API key.
// - Đọc X-API-Key từ header (hoặc query param api_key cho các request từ browser)
// - So sánh constant-time với API key trong config
// - Nếu config không khai báo API key thì bỏ qua xác thực (môi trường dev/test)
func APIKeyAuth() fiber.Handler {
	return func(c fiber.Ctx) error {
		configured := ""
		if global.MongoDB_ServerConfig != nil {
			configured = global.MongoDB_ServerConfig.APIKey
		}
		if configured == "" {
			return c.Next()
		}

		provided := c.Get("X-API-Key")
		if provided == "" {
			provided = c.Query("api_key")
		}

		if provided == "" {
			HandleErrorResponse(c, common.NewError(
				common.ErrCodeAuthToken,
				"Thiếu API key. Truyền qua header X-API-Key hoặc query param api_key",
				common.StatusUnauthorized,
				nil,
			))
			return nil
		}

		if subtle.ConstantTimeCompare([]byte(provided), []byte(configured)) != 1 {
			HandleErrorResponse(c, common.NewError(
				common.ErrCodeAuthToken,
				"API key không hợp lệ",
				common.StatusUnauthorized,
				nil,
			))
			return nil
		}

		return c.Next()
	}
}
