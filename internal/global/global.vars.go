package global

import (
	"media_scheduler/config"
	"media_scheduler/internal/registry"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
)

// DBColNames chứa tên của tất cả các collection trong database
type DBColNames struct {
	ContentItems string // Collection bài đăng (content items)
	JobLeases    string // Collection lease cho các background job (single-instance guard)
	ImportBatchs string // Collection batch import đã commit (đối soát)
}

var (
	// MongoDB_ColNames tên các collection trong database
	MongoDB_ColNames DBColNames

	// MongoDB_ServerConfig cấu hình server
	MongoDB_ServerConfig *config.Configuration

	// MongoDB_Session phiên kết nối MongoDB
	MongoDB_Session *mongo.Client

	// Validate validator singleton dùng chung toàn ứng dụng
	Validate *validator.Validate

	// RegistryCollections registry các collection đã đăng ký
	RegistryCollections = registry.NewRegistry[*mongo.Collection]()
)
