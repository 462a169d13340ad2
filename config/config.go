package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env"
	"github.com/joho/godotenv"
)

// Configuration chứa thông tin tĩnh cần thiết để chạy ứng dụng
// Nó chứa thông tin cơ sở dữ liệu, object storage và các job nền
type Configuration struct {
	Address               string `env:"ADDRESS" envDefault:"8080"`                 // Cổng server
	MongoDB_ConnectionURI string `env:"MONGODB_CONNECTION_URI,required"`           // URL kết nối cơ sở dữ liệu
	MongoDB_DBName        string `env:"MONGODB_DBNAME,required"`                   // Tên cơ sở dữ liệu
	CORS_Origins          string `env:"CORS_ORIGINS" envDefault:"*"`               // Các origins được phép (phân cách bởi dấu phẩy, * = tất cả)
	CORS_AllowCredentials bool   `env:"CORS_ALLOW_CREDENTIALS" envDefault:"false"` // Cho phép gửi credentials
	RateLimit_Max         int    `env:"RATE_LIMIT_MAX" envDefault:"100"`           // Số request tối đa trong window (0 = disable rate limit)
	RateLimit_Window      int    `env:"RATE_LIMIT_WINDOW" envDefault:"60"`         // Thời gian window (giây)
	RateLimit_Enabled     bool   `env:"RATE_LIMIT_ENABLED" envDefault:"true"`      // Bật/tắt rate limiting

	// API key cho các endpoint ghi (auth đầy đủ do hệ thống khác đảm nhiệm)
	APIKey string `env:"API_KEY"` // Để trống = không kiểm tra

	// Object storage (S3-compatible) cho asset đính kèm
	AssetStore_Endpoint  string `env:"ASSET_STORE_ENDPOINT,required"`          // Endpoint S3-compatible
	AssetStore_Region    string `env:"ASSET_STORE_REGION" envDefault:"auto"`   // Region
	AssetStore_Bucket    string `env:"ASSET_STORE_BUCKET,required"`            // Tên bucket
	AssetStore_AccessKey string `env:"ASSET_STORE_ACCESS_KEY,required"`        // Access key
	AssetStore_SecretKey string `env:"ASSET_STORE_SECRET_KEY,required"`        // Secret key
	AssetStore_Folder    string `env:"ASSET_STORE_FOLDER" envDefault:"assets"` // Prefix thư mục trong bucket

	// Job quét bài hết hạn (reconciler)
	Sweep_IntervalSeconds int    `env:"SWEEP_INTERVAL_SECONDS" envDefault:"60"` // Chu kỳ quét (giây)
	Sweep_LeaseSeconds    int    `env:"SWEEP_LEASE_SECONDS" envDefault:"120"`   // Thời hạn lease single-instance
	Sweep_InstanceID      string `env:"SWEEP_INSTANCE_ID"`                      // Định danh instance (để trống = tự sinh)

	// Nguồn metrics ngoài (analytics batch lookup)
	Metrics_BaseURL        string `env:"METRICS_BASE_URL"`                        // Base URL của analytics source (để trống = tắt)
	Metrics_TimeoutSeconds int    `env:"METRICS_TIMEOUT_SECONDS" envDefault:"10"` // Timeout mỗi batch fetch

	// TLS/HTTPS Configuration
	EnableTLS   bool   `env:"ENABLE_TLS" envDefault:"false"` // Bật HTTPS
	TLSCertFile string `env:"TLS_CERT_FILE"`                 // Đường dẫn đến file certificate (.crt hoặc .pem)
	TLSKeyFile  string `env:"TLS_KEY_FILE"`                  // Đường dẫn đến file private key (.key)
}

// getEnvPath trả về đường dẫn đến file env dựa trên môi trường
func getEnvPath() string {
	// Mặc định sử dụng môi trường development
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	// Tìm thư mục config
	currentDir, err := os.Getwd()
	if err != nil {
		// Sử dụng fmt.Printf vì logger có thể chưa được init ở đây
		fmt.Printf("Không thể lấy được thư mục hiện tại: %v\n", err)
		return ""
	}

	// Tìm thư mục config/env
	for {
		envDir := filepath.Join(currentDir, "config", "env")
		if _, err := os.Stat(envDir); err == nil {
			// Tìm thấy thư mục config/env
			envPath := filepath.Join(envDir, fmt.Sprintf("%s.env", env))
			return envPath
		}

		// Đi lên thư mục cha
		parentDir := filepath.Dir(currentDir)
		if parentDir == currentDir {
			return ""
		}
		currentDir = parentDir
	}
}

// NewConfig sẽ đọc dữ liệu cấu hình từ file env được cung cấp.
// Nếu không tìm thấy file env, vẫn parse từ environment variables của process.
func NewConfig(files ...string) *Configuration {
	envPath := getEnvPath()
	if envPath != "" {
		if err := godotenv.Load(envPath); err != nil {
			// Sử dụng fmt.Printf vì logger có thể chưa được init ở đây
			fmt.Printf("Không thể load file env tại %s: %v\n", envPath, err)
		}
	}

	cfg := Configuration{}
	err := env.Parse(&cfg)
	if err != nil {
		fmt.Printf("Lỗi khi parse config: %+v\n", err)
		return nil
	}

	return &cfg
}
