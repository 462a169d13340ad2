package main

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"

	"media_scheduler/internal/api/asset"
	contentitemsvc "media_scheduler/internal/api/contentitem/service"
	insightssvc "media_scheduler/internal/api/insights/service"
	"media_scheduler/internal/global"
	"media_scheduler/internal/logger"
	"media_scheduler/internal/utility"
	"media_scheduler/internal/worker"
)

// initLogger khởi tạo và cấu hình logger cho toàn bộ ứng dụng
func initLogger() {
	// Khởi tạo logger với cấu hình mặc định
	// Logger sẽ tự động đọc environment variables để cấu hình
	if err := logger.Init(nil); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	// Log thông tin khởi tạo bằng logger mới
	log := logger.GetAppLogger()
	log.Info("Logger system initialized successfully")
}

// main_thread khởi tạo và chạy Fiber server
func main_thread(app *fiber.App) {
	// Khởi động server với cấu hình listen
	cfg := global.MongoDB_ServerConfig
	address := ":" + cfg.Address

	log := logger.GetAppLogger()
	log.Info("Starting Fiber server...")

	// Helper function để resolve đường dẫn từ thư mục gốc project
	resolvePath := func(path string) string {
		if filepath.IsAbs(path) {
			return path
		}
		currentDir, err := os.Getwd()
		if err != nil {
			return path
		}
		for {
			envDir := filepath.Join(currentDir, "config", "env")
			if _, err := os.Stat(envDir); err == nil {
				return filepath.Join(currentDir, path)
			}
			parentDir := filepath.Dir(currentDir)
			if parentDir == currentDir {
				return path
			}
			currentDir = parentDir
		}
	}

	// Kiểm tra xem có bật TLS không
	if cfg.EnableTLS && cfg.TLSCertFile != "" && cfg.TLSKeyFile != "" {
		// Resolve đường dẫn certificate và key
		certPath := resolvePath(cfg.TLSCertFile)
		keyPath := resolvePath(cfg.TLSKeyFile)

		// Kiểm tra file certificate và key tồn tại
		if _, err := os.Stat(certPath); os.IsNotExist(err) {
			log.Fatalf("TLS certificate file not found: %s (resolved from: %s)", certPath, cfg.TLSCertFile)
		}
		if _, err := os.Stat(keyPath); os.IsNotExist(err) {
			log.Fatalf("TLS key file not found: %s (resolved from: %s)", keyPath, cfg.TLSKeyFile)
		}

		// Load certificate và key
		cert, err := tls.LoadX509KeyPair(certPath, keyPath)
		if err != nil {
			log.Fatalf("Error loading TLS certificate: %v", err)
		}

		// Tạo listener với TLS
		ln, err := net.Listen("tcp", address)
		if err != nil {
			log.Fatalf("Error creating listener: %v", err)
		}

		// Cấu hình TLS
		tlsConfig := &tls.Config{
			Certificates: []tls.Certificate{cert},
			MinVersion:   tls.VersionTLS12,
		}

		// Wrap listener với TLS
		tlsListener := tls.NewListener(ln, tlsConfig)

		log.WithFields(map[string]interface{}{
			"address": address,
			"cert":    certPath,
			"key":     keyPath,
		}).Info("Starting server with HTTPS/TLS")

		// Khởi động server với TLS listener
		if err := app.Listener(tlsListener); err != nil {
			log.Fatalf("Error in Fiber Listener with TLS: %v", err)
		}
	} else {
		// Khởi động server HTTP thông thường
		log.WithFields(map[string]interface{}{
			"address":  address,
			"protocol": "HTTP",
		}).Info("Starting server with HTTP")

		listenConfig := fiber.ListenConfig{}
		if err := app.Listen(address, listenConfig); err != nil {
			log.Fatalf("Error in Fiber Listen: %v", err)
		}
	}
}

// Hàm main
func main() {
	// Khởi tạo logger
	initLogger()

	// Khởi tạo các biến toàn cục
	InitGlobal()

	// Khởi tạo registry
	InitRegistry()

	log := logger.GetAppLogger()
	cfg := global.MongoDB_ServerConfig

	// Khởi tạo object store cho asset và đăng ký làm reclaimer mặc định
	// (cascade delete và sweep dùng chung store này)
	store, err := asset.NewS3Store(cfg)
	if err != nil {
		log.Fatalf("Failed to create asset store: %v", err)
	}
	contentitemsvc.SetDefaultAssetReclaimer(store)
	log.Info("Asset store initialized")

	// Khởi tạo fetcher cho insights (nil nếu analytics source chưa cấu hình)
	var fetcher insightssvc.Fetcher
	if httpFetcher := insightssvc.NewHTTPFetcher(cfg); httpFetcher != nil {
		fetcher = httpFetcher
		log.Info("Metrics fetcher initialized")
	} else {
		log.Info("METRICS_BASE_URL not set, insights merge disabled")
	}

	// Khởi tạo và chạy Reconciler Worker (background job quét item hết hạn)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	reconciler, err := worker.NewReconcilerWorker(cfg)
	if err != nil {
		log.WithError(err).Error("Failed to create reconciler worker, continuing without sweep job")
	} else if err := reconciler.Start(ctx); err != nil {
		log.WithError(err).Error("Failed to start reconciler worker, continuing without sweep job")
	}

	// Khởi tạo app với cấu hình
	app := InitFiberApp(store, fetcher)

	// Dừng worker và server khi nhận SIGINT/SIGTERM
	go utility.GoProtect(func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh

		log.WithFields(map[string]interface{}{
			"signal": sig.String(),
		}).Info("Shutting down...")
		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.WithError(err).Error("Error during server shutdown")
		}
	})

	// Chạy Fiber server trên main thread
	main_thread(app)
}
