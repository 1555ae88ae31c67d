package service

import (
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/javaconnection/furnitrack/internal/config"
	"github.com/javaconnection/furnitrack/internal/tracker/repository"
)

// Services 服务集合
type Services struct {
	Auth     *AuthService
	Order    *OrderService
	Project  *ProjectService
	Settings *SettingsService
	Analysis *AnalysisService
	Export   *ExportService
	Upload   *UploadService
}

// NewServices 创建服务集合
func NewServices(repos *repository.Repositories, rdb *redis.Client, cfg *config.Config, logger *zap.Logger) *Services {
	// 初始化MinIO客户端
	var minioClient *minio.Client
	if cfg.MinIO.Endpoint != "" {
		var err error
		minioClient, err = minio.New(cfg.MinIO.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
			Secure: cfg.MinIO.UseSSL,
		})
		if err != nil {
			logger.Warn("MinIO unavailable, logo upload disabled", zap.Error(err))
			minioClient = nil
		}
	}

	settingsSvc := NewSettingsService(repos.Settings)
	orderSvc := NewOrderService(repos.Order, repos.Project)

	return &Services{
		Auth:     NewAuthService(cfg),
		Order:    orderSvc,
		Project:  NewProjectService(repos.Project, repos.Order, cfg),
		Settings: settingsSvc,
		Analysis: NewAnalysisService(repos.Order, repos.Project, settingsSvc, rdb),
		Export:   NewExportService(repos.Order, repos.Project, settingsSvc),
		Upload:   NewUploadService(minioClient, cfg.MinIO.Bucket),
	}
}
