package infrastructure

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/yourusername/ytdlp-web-go/internal/domain"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GormHistoryRepository implements domain.HistoryRepository on SQLite or PostgreSQL
type GormHistoryRepository struct {
	db *gorm.DB
}

// NewHistoryRepository opens the history database for the given driver
func NewHistoryRepository(config *domain.HistoryConfig) (*GormHistoryRepository, error) {
	var dialector gorm.Dialector
	switch config.Driver {
	case domain.HistoryDriverSQLite, "":
		if config.DSN != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(config.DSN), 0755); err != nil {
				return nil, fmt.Errorf("failed to create history directory: %w", err)
			}
		}
		dialector = sqlite.Open(config.DSN)
	case domain.HistoryDriverPostgres:
		dialector = postgres.Open(config.DSN)
	default:
		return nil, fmt.Errorf("unsupported history driver: %s", config.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(&domain.DownloadRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return &GormHistoryRepository{db: db}, nil
}

// Create stores a new record
func (r *GormHistoryRepository) Create(record *domain.DownloadRecord) error {
	return r.db.Create(record).Error
}

// Update updates an existing record
func (r *GormHistoryRepository) Update(record *domain.DownloadRecord) error {
	return r.db.Save(record).Error
}

// FindByID finds a record by ID
func (r *GormHistoryRepository) FindByID(id string) (*domain.DownloadRecord, error) {
	var record domain.DownloadRecord
	if err := r.db.First(&record, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// FindRecent returns up to limit records, newest first
func (r *GormHistoryRepository) FindRecent(limit int) ([]*domain.DownloadRecord, error) {
	var records []*domain.DownloadRecord
	query := r.db.Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	err := query.Find(&records).Error
	return records, err
}

// GetStats returns history statistics
func (r *GormHistoryRepository) GetStats() (*domain.HistoryStats, error) {
	stats := &domain.HistoryStats{}

	if err := r.db.Model(&domain.DownloadRecord{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}

	statusCounts := []struct {
		Status domain.DownloadStatus
		Count  int64
	}{}

	if err := r.db.Model(&domain.DownloadRecord{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&statusCounts).Error; err != nil {
		return nil, err
	}

	for _, sc := range statusCounts {
		switch sc.Status {
		case domain.StatusResolving, domain.StatusFetching, domain.StatusStreaming:
			stats.InProgress += sc.Count
		case domain.StatusCompleted:
			stats.Completed = sc.Count
		case domain.StatusFailed:
			stats.Failed = sc.Count
		case domain.StatusAborted:
			stats.Aborted = sc.Count
		}
	}

	if err := r.db.Model(&domain.DownloadRecord{}).
		Select("COALESCE(SUM(bytes_sent), 0)").
		Scan(&stats.BytesSent).Error; err != nil {
		return nil, err
	}

	return stats, nil
}

// Close closes the database connection
func (r *GormHistoryRepository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
