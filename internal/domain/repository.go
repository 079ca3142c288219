package domain

// HistoryRepository defines the interface for download history persistence
type HistoryRepository interface {
	// Create stores a new record
	Create(record *DownloadRecord) error

	// Update updates an existing record
	Update(record *DownloadRecord) error

	// FindByID finds a record by ID
	FindByID(id string) (*DownloadRecord, error)

	// FindRecent returns up to limit records, newest first
	FindRecent(limit int) ([]*DownloadRecord, error)

	// GetStats returns history statistics
	GetStats() (*HistoryStats, error)

	// Close releases the underlying connection
	Close() error
}

// HistoryStats represents download history statistics
type HistoryStats struct {
	Total      int64 `json:"total"`
	InProgress int64 `json:"in_progress"`
	Completed  int64 `json:"completed"`
	Failed     int64 `json:"failed"`
	Aborted    int64 `json:"aborted"`
	BytesSent  int64 `json:"bytes_sent"`
}
