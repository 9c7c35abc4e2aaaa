package documents

import "context"

// Repository port (interface untuk persistence audit trail)
type Repository interface {
	Save(ctx context.Context, r *Record) error
	Get(ctx context.Context, hash string) (*Record, error)
	Latest(ctx context.Context, limit int) ([]*Record, error)
	Summary(ctx context.Context, sinceDays int) (Summary, error)
}

// ArchiveStore port (interface untuk penyimpanan dokumen mentah)
type ArchiveStore interface {
	Archive(ctx context.Context, hash, text string) (string, error)
}
