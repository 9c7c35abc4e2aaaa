package postgres

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/bryanwahyu/docproc-api/internal/domain/documents"
)

const schema = `
CREATE TABLE IF NOT EXISTS document_audit (
  id                 UUID             PRIMARY KEY,
  document_hash      CHAR(64)         NOT NULL DEFAULT '',
  status             VARCHAR(16)      NOT NULL,
  complexity_score   VARCHAR(16)      NOT NULL,
  word_count         INTEGER          NOT NULL,
  byte_length        BIGINT           NOT NULL,
  processing_time_ms DOUBLE PRECISION NOT NULL,
  archive_url        TEXT             NOT NULL DEFAULT '',
  client             VARCHAR(128)     NOT NULL DEFAULT '-',
  created_at         TIMESTAMPTZ      NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_document_audit_hash ON document_audit (document_hash, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_document_audit_created ON document_audit (created_at DESC);`

const selectColumns = `
SELECT id, document_hash, status, complexity_score, word_count, byte_length,
       processing_time_ms, archive_url, client, created_at
FROM document_audit`

type RecordRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewRecordRepository(db *sql.DB) *RecordRepository {
	return &RecordRepository{db: db, now: time.Now}
}

// Migrate buat tabel document_audit kalau belum ada
func (r *RecordRepository) Migrate(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, schema)
	return err
}

// Save insert/update Record
func (r *RecordRepository) Save(ctx context.Context, rec *domain.Record) error {
	const q = `
INSERT INTO document_audit
  (id, document_hash, status, complexity_score, word_count, byte_length,
   processing_time_ms, archive_url, client, created_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
ON CONFLICT (id) DO UPDATE SET archive_url = EXCLUDED.archive_url;`

	created := rec.CreatedAt
	if created.IsZero() {
		created = r.now()
	}
	_, err := r.db.ExecContext(ctx, q,
		rec.ID, rec.DocumentHash, rec.Status, rec.ComplexityScore,
		rec.WordCount, rec.ByteLength, rec.ProcessingTimeMS,
		rec.ArchiveURL, stringOrDash(rec.Client), created.UTC(),
	)
	return err
}

// Get by hash, record paling baru
func (r *RecordRepository) Get(ctx context.Context, hash string) (*domain.Record, error) {
	const q = selectColumns + `
WHERE document_hash = $1
ORDER BY created_at DESC, id DESC
LIMIT 1;`
	return scanRecord(r.db.QueryRowContext(ctx, q, hash))
}

// Latest records
func (r *RecordRepository) Latest(ctx context.Context, limit int) ([]*domain.Record, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = selectColumns + `
ORDER BY created_at DESC, id DESC
LIMIT $1;`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*domain.Record, 0, limit)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Summary counts records since N days
func (r *RecordRepository) Summary(ctx context.Context, sinceDays int) (domain.Summary, error) {
	const q = `
SELECT COUNT(*) AS total,
       COUNT(*) FILTER (WHERE status = 'success' AND complexity_score = 'simple')  AS simple,
       COUNT(*) FILTER (WHERE status = 'success' AND complexity_score = 'complex') AS complex,
       COUNT(*) FILTER (WHERE status = 'error') AS rejected
FROM document_audit
WHERE created_at >= $1;`
	var s domain.Summary
	err := r.db.QueryRowContext(ctx, q, since(r.now(), sinceDays)).
		Scan(&s.Total, &s.Simple, &s.Complex, &s.Rejected)
	if err != nil {
		return domain.Summary{}, err
	}
	return s, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*domain.Record, error) {
	var rec domain.Record
	var created time.Time
	if err := row.Scan(
		&rec.ID, &rec.DocumentHash, &rec.Status, &rec.ComplexityScore,
		&rec.WordCount, &rec.ByteLength, &rec.ProcessingTimeMS,
		&rec.ArchiveURL, &rec.Client, &created,
	); err != nil {
		return nil, err
	}
	rec.Client = dashToEmpty(rec.Client)
	rec.CreatedAt = created.UTC()
	return &rec, nil
}
