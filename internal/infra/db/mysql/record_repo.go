package mysql

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/bryanwahyu/docproc-api/internal/domain/documents"
)

const schema = `
CREATE TABLE IF NOT EXISTS document_audit (
  id                 CHAR(36)     NOT NULL,
  document_hash      CHAR(64)     NOT NULL DEFAULT '',
  status             VARCHAR(16)  NOT NULL,
  complexity_score   VARCHAR(16)  NOT NULL,
  word_count         INT          NOT NULL,
  byte_length        BIGINT       NOT NULL,
  processing_time_ms DOUBLE       NOT NULL,
  archive_url        VARCHAR(512) NOT NULL DEFAULT '',
  client             VARCHAR(128) NOT NULL DEFAULT '-',
  created_at         DATETIME(6)  NOT NULL,
  PRIMARY KEY (id),
  KEY idx_document_audit_hash (document_hash, created_at),
  KEY idx_document_audit_created (created_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`

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

// Save insert Record; id yang sama hanya update archive_url
func (r *RecordRepository) Save(ctx context.Context, rec *domain.Record) error {
	const q = `
INSERT INTO document_audit
  (id, document_hash, status, complexity_score, word_count, byte_length,
   processing_time_ms, archive_url, client, created_at)
VALUES (?,?,?,?,?,?,?,?,?,?)
ON DUPLICATE KEY UPDATE archive_url = VALUES(archive_url);`

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

// Get record terbaru untuk hash; sql.ErrNoRows kalau tidak ada
func (r *RecordRepository) Get(ctx context.Context, hash string) (*domain.Record, error) {
	const q = selectColumns + `
WHERE document_hash = ?
ORDER BY created_at DESC, id DESC
LIMIT 1;`
	return scanRecord(r.db.QueryRowContext(ctx, q, hash))
}

// Latest records, newest first
func (r *RecordRepository) Latest(ctx context.Context, limit int) ([]*domain.Record, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = selectColumns + `
ORDER BY created_at DESC, id DESC
LIMIT ?;`
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
       COALESCE(SUM(CASE WHEN status = 'success' AND complexity_score = 'simple'  THEN 1 ELSE 0 END),0) AS simple,
       COALESCE(SUM(CASE WHEN status = 'success' AND complexity_score = 'complex' THEN 1 ELSE 0 END),0) AS complex,
       COALESCE(SUM(CASE WHEN status = 'error' THEN 1 ELSE 0 END),0) AS rejected
FROM document_audit
WHERE created_at >= ?;`
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
