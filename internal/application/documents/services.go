package documents

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bryanwahyu/docproc-api/internal/application"
	domain "github.com/bryanwahyu/docproc-api/internal/domain/documents"
)

// DefaultRecordTimeout bounds one background audit write.
const DefaultRecordTimeout = 10 * time.Second

// Service implements use-cases untuk Document.
// Process is safe for concurrent use; Repo and Archive are optional.
type Service struct {
	Repo          domain.Repository
	Archive       domain.ArchiveStore
	Clock         application.Clock
	Logger        *slog.Logger
	RecordTimeout time.Duration

	wg sync.WaitGroup
}

//
// ==== USE CASES ====
//

// ProcessCommand untuk analisa satu dokumen
type ProcessCommand struct {
	DocumentText string
	Client       string
}

// Process analyzes one document. Empty text yields a result with
// status "error"; every other input yields "success".
func (s *Service) Process(ctx context.Context, cmd ProcessCommand) domain.Result {
	clock := s.clock()
	start := clock.Now()

	res := domain.Result{
		Status:          domain.StatusError,
		ComplexityScore: domain.ComplexitySimple,
		DocumentHash:    "",
		ProcessedBy:     domain.ProcessedBy,
	}
	if cmd.DocumentText != "" {
		res.ComplexityScore, res.DocumentHash = domain.Analyze(cmd.DocumentText)
		res.Status = domain.StatusSuccess
	}

	res.ProcessingTimeMS = application.ElapsedMS(clock, start)
	return res
}

// AuditEnabled reports whether Record has anything to do.
func (s *Service) AuditEnabled() bool {
	return s.Repo != nil || s.Archive != nil
}

// RecordInBackground → jalankan Record di goroutine sendiri,
// pakai context.Background() supaya gak kena cancel waktu request selesai
func (s *Service) RecordInBackground(cmd ProcessCommand, res domain.Result) {
	if !s.AuditEnabled() {
		return
	}
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		timeout := s.RecordTimeout
		if timeout <= 0 {
			timeout = DefaultRecordTimeout
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := s.Record(ctx, cmd, res); err != nil {
			s.logger().Error("audit record failed",
				"document_hash", res.DocumentHash,
				"status", res.Status,
				"error", err,
			)
		}
	}()
}

// Wait blocks until all background records have finished.
func (s *Service) Wait() {
	s.wg.Wait()
}

// Record archives the document (success only) and saves an audit row.
// An archive failure does not prevent the row from being saved.
func (s *Service) Record(ctx context.Context, cmd ProcessCommand, res domain.Result) error {
	rec := &domain.Record{
		ID:               domain.RecordID(uuid.New().String()),
		DocumentHash:     res.DocumentHash,
		Status:           res.Status,
		ComplexityScore:  res.ComplexityScore,
		WordCount:        domain.CountWords(cmd.DocumentText),
		ByteLength:       len(cmd.DocumentText),
		ProcessingTimeMS: res.ProcessingTimeMS,
		Client:           cmd.Client,
		CreatedAt:        s.clock().Now().UTC(),
	}

	var archiveErr error
	if s.Archive != nil && res.Status == domain.StatusSuccess {
		url, err := s.Archive.Archive(ctx, res.DocumentHash, cmd.DocumentText)
		if err != nil {
			archiveErr = fmt.Errorf("archive document %s: %w", res.DocumentHash, err)
		} else {
			rec.ArchiveURL = url
		}
	}

	if s.Repo == nil {
		return archiveErr
	}
	if err := s.Repo.Save(ctx, rec); err != nil {
		return errors.Join(archiveErr, fmt.Errorf("save record %s: %w", rec.ID, err))
	}
	return archiveErr
}

// Get ambil record terakhir untuk satu hash
func (s *Service) Get(ctx context.Context, hash string) (*domain.Record, error) {
	if s.Repo == nil {
		return nil, domain.ErrAuditDisabled
	}
	if !domain.IsHash(hash) {
		return nil, fmt.Errorf("%w: document hash must be 64 lowercase hex characters", domain.ErrInvalidInput)
	}
	return s.Repo.Get(ctx, hash)
}

// Latest ambil N record terakhir
func (s *Service) Latest(ctx context.Context, limit int) ([]*domain.Record, error) {
	if s.Repo == nil {
		return nil, domain.ErrAuditDisabled
	}
	return s.Repo.Latest(ctx, limit)
}

// Summary rekap hasil N hari terakhir
func (s *Service) Summary(ctx context.Context, sinceDays int) (domain.Summary, error) {
	if s.Repo == nil {
		return domain.Summary{}, domain.ErrAuditDisabled
	}
	sum, err := s.Repo.Summary(ctx, sinceDays)
	if err != nil {
		return domain.Summary{}, err
	}
	sum.Days = sinceDays
	return sum, nil
}

func (s *Service) clock() application.Clock {
	if s.Clock == nil {
		return application.SystemClock{}
	}
	return s.Clock
}

func (s *Service) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}
