package documents

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	domain "github.com/bryanwahyu/docproc-api/internal/domain/documents"
)

// stepClock advances by step on every Now call.
type stepClock struct {
	mu   sync.Mutex
	t    time.Time
	step time.Duration
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.t
	c.t = c.t.Add(c.step)
	return now
}

type fakeRepo struct {
	mu      sync.Mutex
	saved   []*domain.Record
	saveErr error
	summary domain.Summary
}

func (f *fakeRepo) Save(ctx context.Context, r *domain.Record) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append(f.saved, r)
	return nil
}

func (f *fakeRepo) Get(ctx context.Context, hash string) (*domain.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.saved) - 1; i >= 0; i-- {
		if f.saved[i].DocumentHash == hash {
			return f.saved[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeRepo) Latest(ctx context.Context, limit int) ([]*domain.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if limit > len(f.saved) {
		limit = len(f.saved)
	}
	return f.saved[:limit], nil
}

func (f *fakeRepo) Summary(ctx context.Context, sinceDays int) (domain.Summary, error) {
	return f.summary, nil
}

func (f *fakeRepo) records() []*domain.Record {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]*domain.Record(nil), f.saved...)
}

type fakeArchive struct {
	calls int
	err   error
}

func (f *fakeArchive) Archive(ctx context.Context, hash, text string) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return "http://archive/" + hash, nil
}

func newClock() *stepClock {
	return &stepClock{t: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC), step: 2 * time.Millisecond}
}

func TestProcessEmptyDocument(t *testing.T) {
	svc := &Service{Clock: newClock()}

	res := svc.Process(context.Background(), ProcessCommand{DocumentText: ""})

	if res.Status != domain.StatusError {
		t.Errorf("status = %s, want error", res.Status)
	}
	if res.ComplexityScore != domain.ComplexitySimple {
		t.Errorf("complexity = %s, want simple", res.ComplexityScore)
	}
	if res.DocumentHash != "" {
		t.Errorf("hash = %q, want empty", res.DocumentHash)
	}
	if res.ProcessedBy != domain.ProcessedBy {
		t.Errorf("processed_by = %q", res.ProcessedBy)
	}
	if res.ProcessingTimeMS != 2 {
		t.Errorf("processing_time_ms = %v, want 2", res.ProcessingTimeMS)
	}
}

func TestProcessHelloWorld(t *testing.T) {
	svc := &Service{Clock: newClock()}

	res := svc.Process(context.Background(), ProcessCommand{DocumentText: "hello world"})

	if res.Status != domain.StatusSuccess {
		t.Errorf("status = %s, want success", res.Status)
	}
	if res.ComplexityScore != domain.ComplexitySimple {
		t.Errorf("complexity = %s, want simple", res.ComplexityScore)
	}
	if res.DocumentHash != "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9" {
		t.Errorf("hash = %s", res.DocumentHash)
	}
	if res.ProcessingTimeMS != 2 {
		t.Errorf("processing_time_ms = %v, want 2", res.ProcessingTimeMS)
	}
}

func TestProcessComplexDocument(t *testing.T) {
	svc := &Service{}
	text := strings.TrimSpace(strings.Repeat("token ", 51))

	res := svc.Process(context.Background(), ProcessCommand{DocumentText: text})

	if res.ComplexityScore != domain.ComplexityComplex {
		t.Errorf("complexity = %s, want complex", res.ComplexityScore)
	}
	if res.ProcessingTimeMS < 0 {
		t.Errorf("processing_time_ms = %v, want >= 0", res.ProcessingTimeMS)
	}
}

func TestProcessWhitespaceOnlyIsSuccess(t *testing.T) {
	svc := &Service{}

	res := svc.Process(context.Background(), ProcessCommand{DocumentText: "   "})

	if res.Status != domain.StatusSuccess || res.ComplexityScore != domain.ComplexitySimple {
		t.Errorf("got %+v, want success/simple", res)
	}
	if res.DocumentHash != domain.Hash("   ") {
		t.Errorf("hash = %s", res.DocumentHash)
	}
}

func TestRecordSavesAndArchives(t *testing.T) {
	repo := &fakeRepo{}
	archive := &fakeArchive{}
	svc := &Service{Repo: repo, Archive: archive, Clock: newClock()}
	cmd := ProcessCommand{DocumentText: "hello world", Client: "ci"}
	res := svc.Process(context.Background(), cmd)

	if err := svc.Record(context.Background(), cmd, res); err != nil {
		t.Fatalf("Record: %v", err)
	}

	recs := repo.records()
	if len(recs) != 1 {
		t.Fatalf("saved %d records, want 1", len(recs))
	}
	rec := recs[0]
	if rec.ID == "" || rec.DocumentHash != res.DocumentHash || rec.Status != domain.StatusSuccess {
		t.Errorf("unexpected record %+v", rec)
	}
	if rec.WordCount != 2 || rec.ByteLength != len("hello world") || rec.Client != "ci" {
		t.Errorf("unexpected record metadata %+v", rec)
	}
	if rec.ArchiveURL != "http://archive/"+res.DocumentHash {
		t.Errorf("archive url = %q", rec.ArchiveURL)
	}
}

func TestRecordRejectedIsNotArchived(t *testing.T) {
	repo := &fakeRepo{}
	archive := &fakeArchive{}
	svc := &Service{Repo: repo, Archive: archive}
	cmd := ProcessCommand{}

	if err := svc.Record(context.Background(), cmd, svc.Process(context.Background(), cmd)); err != nil {
		t.Fatalf("Record: %v", err)
	}
	if archive.calls != 0 {
		t.Errorf("archive called %d times for empty document", archive.calls)
	}
	if recs := repo.records(); len(recs) != 1 || recs[0].Status != domain.StatusError {
		t.Errorf("records = %+v", recs)
	}
}

func TestRecordArchiveFailureStillSaves(t *testing.T) {
	repo := &fakeRepo{}
	boom := errors.New("bucket gone")
	svc := &Service{Repo: repo, Archive: &fakeArchive{err: boom}}
	cmd := ProcessCommand{DocumentText: "x"}

	err := svc.Record(context.Background(), cmd, svc.Process(context.Background(), cmd))
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapping %v", err, boom)
	}
	if recs := repo.records(); len(recs) != 1 || recs[0].ArchiveURL != "" {
		t.Errorf("records = %+v", recs)
	}
}

func TestRecordSaveFailure(t *testing.T) {
	boom := errors.New("db down")
	svc := &Service{Repo: &fakeRepo{saveErr: boom}}
	cmd := ProcessCommand{DocumentText: "x"}

	if err := svc.Record(context.Background(), cmd, svc.Process(context.Background(), cmd)); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want wrapping %v", err, boom)
	}
}

func TestRecordInBackground(t *testing.T) {
	repo := &fakeRepo{}
	svc := &Service{Repo: repo}
	for _, text := range []string{"a", "b", ""} {
		cmd := ProcessCommand{DocumentText: text}
		svc.RecordInBackground(cmd, svc.Process(context.Background(), cmd))
	}
	svc.Wait()

	if n := len(repo.records()); n != 3 {
		t.Errorf("saved %d records, want 3", n)
	}
}

func TestRecordInBackgroundDisabled(t *testing.T) {
	svc := &Service{}
	if svc.AuditEnabled() {
		t.Fatal("AuditEnabled = true without repo or archive")
	}
	cmd := ProcessCommand{DocumentText: "a"}
	svc.RecordInBackground(cmd, svc.Process(context.Background(), cmd))
	svc.Wait()
}

func TestLookupsWithoutRepo(t *testing.T) {
	svc := &Service{}
	ctx := context.Background()

	if _, err := svc.Get(ctx, domain.Hash("a")); !errors.Is(err, domain.ErrAuditDisabled) {
		t.Errorf("Get err = %v", err)
	}
	if _, err := svc.Latest(ctx, 10); !errors.Is(err, domain.ErrAuditDisabled) {
		t.Errorf("Latest err = %v", err)
	}
	if _, err := svc.Summary(ctx, 7); !errors.Is(err, domain.ErrAuditDisabled) {
		t.Errorf("Summary err = %v", err)
	}
}

func TestGetValidatesHash(t *testing.T) {
	svc := &Service{Repo: &fakeRepo{}}

	if _, err := svc.Get(context.Background(), "not-a-hash"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
	if _, err := svc.Get(context.Background(), domain.Hash("missing")); !errors.Is(err, sql.ErrNoRows) {
		t.Errorf("err = %v, want sql.ErrNoRows", err)
	}
}

func TestSummarySetsDays(t *testing.T) {
	svc := &Service{Repo: &fakeRepo{summary: domain.Summary{Total: 3, Simple: 1, Complex: 1, Rejected: 1}}}

	sum, err := svc.Summary(context.Background(), 30)
	if err != nil {
		t.Fatal(err)
	}
	if sum.Days != 30 || sum.Total != 3 {
		t.Errorf("summary = %+v", sum)
	}
}
