package documents

import "time"

// ProcessedBy label yang dikirim di setiap response /process
const ProcessedBy = "Go API"

// APIName dipakai di response /health
const APIName = "Go"

// Status enum
type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// Complexity enum
type Complexity string

const (
	ComplexitySimple  Complexity = "simple"
	ComplexityComplex Complexity = "complex"
)

// Request body POST /process
type Request struct {
	DocumentText string `json:"document_text"`
}

// Result body response POST /process
type Result struct {
	Status           Status     `json:"status"`
	ComplexityScore  Complexity `json:"complexity_score"`
	DocumentHash     string     `json:"document_hash"`
	ProcessedBy      string     `json:"processed_by"`
	ProcessingTimeMS float64    `json:"processing_time_ms"`
}

// RecordID tipe untuk Record
type RecordID string

// Record is one audit-trail row written after a document has been processed.
type Record struct {
	ID               RecordID   `json:"id"`
	DocumentHash     string     `json:"document_hash,omitempty"`
	Status           Status     `json:"status"`
	ComplexityScore  Complexity `json:"complexity_score"`
	WordCount        int        `json:"word_count"`
	ByteLength       int        `json:"byte_length"`
	ProcessingTimeMS float64    `json:"processing_time_ms"`
	ArchiveURL       string     `json:"archive_url,omitempty"`
	Client           string     `json:"client,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

// Summary value object
type Summary struct {
	Days     int `json:"days"`
	Total    int `json:"total"`
	Simple   int `json:"simple"`
	Complex  int `json:"complex"`
	Rejected int `json:"rejected"`
}
