package docModel

import "time"

type DocStatus string

const (
	StatusPending    DocStatus = "pending"
	StatusProcessing DocStatus = "processing"
	StatusCompleted  DocStatus = "completed"
	StatusFailed     DocStatus = "failed"
)

type DocType string

const (
	PDF  DocType = "pdf"
	TXT  DocType = "txt"
	MD   DocType = "md"
	DOCX DocType = "docx"
	ERR  DocType = "error"
)

type Document struct {
	Id                string         `json:"id"`
	Name              string         `json:"doc_name"`
	SourceURL         string         `json:"source_url"`
	Type              DocType        `json:"doc_type"`
	Status            DocStatus      `json:"status"`
	StatusMessage     string         `json:"status_message,omitempty"`
	ExtractionMethod  string         `json:"extraction_method,omitempty"`
	ExtractionQuality float64        `json:"extraction_quality,omitempty"`
	Metadata          map[string]any `json:"metadata,omitempty"`
	CreatedTime       time.Time      `json:"created_time"`
	UpdatedTime       time.Time      `json:"updated_time"`
}

// Chunk is one bounded slice of document text, persisted together with its
// embedding vector. Indices are contiguous from 0 per document.
type Chunk struct {
	DocumentId  string    `json:"document_id"`
	Index       int       `json:"chunk_index"`
	Content     string    `json:"content"`
	Start       int       `json:"start_offset"`
	End         int       `json:"end_offset"`
	Size        int       `json:"size"`
	CreatedTime time.Time `json:"created_time"`
}

// ExtractionResult is the transient output of one strategy run. Only the
// winning candidate's text flows into the chunker, nothing is persisted.
type ExtractionResult struct {
	Text     string
	Method   string
	Quality  float64
	Pages    int
	Metadata map[string]any
}

// ProcessResult carries the stats the trigger endpoint reports back.
type ProcessResult struct {
	ChunksCreated      int
	ChunksFailed       int
	TextLength         int
	Pages              int
	ExtractionMethod   string
	ExtractionQuality  float64
	OCRUsed            bool
	WhisperHash        string
	ExtractionTime     time.Duration
	ChunkingTime       time.Duration
	TotalTime          time.Duration
	TotalEmbeddingTime time.Duration
}

func (r ProcessResult) AverageEmbeddingTimeMs() float64 {
	if r.ChunksCreated == 0 {
		return 0
	}
	return float64(r.TotalEmbeddingTime.Milliseconds()) / float64(r.ChunksCreated)
}

func (r ProcessResult) SuccessRate() float64 {
	total := r.ChunksCreated + r.ChunksFailed
	if total == 0 {
		return 0
	}
	return float64(r.ChunksCreated) / float64(total)
}

// ProcessingRate is chunks persisted per second of total processing time.
func (r ProcessResult) ProcessingRate() float64 {
	secs := r.TotalTime.Seconds()
	if secs <= 0 {
		return 0
	}
	return float64(r.ChunksCreated) / secs
}

func DocTypeFromString(s string) DocType {
	switch s {
	case "pdf", "PDF", ".pdf":
		return PDF
	case "txt", "TXT", ".txt", "text":
		return TXT
	case "md", "MD", ".md", "markdown":
		return MD
	case "docx", "DOCX", ".docx", "odt", ".odt", "rtf", ".rtf":
		return DOCX
	default:
		return ERR
	}
}

func (t DocType) Supported() bool {
	switch t {
	case PDF, TXT, MD, DOCX:
		return true
	}
	return false
}
