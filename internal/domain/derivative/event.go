package derivative

import "time"

// BatchGenerated records one completed template expansion that was persisted
// to a sink.
type BatchGenerated struct {
	BatchID     string    `json:"batch_id"`
	Template    string    `json:"template"`
	Pattern     Pattern   `json:"pattern"`
	Count       int       `json:"count"`
	OutputDir   string    `json:"output_dir"`
	Sink        string    `json:"sink"`
	Format      string    `json:"format"`
	TableDigest string    `json:"table_digest"`
	GeneratedAt time.Time `json:"generated_at"`
}

// GenerationRequested asks a worker to expand Template and persist the
// derivatives under OutputDir.
type GenerationRequested struct {
	RequestID   string    `json:"request_id"`
	Template    string    `json:"template"`
	OutputDir   string    `json:"output_dir"`
	RequestedAt time.Time `json:"requested_at"`
}

//Personal.AI order the ending
