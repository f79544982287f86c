package models

import "time"

// BatchProgress is the per-batch checkpoint the runner publishes after each
// chunk so callers that do not wait on the HTTP response can poll.
type BatchProgress struct {
	BatchID     string    `json:"batch_id"`
	ChunksTotal int       `json:"chunks_total"`
	ChunksDone  int       `json:"chunks_done"`
	Created     int       `json:"created"`
	Updated     int       `json:"updated"`
	Failed      int       `json:"failed"`
	Done        bool      `json:"done"`
	UpdatedAt   time.Time `json:"updated_at"`
}
