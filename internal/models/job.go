package models

// Job represents a unit of work persisted in the queue.
// Timestamps are integer seconds since the Unix epoch.
type Job struct {
	ID         string `json:"id"`
	Command    string `json:"command"`
	State      string `json:"state"`
	Attempts   int    `json:"attempts"`
	MaxRetries int    `json:"max_retries"`
	NextRunAt  int64  `json:"next_run_at"`
	LastError  string `json:"last_error,omitempty"`
	Owner      string `json:"owner,omitempty"`
	CreatedAt  int64  `json:"created_at"`
	UpdatedAt  int64  `json:"updated_at"`
}

// EnqueueRequest is the JSON payload accepted by enqueue.
// Unknown fields are rejected.
type EnqueueRequest struct {
	ID         string `json:"id"`
	Command    string `json:"command"`
	MaxRetries *int   `json:"max_retries"`
}
