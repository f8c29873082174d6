package search

import "time"

// Actions carried by an IndexJob.
const (
	ActionIndex  = "index"
	ActionDelete = "delete"
)

// BugDocument is the shape stored in the bugs index.
type BugDocument struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	CreatedBy   string    `json:"created_by"`
	AssignedTo  string    `json:"assigned_to,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IndexJob is the message published to the index queue and consumed by the
// indexer worker. Delete jobs only need Doc.ID populated.
type IndexJob struct {
	Action string      `json:"action"`
	Doc    BugDocument `json:"doc"`
}
