package entity

import "time"

// Bug statuses.
const (
	StatusOpen       = "open"
	StatusInProgress = "in-progress"
	StatusResolved   = "resolved"
)

// Bug priorities.
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
)

// Bug is the aggregate root for the tracking domain
// CreatedBy is immutable after creation; AssignedTo is optional. Both are
// serialized as embedded {id, name, email} references so readers see who a
// bug belongs to without a second lookup. Seq records insertion order and
// breaks created_at ties when listing.
type Bug struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority"`
	CreatedBy   string    `json:"-"`
	AssignedTo  *string   `json:"-"`
	Creator     *UserRef  `json:"created_by,omitempty"`
	Assignee    *UserRef  `json:"assigned_to,omitempty"`
	Seq         int64     `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ValidStatus reports whether s is one of the known bug statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusResolved:
		return true
	}
	return false
}

// ValidPriority reports whether p is one of the known bug priorities.
func ValidPriority(p string) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}
