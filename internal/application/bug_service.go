package application

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/bug-tracker-api/internal/domain/entity"
	repo "github.com/oksasatya/bug-tracker-api/internal/domain/repository"
	"github.com/oksasatya/bug-tracker-api/pkg/helpers"
	"github.com/oksasatya/bug-tracker-api/pkg/search"
)

// BugService is the lifecycle and aggregation engine: it enforces the
// create/update/delete contracts on top of the bug repository, consults the
// authorization policy for mutations, and derives dashboard counts from the
// same data it lists. Search indexing is a best-effort side channel: enqueued
// over RabbitMQ when a publisher is wired, written inline when only an
// indexer is, and skipped when neither is.
type BugService struct {
	Bugs    repo.BugRepository
	Users   repo.UserRepository
	Logger  *logrus.Logger
	Pub     *helpers.RabbitPublisher
	Indexer *search.Indexer
}

func NewBugService(bugs repo.BugRepository, users repo.UserRepository, logger *logrus.Logger, pub *helpers.RabbitPublisher, ix *search.Indexer) *BugService {
	return &BugService{Bugs: bugs, Users: users, Logger: logger, Pub: pub, Indexer: ix}
}

type CreateBugInput struct {
	Title       string
	Description string
	Status      string
	Priority    string
	AssignedTo  *string
}

// UpdateBugInput is a partial patch: nil fields are left unchanged. There is
// no CreatedBy field on purpose; ownership is not patchable.
type UpdateBugInput struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *string
	AssignedTo  *string
}

// Stats are the dashboard counts, derived from the same repository state the
// listing reads. The per-status counts always sum to TotalBugs.
type Stats struct {
	TotalBugs      int `json:"total_bugs"`
	OpenBugs       int `json:"open_bugs"`
	InProgressBugs int `json:"in_progress_bugs"`
	ResolvedBugs   int `json:"resolved_bugs"`
	AssignedToMe   int `json:"assigned_to_me"`
}

func validateCreate(in CreateBugInput) *ValidationError {
	fields := map[string]string{}
	if strings.TrimSpace(in.Title) == "" {
		fields["title"] = "is required"
	}
	if strings.TrimSpace(in.Description) == "" {
		fields["description"] = "is required"
	}
	if in.Status != "" && !entity.ValidStatus(in.Status) {
		fields["status"] = "must be one of: open, in-progress, resolved"
	}
	if in.Priority != "" && !entity.ValidPriority(in.Priority) {
		fields["priority"] = "must be one of: low, medium, high"
	}
	if len(fields) > 0 {
		return NewValidationError(fields)
	}
	return nil
}

// checkAssignee verifies that an assignee references an existing user and
// returns that user so callers can embed its identity. This is a boundary
// check, not a transactional guarantee.
func (s *BugService) checkAssignee(ctx context.Context, id string) (*entity.User, error) {
	u, err := s.Users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, NewValidationError(map[string]string{"assigned_to": "must reference an existing user"})
		}
		return nil, err
	}
	return u, nil
}

// Create validates the input, stamps ownership from the principal and
// persists the bug. Status defaults to open and priority to medium when
// omitted; unknown enum values are rejected. The returned bug carries the
// creator's and assignee's embedded identity, as reads do.
func (s *BugService) Create(ctx context.Context, in CreateBugInput, p Principal) (*entity.Bug, error) {
	if verr := validateCreate(in); verr != nil {
		return nil, verr
	}
	b := &entity.Bug{
		Title:       strings.TrimSpace(in.Title),
		Description: strings.TrimSpace(in.Description),
		Status:      in.Status,
		Priority:    in.Priority,
		CreatedBy:   p.ID,
	}
	if b.Status == "" {
		b.Status = entity.StatusOpen
	}
	if b.Priority == "" {
		b.Priority = entity.PriorityMedium
	}
	if in.AssignedTo != nil && *in.AssignedTo != "" {
		assignee, err := s.checkAssignee(ctx, *in.AssignedTo)
		if err != nil {
			return nil, err
		}
		b.AssignedTo = in.AssignedTo
		b.Assignee = assignee.Ref()
	}
	creator, err := s.Users.GetByID(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	b.Creator = creator.Ref()
	if err := s.Bugs.Create(ctx, b); err != nil {
		return nil, err
	}
	s.indexBug(ctx, b)
	return b, nil
}

// List returns bugs matching the filter, newest first. Reads are not scoped
// to the caller: any authenticated principal sees all bugs.
func (s *BugService) List(ctx context.Context, f repo.BugFilter, _ Principal) ([]*entity.Bug, error) {
	return s.Bugs.Query(ctx, f)
}

func (s *BugService) Get(ctx context.Context, id string) (*entity.Bug, error) {
	b, err := s.Bugs.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrBugNotFound
		}
		return nil, err
	}
	return b, nil
}

// Update looks the bug up, authorizes the principal, then merges only the
// fields present in the patch. Lookup runs first, so a missing bug reports
// ErrBugNotFound even to principals that could not have mutated it.
func (s *BugService) Update(ctx context.Context, id string, in UpdateBugInput, p Principal) (*entity.Bug, error) {
	b, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !CanMutate(p, b) {
		return nil, ErrForbidden
	}

	fields := map[string]string{}
	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			fields["title"] = "must not be empty"
		} else {
			b.Title = strings.TrimSpace(*in.Title)
		}
	}
	if in.Description != nil {
		if strings.TrimSpace(*in.Description) == "" {
			fields["description"] = "must not be empty"
		} else {
			b.Description = strings.TrimSpace(*in.Description)
		}
	}
	if in.Status != nil {
		if !entity.ValidStatus(*in.Status) {
			fields["status"] = "must be one of: open, in-progress, resolved"
		} else {
			b.Status = *in.Status
		}
	}
	if in.Priority != nil {
		if !entity.ValidPriority(*in.Priority) {
			fields["priority"] = "must be one of: low, medium, high"
		} else {
			b.Priority = *in.Priority
		}
	}
	if len(fields) > 0 {
		return nil, NewValidationError(fields)
	}
	if in.AssignedTo != nil {
		if *in.AssignedTo == "" {
			b.AssignedTo = nil
			b.Assignee = nil
		} else {
			assignee, err := s.checkAssignee(ctx, *in.AssignedTo)
			if err != nil {
				return nil, err
			}
			b.AssignedTo = in.AssignedTo
			b.Assignee = assignee.Ref()
		}
	}

	if err := s.Bugs.Update(ctx, b); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrBugNotFound
		}
		return nil, err
	}
	s.indexBug(ctx, b)
	return b, nil
}

// Delete follows the same lookup-then-authorize sequence as Update.
func (s *BugService) Delete(ctx context.Context, id string, p Principal) error {
	b, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !CanMutate(p, b) {
		return ErrForbidden
	}
	if err := s.Bugs.Delete(ctx, b.ID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrBugNotFound
		}
		return err
	}
	s.deleteIndex(ctx, b.ID)
	return nil
}

// ComputeStats scans the same repository state List reads, so the per-status
// counts sum to the total for any snapshot.
func (s *BugService) ComputeStats(ctx context.Context, p Principal) (Stats, error) {
	bugs, err := s.Bugs.Query(ctx, repo.BugFilter{})
	if err != nil {
		return Stats{}, err
	}
	st := Stats{TotalBugs: len(bugs)}
	for _, b := range bugs {
		switch b.Status {
		case entity.StatusOpen:
			st.OpenBugs++
		case entity.StatusInProgress:
			st.InProgressBugs++
		case entity.StatusResolved:
			st.ResolvedBugs++
		}
		if b.AssignedTo != nil && *b.AssignedTo == p.ID {
			st.AssignedToMe++
		}
	}
	return st, nil
}

// Search queries the Elasticsearch bugs index. Returns an empty result when
// search is not wired.
func (s *BugService) Search(ctx context.Context, q string, size int) ([]search.BugDocument, error) {
	if s.Indexer == nil {
		return []search.BugDocument{}, nil
	}
	return s.Indexer.SearchBugs(ctx, q, size)
}

func docFromBug(b *entity.Bug) search.BugDocument {
	doc := search.BugDocument{
		ID:          b.ID,
		Title:       b.Title,
		Description: b.Description,
		Status:      b.Status,
		Priority:    b.Priority,
		CreatedBy:   b.CreatedBy,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
	if b.AssignedTo != nil {
		doc.AssignedTo = *b.AssignedTo
	}
	return doc
}

func (s *BugService) indexBug(ctx context.Context, b *entity.Bug) {
	job := search.IndexJob{Action: search.ActionIndex, Doc: docFromBug(b)}
	if s.Pub != nil {
		if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("bug_id", b.ID).Warn("index job publish failed")
		}
		return
	}
	if s.Indexer != nil {
		if err := s.Indexer.IndexBug(ctx, job.Doc); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("bug_id", b.ID).Warn("es index failed")
		}
	}
}

func (s *BugService) deleteIndex(ctx context.Context, id string) {
	if s.Pub != nil {
		job := search.IndexJob{Action: search.ActionDelete, Doc: search.BugDocument{ID: id}}
		if err := s.Pub.PublishJSON(ctx, job); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("bug_id", id).Warn("index job publish failed")
		}
		return
	}
	if s.Indexer != nil {
		if err := s.Indexer.DeleteBug(ctx, id); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("bug_id", id).Warn("es delete failed")
		}
	}
}
