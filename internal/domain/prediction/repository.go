package prediction

import "context"

// Repository persists prediction submissions.
type Repository interface {
	Insert(ctx context.Context, item Submission) error
	List(ctx context.Context, filter Filter) ([]Submission, error)
}
