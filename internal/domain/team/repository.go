package team

import "context"

// Repository describes team persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]Team, error)
	UpsertMany(ctx context.Context, items []Team) error
}
