package gameweek

import "context"

// Repository describes gameweek persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]Gameweek, error)
	GetByID(ctx context.Context, id int) (Gameweek, bool, error)
	Current(ctx context.Context) (Gameweek, bool, error)
	UpsertMany(ctx context.Context, items []Gameweek) error
}
