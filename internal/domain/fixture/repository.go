package fixture

import "context"

// Repository exposes fixture read and sync operations.
type Repository interface {
	ListByGameweek(ctx context.Context, gameweek int) ([]Fixture, error)
	ListAll(ctx context.Context) ([]Fixture, error)
	UpsertMany(ctx context.Context, items []Fixture) error
}
