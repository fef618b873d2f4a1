package prediction

import (
	"errors"
	"fmt"
)

var (
	ErrIncompletePrediction = errors.New("every fixture needs a home and away score")
	ErrUnknownFixture       = errors.New("fixture is not part of the gameweek")
	ErrNegativeScore        = errors.New("scores must be non-negative")
	ErrDuplicateFixture     = errors.New("fixture predicted more than once")
)

// ValidateComplete checks that picks cover exactly the given fixtures, each
// with both scores set.
func ValidateComplete(picks []Pick, fixtureIDs []int64) error {
	expected := make(map[int64]struct{}, len(fixtureIDs))
	for _, id := range fixtureIDs {
		expected[id] = struct{}{}
	}

	seen := make(map[int64]struct{}, len(picks))
	for _, p := range picks {
		if _, ok := expected[p.FixtureID]; !ok {
			return fmt.Errorf("%w: %d", ErrUnknownFixture, p.FixtureID)
		}
		if _, dup := seen[p.FixtureID]; dup {
			return fmt.Errorf("%w: %d", ErrDuplicateFixture, p.FixtureID)
		}
		seen[p.FixtureID] = struct{}{}

		if p.Home == nil || p.Away == nil {
			return fmt.Errorf("%w: fixture %d", ErrIncompletePrediction, p.FixtureID)
		}
		if *p.Home < 0 || *p.Away < 0 {
			return fmt.Errorf("%w: fixture %d", ErrNegativeScore, p.FixtureID)
		}
	}

	if len(seen) != len(expected) {
		return fmt.Errorf("%w: got %d of %d fixtures", ErrIncompletePrediction, len(seen), len(expected))
	}
	return nil
}
