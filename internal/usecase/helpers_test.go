package usecase

import (
	"context"
	"fmt"
	"sync/atomic"
)

func intPtr(v int) *int { return &v }

type sequenceIDGenerator struct {
	next atomic.Int32
}

func (g *sequenceIDGenerator) NewID() (string, error) {
	return fmt.Sprintf("sub-%d", g.next.Add(1)), nil
}

type invalidatorSpy struct {
	calls atomic.Int32
}

func (s *invalidatorSpy) Invalidate(context.Context) {
	s.calls.Add(1)
}
