// File: internal/mocks/mocks.go
package mocks

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"
	"github.com/xkilldash9x/humanpath/internal/humanoid"
	"github.com/xkilldash9x/humanpath/internal/replay"
)

// -- Driver Mock --

// MockDriver mocks replay.Driver. Besides the usual expectations it records
// every pointer move, so tests can inspect the played path.
type MockDriver struct {
	mock.Mock

	mu    sync.Mutex
	moves []humanoid.Vector2D
}

var _ replay.Driver = (*MockDriver)(nil)

func (m *MockDriver) MoveTo(ctx context.Context, x, y float64) error {
	m.mu.Lock()
	m.moves = append(m.moves, humanoid.Vector2D{X: x, Y: y})
	m.mu.Unlock()

	args := m.Called(ctx, x, y)
	return args.Error(0)
}

func (m *MockDriver) Locate(ctx context.Context, selector string) (replay.Box, error) {
	args := m.Called(ctx, selector)
	return args.Get(0).(replay.Box), args.Error(1)
}

func (m *MockDriver) Click(ctx context.Context, x, y float64) error {
	args := m.Called(ctx, x, y)
	return args.Error(0)
}

// Moves returns a copy of the pointer positions received so far.
func (m *MockDriver) Moves() []humanoid.Vector2D {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]humanoid.Vector2D, len(m.moves))
	copy(out, m.moves)
	return out
}
