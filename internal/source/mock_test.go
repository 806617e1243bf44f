package source

import (
	"context"
	"sync/atomic"

	"github.com/stretchr/testify/mock"

	"github.com/sells-group/lead-qualifier/internal/model"
	"github.com/sells-group/lead-qualifier/internal/resilience"
	"github.com/sells-group/lead-qualifier/pkg/facebook"
	"github.com/sells-group/lead-qualifier/pkg/instagram"
	"github.com/sells-group/lead-qualifier/pkg/linkedin"
	"github.com/sells-group/lead-qualifier/pkg/twitter"
)

// --- Adapter Mock ---

type mockAdapter struct {
	mock.Mock
	src model.Source
}

func (m *mockAdapter) Source() model.Source { return m.src }

func (m *mockAdapter) Fetch(ctx context.Context, handle string) model.SourceResult {
	args := m.Called(ctx, handle)
	if fn, ok := args.Get(0).(func() model.SourceResult); ok {
		return fn()
	}
	return args.Get(0).(model.SourceResult)
}

// --- Token source fake ---

type fakeTokens struct {
	remaining atomic.Int32
	calls     atomic.Int32
}

func newFakeTokens(n int32) *fakeTokens {
	f := &fakeTokens{}
	f.remaining.Store(n)
	return f
}

func (f *fakeTokens) Acquire(ctx context.Context) error {
	f.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return err
	}
	if f.remaining.Add(-1) < 0 {
		return resilience.ErrTokenUnavailable
	}
	return nil
}

// --- Client Mocks ---

type mockLinkedInClient struct {
	mock.Mock
}

func (m *mockLinkedInClient) Profile(ctx context.Context, publicID string) (*linkedin.Profile, error) {
	args := m.Called(ctx, publicID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*linkedin.Profile), args.Error(1)
}

type mockInstagramClient struct {
	mock.Mock
}

func (m *mockInstagramClient) Profile(ctx context.Context, username string) (*instagram.Profile, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*instagram.Profile), args.Error(1)
}

type mockFacebookClient struct {
	mock.Mock
}

func (m *mockFacebookClient) Profile(ctx context.Context, ref string) (*facebook.Profile, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*facebook.Profile), args.Error(1)
}

type mockTwitterClient struct {
	mock.Mock
}

func (m *mockTwitterClient) User(ctx context.Context, username string) (*twitter.User, error) {
	args := m.Called(ctx, username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*twitter.User), args.Error(1)
}
