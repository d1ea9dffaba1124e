package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"track/internal/infra/sqlite"
	"track/internal/testutil"
)

// testEnv bundles the pieces most use case tests need: a real
// in-memory store, a scripted gateway and a fixed clock.
type testEnv struct {
	store *sqlite.Store
	git   *testutil.FakeGateway
	clock *testutil.MockClock
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store, err := sqlite.OpenInMemory()
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return &testEnv{
		store: store,
		git:   testutil.NewFakeGateway(),
		clock: &testutil.MockClock{NowTime: time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)},
	}
}
