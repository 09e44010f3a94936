//go:build unit

package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"enhanced-seatmap/internal/pkg/clock"
	"enhanced-seatmap/internal/pkg/config"
	"enhanced-seatmap/internal/pkg/errs"
	"enhanced-seatmap/internal/usecase/session"
	"enhanced-seatmap/tests/common/builder"
	sessionmock "enhanced-seatmap/tests/mock/session"
)

func newRegistry(t *testing.T) (*session.Registry, *sessionmock.MockGatewayFactory, *sessionmock.MockGateway, *clock.MockClock) {
	t.Helper()
	ctrl := gomock.NewController(t)
	factory := sessionmock.NewMockGatewayFactory(ctrl)
	gw := sessionmock.NewMockGateway(ctrl)
	clk := clock.NewMockClock(time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC))

	cfg := config.NewTestConfig()
	cfg.Session.IdleTTL = 10 * time.Minute
	return session.NewRegistry(cfg, factory, nil, clk, discardLogger), factory, gw, clk
}

func expectLoad(gw *sessionmock.MockGateway) {
	gw.EXPECT().FetchReservation(gomock.Any()).Return(builder.NewReservationBuilder().BuildDomain(), nil)
	gw.EXPECT().FetchSeatMap(gomock.Any(), gomock.Any()).Return(twoSeatMap(), nil)
}

func TestRegistry(t *testing.T) {
	t.Run("open binds the token and registers the session", func(t *testing.T) {
		reg, factory, gw, _ := newRegistry(t)
		factory.EXPECT().ForSession("tok-1").Return(gw)
		expectLoad(gw)

		d, err := reg.Open(context.Background(), "tok-1")
		require.NoError(t, err)

		got, err := reg.Get(d.ID())
		require.NoError(t, err)
		assert.Same(t, d, got)
		assert.Equal(t, 1, reg.Len())
	})

	t.Run("failed load stays readable", func(t *testing.T) {
		reg, factory, gw, _ := newRegistry(t)
		factory.EXPECT().ForSession("tok").Return(gw)
		gw.EXPECT().FetchReservation(gomock.Any()).Return(nil, context.DeadlineExceeded)

		d, err := reg.Open(context.Background(), "tok")
		require.Error(t, err)
		require.NotNil(t, d)

		got, err := reg.Get(d.ID())
		require.NoError(t, err)
		assert.Equal(t, session.StateTimeoutError, got.Snapshot().State)
	})

	t.Run("close", func(t *testing.T) {
		reg, factory, gw, _ := newRegistry(t)
		factory.EXPECT().ForSession("tok").Return(gw)
		expectLoad(gw)
		d, err := reg.Open(context.Background(), "tok")
		require.NoError(t, err)

		require.NoError(t, reg.Close(d.ID()))
		assert.Equal(t, session.StateClosed, d.Snapshot().State)
		assert.True(t, errs.Is(reg.Close(d.ID()), session.ErrSessionNotFound))
		_, err = reg.Get(d.ID())
		assert.True(t, errs.Is(err, session.ErrSessionNotFound))
	})

	t.Run("idle sessions expire", func(t *testing.T) {
		reg, factory, gw, clk := newRegistry(t)
		factory.EXPECT().ForSession(gomock.Any()).Return(gw).Times(2)
		expectLoad(gw)
		expectLoad(gw)

		idle, err := reg.Open(context.Background(), "a")
		require.NoError(t, err)
		clk.Add(6 * time.Minute)
		active, err := reg.Open(context.Background(), "b")
		require.NoError(t, err)

		clk.Add(5 * time.Minute)
		assert.Equal(t, 1, reg.EvictIdle())
		assert.Equal(t, session.StateClosed, idle.Snapshot().State)

		_, err = reg.Get(active.ID())
		require.NoError(t, err)

		clk.Add(11 * time.Minute)
		_, err = reg.Get(active.ID())
		assert.True(t, errs.Is(err, session.ErrSessionNotFound))
		assert.Zero(t, reg.Len())
	})

	t.Run("run stops with its context", func(t *testing.T) {
		reg, _, _, _ := newRegistry(t)
		ctx, cancel := context.WithCancel(context.Background())
		done := make(chan struct{})
		go func() {
			reg.Run(ctx)
			close(done)
		}()
		cancel()

		select {
		case <-done:
		case <-time.After(time.Second):
			t.Fatal("Run did not return after cancel")
		}
	})
}
