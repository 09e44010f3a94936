package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"enhanced-seatmap/internal/domain/reservation"
	"enhanced-seatmap/internal/pkg/clock"
	"enhanced-seatmap/internal/pkg/config"
)

type Sessions interface {
	Open(ctx context.Context, token string) (*Driver, error)
	Get(id string) (*Driver, error)
	Close(id string) error
}

// Registry keeps the open sessions in memory. Sessions idle for longer than
// the configured TTL are closed and forgotten.
type Registry struct {
	mu      sync.Mutex
	drivers map[string]*Driver

	gateways GatewayFactory
	audit    AuditPublisher
	clock    clock.Clock
	logger   *slog.Logger
	opts     Options
	idleTTL  time.Duration
}

func NewRegistry(cfg config.Config, gateways GatewayFactory, audit AuditPublisher, clk clock.Clock, logger *slog.Logger) *Registry {
	cabin, err := reservation.ParseCabinClass(cfg.SWS.DefaultCabin)
	if err != nil {
		logger.Warn("Unknown default cabin, using All", slog.String("cabin", cfg.SWS.DefaultCabin))
		cabin = reservation.CabinAll
	}
	return &Registry{
		drivers:  make(map[string]*Driver),
		gateways: gateways,
		audit:    audit,
		clock:    clk,
		logger:   logger,
		opts:     Options{CallTimeout: cfg.SWS.CallTimeout, DefaultCabin: cabin},
		idleTTL:  cfg.Session.IdleTTL,
	}
}

// Open registers a new session and loads it. The session stays registered when
// loading fails so the terminal error can still be read.
func (r *Registry) Open(ctx context.Context, token string) (*Driver, error) {
	id := uuid.NewString()
	d := NewDriver(id, r.gateways.ForSession(token), r.audit, r.clock, r.logger, r.opts)

	r.mu.Lock()
	r.drivers[id] = d
	r.mu.Unlock()

	r.logger.Info("Session opened", slog.String("session_id", id))
	return d, d.Open(ctx)
}

func (r *Registry) Get(id string) (*Driver, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.drivers[id]
	if !ok {
		return nil, ErrSessionNotFound
	}
	if r.expired(d) {
		d.Close()
		delete(r.drivers, id)
		return nil, ErrSessionNotFound
	}
	return d, nil
}

func (r *Registry) Close(id string) error {
	r.mu.Lock()
	d, ok := r.drivers[id]
	delete(r.drivers, id)
	r.mu.Unlock()
	if !ok {
		return ErrSessionNotFound
	}
	d.Close()
	r.logger.Info("Session closed", slog.String("session_id", id))
	return nil
}

// EvictIdle closes every expired session and returns how many were removed.
func (r *Registry) EvictIdle() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, d := range r.drivers {
		if r.expired(d) {
			d.Close()
			delete(r.drivers, id)
			n++
		}
	}
	if n > 0 {
		r.logger.Info("Evicted idle sessions", slog.Int("count", n))
	}
	return n
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.drivers)
}

// Run evicts idle sessions until ctx is done.
func (r *Registry) Run(ctx context.Context) {
	if r.idleTTL <= 0 {
		return
	}
	ticker := time.NewTicker(r.idleTTL / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.EvictIdle()
		}
	}
}

func (r *Registry) expired(d *Driver) bool {
	return r.idleTTL > 0 && r.clock.Now().Sub(d.LastActive()) > r.idleTTL
}
