// Package tracking turns partner location samples into arrival estimates.
//
// Ingestion is synchronous only up to the point of storing the sample. ETA
// computation runs on a bounded worker queue and never holds up a caller:
// when the queue is full the recompute is dropped and the next sample
// schedules a new one.
package tracking

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/core/domain/model/location"
	"dispatch/internal/core/domain/model/order"
	"dispatch/internal/core/domain/services"
	"dispatch/internal/core/ports"
	"dispatch/internal/pkg/clock"

	"golang.org/x/sync/errgroup"
)

// ErrNoActiveDelivery means the partner is not carrying any dispatched or
// out_for_delivery order, so the sample is refused.
var ErrNoActiveDelivery = errors.New("partner has no active delivery")

const (
	DefaultWorkers     = 4
	DefaultQueueSize   = 256
	DefaultMinInterval = 5 * time.Second
	DefaultGeoTimeout  = 3 * time.Second

	// entryTTL is how long per-order state survives without a new sample.
	entryTTL      = 30 * time.Minute
	sweepInterval = time.Minute
)

// OrderStore is the slice of the order repository the engine needs.
type OrderStore interface {
	ListInTransitByPartner(ctx context.Context, partnerID kernel.UUID) ([]*order.Order, error)
	CacheDestination(ctx context.Context, orderID kernel.UUID, point kernel.GeoPoint) error
}

// LocationRecorder persists a partner's last known position.
type LocationRecorder interface {
	SaveLastLocation(ctx context.Context, id kernel.UUID, point kernel.GeoPoint, capturedAt time.Time) error
}

// Config tunes the worker queue. Zero values take the defaults.
type Config struct {
	Workers     int
	QueueSize   int
	MinInterval time.Duration
	GeoTimeout  time.Duration
}

func (c Config) withDefaults() Config {
	if c.Workers <= 0 {
		c.Workers = DefaultWorkers
	}
	if c.QueueSize <= 0 {
		c.QueueSize = DefaultQueueSize
	}
	if c.MinInterval <= 0 {
		c.MinInterval = DefaultMinInterval
	}
	if c.GeoTimeout <= 0 {
		c.GeoTimeout = DefaultGeoTimeout
	}
	return c
}

type recompute struct {
	order  *order.Order
	origin kernel.GeoPoint
}

// Engine is the Location & ETA engine. Start it once before ingesting and
// Stop it on shutdown.
type Engine struct {
	orders     OrderStore
	partners   LocationRecorder
	locations  ports.LocationStore
	etas       ports.ETACache
	geocoder   ports.Geocoder
	directions ports.DirectionsProvider
	fallback   services.StraightLineEstimator
	clock      clock.Clock
	logger     *slog.Logger
	cfg        Config

	queue chan recompute

	mu           sync.Mutex
	lastRun      map[kernel.UUID]time.Time
	destinations map[kernel.UUID]kernel.GeoPoint

	cancel context.CancelFunc
	group  *errgroup.Group
}

func NewEngine(
	orders OrderStore,
	partners LocationRecorder,
	locations ports.LocationStore,
	etas ports.ETACache,
	geocoder ports.Geocoder,
	directions ports.DirectionsProvider,
	fallback services.StraightLineEstimator,
	clk clock.Clock,
	logger *slog.Logger,
	cfg Config,
) *Engine {
	cfg = cfg.withDefaults()

	return &Engine{
		orders:       orders,
		partners:     partners,
		locations:    locations,
		etas:         etas,
		geocoder:     geocoder,
		directions:   directions,
		fallback:     fallback,
		clock:        clk,
		logger:       logger.With("component", "TrackingEngine"),
		cfg:          cfg,
		queue:        make(chan recompute, cfg.QueueSize),
		lastRun:      make(map[kernel.UUID]time.Time),
		destinations: make(map[kernel.UUID]kernel.GeoPoint),
	}
}

// Start launches the workers and the idle-state sweeper.
func (e *Engine) Start(ctx context.Context) {
	ctx, e.cancel = context.WithCancel(ctx)
	e.group, ctx = errgroup.WithContext(ctx)

	for range e.cfg.Workers {
		e.group.Go(func() error {
			e.work(ctx)
			return nil
		})
	}
	e.group.Go(func() error {
		e.sweep(ctx)
		return nil
	})

	e.logger.Info("tracking engine started", "workers", e.cfg.Workers, "queue_size", e.cfg.QueueSize)
}

// Stop cancels the workers and waits for in-flight recomputes to return.
// Queued recomputes are discarded.
func (e *Engine) Stop() {
	if e.cancel == nil {
		return
	}
	e.cancel()
	_ = e.group.Wait()
	e.logger.Info("tracking engine stopped")
}

// Ingest accepts a sample from a partner carrying at least one order in
// transit. A sample older than the stored one is accepted and ignored.
func (e *Engine) Ingest(ctx context.Context, sample location.Sample) error {
	inTransit, err := e.orders.ListInTransitByPartner(ctx, sample.PartnerID())
	if err != nil {
		return fmt.Errorf("list orders in transit: %w", err)
	}
	if len(inTransit) == 0 {
		return fmt.Errorf("%w: partner %s", ErrNoActiveDelivery, sample.PartnerID())
	}

	if !e.locations.Put(sample) {
		return nil
	}

	err = e.partners.SaveLastLocation(ctx, sample.PartnerID(), sample.Point(), sample.CapturedAt())
	if err != nil {
		e.logger.WarnContext(ctx, "failed to persist last location",
			"partner_id", sample.PartnerID().String(), "error", err)
	}

	for _, o := range inTransit {
		e.schedule(ctx, recompute{order: o, origin: sample.Point()})
	}

	return nil
}

// ETA returns the last computed estimate. It never calls the geo collaborator.
func (e *Engine) ETA(orderID kernel.UUID) (location.ETA, bool) {
	return e.etas.Get(orderID)
}

func (e *Engine) schedule(ctx context.Context, job recompute) {
	orderID := job.order.ID()
	now := e.clock.Now()

	e.mu.Lock()
	defer e.mu.Unlock()

	if last, ok := e.lastRun[orderID]; ok && now.Sub(last) < e.cfg.MinInterval {
		return
	}

	select {
	case e.queue <- job:
		e.lastRun[orderID] = now
	default:
		e.logger.WarnContext(ctx, "eta queue full, recompute dropped", "order_id", orderID.String())
	}
}

func (e *Engine) work(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case job := <-e.queue:
			e.recompute(ctx, job)
		}
	}
}

func (e *Engine) recompute(ctx context.Context, job recompute) {
	o := job.order

	destination, err := e.destination(ctx, o)
	if err != nil {
		e.logger.WarnContext(ctx, "destination unresolved, eta skipped", "order_id", o.ID().String(), "error", err)
		return
	}

	eta := e.route(ctx, o, job.origin, destination)
	e.etas.Put(eta)
}

// destination resolves once per order: stored coordinates, then coordinates
// written in the address, then the geocoder. A geocoded result is cached on
// the order row.
func (e *Engine) destination(ctx context.Context, o *order.Order) (kernel.GeoPoint, error) {
	if d := o.Destination(); d != nil {
		return *d, nil
	}

	e.mu.Lock()
	cached, ok := e.destinations[o.ID()]
	e.mu.Unlock()
	if ok {
		return cached, nil
	}

	point, err := kernel.ParseGeoPoint(o.DeliveryAddress())
	if err != nil {
		lookupCtx, cancel := context.WithTimeout(ctx, e.cfg.GeoTimeout)
		point, err = e.geocoder.Geocode(lookupCtx, o.DeliveryAddress())
		cancel()
		if err != nil {
			return kernel.GeoPoint{}, err
		}
	}

	if err := e.orders.CacheDestination(ctx, o.ID(), point); err != nil {
		e.logger.WarnContext(ctx, "failed to cache destination", "order_id", o.ID().String(), "error", err)
	}

	e.mu.Lock()
	e.destinations[o.ID()] = point
	e.mu.Unlock()

	return point, nil
}

// route asks the directions collaborator and falls back to the last
// successful estimate, then to a straight line.
func (e *Engine) route(ctx context.Context, o *order.Order, origin, destination kernel.GeoPoint) location.ETA {
	now := e.clock.Now()
	partnerID := *o.Partner()

	lookupCtx, cancel := context.WithTimeout(ctx, e.cfg.GeoTimeout)
	r, err := e.directions.Route(lookupCtx, origin, destination)
	cancel()
	if err == nil {
		return location.ETA{
			OrderID:    o.ID(),
			PartnerID:  partnerID,
			Origin:     origin,
			DistanceKm: r.DistanceKm,
			Duration:   r.Duration,
			Source:     location.SourceDirections,
			ComputedAt: now,
		}
	}

	e.logger.WarnContext(ctx, "directions lookup failed, falling back", "order_id", o.ID().String(), "error", err)

	if last, ok := e.etas.Get(o.ID()); ok && last.PartnerID.IsEqual(partnerID) && last.Source != location.SourceStraightLine {
		last.Source = location.SourceLastKnown
		return last
	}

	distance, duration, estErr := e.fallback.Estimate(origin, destination)
	if estErr != nil {
		e.logger.ErrorContext(ctx, "straight line estimate failed", "order_id", o.ID().String(), "error", estErr)
	}

	return location.ETA{
		OrderID:    o.ID(),
		PartnerID:  partnerID,
		Origin:     origin,
		DistanceKm: distance,
		Duration:   duration,
		Source:     location.SourceStraightLine,
		ComputedAt: now,
	}
}

// sweep forgets orders that stopped receiving samples, which covers every
// order that was delivered or cancelled.
func (e *Engine) sweep(ctx context.Context) {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.evictIdle(e.clock.Now())
		}
	}
}

func (e *Engine) evictIdle(now time.Time) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for orderID, last := range e.lastRun {
		if now.Sub(last) < entryTTL {
			continue
		}
		delete(e.lastRun, orderID)
		delete(e.destinations, orderID)
		e.etas.Delete(orderID)
	}
}
