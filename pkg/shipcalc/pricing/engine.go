package pricing

import (
	"context"

	"github.com/nekruzvatanshoev/shipcalc/pkg/shipcalc/dal"
	"github.com/nekruzvatanshoev/shipcalc/pkg/shipcalc/geocode"
	"github.com/nekruzvatanshoev/shipcalc/pkg/shipcalc/logger"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Engine prices quotes against a geocoder
type Engine struct {
	geocoder geocode.Geocoder
	origin   string
	log      logrus.FieldLogger
}

// Option customizes an Engine
type Option func(*Engine)

// WithOrigin overrides the address shipments start from
func WithOrigin(address string) Option {
	return func(e *Engine) {
		if address != "" {
			e.origin = address
		}
	}
}

// WithLogger sets the engine logger
func WithLogger(l logrus.FieldLogger) Option {
	return func(e *Engine) {
		if l != nil {
			e.log = l
		}
	}
}

// NewEngine returns a new Engine
func NewEngine(g geocode.Geocoder, opts ...Option) *Engine {
	e := &Engine{geocoder: g, origin: OriginAddress, log: logger.Discard()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Origin returns the address shipments start from
func (e *Engine) Origin() string {
	return e.origin
}

// Quote resolves both ends of the route and prices the request.
// Geocoder errors are returned unchanged.
func (e *Engine) Quote(ctx context.Context, req dal.QuoteRequest) (dal.QuoteResult, error) {
	if err := Validate(req); err != nil {
		return dal.QuoteResult{}, err
	}

	var from, to dal.Coordinates
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		from, err = e.geocoder.Geocode(gctx, e.origin)
		return err
	})
	g.Go(func() error {
		var err error
		to, err = e.geocoder.Geocode(gctx, req.DestinationAddress)
		return err
	})
	if err := g.Wait(); err != nil {
		return dal.QuoteResult{}, err
	}

	km := CorrectedKM(DistanceMeters(from, to))
	breakdown, err := Price(req, km)
	if err != nil {
		return dal.QuoteResult{}, err
	}

	e.log.WithFields(logrus.Fields{
		"destination": req.DestinationAddress,
		"tier":        req.Tier,
		"km":          km,
		"bracket":     Bracket(km),
		"total":       breakdown.Total,
	}).Info("quote calculated")

	return dal.QuoteResult{KM: RoundKM(km), Breakdown: breakdown}, nil
}
