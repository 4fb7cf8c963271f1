package service

import (
	"context"

	"github.com/shopspring/decimal"

	"wallet_engine/internal/app/port"
	"wallet_engine/internal/pkg/metrics"
)

// cascadeStep is one source in an ordered lookup cascade. run reports the
// resolved value and whether it is usable; a source that errors internally
// reports "no result" so the cascade can move on to the next source.
type cascadeStep struct {
	name string
	run  func(ctx context.Context) (decimal.Decimal, bool)
}

// resolveCascade tries steps in order and stops at the first strictly positive
// result. resolver and asset only feed logging and metrics.
func resolveCascade(ctx context.Context, log port.Logger, resolver, asset string, steps []cascadeStep) (decimal.Decimal, bool) {
	for _, step := range steps {
		if ctx.Err() != nil {
			break
		}
		v, ok := step.run(ctx)
		if ok && v.IsPositive() {
			metrics.CascadeResolutions.WithLabelValues(resolver, step.name).Inc()
			log.Debug("Cascade step resolved a value", "resolver", resolver, "asset", asset, "step", step.name, "value", v.String())
			return v, true
		}
		log.Debug("Cascade step produced no result", "resolver", resolver, "asset", asset, "step", step.name)
	}
	metrics.CascadeResolutions.WithLabelValues(resolver, "exhausted").Inc()
	return decimal.Zero, false
}
