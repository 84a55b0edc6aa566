package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/runway/tender-boq/internal/config"
	"github.com/runway/tender-boq/internal/resilience"
	"github.com/runway/tender-boq/internal/store"
	"github.com/runway/tender-boq/pkg/runway"
)

// newRunwayClient builds the tender API client from configuration. obs may be nil.
func newRunwayClient(c config.RunwayConfig, obs runway.Observer) runway.Client {
	opts := []runway.Option{
		runway.WithBaseURL(c.BaseURL),
		runway.WithToken(c.Token),
		runway.WithRetry(resilience.FromAttempts(c.MaxAttempts, c.InitialBackoffMs)),
		runway.WithRateLimit(c.RateLimit),
	}
	if c.TimeoutSecs > 0 {
		opts = append(opts, runway.WithTimeout(time.Duration(c.TimeoutSecs)*time.Second))
	}
	if c.BreakerThreshold > 0 {
		opts = append(opts, runway.WithBreaker(resilience.NewBreaker(resilience.BreakerConfig{
			Name:             "runway",
			FailureThreshold: c.BreakerThreshold,
			ResetTimeout:     time.Duration(c.BreakerResetSecs) * time.Second,
		})))
	}
	if obs != nil {
		opts = append(opts, runway.WithObserver(obs))
	}
	return runway.NewClient(opts...)
}

// openStore opens the configured store and applies its schema. Callers
// should defer Close.
func openStore(ctx context.Context, c config.StoreConfig) (store.Store, error) {
	st, err := store.Open(ctx, c)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}
