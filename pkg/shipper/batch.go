package shipper

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// TrackResult is the outcome of one lookup in a TrackMany call.
type TrackResult struct {
	TrackingNumber string
	Payload        Payload
	Err            error
}

// TrackMany looks up several tracking numbers concurrently, at most limit at a time.
// Results keep the order of numbers. A failed lookup is reported in its result
// and doesn't stop the others.
func TrackMany(ctx context.Context, s Shipper, numbers []string, limit int) []TrackResult {
	if limit <= 0 {
		limit = 1
	}

	results := make([]TrackResult, len(numbers))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	for i, number := range numbers {
		g.Go(func() error {
			payload, err := s.TrackShipment(ctx, number)
			if err != nil {
				err = fmt.Errorf("%s: %w", s.Name(), err)
			}
			// each goroutine owns its slot
			results[i] = TrackResult{
				TrackingNumber: number,
				Payload:        payload,
				Err:            err,
			}
			return nil // Don't fail the group, continue with other numbers
		})
	}

	g.Wait()
	return results
}
