package export

import (
	"context"
	"errors"
	"log"
)

// Fallback tries Primary and, when it fails for any reason other than
// cancellation, Secondary. A cancelled context returns ctx.Err() and no
// partial result.
type Fallback struct {
	Primary   Exporter
	Secondary Exporter
}

// Name returns the strategy name
func (f *Fallback) Name() string { return StrategyAuto }

// Export runs the strategies in order
func (f *Fallback) Export(ctx context.Context, doc *Document) (*Result, error) {
	if f.Primary == nil {
		return f.Secondary.Export(ctx, doc)
	}

	result, primaryErr := f.Primary.Export(ctx, doc)
	if primaryErr == nil {
		return result, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.Secondary == nil {
		return nil, primaryErr
	}

	log.Printf("[export] %s strategy failed, falling back to %s: %v", f.Primary.Name(), f.Secondary.Name(), primaryErr)

	result, secondaryErr := f.Secondary.Export(ctx, doc)
	if secondaryErr != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return nil, &ExportError{
			Strategy: f.Name(),
			Message:  "all strategies failed",
			Cause:    errors.Join(primaryErr, secondaryErr),
		}
	}
	return result, nil
}
