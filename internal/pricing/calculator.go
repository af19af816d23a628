package pricing

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	pkgerrors "github.com/mateoreynoso/tripline-backend/pkg/errors"
	"github.com/mateoreynoso/tripline-backend/pkg/logger"
)

// Input carries the frozen pricing terms for one quote. All monetary values
// are minor units (cents).
type Input struct {
	BasePriceCents     int64
	Participants       int
	DiscountCents      int64
	DiscountReason     string
	TaxRateBPS         int
	PlatformFeeCents   int64
	ProcessingFeeCents int64
}

// Quote is the deterministic pricing breakdown stored on the booking.
type Quote struct {
	SubtotalCents      int64
	DiscountCents      int64
	TaxCents           int64
	PlatformFeeCents   int64
	ProcessingFeeCents int64
	TotalCents         int64
}

// Calculator computes booking totals. It performs no I/O.
type Calculator struct {
	logg *logger.Logger
}

// NewCalculator builds the pricing calculator.
func NewCalculator(logg *logger.Logger) (*Calculator, error) {
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Calculator{logg: logg}, nil
}

// Quote computes totalPrice = (base*participants - discount) * (1 + taxRate)
// + platformFee + processingFee, rounding half-up to the nearest cent.
// Negative intermediates clamp to zero and are logged, never returned.
func (c *Calculator) Quote(ctx context.Context, in Input) (Quote, error) {
	if in.BasePriceCents < 0 {
		return Quote{}, pkgerrors.New(pkgerrors.CodeValidation, "base price must be non-negative")
	}
	if in.Participants < 1 {
		return Quote{}, pkgerrors.New(pkgerrors.CodeValidation, "participant count must be at least 1")
	}
	if in.DiscountCents < 0 {
		return Quote{}, pkgerrors.New(pkgerrors.CodeValidation, "discount must be non-negative")
	}
	if in.TaxRateBPS < 0 {
		return Quote{}, pkgerrors.New(pkgerrors.CodeValidation, "tax rate must be non-negative")
	}
	if in.PlatformFeeCents < 0 || in.ProcessingFeeCents < 0 {
		return Quote{}, pkgerrors.New(pkgerrors.CodeValidation, "fees must be non-negative")
	}

	base := decimal.NewFromInt(in.BasePriceCents)
	participants := decimal.NewFromInt(int64(in.Participants))
	discount := decimal.NewFromInt(in.DiscountCents)

	subtotal := base.Mul(participants)
	discounted := subtotal.Sub(discount)
	if discounted.IsNegative() {
		logCtx := c.logg.WithFields(ctx, map[string]any{
			"subtotal_cents": subtotal.IntPart(),
			"discount_cents": in.DiscountCents,
		})
		c.logg.Warn(logCtx, "discount exceeds subtotal, clamping to zero")
		discounted = decimal.Zero
	}

	taxRate := decimal.NewFromInt(int64(in.TaxRateBPS)).Div(decimal.NewFromInt(10000))
	tax := discounted.Mul(taxRate).Round(0)

	total := discounted.Add(tax).
		Add(decimal.NewFromInt(in.PlatformFeeCents)).
		Add(decimal.NewFromInt(in.ProcessingFeeCents))
	if total.IsNegative() {
		c.logg.Warn(ctx, "computed total is negative, clamping to zero")
		total = decimal.Zero
	}

	return Quote{
		SubtotalCents:      subtotal.IntPart(),
		DiscountCents:      in.DiscountCents,
		TaxCents:           tax.IntPart(),
		PlatformFeeCents:   in.PlatformFeeCents,
		ProcessingFeeCents: in.ProcessingFeeCents,
		TotalCents:         total.IntPart(),
	}, nil
}
