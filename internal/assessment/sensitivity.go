package assessment

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// maxSweepWorkers bounds the goroutines used by RateSensitivity.
const maxSweepWorkers = 8

// RatePoint is the maximum mortgage at one candidate interest rate.
type RatePoint struct {
	InterestRate         float64 `json:"interestRate"`
	TestRate             float64 `json:"testRate"`
	MaxMortgage          float64 `json:"maxMortgage"`
	StudentDebtImpact    float64 `json:"studentDebtImpact"`
	MonthlyHousingBudget float64 `json:"monthlyHousingBudget"`
}

// RateSensitivity evaluates the household's maximum mortgage at each rate.
// Points are returned in the order of rates; the first error cancels the
// remaining work.
func (a *Assessor) RateSensitivity(ctx context.Context, h Household, rates []float64) ([]RatePoint, error) {
	if err := h.Validate(); err != nil {
		return nil, err
	}
	fees, err := StudentDebtFees(h)
	if err != nil {
		return nil, fmt.Errorf("failed to compute student debt fees: %w", err)
	}
	totalFee := 0.0
	for _, fee := range fees {
		totalFee += fee
	}

	points := make([]RatePoint, len(rates))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxSweepWorkers)
	for i, rate := range rates {
		i, rate := i, rate
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			result, err := a.calc.Compute(h.mortgageQuery(totalFee, rate))
			if err != nil {
				return fmt.Errorf("rate %.3f: %w", rate, err)
			}
			points[i] = RatePoint{
				InterestRate:         rate,
				TestRate:             result.TestRate,
				MaxMortgage:          result.MaxMortgage,
				StudentDebtImpact:    result.StudentDebtImpact,
				MonthlyHousingBudget: result.MonthlyHousingBudget,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	a.logger.Debug("computed rate sensitivity",
		zap.String("op", "assessment.RateSensitivity"),
		zap.Int("points", len(points)),
	)
	return points, nil
}

// RateRange lists rates from start to end inclusive in the given step.
func RateRange(start, end, step float64) ([]float64, error) {
	if step <= 0 {
		return nil, fmt.Errorf("rate step must be positive, got %v", step)
	}
	if end < start {
		return nil, fmt.Errorf("rate range end %v is below start %v", end, start)
	}
	var rates []float64
	// Counting steps avoids accumulating float error over the range.
	for n := 0; ; n++ {
		rate := start + float64(n)*step
		if rate > end+step/1e6 {
			break
		}
		rates = append(rates, rate)
	}
	return rates, nil
}
