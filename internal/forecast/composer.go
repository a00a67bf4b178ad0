package forecast

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dp-213/insoledger/internal/ledger"
)

//go:generate mockgen -source=composer.go -destination=repository_mock.go -package=forecast
type Repository interface {
	Plan(ctx context.Context, caseID uuid.UUID) (*Plan, error)

	// ListEntries returns the active entries feeding the composition.
	// Rejected entries are always excluded; unreviewed entries are
	// excluded unless includeUnreviewed is set, and the number of
	// excluded unreviewed entries is returned either way.
	ListEntries(ctx context.Context, caseID uuid.UUID, includeUnreviewed bool) ([]*ledger.Entry, int, error)

	ListAssumptions(ctx context.Context, caseID uuid.UUID) ([]*Assumption, error)

	// CachedResult returns the stored composition, whether it is stale,
	// and the cache generation. A nil result means nothing is cached yet.
	// The generation is bumped by every MarkForecastStale.
	CachedResult(ctx context.Context, caseID uuid.UUID) (*Result, bool, int64, error)

	// SaveResult clears the stale flag only if the generation still
	// matches; a stale mark that landed mid-compose wins.
	SaveResult(ctx context.Context, caseID uuid.UUID, result *Result, generation int64) error
}

var ErrNoPlan = fmt.Errorf("case has no plan configuration")

// Composer builds the rolling liquidity view period by period.
type Composer struct {
	repo   Repository
	clock  func() time.Time
	logger *slog.Logger
}

func NewComposer(repo Repository, clock func() time.Time, logger *slog.Logger) *Composer {
	if clock == nil {
		clock = time.Now
	}

	return &Composer{repo: repo, clock: clock, logger: logger}
}

type Options struct {
	IncludeUnreviewed bool
}

// Compose returns the forecast, serving the cached result while it is
// fresh. Only the default view (unreviewed excluded) is cached; the
// include-unreviewed variant is always computed on the fly.
func (c *Composer) Compose(ctx context.Context, caseID uuid.UUID, opts Options) (*Result, error) {
	var generation int64

	if !opts.IncludeUnreviewed {
		cached, stale, gen, err := c.repo.CachedResult(ctx, caseID)
		if err != nil {
			c.logger.Warn("reading forecast cache", "caseId", caseID, "error", err)
		} else {
			generation = gen
			if cached != nil && !stale {
				return cached, nil
			}
		}
	}

	result, err := c.compose(ctx, caseID, opts)
	if err != nil {
		return nil, err
	}

	if !opts.IncludeUnreviewed {
		if err := c.repo.SaveResult(ctx, caseID, result, generation); err != nil {
			c.logger.Warn("writing forecast cache", "caseId", caseID, "error", err)
		}
	}

	return result, nil
}

func (c *Composer) compose(ctx context.Context, caseID uuid.UUID, opts Options) (*Result, error) {
	plan, err := c.repo.Plan(ctx, caseID)
	if err != nil {
		return nil, err
	}

	entries, excluded, err := c.repo.ListEntries(ctx, caseID, opts.IncludeUnreviewed)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}

	assumptions, err := c.repo.ListAssumptions(ctx, caseID)
	if err != nil {
		return nil, fmt.Errorf("listing assumptions: %w", err)
	}

	result := &Result{
		CaseID:             caseID,
		OpeningBalance:     plan.OpeningBalance,
		ExcludedUnreviewed: excluded,
		Periods:            make([]Period, plan.PeriodCount),
		ComputedAt:         c.clock(),
	}

	todayIdx := plan.PeriodIndex(c.clock())
	if todayIdx < 0 {
		todayIdx = 0
	}

	if todayIdx >= plan.PeriodCount {
		todayIdx = plan.PeriodCount - 1
	}

	result.TodayPeriod = todayIdx

	for i := range result.Periods {
		p := &result.Periods[i]
		p.Index = i
		p.Label = plan.PeriodLabel(i)
		p.Start, p.End = plan.PeriodBounds(i)
	}

	bucketEntries(plan, entries, result.Periods)
	applyAssumptions(assumptions, result.Periods)

	// Chain balances and tag provenance. Past periods carry booked
	// numbers, future periods projected or planned ones; the boundary
	// period joins both so the chart line has no gap.
	opening := plan.OpeningBalance

	for i := range result.Periods {
		p := &result.Periods[i]

		switch {
		case i < todayIdx:
			p.Inflows = p.ActualInflows
			p.Outflows = p.ActualOutflows
			p.Source = SourceActual
		case i == todayIdx:
			p.Inflows = p.ActualInflows + p.ProjectedInflows + p.PlannedInflows
			p.Outflows = p.ActualOutflows + p.ProjectedOutflows + p.PlannedOutflows
			p.Source = SourceMixed
		default:
			p.Inflows = p.ProjectedInflows + p.PlannedInflows
			p.Outflows = p.ProjectedOutflows + p.PlannedOutflows

			if p.ProjectedInflows != 0 || p.ProjectedOutflows != 0 {
				p.Source = SourceProjected
			} else {
				p.Source = SourcePlanned
			}
		}

		p.Opening = opening
		p.Net = p.Inflows - p.Outflows
		p.Closing = opening + p.Net
		opening = p.Closing
	}

	return result, nil
}

// bucketEntries distributes entry amounts onto the grid, split by value
// type. Entries outside the plan horizon are dropped.
func bucketEntries(plan *Plan, entries []*ledger.Entry, periods []Period) {
	for _, e := range entries {
		idx := plan.PeriodIndex(e.Date)
		if idx < 0 || idx >= len(periods) {
			continue
		}

		p := &periods[idx]

		switch e.ValueType {
		case ledger.ValueActual:
			if e.Amount >= 0 {
				p.ActualInflows += e.Amount
			} else {
				p.ActualOutflows += -e.Amount
			}
		case ledger.ValuePlanned:
			if e.Amount >= 0 {
				p.PlannedInflows += e.Amount
			} else {
				p.PlannedOutflows += -e.Amount
			}
		}
	}
}

// applyAssumptions adds the projection layer. RUN_RATE lines grow
// cumulatively per period; ONE_TIME lines hit their start period only.
func applyAssumptions(assumptions []*Assumption, periods []Period) {
	for _, a := range assumptions {
		if !a.Active {
			continue
		}

		for i := range periods {
			if i < a.StartPeriod {
				continue
			}

			if a.EndPeriod > 0 && i > a.EndPeriod {
				break
			}

			var amount int64

			switch a.Kind {
			case KindOneTime:
				if i != a.StartPeriod {
					continue
				}

				amount = a.Amount
			case KindRunRate:
				amount = grownAmount(a.Amount, a.GrowthPercent, i-a.StartPeriod)
			default:
				continue
			}

			if a.Flow == FlowInflow {
				periods[i].ProjectedInflows += amount
			} else {
				periods[i].ProjectedOutflows += amount
			}
		}
	}
}

// grownAmount applies n periods of compound growth to a cent amount.
func grownAmount(amount int64, growthPercent float64, n int) int64 {
	if growthPercent == 0 || n == 0 {
		return amount
	}

	factor := decimal.NewFromFloat(1 + growthPercent/100)

	return decimal.NewFromInt(amount).
		Mul(factor.Pow(decimal.NewFromInt(int64(n)))).
		Round(0).
		IntPart()
}
