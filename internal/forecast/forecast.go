package forecast

import (
	"time"

	"github.com/google/uuid"
)

// PeriodType is the plan's grid resolution.
type PeriodType string

const (
	PeriodWeekly  PeriodType = "WEEKLY"
	PeriodMonthly PeriodType = "MONTHLY"
)

// Plan is the case's planning configuration: the grid the composer renders
// onto and the balance it starts from.
type Plan struct {
	CaseID         uuid.UUID
	CutoverDate    time.Time
	OpeningBalance int64
	PlanStart      time.Time
	PeriodType     PeriodType
	PeriodCount    int
}

type Flow string

const (
	FlowInflow  Flow = "INFLOW"
	FlowOutflow Flow = "OUTFLOW"
)

// AssumptionKind distinguishes recurring run-rate lines from one-time
// effects.
type AssumptionKind string

const (
	KindRunRate AssumptionKind = "RUN_RATE"
	KindOneTime AssumptionKind = "ONE_TIME"
)

// Assumption is one line of the projection layer. Amount is cents per
// period for RUN_RATE (grown cumulatively by GrowthPercent per period) or
// a single amount for ONE_TIME. EndPeriod 0 means open-ended.
type Assumption struct {
	ID            uuid.UUID
	CaseID        uuid.UUID
	Category      string
	Flow          Flow
	Kind          AssumptionKind
	Amount        int64
	GrowthPercent float64
	StartPeriod   int
	EndPeriod     int
	Active        bool
}

// SourceTag records which regime produced a period's numbers.
type SourceTag string

const (
	SourceActual    SourceTag = "ACTUAL"
	SourceProjected SourceTag = "PROJECTED"
	SourcePlanned   SourceTag = "PLANNED"
	// SourceMixed marks the single boundary period straddling the
	// transition from booked to projected data.
	SourceMixed SourceTag = "MIXED"
)

// Period is one row of the composed forecast. Inflows and Outflows are
// positive magnitudes; Net and the balances are signed.
type Period struct {
	Index    int
	Label    string
	Start    time.Time
	End      time.Time
	Opening  int64
	Inflows  int64
	Outflows int64
	Net      int64
	Closing  int64
	Source   SourceTag

	ActualInflows     int64
	ActualOutflows    int64
	PlannedInflows    int64
	PlannedOutflows   int64
	ProjectedInflows  int64
	ProjectedOutflows int64
}

// Result is a full composition. It is cached per case and rebuilt lazily
// once a mutation marks the cache stale.
type Result struct {
	CaseID             uuid.UUID
	OpeningBalance     int64
	TodayPeriod        int
	ExcludedUnreviewed int
	Periods            []Period
	ComputedAt         time.Time
}

// periodStart returns the start of period i on the plan's grid.
func (p *Plan) periodStart(i int) time.Time {
	switch p.PeriodType {
	case PeriodWeekly:
		return p.PlanStart.AddDate(0, 0, 7*i)
	default:
		return p.PlanStart.AddDate(0, i, 0)
	}
}

// PeriodBounds returns the inclusive [start, end] of period i.
func (p *Plan) PeriodBounds(i int) (time.Time, time.Time) {
	start := p.periodStart(i)
	end := p.periodStart(i+1).AddDate(0, 0, -1)

	return start, end
}

// PeriodIndex maps a date onto the grid. Dates before the plan start map
// to negative indexes; callers drop anything outside [0, PeriodCount).
func (p *Plan) PeriodIndex(date time.Time) int {
	switch p.PeriodType {
	case PeriodWeekly:
		days := int(date.Sub(p.PlanStart).Hours() / 24)
		if date.Before(p.PlanStart) {
			return (days - 6) / 7
		}
		return days / 7
	default:
		// Monthly plans are normalized to the first of the month.
		return (date.Year()-p.PlanStart.Year())*12 + int(date.Month()) - int(p.PlanStart.Month())
	}
}

// PeriodLabel renders the period's display key.
func (p *Plan) PeriodLabel(i int) string {
	start := p.periodStart(i)
	if p.PeriodType == PeriodWeekly {
		return start.Format("2006-01-02")
	}

	return start.Format("2006-01")
}
