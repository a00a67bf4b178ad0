package allocation

import (
	"fmt"
	"time"

	"github.com/dp-213/insoledger/internal/ledger"
)

// Rule is one step of the classification chain: a named predicate plus a
// resolver. The chain is ordered data, so rule priority is explicit and
// every rule is independently testable.
type Rule struct {
	Name    string
	Applies func(e *ledger.Entry, cfg Config) bool
	Resolve func(e *ledger.Entry, cfg Config) ledger.Allocation
}

// DefaultRules is the standard chain, first match wins:
// program table, explicit tag, service date, service period pro-rata,
// prior-month convention.
func DefaultRules() []Rule {
	return []Rule{
		{
			Name: "program-rule",
			Applies: func(e *ledger.Entry, cfg Config) bool {
				if e.ProgramPeriod == "" {
					return false
				}
				_, ok := cfg.Programs[e.ProgramPeriod]
				return ok
			},
			Resolve: func(e *ledger.Entry, cfg Config) ledger.Allocation {
				return cfg.Programs[e.ProgramPeriod]
			},
		},
		{
			Name: "category-tag",
			Applies: func(e *ledger.Entry, cfg Config) bool {
				if e.CategoryTag == "" {
					return false
				}
				_, ok := cfg.Tags[e.CategoryTag]
				return ok
			},
			Resolve: func(e *ledger.Entry, cfg Config) ledger.Allocation {
				return ledger.Allocation{
					Bucket: cfg.Tags[e.CategoryTag],
					Source: ledger.SourceCategoryTag,
					Note:   fmt.Sprintf("category tag %s", e.CategoryTag),
				}
			},
		},
		{
			Name: "service-date",
			Applies: func(e *ledger.Entry, cfg Config) bool {
				return e.ServiceDate != nil
			},
			Resolve: func(e *ledger.Entry, cfg Config) ledger.Allocation {
				return allocateForDate(*e.ServiceDate, cfg.CutoverDate)
			},
		},
		{
			Name: "service-period",
			Applies: func(e *ledger.Entry, cfg Config) bool {
				return e.ServicePeriodStart != nil && e.ServicePeriodEnd != nil
			},
			Resolve: func(e *ledger.Entry, cfg Config) ledger.Allocation {
				return AllocateForPeriod(*e.ServicePeriodStart, *e.ServicePeriodEnd, cfg.CutoverDate)
			},
		},
		{
			// Payment in month M compensates month M-1. Applied only to
			// booked payments of settlers known to bill that way, and only
			// to place the payment on one side of the cutover; the derived
			// month still goes through the day-exact attribution.
			Name: "prior-month",
			Applies: func(e *ledger.Entry, cfg Config) bool {
				return e.ValueType == ledger.ValueActual && cfg.PriorMonthSettlers[e.SettlerKey]
			},
			Resolve: func(e *ledger.Entry, cfg Config) ledger.Allocation {
				start, end := priorMonth(e.Date)
				alloc := AllocateForPeriod(start, end, cfg.CutoverDate)
				alloc.Source = ledger.SourcePriorMonth
				alloc.Note = fmt.Sprintf("payment %s assumed to compensate %s: %s",
					e.Date.Format("2006-01-02"), start.Format("2006-01"), alloc.Note)
				return alloc
			},
		},
	}
}

// priorMonth returns the first and last day of the month before the
// payment date.
func priorMonth(paymentDate time.Time) (time.Time, time.Time) {
	firstOfMonth := time.Date(paymentDate.Year(), paymentDate.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := firstOfMonth.AddDate(0, 0, -1)
	start := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, time.UTC)

	return start, end
}

// Classify runs the entry through the chain. Fallthrough is UNRESOLVED,
// never a fabricated ratio.
func Classify(e *ledger.Entry, cfg Config, rules []Rule) ledger.Allocation {
	for _, rule := range rules {
		if rule.Applies(e, cfg) {
			return rule.Resolve(e, cfg)
		}
	}

	return Unresolved()
}
