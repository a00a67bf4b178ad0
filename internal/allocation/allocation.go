package allocation

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/dp-213/insoledger/internal/ledger"
)

// Config carries everything a rule may consult. The cutover date is always
// passed explicitly; rules never read ambient state, so one classifier can
// serve cases with different cutover dates.
type Config struct {
	// CutoverDate is the estate-separation date. The cutover day itself
	// counts as post-filing.
	CutoverDate time.Time

	// Programs maps a program period key ("2025-Q4/2") to its precomputed
	// allocation.
	Programs ProgramTable

	// Tags maps explicit category tags on planned rows to buckets.
	Tags map[string]ledger.EstateBucket

	// PriorMonthSettlers names the settlement offices whose payment in
	// month M is by convention compensation for month M-1.
	PriorMonthSettlers map[string]bool
}

// ProgramInstallment defines one installment of a periodic-payment
// program: the key entries carry and the service period it pays for.
type ProgramInstallment struct {
	Key          string
	ServiceStart time.Time
	ServiceEnd   time.Time
}

// ProgramTable is the precomputed (quarter, installment) ratio table.
type ProgramTable map[string]ledger.Allocation

// BuildProgramTable resolves every installment's service period against the
// cutover date once, so classification runs are table lookups.
func BuildProgramTable(installments []ProgramInstallment, cutover time.Time) ProgramTable {
	table := make(ProgramTable, len(installments))
	for _, inst := range installments {
		alloc := AllocateForPeriod(inst.ServiceStart, inst.ServiceEnd, cutover)
		alloc.Source = ledger.SourceProgramRule
		alloc.Note = fmt.Sprintf("%s: %s", inst.Key, alloc.Note)
		table[inst.Key] = alloc
	}

	return table
}

// dayCount counts calendar days in [from, to] inclusive.
func dayCount(from, to time.Time) int {
	from = truncateDay(from)
	to = truncateDay(to)

	return int(to.Sub(from).Hours()/24) + 1
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// AllocateForPeriod attributes a service period to the estates, day-exact.
// Tie-break: the cutover day itself is post-filing, so the pre-filing day
// range is [start, cutover).
func AllocateForPeriod(start, end, cutover time.Time) ledger.Allocation {
	start, end, cutover = truncateDay(start), truncateDay(end), truncateDay(cutover)

	if end.Before(cutover) {
		return ledger.Allocation{
			Bucket: ledger.BucketPreFiling,
			Source: ledger.SourcePeriodProrata,
			Note: fmt.Sprintf("service period %s to %s fully before cutover",
				start.Format("2006-01-02"), end.Format("2006-01-02")),
		}
	}

	if !start.Before(cutover) {
		return ledger.Allocation{
			Bucket: ledger.BucketPostFiling,
			Source: ledger.SourcePeriodProrata,
			Note: fmt.Sprintf("service period %s to %s fully on or after cutover",
				start.Format("2006-01-02"), end.Format("2006-01-02")),
		}
	}

	totalDays := dayCount(start, end)
	preDays := dayCount(start, cutover) - 1

	ratio := decimal.NewFromInt(int64(preDays)).
		Div(decimal.NewFromInt(int64(totalDays))).
		Round(6)

	return ledger.Allocation{
		Bucket: ledger.BucketMixed,
		Ratio:  &ratio,
		Source: ledger.SourcePeriodProrata,
		Note: fmt.Sprintf("service period %s to %s: %d of %d days before cutover",
			start.Format("2006-01-02"), end.Format("2006-01-02"), preDays, totalDays),
	}
}

// allocateForDate is the binary variant for a single service day.
func allocateForDate(date, cutover time.Time) ledger.Allocation {
	date, cutover = truncateDay(date), truncateDay(cutover)

	if date.Before(cutover) {
		return ledger.Allocation{
			Bucket: ledger.BucketPreFiling,
			Source: ledger.SourceServiceDate,
			Note:   fmt.Sprintf("service date %s before cutover", date.Format("2006-01-02")),
		}
	}

	return ledger.Allocation{
		Bucket: ledger.BucketPostFiling,
		Source: ledger.SourceServiceDate,
		Note:   fmt.Sprintf("service date %s on or after cutover", date.Format("2006-01-02")),
	}
}

// Unresolved is the chain's fallthrough: when no rule can derive a service
// period the classifier refuses to guess and routes to human review.
func Unresolved() ledger.Allocation {
	return ledger.Allocation{
		Bucket: ledger.BucketUnresolved,
		Source: ledger.SourceUnresolved,
		Note:   "no rule derived a service period",
	}
}
