package allocation_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dp-213/insoledger/internal/allocation"
	"github.com/dp-213/insoledger/internal/ledger"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func TestAllocateForPeriod(t *testing.T) {
	cutover := date(2025, time.December, 20)

	tests := []struct {
		name       string
		start, end time.Time
		wantBucket ledger.EstateBucket
		wantRatio  string
	}{
		{
			name:       "fully before cutover",
			start:      date(2025, time.September, 1),
			end:        date(2025, time.September, 30),
			wantBucket: ledger.BucketPreFiling,
		},
		{
			name:       "fully after cutover",
			start:      date(2026, time.January, 1),
			end:        date(2026, time.March, 31),
			wantBucket: ledger.BucketPostFiling,
		},
		{
			name:       "starts on cutover day counts post",
			start:      date(2025, time.December, 20),
			end:        date(2025, time.December, 31),
			wantBucket: ledger.BucketPostFiling,
		},
		{
			// 92-day quarter with 80 days before the cutover.
			name:       "quarter straddling cutover",
			start:      date(2025, time.October, 1),
			end:        date(2025, time.December, 31),
			wantBucket: ledger.BucketMixed,
			wantRatio:  decimal.NewFromInt(80).Div(decimal.NewFromInt(92)).Round(6).String(),
		},
		{
			// Tie-break: the cutover day itself is post-filing, so a period
			// ending exactly on the cutover date still straddles it.
			name:       "ends exactly on cutover day",
			start:      date(2025, time.December, 1),
			end:        date(2025, time.December, 20),
			wantBucket: ledger.BucketMixed,
			wantRatio:  decimal.NewFromInt(19).Div(decimal.NewFromInt(20)).Round(6).String(),
		},
		{
			name:       "ends the day before cutover is fully pre",
			start:      date(2025, time.December, 1),
			end:        date(2025, time.December, 19),
			wantBucket: ledger.BucketPreFiling,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alloc := allocation.AllocateForPeriod(tt.start, tt.end, cutover)

			assert.Equal(t, tt.wantBucket, alloc.Bucket)
			require.NoError(t, alloc.Validate())

			if tt.wantRatio != "" {
				require.NotNil(t, alloc.Ratio)
				assert.Equal(t, tt.wantRatio, alloc.Ratio.String())
			} else {
				assert.Nil(t, alloc.Ratio)
			}
		})
	}
}

func TestBuildProgramTable(t *testing.T) {
	cutover := date(2025, time.December, 20)

	table := allocation.BuildProgramTable([]allocation.ProgramInstallment{
		{Key: "2025-Q3/1", ServiceStart: date(2025, time.July, 1), ServiceEnd: date(2025, time.September, 30)},
		{Key: "2025-Q4/2", ServiceStart: date(2025, time.October, 1), ServiceEnd: date(2025, time.December, 31)},
		{Key: "2026-Q1/1", ServiceStart: date(2026, time.January, 1), ServiceEnd: date(2026, time.March, 31)},
	}, cutover)

	q3 := table["2025-Q3/1"]
	assert.Equal(t, ledger.BucketPreFiling, q3.Bucket)
	assert.Equal(t, ledger.SourceProgramRule, q3.Source)

	q4 := table["2025-Q4/2"]
	assert.Equal(t, ledger.BucketMixed, q4.Bucket)
	require.NotNil(t, q4.Ratio)
	assert.Equal(t, decimal.NewFromInt(80).Div(decimal.NewFromInt(92)).Round(6).String(), q4.Ratio.String())
	assert.Contains(t, q4.Note, "2025-Q4/2")

	q1 := table["2026-Q1/1"]
	assert.Equal(t, ledger.BucketPostFiling, q1.Bucket)
}

func TestClassify_RuleChain(t *testing.T) {
	cutover := date(2025, time.December, 20)

	cfg := allocation.Config{
		CutoverDate: cutover,
		Programs: allocation.BuildProgramTable([]allocation.ProgramInstallment{
			{Key: "2025-Q4/2", ServiceStart: date(2025, time.October, 1), ServiceEnd: date(2025, time.December, 31)},
		}, cutover),
		Tags: map[string]ledger.EstateBucket{
			"PRE_FILING_CLAIM": ledger.BucketPreFiling,
		},
		PriorMonthSettlers: map[string]bool{"HZV-BW": true},
	}

	rules := allocation.DefaultRules()

	tests := []struct {
		name       string
		entry      *ledger.Entry
		wantBucket ledger.EstateBucket
		wantSource ledger.AllocationSource
	}{
		{
			name: "program period wins over everything",
			entry: &ledger.Entry{
				Date:          date(2025, time.November, 15),
				ValueType:     ledger.ValueActual,
				ProgramPeriod: "2025-Q4/2",
				ServiceDate:   datePtr(2026, time.January, 5),
			},
			wantBucket: ledger.BucketMixed,
			wantSource: ledger.SourceProgramRule,
		},
		{
			name: "category tag on planned row",
			entry: &ledger.Entry{
				Date:        date(2026, time.February, 1),
				ValueType:   ledger.ValuePlanned,
				CategoryTag: "PRE_FILING_CLAIM",
			},
			wantBucket: ledger.BucketPreFiling,
			wantSource: ledger.SourceCategoryTag,
		},
		{
			name: "service date before cutover",
			entry: &ledger.Entry{
				Date:        date(2026, time.January, 10),
				ValueType:   ledger.ValueActual,
				ServiceDate: datePtr(2025, time.December, 19),
			},
			wantBucket: ledger.BucketPreFiling,
			wantSource: ledger.SourceServiceDate,
		},
		{
			name: "service date on cutover day is post",
			entry: &ledger.Entry{
				Date:        date(2026, time.January, 10),
				ValueType:   ledger.ValueActual,
				ServiceDate: datePtr(2025, time.December, 20),
			},
			wantBucket: ledger.BucketPostFiling,
			wantSource: ledger.SourceServiceDate,
		},
		{
			name: "service period pro-rata",
			entry: &ledger.Entry{
				Date:               date(2026, time.January, 10),
				ValueType:          ledger.ValueActual,
				ServicePeriodStart: datePtr(2025, time.October, 1),
				ServicePeriodEnd:   datePtr(2025, time.December, 31),
			},
			wantBucket: ledger.BucketMixed,
			wantSource: ledger.SourcePeriodProrata,
		},
		{
			name: "prior-month convention for configured settler",
			entry: &ledger.Entry{
				Date:       date(2026, time.January, 15),
				ValueType:  ledger.ValueActual,
				SettlerKey: "HZV-BW",
			},
			// December 2025 straddles the December 20 cutover.
			wantBucket: ledger.BucketMixed,
			wantSource: ledger.SourcePriorMonth,
		},
		{
			name: "prior-month not applied to planned rows",
			entry: &ledger.Entry{
				Date:       date(2026, time.January, 15),
				ValueType:  ledger.ValuePlanned,
				SettlerKey: "HZV-BW",
			},
			wantBucket: ledger.BucketUnresolved,
			wantSource: ledger.SourceUnresolved,
		},
		{
			name: "prior-month not applied to unknown settler",
			entry: &ledger.Entry{
				Date:       date(2026, time.January, 15),
				ValueType:  ledger.ValueActual,
				SettlerKey: "UNKNOWN",
			},
			wantBucket: ledger.BucketUnresolved,
			wantSource: ledger.SourceUnresolved,
		},
		{
			name: "no signal resolves unresolved, never a guess",
			entry: &ledger.Entry{
				Date:        date(2025, time.November, 3),
				ValueType:   ledger.ValueActual,
				Description: "Sonstige Gutschrift",
			},
			wantBucket: ledger.BucketUnresolved,
			wantSource: ledger.SourceUnresolved,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alloc := allocation.Classify(tt.entry, cfg, rules)

			assert.Equal(t, tt.wantBucket, alloc.Bucket)
			assert.Equal(t, tt.wantSource, alloc.Source)
			require.NoError(t, alloc.Validate())

			if alloc.Bucket != ledger.BucketMixed {
				assert.Nil(t, alloc.Ratio)
			}
		})
	}
}

func TestClassify_Deterministic(t *testing.T) {
	cfg := allocation.Config{CutoverDate: date(2025, time.December, 20)}
	rules := allocation.DefaultRules()

	entry := &ledger.Entry{
		Date:               date(2026, time.January, 10),
		ValueType:          ledger.ValueActual,
		ServicePeriodStart: datePtr(2025, time.October, 1),
		ServicePeriodEnd:   datePtr(2025, time.December, 31),
	}

	first := allocation.Classify(entry, cfg, rules)
	second := allocation.Classify(entry, cfg, rules)

	assert.Equal(t, first.Bucket, second.Bucket)
	assert.Equal(t, first.Source, second.Source)
	assert.Equal(t, first.Note, second.Note)
	require.NotNil(t, first.Ratio)
	require.NotNil(t, second.Ratio)
	assert.True(t, first.Ratio.Equal(*second.Ratio))
}
