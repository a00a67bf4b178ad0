package forecast_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/dp-213/insoledger/internal/forecast"
	"github.com/dp-213/insoledger/internal/ledger"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func monthlyPlan(caseID uuid.UUID) *forecast.Plan {
	return &forecast.Plan{
		CaseID:         caseID,
		CutoverDate:    date(2025, time.December, 20),
		OpeningBalance: 100000,
		PlanStart:      date(2025, time.November, 1),
		PeriodType:     forecast.PeriodMonthly,
		PeriodCount:    4,
	}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func TestComposer_BalanceChaining(t *testing.T) {
	caseID := uuid.New()

	entries := []*ledger.Entry{
		{Amount: 20000, Date: date(2025, time.November, 10), ValueType: ledger.ValueActual, ReviewStatus: ledger.ReviewConfirmed},
		{Amount: -5000, Date: date(2025, time.November, 20), ValueType: ledger.ValueActual, ReviewStatus: ledger.ReviewConfirmed},
	}

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := forecast.NewMockRepository(ctrl)
	mockRepo.EXPECT().CachedResult(gomock.Any(), caseID).Return(nil, false, int64(0), nil)
	mockRepo.EXPECT().Plan(gomock.Any(), caseID).Return(monthlyPlan(caseID), nil)
	mockRepo.EXPECT().ListEntries(gomock.Any(), caseID, false).Return(entries, 0, nil)
	mockRepo.EXPECT().ListAssumptions(gomock.Any(), caseID).Return(nil, nil)
	mockRepo.EXPECT().SaveResult(gomock.Any(), caseID, gomock.Any(), int64(0)).Return(nil)

	// "Now" is in period 2, so periods 0 and 1 are fully booked.
	composer := forecast.NewComposer(mockRepo, fixedClock(date(2026, time.January, 15)), testLogger)

	result, err := composer.Compose(context.Background(), caseID, forecast.Options{})
	require.NoError(t, err)

	require.Len(t, result.Periods, 4)
	assert.Equal(t, 2, result.TodayPeriod)

	p0 := result.Periods[0]
	assert.Equal(t, int64(100000), p0.Opening)
	assert.Equal(t, int64(20000), p0.Inflows)
	assert.Equal(t, int64(5000), p0.Outflows)
	assert.Equal(t, int64(115000), p0.Closing)
	assert.Equal(t, forecast.SourceActual, p0.Source)

	p1 := result.Periods[1]
	assert.Equal(t, int64(115000), p1.Opening)
	assert.Equal(t, int64(115000), p1.Closing)

	assert.Equal(t, forecast.SourceMixed, result.Periods[2].Source)
}

func TestComposer_ProvenanceTags(t *testing.T) {
	caseID := uuid.New()

	entries := []*ledger.Entry{
		{Amount: 20000, Date: date(2025, time.November, 10), ValueType: ledger.ValueActual, ReviewStatus: ledger.ReviewConfirmed},
		// Static plan figure in the last period.
		{Amount: 30000, Date: date(2026, time.February, 10), ValueType: ledger.ValuePlanned, ReviewStatus: ledger.ReviewConfirmed},
	}

	assumptions := []*forecast.Assumption{
		{Category: "KV Abschlag", Flow: forecast.FlowInflow, Kind: forecast.KindRunRate, Amount: 90000, StartPeriod: 2, EndPeriod: 2, Active: true},
	}

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := forecast.NewMockRepository(ctrl)
	mockRepo.EXPECT().CachedResult(gomock.Any(), caseID).Return(nil, false, int64(0), nil)
	mockRepo.EXPECT().Plan(gomock.Any(), caseID).Return(monthlyPlan(caseID), nil)
	mockRepo.EXPECT().ListEntries(gomock.Any(), caseID, false).Return(entries, 0, nil)
	mockRepo.EXPECT().ListAssumptions(gomock.Any(), caseID).Return(assumptions, nil)
	mockRepo.EXPECT().SaveResult(gomock.Any(), caseID, gomock.Any(), int64(0)).Return(nil)

	// "Now" is in period 1.
	composer := forecast.NewComposer(mockRepo, fixedClock(date(2025, time.December, 10)), testLogger)

	result, err := composer.Compose(context.Background(), caseID, forecast.Options{})
	require.NoError(t, err)

	assert.Equal(t, forecast.SourceActual, result.Periods[0].Source)
	assert.Equal(t, forecast.SourceMixed, result.Periods[1].Source)
	assert.Equal(t, forecast.SourceProjected, result.Periods[2].Source)
	assert.Equal(t, int64(90000), result.Periods[2].Inflows)
	assert.Equal(t, forecast.SourcePlanned, result.Periods[3].Source)
	assert.Equal(t, int64(30000), result.Periods[3].Inflows)
}

func TestComposer_RunRateGrowthAndOneTime(t *testing.T) {
	caseID := uuid.New()

	assumptions := []*forecast.Assumption{
		// 10% growth per period from period 1.
		{Category: "HZV", Flow: forecast.FlowInflow, Kind: forecast.KindRunRate, Amount: 100000, GrowthPercent: 10, StartPeriod: 1, Active: true},
		{Category: "Gutachten", Flow: forecast.FlowOutflow, Kind: forecast.KindOneTime, Amount: 25000, StartPeriod: 2, Active: true},
		{Category: "inactive", Flow: forecast.FlowInflow, Kind: forecast.KindRunRate, Amount: 999999, StartPeriod: 0, Active: false},
	}

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := forecast.NewMockRepository(ctrl)
	mockRepo.EXPECT().CachedResult(gomock.Any(), caseID).Return(nil, false, int64(0), nil)
	mockRepo.EXPECT().Plan(gomock.Any(), caseID).Return(monthlyPlan(caseID), nil)
	mockRepo.EXPECT().ListEntries(gomock.Any(), caseID, false).Return(nil, 0, nil)
	mockRepo.EXPECT().ListAssumptions(gomock.Any(), caseID).Return(assumptions, nil)
	mockRepo.EXPECT().SaveResult(gomock.Any(), caseID, gomock.Any(), int64(0)).Return(nil)

	composer := forecast.NewComposer(mockRepo, fixedClock(date(2025, time.November, 5)), testLogger)

	result, err := composer.Compose(context.Background(), caseID, forecast.Options{})
	require.NoError(t, err)

	assert.Equal(t, int64(0), result.Periods[0].ProjectedInflows)
	assert.Equal(t, int64(100000), result.Periods[1].ProjectedInflows)
	assert.Equal(t, int64(110000), result.Periods[2].ProjectedInflows)
	assert.Equal(t, int64(121000), result.Periods[3].ProjectedInflows)
	assert.Equal(t, int64(25000), result.Periods[2].ProjectedOutflows)
	assert.Equal(t, int64(0), result.Periods[3].ProjectedOutflows)
}

func TestComposer_CacheBehavior(t *testing.T) {
	caseID := uuid.New()

	cached := &forecast.Result{CaseID: caseID, OpeningBalance: 100000}

	t.Run("fresh cache served without recomputation", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := forecast.NewMockRepository(ctrl)
		mockRepo.EXPECT().CachedResult(gomock.Any(), caseID).Return(cached, false, int64(3), nil)

		composer := forecast.NewComposer(mockRepo, fixedClock(date(2025, time.December, 1)), testLogger)

		result, err := composer.Compose(context.Background(), caseID, forecast.Options{})
		require.NoError(t, err)
		assert.Same(t, cached, result)
	})

	t.Run("stale cache forces rebuild and save", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := forecast.NewMockRepository(ctrl)
		mockRepo.EXPECT().CachedResult(gomock.Any(), caseID).Return(cached, true, int64(4), nil)
		mockRepo.EXPECT().Plan(gomock.Any(), caseID).Return(monthlyPlan(caseID), nil)
		mockRepo.EXPECT().ListEntries(gomock.Any(), caseID, false).Return(nil, 0, nil)
		mockRepo.EXPECT().ListAssumptions(gomock.Any(), caseID).Return(nil, nil)
		mockRepo.EXPECT().SaveResult(gomock.Any(), caseID, gomock.Any(), int64(4)).Return(nil)

		composer := forecast.NewComposer(mockRepo, fixedClock(date(2025, time.December, 1)), testLogger)

		result, err := composer.Compose(context.Background(), caseID, forecast.Options{})
		require.NoError(t, err)
		assert.NotSame(t, cached, result)
	})

	t.Run("save carries the generation read before composing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		// The store clears the stale flag only while the generation is
		// unchanged. Passing the pre-compose generation means a stale
		// mark landing mid-compose bumps past it and survives the save.
		mockRepo := forecast.NewMockRepository(ctrl)
		mockRepo.EXPECT().CachedResult(gomock.Any(), caseID).Return(cached, true, int64(7), nil)
		mockRepo.EXPECT().Plan(gomock.Any(), caseID).Return(monthlyPlan(caseID), nil)
		mockRepo.EXPECT().ListEntries(gomock.Any(), caseID, false).Return(nil, 0, nil)
		mockRepo.EXPECT().ListAssumptions(gomock.Any(), caseID).Return(nil, nil)
		mockRepo.EXPECT().
			SaveResult(gomock.Any(), caseID, gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ uuid.UUID, _ *forecast.Result, generation int64) error {
				assert.Equal(t, int64(7), generation)
				return nil
			})

		composer := forecast.NewComposer(mockRepo, fixedClock(date(2025, time.December, 1)), testLogger)

		_, err := composer.Compose(context.Background(), caseID, forecast.Options{})
		require.NoError(t, err)
	})

	t.Run("include-unreviewed bypasses the cache", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockRepo := forecast.NewMockRepository(ctrl)
		mockRepo.EXPECT().Plan(gomock.Any(), caseID).Return(monthlyPlan(caseID), nil)
		mockRepo.EXPECT().ListEntries(gomock.Any(), caseID, true).Return(nil, 0, nil)
		mockRepo.EXPECT().ListAssumptions(gomock.Any(), caseID).Return(nil, nil)

		composer := forecast.NewComposer(mockRepo, fixedClock(date(2025, time.December, 1)), testLogger)

		_, err := composer.Compose(context.Background(), caseID, forecast.Options{IncludeUnreviewed: true})
		require.NoError(t, err)
	})
}

func TestPlan_PeriodMath(t *testing.T) {
	weekly := &forecast.Plan{
		PlanStart:   date(2025, time.November, 3),
		PeriodType:  forecast.PeriodWeekly,
		PeriodCount: 13,
	}

	assert.Equal(t, 0, weekly.PeriodIndex(date(2025, time.November, 3)))
	assert.Equal(t, 0, weekly.PeriodIndex(date(2025, time.November, 9)))
	assert.Equal(t, 1, weekly.PeriodIndex(date(2025, time.November, 10)))
	assert.Equal(t, -1, weekly.PeriodIndex(date(2025, time.November, 2)))

	start, end := weekly.PeriodBounds(1)
	assert.Equal(t, date(2025, time.November, 10), start)
	assert.Equal(t, date(2025, time.November, 16), end)

	monthly := &forecast.Plan{
		PlanStart:   date(2025, time.November, 1),
		PeriodType:  forecast.PeriodMonthly,
		PeriodCount: 6,
	}

	assert.Equal(t, 0, monthly.PeriodIndex(date(2025, time.November, 30)))
	assert.Equal(t, 2, monthly.PeriodIndex(date(2026, time.January, 1)))
	assert.Equal(t, -1, monthly.PeriodIndex(date(2025, time.October, 15)))

	start, end = monthly.PeriodBounds(2)
	assert.Equal(t, date(2026, time.January, 1), start)
	assert.Equal(t, date(2026, time.January, 31), end)
}
