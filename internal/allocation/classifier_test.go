package allocation_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/dp-213/insoledger/internal/allocation"
	"github.com/dp-213/insoledger/internal/ledger"
)

var testLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

func TestClassifier_Run(t *testing.T) {
	caseID := uuid.New()
	cutover := date(2025, time.December, 20)

	cfg := &allocation.Config{
		CutoverDate:        cutover,
		Tags:               map[string]ledger.EstateBucket{},
		PriorMonthSettlers: map[string]bool{},
	}

	t.Run("classifies and audits changed entries", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		entry := &ledger.Entry{
			ID:          uuid.New(),
			CaseID:      caseID,
			Amount:      -90000,
			Date:        date(2026, time.January, 10),
			ValueType:   ledger.ValueActual,
			ServiceDate: datePtr(2025, time.December, 1),
		}

		mockRepo := allocation.NewMockRepository(ctrl)
		mockRepo.EXPECT().CaseConfig(gomock.Any(), caseID).Return(cfg, nil)
		mockRepo.EXPECT().ListEntries(gomock.Any(), caseID, gomock.Nil()).Return([]*ledger.Entry{entry}, nil)
		mockRepo.EXPECT().
			UpdateAllocation(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, e *ledger.Entry, log *ledger.AuditLog) error {
				require.NotNil(t, e.Bucket)
				assert.Equal(t, ledger.BucketPreFiling, *e.Bucket)
				assert.Equal(t, ledger.SourceServiceDate, e.AllocationSource)
				assert.Equal(t, int64(-90000), e.Amount)
				assert.Equal(t, ledger.AuditClassified, log.Action)
				return nil
			})
		mockRepo.EXPECT().MarkForecastStale(gomock.Any(), caseID).Return(nil)

		classifier := allocation.NewClassifier(mockRepo, testLogger)

		report, err := classifier.Run(context.Background(), caseID, nil, "verwalter")
		require.NoError(t, err)
		assert.Equal(t, 1, report.Processed)
		assert.Equal(t, 1, report.Changed)
		assert.Equal(t, 1, report.ByBucket[ledger.BucketPreFiling])
		assert.Equal(t, 1, report.BySource[ledger.SourceServiceDate])
	})

	t.Run("second run with unchanged rules writes nothing", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		bucket := ledger.BucketPreFiling
		entry := &ledger.Entry{
			ID:               uuid.New(),
			CaseID:           caseID,
			Amount:           -90000,
			Date:             date(2026, time.January, 10),
			ValueType:        ledger.ValueActual,
			ServiceDate:      datePtr(2025, time.December, 1),
			Bucket:           &bucket,
			AllocationSource: ledger.SourceServiceDate,
			AllocationNote:   "service date 2025-12-01 before cutover",
		}

		mockRepo := allocation.NewMockRepository(ctrl)
		mockRepo.EXPECT().CaseConfig(gomock.Any(), caseID).Return(cfg, nil)
		mockRepo.EXPECT().ListEntries(gomock.Any(), caseID, gomock.Nil()).Return([]*ledger.Entry{entry}, nil)

		classifier := allocation.NewClassifier(mockRepo, testLogger)

		report, err := classifier.Run(context.Background(), caseID, nil, "verwalter")
		require.NoError(t, err)
		assert.Equal(t, 1, report.Processed)
		assert.Equal(t, 0, report.Changed)
	})

	t.Run("manual allocation is preserved", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		bucket := ledger.BucketPostFiling
		entry := &ledger.Entry{
			ID:               uuid.New(),
			CaseID:           caseID,
			Amount:           -90000,
			Date:             date(2026, time.January, 10),
			ValueType:        ledger.ValueActual,
			ServiceDate:      datePtr(2025, time.December, 1),
			Bucket:           &bucket,
			AllocationSource: ledger.SourceManual,
			AllocationNote:   "Zuordnung laut Verwalter",
		}

		mockRepo := allocation.NewMockRepository(ctrl)
		mockRepo.EXPECT().CaseConfig(gomock.Any(), caseID).Return(cfg, nil)
		mockRepo.EXPECT().ListEntries(gomock.Any(), caseID, gomock.Nil()).Return([]*ledger.Entry{entry}, nil)

		classifier := allocation.NewClassifier(mockRepo, testLogger)

		report, err := classifier.Run(context.Background(), caseID, nil, "verwalter")
		require.NoError(t, err)
		assert.Equal(t, 0, report.Changed)
		assert.Equal(t, 1, report.BySource[ledger.SourceManual])
		assert.Equal(t, ledger.BucketPostFiling, *entry.Bucket)
	})

	t.Run("no signal counts unresolved", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		entry := &ledger.Entry{
			ID:        uuid.New(),
			CaseID:    caseID,
			Amount:    -5000,
			Date:      date(2025, time.November, 3),
			ValueType: ledger.ValueActual,
		}

		mockRepo := allocation.NewMockRepository(ctrl)
		mockRepo.EXPECT().CaseConfig(gomock.Any(), caseID).Return(cfg, nil)
		mockRepo.EXPECT().ListEntries(gomock.Any(), caseID, gomock.Nil()).Return([]*ledger.Entry{entry}, nil)
		mockRepo.EXPECT().
			UpdateAllocation(gomock.Any(), gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, e *ledger.Entry, _ *ledger.AuditLog) error {
				assert.Equal(t, ledger.BucketUnresolved, *e.Bucket)
				assert.Nil(t, e.Ratio)
				return nil
			})
		mockRepo.EXPECT().MarkForecastStale(gomock.Any(), caseID).Return(nil)

		classifier := allocation.NewClassifier(mockRepo, testLogger)

		report, err := classifier.Run(context.Background(), caseID, nil, "verwalter")
		require.NoError(t, err)
		assert.Equal(t, 1, report.Unresolved)
	})
}

func TestClassifier_EstateSummary(t *testing.T) {
	caseID := uuid.New()

	pre := ledger.BucketPreFiling
	post := ledger.BucketPostFiling
	mixed := ledger.BucketMixed
	ratio := decimal.NewFromInt(80).Div(decimal.NewFromInt(92)).Round(6)

	entries := []*ledger.Entry{
		{Amount: -100000, Bucket: &pre, ReviewStatus: ledger.ReviewConfirmed},
		{Amount: -50000, Bucket: &post, ReviewStatus: ledger.ReviewConfirmed},
		{Amount: -92000, Bucket: &mixed, Ratio: &ratio, ReviewStatus: ledger.ReviewConfirmed},
		{Amount: -7000, ReviewStatus: ledger.ReviewUnreviewed},
		// A MIXED row missing its ratio cannot be apportioned and falls
		// back to unresolved instead of panicking.
		{Amount: -3000, Bucket: &mixed, ReviewStatus: ledger.ReviewAdjusted},
		// Rejected entries never count.
		{Amount: -99999, Bucket: &pre, ReviewStatus: ledger.ReviewRejected},
	}

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := allocation.NewMockRepository(ctrl)
	mockRepo.EXPECT().ListEntries(gomock.Any(), caseID, gomock.Nil()).Return(entries, nil)

	classifier := allocation.NewClassifier(mockRepo, testLogger)

	sum, err := classifier.EstateSummary(context.Background(), caseID)
	require.NoError(t, err)

	// -92000 * 0.869565 = -79999.98 rounded to -80000; remainder -12000 post.
	assert.Equal(t, int64(-100000-80000), sum.PreFiling)
	assert.Equal(t, int64(-50000-12000), sum.PostFiling)
	assert.Equal(t, int64(-7000-3000), sum.Unresolved)
	assert.Equal(t, int64(-252000), sum.Total)

	// The split parts always recompose the entry exactly.
	assert.Equal(t, sum.Total, sum.PreFiling+sum.PostFiling+sum.Unresolved)
}
