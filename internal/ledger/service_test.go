package ledger_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/dp-213/insoledger/internal/ledger"
)

func TestService_Create(t *testing.T) {
	caseID := uuid.New()

	tests := []struct {
		name      string
		params    ledger.CreateParams
		setupMock func(m *ledger.MockRepository)
		wantErr   string
	}{
		{
			name: "creates actual entry and marks forecast stale",
			params: ledger.CreateParams{
				CaseID:      caseID,
				Amount:      -250000,
				Date:        time.Date(2025, 11, 3, 0, 0, 0, 0, time.UTC),
				Description: "KV Abschlag November",
				ValueType:   ledger.ValueActual,
				Actor:       "verwalter",
			},
			setupMock: func(m *ledger.MockRepository) {
				m.EXPECT().
					CreateEntry(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, e *ledger.Entry) error {
						assert.Equal(t, ledger.ReviewUnreviewed, e.ReviewStatus)
						assert.Equal(t, int64(-250000), e.Amount)
						e.ID = uuid.New()
						return nil
					})
				m.EXPECT().MarkForecastStale(gomock.Any(), caseID).Return(nil)
			},
		},
		{
			name: "rejects empty description",
			params: ledger.CreateParams{
				CaseID:    caseID,
				Amount:    100,
				ValueType: ledger.ValueActual,
			},
			setupMock: func(m *ledger.MockRepository) {},
			wantErr:   "description is required",
		},
		{
			name: "rejects unknown value type",
			params: ledger.CreateParams{
				CaseID:      caseID,
				Amount:      100,
				Description: "x",
				ValueType:   ledger.ValueType("GUESS"),
			},
			setupMock: func(m *ledger.MockRepository) {},
			wantErr:   `invalid value type "GUESS"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockRepo := ledger.NewMockRepository(ctrl)
			tt.setupMock(mockRepo)

			svc := ledger.NewService(mockRepo)

			e, err := svc.Create(context.Background(), tt.params)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, e.ID)
		})
	}
}

func TestService_ReviewTransitions(t *testing.T) {
	caseID := uuid.New()
	entryID := uuid.New()

	entry := func(status ledger.ReviewStatus) *ledger.Entry {
		return &ledger.Entry{
			ID:           entryID,
			CaseID:       caseID,
			Amount:       -90000,
			Description:  "HZV Abschlag Oktober",
			ValueType:    ledger.ValueActual,
			ReviewStatus: status,
		}
	}

	tests := []struct {
		name       string
		run        func(svc *ledger.Service) error
		setupMock  func(m *ledger.MockRepository)
		wantErr    error
		wantErrStr string
	}{
		{
			name: "confirm unreviewed entry",
			run: func(svc *ledger.Service) error {
				_, err := svc.Confirm(context.Background(), caseID, entryID, "verwalter", "")
				return err
			},
			setupMock: func(m *ledger.MockRepository) {
				m.EXPECT().GetEntry(gomock.Any(), caseID, entryID).Return(entry(ledger.ReviewUnreviewed), nil)
				m.EXPECT().
					UpdateReview(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, e *ledger.Entry, log *ledger.AuditLog) error {
						assert.Equal(t, ledger.ReviewConfirmed, e.ReviewStatus)
						assert.Equal(t, ledger.AuditConfirmed, log.Action)
						assert.Equal(t, "verwalter", log.Actor)
						return nil
					})
				m.EXPECT().MarkForecastStale(gomock.Any(), caseID).Return(nil)
			},
		},
		{
			name: "reject requires reason",
			run: func(svc *ledger.Service) error {
				_, err := svc.Reject(context.Background(), caseID, entryID, "verwalter", "")
				return err
			},
			setupMock: func(m *ledger.MockRepository) {},
			wantErr:   ledger.ErrReasonRequired,
		},
		{
			name: "adjust requires reason",
			run: func(svc *ledger.Service) error {
				_, err := svc.Adjust(context.Background(), caseID, entryID, "verwalter", "", ledger.AdjustParams{})
				return err
			},
			setupMock: func(m *ledger.MockRepository) {},
			wantErr:   ledger.ErrReasonRequired,
		},
		{
			name: "rejected entry can only move to adjusted",
			run: func(svc *ledger.Service) error {
				_, err := svc.Confirm(context.Background(), caseID, entryID, "verwalter", "")
				return err
			},
			setupMock: func(m *ledger.MockRepository) {
				m.EXPECT().GetEntry(gomock.Any(), caseID, entryID).Return(entry(ledger.ReviewRejected), nil)
			},
			wantErr: ledger.ErrInvalidTransition,
		},
		{
			name: "adjust amount on split parent is refused",
			run: func(svc *ledger.Service) error {
				amount := int64(-80000)
				_, err := svc.Adjust(context.Background(), caseID, entryID, "verwalter", "Betrag korrigiert",
					ledger.AdjustParams{Amount: &amount})
				return err
			},
			setupMock: func(m *ledger.MockRepository) {
				e := entry(ledger.ReviewUnreviewed)
				now := time.Now()
				e.SplitAt = &now
				m.EXPECT().GetEntry(gomock.Any(), caseID, entryID).Return(e, nil)
			},
			wantErrStr: "cannot adjust amount of split entry",
		},
		{
			name: "adjust amount on split child is refused",
			run: func(svc *ledger.Service) error {
				amount := int64(-80000)
				_, err := svc.Adjust(context.Background(), caseID, entryID, "verwalter", "Betrag korrigiert",
					ledger.AdjustParams{Amount: &amount})
				return err
			},
			setupMock: func(m *ledger.MockRepository) {
				e := entry(ledger.ReviewUnreviewed)
				parentID := uuid.New()
				e.ParentID = &parentID
				m.EXPECT().GetEntry(gomock.Any(), caseID, entryID).Return(e, nil)
			},
			wantErrStr: "cannot adjust amount of split child",
		},
		{
			name: "adjust allocation forces manual source",
			run: func(svc *ledger.Service) error {
				_, err := svc.Adjust(context.Background(), caseID, entryID, "verwalter", "Zuordnung korrigiert",
					ledger.AdjustParams{Allocation: &ledger.Allocation{
						Bucket: ledger.BucketPostFiling,
						Source: ledger.SourceServiceDate,
						Note:   "Leistung nach Eröffnung",
					}})
				return err
			},
			setupMock: func(m *ledger.MockRepository) {
				m.EXPECT().GetEntry(gomock.Any(), caseID, entryID).Return(entry(ledger.ReviewUnreviewed), nil)
				m.EXPECT().
					UpdateReview(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, e *ledger.Entry, log *ledger.AuditLog) error {
						require.NotNil(t, e.Bucket)
						assert.Equal(t, ledger.BucketPostFiling, *e.Bucket)
						assert.Equal(t, ledger.SourceManual, e.AllocationSource)
						assert.Contains(t, log.Changes, "estateAllocation")
						return nil
					})
				m.EXPECT().MarkForecastStale(gomock.Any(), caseID).Return(nil)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockRepo := ledger.NewMockRepository(ctrl)
			tt.setupMock(mockRepo)

			svc := ledger.NewService(mockRepo)

			err := tt.run(svc)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			if tt.wantErrStr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrStr)
				return
			}

			require.NoError(t, err)
		})
	}
}

func TestService_CheckConservation(t *testing.T) {
	caseID := uuid.New()

	tests := []struct {
		name       string
		active     int64
		roots      int64
		wantOK     bool
		wantDetail string
	}{
		{
			name:       "sums match",
			active:     -250000,
			roots:      -250000,
			wantOK:     true,
			wantDetail: "OK",
		},
		{
			name:       "sums diverge",
			active:     -240000,
			roots:      -250000,
			wantOK:     false,
			wantDetail: "active sum",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockRepo := ledger.NewMockRepository(ctrl)
			mockRepo.EXPECT().ConservationSums(gomock.Any(), caseID).Return(tt.active, tt.roots, nil)

			svc := ledger.NewService(mockRepo)

			st, err := svc.CheckConservation(context.Background(), caseID)
			require.NoError(t, err)
			assert.Equal(t, tt.wantOK, st.OK)
			assert.Contains(t, st.Detail, tt.wantDetail)
		})
	}
}

func TestValidateReviewTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    ledger.ReviewStatus
		to      ledger.ReviewStatus
		wantErr bool
	}{
		{name: "unreviewed to confirmed", from: ledger.ReviewUnreviewed, to: ledger.ReviewConfirmed},
		{name: "unreviewed to rejected", from: ledger.ReviewUnreviewed, to: ledger.ReviewRejected},
		{name: "confirmed to adjusted", from: ledger.ReviewConfirmed, to: ledger.ReviewAdjusted},
		{name: "rejected to adjusted", from: ledger.ReviewRejected, to: ledger.ReviewAdjusted},
		{name: "rejected to confirmed refused", from: ledger.ReviewRejected, to: ledger.ReviewConfirmed, wantErr: true},
		{name: "confirmed back to unreviewed refused", from: ledger.ReviewConfirmed, to: ledger.ReviewUnreviewed, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ledger.ValidateReviewTransition(tt.from, tt.to)
			if tt.wantErr {
				assert.ErrorIs(t, err, ledger.ErrInvalidTransition)
				return
			}

			assert.NoError(t, err)
		})
	}
}
