package breakdown_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/dp-213/insoledger/internal/breakdown"
	"github.com/dp-213/insoledger/internal/ledger"
)

func TestService_Upload(t *testing.T) {
	caseID := uuid.New()

	input := `{"advices":[
		{"referenceNumber":"R1","executionDate":"2025-11-03","totalAmountCents":250000,
		 "items":[{"recipientName":"Dr. Albrecht","amountCents":250000,"purpose":"KV Q3"}]},
		{"referenceNumber":"R2","executionDate":"2025-11-03","totalAmountCents":100,
		 "items":[{"recipientName":"Dr. Bergmann","amountCents":99}]}
	]}`

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := breakdown.NewMockRepository(ctrl)
	mockRepo.EXPECT().
		CreateSources(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, sources []*breakdown.Source) error {
			require.Len(t, sources, 1)
			assert.Equal(t, caseID, sources[0].CaseID)
			assert.Equal(t, "advices.json", sources[0].SourceFileName)
			return nil
		})

	svc := breakdown.NewService(mockRepo)

	result, err := svc.Upload(context.Background(), caseID, "advices.json", strings.NewReader(input))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Created)
	require.Len(t, result.Rejected, 1)
	assert.Equal(t, "R2", result.Rejected[0].ReferenceNumber)
}

func TestService_Match(t *testing.T) {
	caseID := uuid.New()
	sourceID := uuid.New()
	entryID := uuid.New()

	source := func(status breakdown.Status) *breakdown.Source {
		return &breakdown.Source{
			ID:              sourceID,
			CaseID:          caseID,
			ReferenceNumber: "SAMMEL-2025-11-03",
			TotalAmount:     250000,
			Status:          status,
		}
	}

	tests := []struct {
		name       string
		setupMock  func(m *breakdown.MockRepository)
		wantErr    error
		wantErrStr string
	}{
		{
			name: "matches uploaded source to exact entry",
			setupMock: func(m *breakdown.MockRepository) {
				m.EXPECT().GetSource(gomock.Any(), caseID, sourceID).Return(source(breakdown.StatusUploaded), nil)
				m.EXPECT().GetLedgerEntry(gomock.Any(), caseID, entryID).Return(&ledger.Entry{
					ID:     entryID,
					CaseID: caseID,
					Amount: -250000,
				}, nil)
				m.EXPECT().
					SetMatched(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, src *breakdown.Source) error {
						assert.Equal(t, breakdown.StatusMatched, src.Status)
						require.NotNil(t, src.MatchedEntryID)
						assert.Equal(t, entryID, *src.MatchedEntryID)
						return nil
					})
			},
		},
		{
			name: "amount mismatch is refused",
			setupMock: func(m *breakdown.MockRepository) {
				m.EXPECT().GetSource(gomock.Any(), caseID, sourceID).Return(source(breakdown.StatusUploaded), nil)
				m.EXPECT().GetLedgerEntry(gomock.Any(), caseID, entryID).Return(&ledger.Entry{
					ID:     entryID,
					CaseID: caseID,
					Amount: -249900,
				}, nil)
			},
			wantErr: breakdown.ErrAmountMismatch,
		},
		{
			name: "already matched source is refused",
			setupMock: func(m *breakdown.MockRepository) {
				m.EXPECT().GetSource(gomock.Any(), caseID, sourceID).Return(source(breakdown.StatusMatched), nil)
			},
			wantErr: breakdown.ErrInvalidStatus,
		},
		{
			name: "split entry is refused",
			setupMock: func(m *breakdown.MockRepository) {
				m.EXPECT().GetSource(gomock.Any(), caseID, sourceID).Return(source(breakdown.StatusUploaded), nil)
				now := time.Now()
				m.EXPECT().GetLedgerEntry(gomock.Any(), caseID, entryID).Return(&ledger.Entry{
					ID:      entryID,
					CaseID:  caseID,
					Amount:  -250000,
					SplitAt: &now,
				}, nil)
			},
			wantErrStr: "already split",
		},
		{
			name: "split child is refused",
			setupMock: func(m *breakdown.MockRepository) {
				m.EXPECT().GetSource(gomock.Any(), caseID, sourceID).Return(source(breakdown.StatusUploaded), nil)
				parentID := uuid.New()
				m.EXPECT().GetLedgerEntry(gomock.Any(), caseID, entryID).Return(&ledger.Entry{
					ID:       entryID,
					CaseID:   caseID,
					Amount:   -250000,
					ParentID: &parentID,
				}, nil)
			},
			wantErrStr: "split child",
		},
		{
			name: "missing source",
			setupMock: func(m *breakdown.MockRepository) {
				m.EXPECT().GetSource(gomock.Any(), caseID, sourceID).Return(nil, breakdown.ErrNotFound)
			},
			wantErr: breakdown.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockRepo := breakdown.NewMockRepository(ctrl)
			tt.setupMock(mockRepo)

			svc := breakdown.NewService(mockRepo)

			src, err := svc.Match(context.Background(), caseID, sourceID, entryID)
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
			assert.Equal(t, breakdown.StatusMatched, src.Status)
		})
	}
}

func TestValidateTransition(t *testing.T) {
	tests := []struct {
		from, to breakdown.Status
		wantErr  bool
	}{
		{breakdown.StatusUploaded, breakdown.StatusMatched, false},
		{breakdown.StatusMatched, breakdown.StatusSplit, false},
		{breakdown.StatusMatched, breakdown.StatusError, false},
		{breakdown.StatusUploaded, breakdown.StatusSplit, true},
		{breakdown.StatusSplit, breakdown.StatusMatched, true},
		{breakdown.StatusError, breakdown.StatusMatched, true},
	}

	for _, tt := range tests {
		err := breakdown.ValidateTransition(tt.from, tt.to)
		if tt.wantErr {
			assert.ErrorIs(t, err, breakdown.ErrInvalidStatus, "%s -> %s", tt.from, tt.to)
		} else {
			assert.NoError(t, err, "%s -> %s", tt.from, tt.to)
		}
	}
}
