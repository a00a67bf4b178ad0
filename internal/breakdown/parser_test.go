package breakdown_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dp-213/insoledger/internal/breakdown"
)

func TestParseAdvices(t *testing.T) {
	tests := []struct {
		name         string
		input        string
		wantSources  int
		wantRejected int
		wantReason   string
	}{
		{
			name: "valid advice with exact item sum",
			input: `{"advices":[{
				"referenceNumber":"SAMMEL-2025-11-03",
				"executionDate":"2025-11-03",
				"totalAmountCents":250000,
				"items":[
					{"recipientName":"Dr. Albrecht","recipientIban":"DE02120300000000202051","amountCents":150000,"purpose":"KV Q3 Nachzahlung"},
					{"recipientName":"Dr. Bergmann","recipientIban":"DE02500105170137075030","amountCents":100000,"purpose":"KV Q3 Nachzahlung"}
				]}]}`,
			wantSources: 1,
		},
		{
			name: "sum mismatch rejects the record",
			input: `{"advices":[{
				"referenceNumber":"SAMMEL-2025-11-04",
				"executionDate":"2025-11-04",
				"totalAmountCents":250000,
				"items":[{"recipientName":"Dr. Albrecht","amountCents":249999,"purpose":"x"}]}]}`,
			wantRejected: 1,
			wantReason:   "items sum to",
		},
		{
			name: "missing reference rejects the record",
			input: `{"advices":[{
				"executionDate":"2025-11-04",
				"totalAmountCents":100,
				"items":[{"recipientName":"Dr. Albrecht","amountCents":100}]}]}`,
			wantRejected: 1,
			wantReason:   "missing reference number",
		},
		{
			name: "bad execution date rejects the record",
			input: `{"advices":[{
				"referenceNumber":"R1",
				"executionDate":"03.11.2025",
				"totalAmountCents":100,
				"items":[{"recipientName":"Dr. Albrecht","amountCents":100}]}]}`,
			wantRejected: 1,
			wantReason:   "invalid execution date",
		},
		{
			name: "empty items rejects the record",
			input: `{"advices":[{
				"referenceNumber":"R1",
				"executionDate":"2025-11-04",
				"totalAmountCents":100,
				"items":[]}]}`,
			wantRejected: 1,
			wantReason:   "advice has no items",
		},
		{
			name: "one bad record does not block the good one",
			input: `{"advices":[
				{"referenceNumber":"R1","executionDate":"2025-11-04","totalAmountCents":100,
				 "items":[{"recipientName":"Dr. Albrecht","amountCents":100}]},
				{"referenceNumber":"R2","executionDate":"2025-11-04","totalAmountCents":100,
				 "items":[{"recipientName":"Dr. Bergmann","amountCents":99}]}
			]}`,
			wantSources:  1,
			wantRejected: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := breakdown.ParseAdvices(strings.NewReader(tt.input))
			require.NoError(t, err)

			assert.Len(t, result.Sources, tt.wantSources)
			require.Len(t, result.Rejected, tt.wantRejected)

			if tt.wantReason != "" {
				assert.Contains(t, result.Rejected[0].Reason, tt.wantReason)
			}

			for _, src := range result.Sources {
				assert.Equal(t, breakdown.StatusUploaded, src.Status)
				assert.Equal(t, src.TotalAmount, src.ItemSum())
			}
		})
	}
}

func TestParseAdvices_InvalidJSON(t *testing.T) {
	_, err := breakdown.ParseAdvices(strings.NewReader("not json"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decoding advice file")
}
