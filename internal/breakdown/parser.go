package breakdown

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dp-213/insoledger/internal/encoding"
	"github.com/dp-213/insoledger/internal/ledger"
)

// adviceFile is the JSON shape produced by the advice extractor. The
// extractor output is untrusted: every record is re-validated here and
// malformed records are rejected individually rather than failing the file.
type adviceFile struct {
	Advices []adviceRecord `json:"advices"`
}

type adviceRecord struct {
	ReferenceNumber  string       `json:"referenceNumber"`
	ExecutionDate    string       `json:"executionDate"`
	TotalAmountCents int64        `json:"totalAmountCents"`
	Items            []adviceItem `json:"items"`
}

type adviceItem struct {
	RecipientName string `json:"recipientName"`
	RecipientIBAN string `json:"recipientIban"`
	AmountCents   int64  `json:"amountCents"`
	Purpose       string `json:"purpose"`
}

// RejectedAdvice reports one record that failed validation.
type RejectedAdvice struct {
	Index           int
	ReferenceNumber string
	Reason          string
}

// ParseResult separates valid sources from per-record rejections.
type ParseResult struct {
	Sources  []*Source
	Rejected []RejectedAdvice
}

// ParseAdvices decodes an advice file (any common charset) and validates
// each record. The sum check is exact to the cent.
func ParseAdvices(r io.Reader) (*ParseResult, error) {
	utf8Reader, err := encoding.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detecting charset: %w", err)
	}

	var file adviceFile
	if err := json.NewDecoder(utf8Reader).Decode(&file); err != nil {
		return nil, fmt.Errorf("decoding advice file: %w", err)
	}

	result := &ParseResult{}

	for i, rec := range file.Advices {
		src, reason := buildSource(rec)
		if reason != "" {
			result.Rejected = append(result.Rejected, RejectedAdvice{
				Index:           i,
				ReferenceNumber: rec.ReferenceNumber,
				Reason:          reason,
			})

			continue
		}

		result.Sources = append(result.Sources, src)
	}

	return result, nil
}

func buildSource(rec adviceRecord) (*Source, string) {
	if rec.ReferenceNumber == "" {
		return nil, "missing reference number"
	}

	execDate, err := time.Parse("2006-01-02", rec.ExecutionDate)
	if err != nil {
		return nil, fmt.Sprintf("invalid execution date %q", rec.ExecutionDate)
	}

	if rec.TotalAmountCents <= 0 {
		return nil, "total amount must be positive"
	}

	if len(rec.Items) == 0 {
		return nil, "advice has no items"
	}

	src := &Source{
		ReferenceNumber: rec.ReferenceNumber,
		ExecutionDate:   execDate,
		TotalAmount:     rec.TotalAmountCents,
		Status:          StatusUploaded,
	}

	var sum int64

	for idx, it := range rec.Items {
		if it.RecipientName == "" {
			return nil, fmt.Sprintf("item %d: missing recipient", idx)
		}

		if it.AmountCents <= 0 {
			return nil, fmt.Sprintf("item %d: amount must be positive", idx)
		}

		sum += it.AmountCents

		src.Items = append(src.Items, &Item{
			Index:         idx,
			RecipientName: it.RecipientName,
			RecipientIBAN: it.RecipientIBAN,
			Amount:        it.AmountCents,
			Purpose:       it.Purpose,
		})
	}

	if sum != rec.TotalAmountCents {
		return nil, fmt.Sprintf("items sum to %s, advice total is %s",
			ledger.FormatCents(sum), ledger.FormatCents(rec.TotalAmountCents))
	}

	return src, ""
}
