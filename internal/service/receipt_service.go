package service

import (
	"context"

	"pos-service/internal/models"
	"pos-service/internal/util"
)

type receiptLedger interface {
	GetSaleByID(ctx context.Context, id int64) (*models.Sale, error)
	GetReceiptLines(ctx context.Context, saleID int64) ([]models.ReceiptLine, error)
}

// Receipt is a display-ready projection of a committed sale
type Receipt struct {
	Sale  models.Sale          `json:"sale"`
	Lines []models.ReceiptLine `json:"lines"`
}

// ReceiptService projects committed sales into receipts. Pure read:
// calling it twice for the same sale id returns identical output, so a
// receipt is always safe to resend.
type ReceiptService struct {
	ledger receiptLedger
}

// NewReceiptService creates a new receipt service
func NewReceiptService(ledger receiptLedger) *ReceiptService {
	return &ReceiptService{ledger: ledger}
}

// ReceiptFor returns the ordered line items of a committed sale
func (rs *ReceiptService) ReceiptFor(ctx context.Context, saleID int64) (*Receipt, error) {
	ctx, span := util.StartSpan(ctx, "ReceiptService.ReceiptFor")
	defer span.End()

	sale, err := rs.ledger.GetSaleByID(ctx, saleID)
	if err != nil {
		return nil, err
	}

	lines, err := rs.ledger.GetReceiptLines(ctx, saleID)
	if err != nil {
		return nil, err
	}

	return &Receipt{Sale: *sale, Lines: lines}, nil
}
