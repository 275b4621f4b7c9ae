package printing

import (
	"context"
	"strings"

	"github.com/studyreuse/backend/internal/application/trade"
	"go.uber.org/zap"
)

// ReceiptRenderer produces order receipts. With a PDF renderer it returns
// PDF documents, otherwise the HTML itself.
type ReceiptRenderer struct {
	template *ReceiptTemplate
	pdf      PDFRenderer
	logger   *zap.Logger
}

// NewReceiptRenderer creates a ReceiptRenderer. pdf may be nil.
func NewReceiptRenderer(pdf PDFRenderer, currency string, logger *zap.Logger) (*ReceiptRenderer, error) {
	tmpl, err := NewReceiptTemplate(currency)
	if err != nil {
		return nil, err
	}
	return &ReceiptRenderer{template: tmpl, pdf: pdf, logger: logger}, nil
}

// RenderReceipt implements trade.ReceiptRenderer
func (r *ReceiptRenderer) RenderReceipt(ctx context.Context, data trade.ReceiptData) (*trade.Receipt, error) {
	doc, err := r.template.Execute(data)
	if err != nil {
		return nil, err
	}
	name := "receipt-" + strings.ToLower(data.Order.OrderNumber)

	if r.pdf == nil {
		return &trade.Receipt{
			Content:     []byte(doc),
			ContentType: "text/html; charset=utf-8",
			Filename:    name + ".html",
		}, nil
	}

	pdf, err := r.pdf.Render(ctx, &RenderRequest{HTML: doc, Title: "Receipt " + data.Order.OrderNumber})
	if err != nil {
		return nil, err
	}
	r.logger.Info("Receipt rendered",
		zap.String("order_number", data.Order.OrderNumber),
		zap.Int("bytes", len(pdf)))
	return &trade.Receipt{
		Content:     pdf,
		ContentType: "application/pdf",
		Filename:    name + ".pdf",
	}, nil
}

var _ trade.ReceiptRenderer = (*ReceiptRenderer)(nil)
