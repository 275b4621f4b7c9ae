package trade

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/studyreuse/backend/internal/domain/shared"
	"github.com/studyreuse/backend/internal/domain/trade"
	"go.uber.org/zap"
)

// Receipt is a rendered order receipt
type Receipt struct {
	Content     []byte
	ContentType string
	Filename    string
}

// ReceiptParty is a person printed on a receipt
type ReceiptParty struct {
	Name  string
	Email string
}

// ReceiptData is everything a renderer needs
type ReceiptData struct {
	Order       *trade.Order
	Buyer       ReceiptParty
	Sellers     map[uuid.UUID]ReceiptParty
	GeneratedAt time.Time
}

// ReceiptRenderer turns receipt data into a document
type ReceiptRenderer interface {
	RenderReceipt(ctx context.Context, data ReceiptData) (*Receipt, error)
}

var errReceiptUnavailable = shared.NewDomainError("RECEIPT_UNAVAILABLE", "Receipts are not available")

// Receipt renders the receipt of an order for its buyer, a seller or an admin
func (s *OrderService) Receipt(ctx context.Context, actor shared.Actor, id uuid.UUID) (*Receipt, error) {
	if s.renderer == nil {
		return nil, errReceiptUnavailable
	}
	order, err := s.load(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	ids := append([]uuid.UUID{order.BuyerID}, order.SellerIDs()...)
	users, err := s.userRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	data := ReceiptData{
		Order:       order,
		Sellers:     make(map[uuid.UUID]ReceiptParty, len(ids)-1),
		GeneratedAt: time.Now(),
	}
	for _, u := range users {
		party := ReceiptParty{Name: u.Name, Email: u.Email}
		if u.ID == order.BuyerID {
			data.Buyer = party
		}
		if order.HasSeller(u.ID) {
			data.Sellers[u.ID] = party
		}
	}

	receipt, err := s.renderer.RenderReceipt(ctx, data)
	if err != nil {
		s.logger.Error("Failed to render receipt", zap.String("order_id", id.String()), zap.Error(err))
		return nil, err
	}
	return receipt, nil
}
