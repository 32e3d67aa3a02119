package cart

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/pixshop/storefront/internal/models"
)

type CalculatedItem struct {
	ProductID  uuid.UUID
	Quantity   int
	Product    models.Product
	TotalPrice decimal.Decimal
}

type Calculation struct {
	Items       []CalculatedItem
	TotalAmount decimal.Decimal
}

// CalculateCartTotal recomputes the cart against current catalog prices.
// Client-submitted amounts never enter here; lines whose product is gone are
// skipped rather than failing the whole calculation. Pure read.
func (s *Service) CalculateCartTotal(ctx context.Context, sessionID string) (*Calculation, error) {
	lines, err := s.Repo.GetCart(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	calc := &Calculation{
		Items:       make([]CalculatedItem, 0, len(lines)),
		TotalAmount: decimal.Zero,
	}
	for _, line := range lines {
		product, err := s.Repo.GetProduct(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, err
		}

		totalPrice := product.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		calc.Items = append(calc.Items, CalculatedItem{
			ProductID:  line.ProductID,
			Quantity:   line.Quantity,
			Product:    *product,
			TotalPrice: totalPrice,
		})
		calc.TotalAmount = calc.TotalAmount.Add(totalPrice)
	}
	return calc, nil
}
