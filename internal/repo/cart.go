package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pixshop/storefront/internal/models"
)

func (r *GormRepo) GetCart(ctx context.Context, sessionID string) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.DB.WithContext(ctx).Where("session_id = ?", sessionID).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) GetCartItemByID(ctx context.Context, id uuid.UUID) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.DB.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// AddToCart increments the line for (session, product) or creates it. The
// combined quantity is capped at maxQuantity by the caller's clamp value.
func (r *GormRepo) AddToCart(ctx context.Context, item *models.CartItem, maxQuantity int) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.CartItem
		err := tx.Where("session_id = ? AND product_id = ?", item.SessionID, item.ProductID).First(&existing).Error
		if err == nil {
			qty := existing.Quantity + item.Quantity
			if qty > maxQuantity {
				qty = maxQuantity
			}
			if err := tx.Model(&existing).Update("quantity", qty).Error; err != nil {
				return err
			}
			existing.Quantity = qty
			*item = existing
			return nil
		}
		if err != gorm.ErrRecordNotFound {
			return err
		}
		return tx.Create(item).Error
	})
}

func (r *GormRepo) UpdateCartQuantity(ctx context.Context, id uuid.UUID, quantity int) (*models.CartItem, error) {
	var item models.CartItem
	if err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&item, "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Model(&item).Update("quantity", quantity).Error; err != nil {
			return err
		}
		item.Quantity = quantity
		return nil
	}); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *GormRepo) RemoveFromCart(ctx context.Context, id uuid.UUID) error {
	return r.DB.WithContext(ctx).Delete(&models.CartItem{}, "id = ?", id).Error
}

func (r *GormRepo) ClearCart(ctx context.Context, sessionID string) error {
	return r.DB.WithContext(ctx).Where("session_id = ?", sessionID).Delete(&models.CartItem{}).Error
}
