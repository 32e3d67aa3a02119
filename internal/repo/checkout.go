package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pixshop/storefront/internal/models"
)

// CreateCheckout persists the order, its items and the payment in a single
// transaction so a crash mid-checkout never leaves an order without a payment.
func (r *GormRepo) CreateCheckout(ctx context.Context, order *models.Order, items []models.OrderItem, payment *models.Payment) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return err
		}
		for i := range items {
			items[i].OrderID = order.ID
			if err := tx.Create(&items[i]).Error; err != nil {
				return err
			}
		}
		payment.OrderID = order.ID
		return tx.Create(payment).Error
	})
}

func (r *GormRepo) GetOrder(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) GetOrderItems(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error) {
	var items []models.OrderItem
	if err := r.DB.WithContext(ctx).Where("order_id = ?", orderID).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *GormRepo) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status models.OrderStatus) error {
	return r.DB.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update("status", status).Error
}

func (r *GormRepo) GetPayment(ctx context.Context, id uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	if err := r.DB.WithContext(ctx).First(&payment, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *GormRepo) GetPaymentByPixupID(ctx context.Context, pixupPaymentID string) (*models.Payment, error) {
	var payment models.Payment
	if err := r.DB.WithContext(ctx).First(&payment, "pixup_payment_id = ?", pixupPaymentID).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

// UpdatePaymentStatus mutates a single payment row; webhookData, when
// non-empty, is stored alongside for audit.
func (r *GormRepo) UpdatePaymentStatus(ctx context.Context, id uuid.UUID, status models.PaymentStatus, webhookData string) (*models.Payment, error) {
	updates := map[string]interface{}{"status": status}
	if webhookData != "" {
		updates["webhook_data"] = webhookData
	}
	if err := r.DB.WithContext(ctx).Model(&models.Payment{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		return nil, err
	}
	return r.GetPayment(ctx, id)
}
