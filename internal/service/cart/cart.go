package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/pixshop/storefront/internal/models"
	"github.com/pixshop/storefront/internal/repo"
)

var (
	ErrValidation = errors.New("validation")
	ErrNotFound   = errors.New("not found")
)

const (
	minQuantity = 1
	maxQuantity = 99
)

type Service struct {
	Repo *repo.GormRepo
}

func (s *Service) GetCart(ctx context.Context, sessionID string) ([]models.CartItem, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session id required: %w", ErrValidation)
	}
	return s.Repo.GetCart(ctx, sessionID)
}

func (s *Service) AddToCart(ctx context.Context, sessionID string, productID uuid.UUID, quantity int) (*models.CartItem, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session id required: %w", ErrValidation)
	}
	if productID == uuid.Nil {
		return nil, fmt.Errorf("product id required: %w", ErrValidation)
	}
	if quantity < minQuantity || quantity > maxQuantity {
		return nil, fmt.Errorf("quantity must be between %d and %d: %w", minQuantity, maxQuantity, ErrValidation)
	}

	if _, err := s.Repo.GetProduct(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product not found: %w", ErrNotFound)
		}
		return nil, err
	}

	item := &models.CartItem{
		SessionID: sessionID,
		ProductID: productID,
		Quantity:  quantity,
	}
	if err := s.Repo.AddToCart(ctx, item, maxQuantity); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *Service) UpdateQuantity(ctx context.Context, sessionID string, itemID uuid.UUID, quantity int) (*models.CartItem, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("session id required: %w", ErrValidation)
	}
	if quantity < minQuantity || quantity > maxQuantity {
		return nil, fmt.Errorf("quantity must be between %d and %d: %w", minQuantity, maxQuantity, ErrValidation)
	}

	if err := s.requireOwnership(ctx, sessionID, itemID); err != nil {
		return nil, err
	}
	item, err := s.Repo.UpdateCartQuantity(ctx, itemID, quantity)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("cart item not found: %w", ErrNotFound)
		}
		return nil, err
	}
	return item, nil
}

func (s *Service) RemoveFromCart(ctx context.Context, sessionID string, itemID uuid.UUID) error {
	if sessionID == "" {
		return fmt.Errorf("session id required: %w", ErrValidation)
	}
	if err := s.requireOwnership(ctx, sessionID, itemID); err != nil {
		return err
	}
	return s.Repo.RemoveFromCart(ctx, itemID)
}

func (s *Service) ClearCart(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("session id required: %w", ErrValidation)
	}
	return s.Repo.ClearCart(ctx, sessionID)
}

// requireOwnership hides lines belonging to other sessions behind NotFound so
// a guessed item id leaks nothing.
func (s *Service) requireOwnership(ctx context.Context, sessionID string, itemID uuid.UUID) error {
	item, err := s.Repo.GetCartItemByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("cart item not found: %w", ErrNotFound)
		}
		return err
	}
	if item.SessionID != sessionID {
		return fmt.Errorf("cart item not found: %w", ErrNotFound)
	}
	return nil
}
