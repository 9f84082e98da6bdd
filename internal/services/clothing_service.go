package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/wardrobify/wardrobify/internal/models"
	apperrors "github.com/wardrobify/wardrobify/pkg/errors"
)

// CreateClothingInput describes a wardrobe entry.
type CreateClothingInput struct {
	Name         string
	Type         string
	ImageAddress string
}

// UpdateClothingInput enumerates mutable clothing attributes. Nil fields are
// left untouched.
type UpdateClothingInput struct {
	Name         *string
	Type         *string
	ImageAddress *string
}

// ClothingService manages wardrobe entries scoped to their owning user.
type ClothingService struct {
	db *gorm.DB
}

// NewClothingService constructs a ClothingService instance.
func NewClothingService(db *gorm.DB) (*ClothingService, error) {
	if db == nil {
		return nil, errors.New("clothing service: db is required")
	}
	return &ClothingService{db: db}, nil
}

// Create adds a wardrobe entry for the given owner.
func (s *ClothingService) Create(ctx context.Context, ownerID string, input CreateClothingInput) (*models.ClothingItem, error) {
	ctx = ensureContext(ctx)

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.NewBadRequest("name is required")
	}
	if strings.TrimSpace(input.Type) == "" {
		return nil, apperrors.NewBadRequest("type is required")
	}

	item := &models.ClothingItem{
		UserID:       ownerID,
		Name:         name,
		Type:         strings.TrimSpace(input.Type),
		ImageAddress: strings.TrimSpace(input.ImageAddress),
	}

	if err := s.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, fmt.Errorf("clothing service: create item: %w", err)
	}
	return item, nil
}

// Get loads a wardrobe entry and enforces ownership.
func (s *ClothingService) Get(ctx context.Context, ownerID, id string) (*models.ClothingItem, error) {
	ctx = ensureContext(ctx)

	var item models.ClothingItem
	err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("clothing service: get item: %w", err)
	}
	if item.UserID != ownerID {
		return nil, apperrors.ErrUnauthorized
	}
	return &item, nil
}

// ListForUser returns the owner's full wardrobe.
func (s *ClothingService) ListForUser(ctx context.Context, ownerID string) ([]models.ClothingItem, error) {
	ctx = ensureContext(ctx)

	var items []models.ClothingItem
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at ASC").
		Find(&items).Error; err != nil {
		return nil, fmt.Errorf("clothing service: list items: %w", err)
	}
	return items, nil
}

// Update persists only the supplied attributes of an owned entry.
func (s *ClothingService) Update(ctx context.Context, ownerID, id string, input UpdateClothingInput) (*models.ClothingItem, error) {
	ctx = ensureContext(ctx)

	item, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Name != nil {
		if v := strings.TrimSpace(*input.Name); v != "" {
			updates["name"] = v
		}
	}
	if input.Type != nil {
		if v := strings.TrimSpace(*input.Type); v != "" {
			updates["type"] = v
		}
	}
	if input.ImageAddress != nil {
		updates["image_address"] = strings.TrimSpace(*input.ImageAddress)
	}

	if len(updates) == 0 {
		return item, nil
	}

	if err := s.db.WithContext(ctx).Model(item).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("clothing service: update item: %w", err)
	}
	if err := s.db.WithContext(ctx).First(item, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("clothing service: reload item: %w", err)
	}
	return item, nil
}

// Delete removes an owned wardrobe entry.
func (s *ClothingService) Delete(ctx context.Context, ownerID, id string) error {
	ctx = ensureContext(ctx)

	if _, err := s.Get(ctx, ownerID, id); err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(&models.ClothingItem{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("clothing service: delete item: %w", err)
	}
	return nil
}
