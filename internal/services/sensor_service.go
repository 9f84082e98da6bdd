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

// CreateSensorInput describes a device registration.
type CreateSensorInput struct {
	Type    string
	Units   string
	Address string
}

// UpdateSensorInput enumerates mutable sensor attributes. Nil fields are left
// untouched.
type UpdateSensorInput struct {
	Type    *string
	Units   *string
	Address *string
}

// SensorService manages sensor registrations scoped to their owning user.
type SensorService struct {
	db *gorm.DB
}

// NewSensorService constructs a SensorService instance.
func NewSensorService(db *gorm.DB) (*SensorService, error) {
	if db == nil {
		return nil, errors.New("sensor service: db is required")
	}
	return &SensorService{db: db}, nil
}

// Create registers a sensor for the given owner.
func (s *SensorService) Create(ctx context.Context, ownerID string, input CreateSensorInput) (*models.Sensor, error) {
	ctx = ensureContext(ctx)

	sensorType := strings.TrimSpace(input.Type)
	address := strings.TrimSpace(input.Address)
	if sensorType == "" {
		return nil, apperrors.NewBadRequest("type is required")
	}
	if address == "" {
		return nil, apperrors.NewBadRequest("address is required")
	}

	sensor := &models.Sensor{
		UserID:  ownerID,
		Type:    sensorType,
		Units:   strings.TrimSpace(input.Units),
		Address: address,
	}

	if err := s.db.WithContext(ctx).Create(sensor).Error; err != nil {
		return nil, fmt.Errorf("sensor service: create sensor: %w", err)
	}
	return sensor, nil
}

// Get loads a sensor and enforces ownership. An existing sensor belonging to
// another user is reported as unauthorized, not as not-found.
func (s *SensorService) Get(ctx context.Context, ownerID, id string) (*models.Sensor, error) {
	ctx = ensureContext(ctx)

	var sensor models.Sensor
	err := s.db.WithContext(ctx).First(&sensor, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperrors.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("sensor service: get sensor: %w", err)
	}
	if sensor.UserID != ownerID {
		return nil, apperrors.ErrUnauthorized
	}
	return &sensor, nil
}

// ListForUser returns all sensors registered by the owner.
func (s *SensorService) ListForUser(ctx context.Context, ownerID string) ([]models.Sensor, error) {
	ctx = ensureContext(ctx)

	var sensors []models.Sensor
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", ownerID).
		Order("created_at ASC").
		Find(&sensors).Error; err != nil {
		return nil, fmt.Errorf("sensor service: list sensors: %w", err)
	}
	return sensors, nil
}

// Update persists only the supplied attributes of an owned sensor.
func (s *SensorService) Update(ctx context.Context, ownerID, id string, input UpdateSensorInput) (*models.Sensor, error) {
	ctx = ensureContext(ctx)

	sensor, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]any{}
	if input.Type != nil {
		if v := strings.TrimSpace(*input.Type); v != "" {
			updates["type"] = v
		}
	}
	if input.Units != nil {
		updates["units"] = strings.TrimSpace(*input.Units)
	}
	if input.Address != nil {
		if v := strings.TrimSpace(*input.Address); v != "" {
			updates["address"] = v
		}
	}

	if len(updates) == 0 {
		return sensor, nil
	}

	if err := s.db.WithContext(ctx).Model(sensor).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("sensor service: update sensor: %w", err)
	}
	if err := s.db.WithContext(ctx).First(sensor, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("sensor service: reload sensor: %w", err)
	}
	return sensor, nil
}

// Delete removes an owned sensor.
func (s *SensorService) Delete(ctx context.Context, ownerID, id string) error {
	ctx = ensureContext(ctx)

	if _, err := s.Get(ctx, ownerID, id); err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(&models.Sensor{}, "id = ?", id).Error; err != nil {
		return fmt.Errorf("sensor service: delete sensor: %w", err)
	}
	return nil
}
