package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/wardrobify/wardrobify/internal/models"
	apperrors "github.com/wardrobify/wardrobify/pkg/errors"
)

// recentReadingsLimit caps the history returned per sensor.
const recentReadingsLimit = 20

// AppendReadingInput is one ingested measurement. Readings carry the device
// address rather than a sensor id; correlation happens at read time.
type AppendReadingInput struct {
	Address string
	Type    string
	Value   float64
}

// ReadingService stores measurements and answers latest/recent queries by
// joining readings to sensors on address and type.
type ReadingService struct {
	db *gorm.DB
}

// NewReadingService constructs a ReadingService instance.
func NewReadingService(db *gorm.DB) (*ReadingService, error) {
	if db == nil {
		return nil, errors.New("reading service: db is required")
	}
	return &ReadingService{db: db}, nil
}

// Append stores one measurement. Readings for unregistered devices are kept;
// they become visible once a matching sensor is registered.
func (s *ReadingService) Append(ctx context.Context, input AppendReadingInput) (*models.Reading, error) {
	ctx = ensureContext(ctx)

	address := strings.TrimSpace(input.Address)
	readingType := strings.TrimSpace(input.Type)
	if address == "" {
		return nil, apperrors.NewBadRequest("address is required")
	}
	if readingType == "" {
		return nil, apperrors.NewBadRequest("type is required")
	}

	reading := &models.Reading{
		Address: address,
		Type:    readingType,
		Value:   input.Value,
	}

	if err := s.db.WithContext(ctx).Create(reading).Error; err != nil {
		return nil, fmt.Errorf("reading service: append reading: %w", err)
	}
	return reading, nil
}

// LatestForSensor returns the newest reading matching the sensor's address
// and type, or nil when the device has not reported yet.
func (s *ReadingService) LatestForSensor(ctx context.Context, sensor *models.Sensor) (*models.Reading, error) {
	ctx = ensureContext(ctx)

	var reading models.Reading
	err := s.db.WithContext(ctx).
		Where("address = ? AND type = ?", sensor.Address, sensor.Type).
		Order("timestamp DESC").
		First(&reading).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading service: latest reading: %w", err)
	}
	return &reading, nil
}

// RecentForSensor returns up to recentReadingsLimit readings for the sensor,
// newest first.
func (s *ReadingService) RecentForSensor(ctx context.Context, sensor *models.Sensor) ([]models.Reading, error) {
	ctx = ensureContext(ctx)

	var readings []models.Reading
	if err := s.db.WithContext(ctx).
		Where("address = ? AND type = ?", sensor.Address, sensor.Type).
		Order("timestamp DESC").
		Limit(recentReadingsLimit).
		Find(&readings).Error; err != nil {
		return nil, fmt.Errorf("reading service: recent readings: %w", err)
	}
	return readings, nil
}

// PurgeOlderThan deletes readings with timestamps before the cutoff and
// reports how many rows went away.
func (s *ReadingService) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	ctx = ensureContext(ctx)

	result := s.db.WithContext(ctx).
		Where("timestamp < ?", cutoff).
		Delete(&models.Reading{})
	if result.Error != nil {
		return 0, fmt.Errorf("reading service: purge readings: %w", result.Error)
	}
	return result.RowsAffected, nil
}
