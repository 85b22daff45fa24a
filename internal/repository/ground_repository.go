package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	bookingDomain "github.com/groundhub/service-booking/internal/domain/booking"
	groundDomain "github.com/groundhub/service-booking/internal/domain/ground"
	"github.com/groundhub/service-booking/internal/pkg/apperror"
)

// GroundModel is the GORM model for the grounds table.
type GroundModel struct {
	ID                int64     `gorm:"primaryKey;autoIncrement"`
	OwnerID           uuid.UUID `gorm:"type:uuid;index;not null"`
	Name              string    `gorm:"not null;size:200"`
	Location          string    `gorm:"size:500"`
	PriceCentsPerHour int64     `gorm:"not null"`
	OpenMinutes       int       `gorm:"not null"`
	CloseMinutes      int       `gorm:"not null"`
	CreatedAt         time.Time `gorm:"not null"`
}

// TableName returns the table name for the GORM model.
func (GroundModel) TableName() string {
	return "grounds"
}

// GormGroundRepository is the GORM-based implementation of the ground repository.
type GormGroundRepository struct {
	db *gorm.DB
}

// NewGormGroundRepository creates a new GormGroundRepository.
func NewGormGroundRepository(db *gorm.DB) *GormGroundRepository {
	return &GormGroundRepository{db: db}
}

// Insert persists a new ground and assigns its ID.
func (r *GormGroundRepository) Insert(ctx context.Context, g *groundDomain.Ground) error {
	model := toGroundModel(g)
	if err := r.db.WithContext(ctx).Create(&model).Error; err != nil {
		return fmt.Errorf("failed to save ground: %w", err)
	}
	*g = *toDomainGround(&model)
	return nil
}

// FindByID retrieves a ground by its identifier.
func (r *GormGroundRepository) FindByID(ctx context.Context, id int64) (*groundDomain.Ground, error) {
	var model GroundModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NewNotFound("ground", fmt.Sprintf("%d", id))
		}
		return nil, fmt.Errorf("failed to find ground by ID: %w", err)
	}
	return toDomainGround(&model), nil
}

// List retrieves grounds ordered by creation time descending.
func (r *GormGroundRepository) List(ctx context.Context, page, pageSize int) ([]*groundDomain.Ground, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&GroundModel{}).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count grounds: %w", err)
	}

	var models []GroundModel
	offset := (page - 1) * pageSize
	if err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&models).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list grounds: %w", err)
	}

	grounds := make([]*groundDomain.Ground, len(models))
	for i := range models {
		grounds[i] = toDomainGround(&models[i])
	}
	return grounds, total, nil
}

func toGroundModel(g *groundDomain.Ground) GroundModel {
	return GroundModel{
		ID:                g.ID,
		OwnerID:           g.OwnerID,
		Name:              g.Name,
		Location:          g.Location,
		PriceCentsPerHour: g.PriceCentsPerHour,
		OpenMinutes:       int(g.OpenTime),
		CloseMinutes:      int(g.CloseTime),
		CreatedAt:         g.CreatedAt,
	}
}

func toDomainGround(m *GroundModel) *groundDomain.Ground {
	return &groundDomain.Ground{
		ID:                m.ID,
		OwnerID:           m.OwnerID,
		Name:              m.Name,
		Location:          m.Location,
		PriceCentsPerHour: m.PriceCentsPerHour,
		OpenTime:          bookingDomain.TimeOfDay(m.OpenMinutes),
		CloseTime:         bookingDomain.TimeOfDay(m.CloseMinutes),
		CreatedAt:         m.CreatedAt,
	}
}
