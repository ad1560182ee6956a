package repository

import (
	"context"

	"entregas-backend/internal/models"

	"gorm.io/gorm"
)

type RepartidorRepository interface {
	Create(ctx context.Context, rep *models.Repartidor) error
	FindByID(ctx context.Context, id uint) (*models.Repartidor, error)
	List(ctx context.Context) ([]models.Repartidor, error)
	ListActivos(ctx context.Context) ([]models.Repartidor, error)
	Update(ctx context.Context, rep *models.Repartidor) error
	SoftDelete(ctx context.Context, id uint) error
}

type repartidorRepo struct{ db *gorm.DB }

func NewRepartidorRepository(db *gorm.DB) RepartidorRepository { return &repartidorRepo{db: db} }

func (r *repartidorRepo) Create(ctx context.Context, rep *models.Repartidor) error {
	return r.db.WithContext(ctx).Omit("Zona", "Entregas").Create(rep).Error
}

func (r *repartidorRepo) FindByID(ctx context.Context, id uint) (*models.Repartidor, error) {
	var rep models.Repartidor
	err := r.db.WithContext(ctx).Preload("Zona").First(&rep, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &rep, nil
}

func (r *repartidorRepo) List(ctx context.Context) ([]models.Repartidor, error) {
	var reps []models.Repartidor
	err := r.db.WithContext(ctx).Preload("Zona").Order("apellido_nombre ASC").Find(&reps).Error
	return reps, err
}

func (r *repartidorRepo) ListActivos(ctx context.Context) ([]models.Repartidor, error) {
	var reps []models.Repartidor
	err := r.db.WithContext(ctx).Preload("Zona").
		Where("disponible = true").Order("apellido_nombre ASC").Find(&reps).Error
	return reps, err
}

func (r *repartidorRepo) Update(ctx context.Context, rep *models.Repartidor) error {
	return r.db.WithContext(ctx).Omit("Zona", "Entregas").Save(rep).Error
}

func (r *repartidorRepo) SoftDelete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.Repartidor{}).
		Where("id = ?", id).Update("disponible", false).Error
}
