package repository

import (
	"context"

	"entregas-backend/internal/models"

	"gorm.io/gorm"
)

type ZonaRepository interface {
	Create(ctx context.Context, z *models.Zona) error
	FindByID(ctx context.Context, id uint) (*models.Zona, error)
	List(ctx context.Context) ([]models.Zona, error)
	ListActivas(ctx context.Context) ([]models.Zona, error)
	Update(ctx context.Context, z *models.Zona) error
	SoftDelete(ctx context.Context, id uint) error
}

type zonaRepo struct{ db *gorm.DB }

func NewZonaRepository(db *gorm.DB) ZonaRepository { return &zonaRepo{db: db} }

func (r *zonaRepo) Create(ctx context.Context, z *models.Zona) error {
	return r.db.WithContext(ctx).Create(z).Error
}

func (r *zonaRepo) FindByID(ctx context.Context, id uint) (*models.Zona, error) {
	var z models.Zona
	err := r.db.WithContext(ctx).First(&z, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &z, nil
}

func (r *zonaRepo) List(ctx context.Context) ([]models.Zona, error) {
	var zonas []models.Zona
	err := r.db.WithContext(ctx).Order("nombre ASC").Find(&zonas).Error
	return zonas, err
}

func (r *zonaRepo) ListActivas(ctx context.Context) ([]models.Zona, error) {
	var zonas []models.Zona
	err := r.db.WithContext(ctx).Where("disponible = true").Order("nombre ASC").Find(&zonas).Error
	return zonas, err
}

func (r *zonaRepo) Update(ctx context.Context, z *models.Zona) error {
	return r.db.WithContext(ctx).Omit("Clientes", "Repartidores", "Entregas").Save(z).Error
}

func (r *zonaRepo) SoftDelete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.Zona{}).
		Where("id = ?", id).Update("disponible", false).Error
}
