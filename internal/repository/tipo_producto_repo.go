package repository

import (
	"context"

	"entregas-backend/internal/models"

	"gorm.io/gorm"
)

type TipoProductoRepository interface {
	Create(ctx context.Context, t *models.TipoProducto) error
	FindByID(ctx context.Context, id uint) (*models.TipoProducto, error)
	List(ctx context.Context) ([]models.TipoProducto, error)
	ListActivos(ctx context.Context) ([]models.TipoProducto, error)
	Update(ctx context.Context, t *models.TipoProducto) error
	SoftDelete(ctx context.Context, id uint) error
}

type tipoProductoRepo struct{ db *gorm.DB }

func NewTipoProductoRepository(db *gorm.DB) TipoProductoRepository {
	return &tipoProductoRepo{db: db}
}

func (r *tipoProductoRepo) Create(ctx context.Context, t *models.TipoProducto) error {
	return r.db.WithContext(ctx).Omit("Productos").Create(t).Error
}

func (r *tipoProductoRepo) FindByID(ctx context.Context, id uint) (*models.TipoProducto, error) {
	var t models.TipoProducto
	err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *tipoProductoRepo) List(ctx context.Context) ([]models.TipoProducto, error) {
	var tipos []models.TipoProducto
	err := r.db.WithContext(ctx).Order("nombre ASC").Find(&tipos).Error
	return tipos, err
}

func (r *tipoProductoRepo) ListActivos(ctx context.Context) ([]models.TipoProducto, error) {
	var tipos []models.TipoProducto
	err := r.db.WithContext(ctx).Where("disponible = true").Order("nombre ASC").Find(&tipos).Error
	return tipos, err
}

func (r *tipoProductoRepo) Update(ctx context.Context, t *models.TipoProducto) error {
	return r.db.WithContext(ctx).Omit("Productos").Save(t).Error
}

func (r *tipoProductoRepo) SoftDelete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.TipoProducto{}).
		Where("id = ?", id).Update("disponible", false).Error
}
