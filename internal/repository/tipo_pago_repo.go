package repository

import (
	"context"

	"entregas-backend/internal/models"

	"gorm.io/gorm"
)

type TipoPagoRepository interface {
	Create(ctx context.Context, t *models.TipoPago) error
	CreateTx(tx *gorm.DB, t *models.TipoPago) error
	FindByID(ctx context.Context, id uint) (*models.TipoPago, error)
	List(ctx context.Context) ([]models.TipoPago, error)
	ListActivos(ctx context.Context) ([]models.TipoPago, error)
	Update(ctx context.Context, t *models.TipoPago) error
	SoftDelete(ctx context.Context, id uint) error
}

type tipoPagoRepo struct{ db *gorm.DB }

func NewTipoPagoRepository(db *gorm.DB) TipoPagoRepository { return &tipoPagoRepo{db: db} }

func (r *tipoPagoRepo) Create(ctx context.Context, t *models.TipoPago) error {
	return r.db.WithContext(ctx).Create(t).Error
}

func (r *tipoPagoRepo) CreateTx(tx *gorm.DB, t *models.TipoPago) error {
	return tx.Create(t).Error
}

func (r *tipoPagoRepo) FindByID(ctx context.Context, id uint) (*models.TipoPago, error) {
	var t models.TipoPago
	err := r.db.WithContext(ctx).First(&t, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (r *tipoPagoRepo) List(ctx context.Context) ([]models.TipoPago, error) {
	var tipos []models.TipoPago
	err := r.db.WithContext(ctx).Order("nombre ASC").Find(&tipos).Error
	return tipos, err
}

func (r *tipoPagoRepo) ListActivos(ctx context.Context) ([]models.TipoPago, error) {
	var tipos []models.TipoPago
	err := r.db.WithContext(ctx).Where("disponible = true").Order("nombre ASC").Find(&tipos).Error
	return tipos, err
}

func (r *tipoPagoRepo) Update(ctx context.Context, t *models.TipoPago) error {
	return r.db.WithContext(ctx).Save(t).Error
}

func (r *tipoPagoRepo) SoftDelete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.TipoPago{}).
		Where("id = ?", id).Update("disponible", false).Error
}
