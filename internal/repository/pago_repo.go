package repository

import (
	"context"

	"entregas-backend/internal/models"

	"gorm.io/gorm"
)

type PagoRepository interface {
	CreateTx(tx *gorm.DB, p *models.Pago) error
	FindByID(ctx context.Context, id uint) (*models.Pago, error)
	List(ctx context.Context) ([]models.Pago, error)
	SaveTx(tx *gorm.DB, p *models.Pago) error
	DeleteTx(tx *gorm.DB, id uint) error
	DeleteByPedidoTx(tx *gorm.DB, nroPedido uint) error
	DB() *gorm.DB
}

type pagoRepo struct{ db *gorm.DB }

func NewPagoRepository(db *gorm.DB) PagoRepository { return &pagoRepo{db: db} }

func (r *pagoRepo) CreateTx(tx *gorm.DB, p *models.Pago) error {
	return tx.Omit("TipoPago", "Pedido").Create(p).Error
}

func (r *pagoRepo) FindByID(ctx context.Context, id uint) (*models.Pago, error) {
	var p models.Pago
	err := r.db.WithContext(ctx).
		Preload("TipoPago").
		Preload("Pedido.Cliente").
		First(&p, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *pagoRepo) List(ctx context.Context) ([]models.Pago, error) {
	var pagos []models.Pago
	err := r.db.WithContext(ctx).
		Preload("TipoPago").
		Preload("Pedido").
		Order("fecha DESC").
		Find(&pagos).Error
	return pagos, err
}

func (r *pagoRepo) SaveTx(tx *gorm.DB, p *models.Pago) error {
	return tx.Omit("TipoPago", "Pedido").Save(p).Error
}

func (r *pagoRepo) DeleteTx(tx *gorm.DB, id uint) error {
	return tx.Delete(&models.Pago{}, "id = ?", id).Error
}

func (r *pagoRepo) DeleteByPedidoTx(tx *gorm.DB, nroPedido uint) error {
	return tx.Delete(&models.Pago{}, "pedido_id = ?", nroPedido).Error
}

func (r *pagoRepo) DB() *gorm.DB { return r.db }
