package repository

import (
	"context"
	"time"

	"entregas-backend/internal/models"

	"gorm.io/gorm"
)

type EntregaFilter struct {
	FechaDesde *time.Time
	FechaHasta *time.Time
	ClienteID  *uint
}

type EntregaRepository interface {
	CreateTx(tx *gorm.DB, e *models.Entrega) error
	FindByID(ctx context.Context, id uint) (*models.Entrega, error)
	List(ctx context.Context) ([]models.Entrega, error)
	ListByFilters(ctx context.Context, filter EntregaFilter) ([]models.Entrega, error)
	ListByCliente(ctx context.Context, clienteID uint) ([]models.Entrega, error)
	SaveTx(tx *gorm.DB, e *models.Entrega) error
	DeleteTx(tx *gorm.DB, id uint) error
	DB() *gorm.DB
}

type entregaRepo struct{ db *gorm.DB }

func NewEntregaRepository(db *gorm.DB) EntregaRepository { return &entregaRepo{db: db} }

func entregaPreloads(q *gorm.DB) *gorm.DB {
	return q.Preload("Repartidor.Zona").
		Preload("Zona").
		Preload("Pedidos.Cliente.Zona")
}

func (r *entregaRepo) CreateTx(tx *gorm.DB, e *models.Entrega) error {
	return tx.Omit("Repartidor", "Zona", "Pedidos").Create(e).Error
}

func (r *entregaRepo) FindByID(ctx context.Context, id uint) (*models.Entrega, error) {
	var e models.Entrega
	err := entregaPreloads(r.db.WithContext(ctx)).First(&e, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *entregaRepo) List(ctx context.Context) ([]models.Entrega, error) {
	var entregas []models.Entrega
	err := entregaPreloads(r.db.WithContext(ctx)).Order("fecha DESC").Find(&entregas).Error
	return entregas, err
}

func (r *entregaRepo) ListByFilters(ctx context.Context, filter EntregaFilter) ([]models.Entrega, error) {
	q := entregaPreloads(r.db.WithContext(ctx))
	if filter.FechaDesde != nil {
		q = q.Where("entregas.fecha >= ?", *filter.FechaDesde)
	}
	if filter.FechaHasta != nil {
		q = q.Where("entregas.fecha <= ?", *filter.FechaHasta)
	}
	if filter.ClienteID != nil {
		q = q.Joins("JOIN pedidos ON pedidos.entrega_id = entregas.id").
			Where("pedidos.cliente_id = ?", *filter.ClienteID).
			Distinct("entregas.*")
	}
	var entregas []models.Entrega
	err := q.Order("fecha DESC").Find(&entregas).Error
	return entregas, err
}

func (r *entregaRepo) ListByCliente(ctx context.Context, clienteID uint) ([]models.Entrega, error) {
	return r.ListByFilters(ctx, EntregaFilter{ClienteID: &clienteID})
}

func (r *entregaRepo) SaveTx(tx *gorm.DB, e *models.Entrega) error {
	return tx.Omit("Repartidor", "Zona", "Pedidos").Save(e).Error
}

func (r *entregaRepo) DeleteTx(tx *gorm.DB, id uint) error {
	return tx.Delete(&models.Entrega{}, "id = ?", id).Error
}

func (r *entregaRepo) DB() *gorm.DB { return r.db }
