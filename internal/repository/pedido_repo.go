package repository

import (
	"context"
	"time"

	"entregas-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PedidoFilter struct {
	ClienteID   *uint
	FechaInicio *time.Time
	FechaFin    *time.Time
}

type PedidoRepository interface {
	CreateTx(tx *gorm.DB, p *models.Pedido) error
	FindByNro(ctx context.Context, nro uint) (*models.Pedido, error)
	FindByNros(ctx context.Context, nros []uint) ([]models.Pedido, error)
	List(ctx context.Context) ([]models.Pedido, error)
	ListSinPago(ctx context.Context) ([]models.Pedido, error)
	ListPagosSinEntrega(ctx context.Context) ([]models.Pedido, error)
	ListByCliente(ctx context.Context, clienteID uint) ([]models.Pedido, error)
	ListImpagosByCliente(ctx context.Context, clienteID uint) ([]models.Pedido, error)
	ListByFilters(ctx context.Context, filter PedidoFilter) ([]models.Pedido, error)
	SaveTx(tx *gorm.DB, p *models.Pedido) error
	UpdateTotalTx(tx *gorm.DB, nro uint, total decimal.Decimal) error
	SetEntregaTx(tx *gorm.DB, nro uint, entregaID *uint) error
	DetachEntregaTx(tx *gorm.DB, entregaID uint) error
	DeleteTx(tx *gorm.DB, nro uint) error

	// Líneas de producto: viven solo como hijas de un pedido.
	FindLineaByID(ctx context.Context, id uint) (*models.LineaDeProducto, error)
	ListLineasByPedido(ctx context.Context, nro uint) ([]models.LineaDeProducto, error)
	CreateLineaTx(tx *gorm.DB, l *models.LineaDeProducto) error
	SaveLineaTx(tx *gorm.DB, l *models.LineaDeProducto) error
	DeleteLineaTx(tx *gorm.DB, id uint) error
	DeleteLineasByPedidoTx(tx *gorm.DB, nro uint) error

	DB() *gorm.DB
}

type pedidoRepo struct{ db *gorm.DB }

func NewPedidoRepository(db *gorm.DB) PedidoRepository { return &pedidoRepo{db: db} }

func (r *pedidoRepo) CreateTx(tx *gorm.DB, p *models.Pedido) error {
	return tx.Omit("Cliente", "Entrega", "Pago", "Lineas.Producto").Create(p).Error
}

func pedidoPreloads(q *gorm.DB) *gorm.DB {
	return q.Preload("Cliente.Zona").
		Preload("Lineas.Producto").
		Preload("Pago.TipoPago").
		Preload("Entrega")
}

func (r *pedidoRepo) FindByNro(ctx context.Context, nro uint) (*models.Pedido, error) {
	var p models.Pedido
	err := pedidoPreloads(r.db.WithContext(ctx)).First(&p, "nro_pedido = ?", nro).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *pedidoRepo) FindByNros(ctx context.Context, nros []uint) ([]models.Pedido, error) {
	var pedidos []models.Pedido
	err := r.db.WithContext(ctx).
		Preload("Cliente.Zona").
		Preload("Pago").
		Where("nro_pedido IN ?", nros).
		Find(&pedidos).Error
	return pedidos, err
}

func (r *pedidoRepo) List(ctx context.Context) ([]models.Pedido, error) {
	var pedidos []models.Pedido
	err := pedidoPreloads(r.db.WithContext(ctx)).Order("nro_pedido ASC").Find(&pedidos).Error
	return pedidos, err
}

func (r *pedidoRepo) ListSinPago(ctx context.Context) ([]models.Pedido, error) {
	var pedidos []models.Pedido
	err := r.db.WithContext(ctx).
		Preload("Cliente").
		Where("nro_pedido NOT IN (?)", r.db.Model(&models.Pago{}).Select("pedido_id")).
		Order("nro_pedido ASC").
		Find(&pedidos).Error
	return pedidos, err
}

func (r *pedidoRepo) ListPagosSinEntrega(ctx context.Context) ([]models.Pedido, error) {
	var pedidos []models.Pedido
	err := r.db.WithContext(ctx).
		Preload("Cliente").
		Preload("Pago").
		Where("entrega_id IS NULL").
		Where("nro_pedido IN (?)", r.db.Model(&models.Pago{}).Select("pedido_id")).
		Order("nro_pedido ASC").
		Find(&pedidos).Error
	return pedidos, err
}

func (r *pedidoRepo) ListByCliente(ctx context.Context, clienteID uint) ([]models.Pedido, error) {
	var pedidos []models.Pedido
	err := pedidoPreloads(r.db.WithContext(ctx)).
		Where("cliente_id = ?", clienteID).
		Order("fecha DESC").
		Find(&pedidos).Error
	return pedidos, err
}

func (r *pedidoRepo) ListImpagosByCliente(ctx context.Context, clienteID uint) ([]models.Pedido, error) {
	var pedidos []models.Pedido
	err := r.db.WithContext(ctx).
		Preload("Lineas.Producto").
		Where("cliente_id = ?", clienteID).
		Where("nro_pedido NOT IN (?)", r.db.Model(&models.Pago{}).Select("pedido_id")).
		Order("fecha DESC").
		Find(&pedidos).Error
	return pedidos, err
}

func (r *pedidoRepo) ListByFilters(ctx context.Context, filter PedidoFilter) ([]models.Pedido, error) {
	q := pedidoPreloads(r.db.WithContext(ctx))
	if filter.ClienteID != nil {
		q = q.Where("cliente_id = ?", *filter.ClienteID)
	}
	if filter.FechaInicio != nil {
		q = q.Where("fecha >= ?", *filter.FechaInicio)
	}
	if filter.FechaFin != nil {
		q = q.Where("fecha <= ?", *filter.FechaFin)
	}
	var pedidos []models.Pedido
	err := q.Order("fecha DESC").Find(&pedidos).Error
	return pedidos, err
}

func (r *pedidoRepo) SaveTx(tx *gorm.DB, p *models.Pedido) error {
	return tx.Omit("Cliente", "Entrega", "Pago", "Lineas").Save(p).Error
}

func (r *pedidoRepo) UpdateTotalTx(tx *gorm.DB, nro uint, total decimal.Decimal) error {
	return tx.Model(&models.Pedido{}).Where("nro_pedido = ?", nro).Update("total", total).Error
}

func (r *pedidoRepo) SetEntregaTx(tx *gorm.DB, nro uint, entregaID *uint) error {
	return tx.Model(&models.Pedido{}).Where("nro_pedido = ?", nro).Update("entrega_id", entregaID).Error
}

func (r *pedidoRepo) DetachEntregaTx(tx *gorm.DB, entregaID uint) error {
	return tx.Model(&models.Pedido{}).Where("entrega_id = ?", entregaID).Update("entrega_id", nil).Error
}

func (r *pedidoRepo) DeleteTx(tx *gorm.DB, nro uint) error {
	return tx.Delete(&models.Pedido{}, "nro_pedido = ?", nro).Error
}

func (r *pedidoRepo) FindLineaByID(ctx context.Context, id uint) (*models.LineaDeProducto, error) {
	var l models.LineaDeProducto
	err := r.db.WithContext(ctx).Preload("Producto").First(&l, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *pedidoRepo) ListLineasByPedido(ctx context.Context, nro uint) ([]models.LineaDeProducto, error) {
	var lineas []models.LineaDeProducto
	err := r.db.WithContext(ctx).Preload("Producto").
		Where("pedido_id = ?", nro).Order("id ASC").Find(&lineas).Error
	return lineas, err
}

func (r *pedidoRepo) CreateLineaTx(tx *gorm.DB, l *models.LineaDeProducto) error {
	return tx.Omit("Pedido", "Producto").Create(l).Error
}

func (r *pedidoRepo) SaveLineaTx(tx *gorm.DB, l *models.LineaDeProducto) error {
	return tx.Omit("Pedido", "Producto").Save(l).Error
}

func (r *pedidoRepo) DeleteLineaTx(tx *gorm.DB, id uint) error {
	return tx.Delete(&models.LineaDeProducto{}, "id = ?", id).Error
}

func (r *pedidoRepo) DeleteLineasByPedidoTx(tx *gorm.DB, nro uint) error {
	return tx.Delete(&models.LineaDeProducto{}, "pedido_id = ?", nro).Error
}

func (r *pedidoRepo) DB() *gorm.DB { return r.db }
