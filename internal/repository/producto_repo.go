package repository

import (
	"context"
	"errors"

	"entregas-backend/internal/models"

	"gorm.io/gorm"
)

// ErrStockInsuficiente lo devuelve DescontarStockTx cuando el UPDATE condicional
// no afecta filas: el stock disponible es menor que la cantidad pedida.
var ErrStockInsuficiente = errors.New("stock insuficiente")

type ProductoRepository interface {
	Create(ctx context.Context, p *models.Producto) error
	FindByCodigo(ctx context.Context, codigo uint) (*models.Producto, error)
	List(ctx context.Context) ([]models.Producto, error)
	ListActivos(ctx context.Context) ([]models.Producto, error)
	Update(ctx context.Context, p *models.Producto) error
	SoftDelete(ctx context.Context, codigo uint) error

	// DescontarStockTx aplica `stock = stock - cantidad` solo si stock >= cantidad.
	// Es la guarda contra sobreventa: dos reservas concurrentes sobre el mismo
	// producto nunca pasan las dos el chequeo de capacidad.
	DescontarStockTx(tx *gorm.DB, codigo uint, cantidad int) error
	// ReponerStockTx devuelve cantidad al stock (liberación, siempre válida).
	ReponerStockTx(tx *gorm.DB, codigo uint, cantidad int) error

	DB() *gorm.DB
}

type productoRepo struct{ db *gorm.DB }

func NewProductoRepository(db *gorm.DB) ProductoRepository { return &productoRepo{db: db} }

func (r *productoRepo) Create(ctx context.Context, p *models.Producto) error {
	return r.db.WithContext(ctx).Omit("TipoProducto", "Lineas").Create(p).Error
}

func (r *productoRepo) FindByCodigo(ctx context.Context, codigo uint) (*models.Producto, error) {
	var p models.Producto
	err := r.db.WithContext(ctx).Preload("TipoProducto").First(&p, "codigo = ?", codigo).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productoRepo) List(ctx context.Context) ([]models.Producto, error) {
	var productos []models.Producto
	err := r.db.WithContext(ctx).Preload("TipoProducto").Order("codigo ASC").Find(&productos).Error
	return productos, err
}

func (r *productoRepo) ListActivos(ctx context.Context) ([]models.Producto, error) {
	var productos []models.Producto
	err := r.db.WithContext(ctx).Preload("TipoProducto").
		Where("disponible = true").Order("codigo ASC").Find(&productos).Error
	return productos, err
}

func (r *productoRepo) Update(ctx context.Context, p *models.Producto) error {
	return r.db.WithContext(ctx).Omit("TipoProducto", "Lineas").Save(p).Error
}

func (r *productoRepo) SoftDelete(ctx context.Context, codigo uint) error {
	return r.db.WithContext(ctx).Model(&models.Producto{}).
		Where("codigo = ?", codigo).Update("disponible", false).Error
}

func (r *productoRepo) DescontarStockTx(tx *gorm.DB, codigo uint, cantidad int) error {
	res := tx.Model(&models.Producto{}).
		Where("codigo = ? AND stock >= ?", codigo, cantidad).
		Update("stock", gorm.Expr("stock - ?", cantidad))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStockInsuficiente
	}
	return nil
}

func (r *productoRepo) ReponerStockTx(tx *gorm.DB, codigo uint, cantidad int) error {
	return tx.Model(&models.Producto{}).
		Where("codigo = ?", codigo).
		Update("stock", gorm.Expr("stock + ?", cantidad)).Error
}

func (r *productoRepo) DB() *gorm.DB { return r.db }
