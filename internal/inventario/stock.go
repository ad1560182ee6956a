// Package inventario administra el catálogo de productos y la regla central
// de stock: una reserva nunca puede dejar el stock negativo.
package inventario

import (
	"context"
	"errors"

	"entregas-backend/internal/domain"
	"entregas-backend/internal/models"
	"entregas-backend/internal/repository"

	"gorm.io/gorm"
)

type StockService struct {
	productos repository.ProductoRepository
	tipos     repository.TipoProductoRepository
}

func NewStockService(productos repository.ProductoRepository, tipos repository.TipoProductoRepository) *StockService {
	return &StockService{productos: productos, tipos: tipos}
}

// ReservarTx descuenta cantidad del stock dentro de la transacción dada.
// El UPDATE condicional del repositorio garantiza que dos reservas
// concurrentes no puedan sobrevender el mismo producto.
func (s *StockService) ReservarTx(tx *gorm.DB, codigo uint, cantidad int) error {
	if cantidad <= 0 {
		return domain.ErrCantidadInvalida()
	}
	err := s.productos.DescontarStockTx(tx, codigo, cantidad)
	if errors.Is(err, repository.ErrStockInsuficiente) {
		return domain.ErrStockInsuficiente(codigo)
	}
	return err
}

// LiberarTx devuelve cantidad al stock. Liberar nunca falla por capacidad.
func (s *StockService) LiberarTx(tx *gorm.DB, codigo uint, cantidad int) error {
	if cantidad <= 0 {
		return domain.ErrCantidadInvalida()
	}
	return s.productos.ReponerStockTx(tx, codigo, cantidad)
}

// AjustarStock aplica un delta manual (positivo o negativo) al stock de un
// producto. Los deltas negativos pasan por la misma guarda que las reservas.
func (s *StockService) AjustarStock(ctx context.Context, codigo uint, delta int) (*models.Producto, error) {
	if _, err := s.buscarProducto(ctx, codigo); err != nil {
		return nil, err
	}
	if delta == 0 {
		return s.buscarProducto(ctx, codigo)
	}

	err := repository.RunTx(ctx, s.productos.DB(), func(tx *gorm.DB) error {
		if delta > 0 {
			return s.productos.ReponerStockTx(tx, codigo, delta)
		}
		if err := s.productos.DescontarStockTx(tx, codigo, -delta); err != nil {
			if errors.Is(err, repository.ErrStockInsuficiente) {
				return domain.ErrStockInsuficiente(codigo)
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.buscarProducto(ctx, codigo)
}

func (s *StockService) CrearProducto(ctx context.Context, p *models.Producto) error {
	if p.Stock < 0 {
		return domain.ErrCantidadInvalida()
	}
	if _, err := s.tipos.FindByID(ctx, p.TipoProductoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrTipoProductoNoEncontrado(p.TipoProductoID)
		}
		return err
	}
	p.Disponible = true
	return s.productos.Create(ctx, p)
}

func (s *StockService) ActualizarProducto(ctx context.Context, p *models.Producto) error {
	existente, err := s.buscarProducto(ctx, p.Codigo)
	if err != nil {
		return err
	}
	if _, err := s.tipos.FindByID(ctx, p.TipoProductoID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrTipoProductoNoEncontrado(p.TipoProductoID)
		}
		return err
	}

	// El stock se toca solo vía reservas, liberaciones o ajustes explícitos.
	p.Stock = existente.Stock
	p.Disponible = existente.Disponible
	return s.productos.Update(ctx, p)
}

func (s *StockService) EliminarProducto(ctx context.Context, codigo uint) error {
	if _, err := s.buscarProducto(ctx, codigo); err != nil {
		return err
	}
	return s.productos.SoftDelete(ctx, codigo)
}

func (s *StockService) BuscarProducto(ctx context.Context, codigo uint) (*models.Producto, error) {
	return s.buscarProducto(ctx, codigo)
}

func (s *StockService) ListarProductos(ctx context.Context) ([]models.Producto, error) {
	return s.productos.List(ctx)
}

func (s *StockService) ListarProductosActivos(ctx context.Context) ([]models.Producto, error) {
	return s.productos.ListActivos(ctx)
}

func (s *StockService) buscarProducto(ctx context.Context, codigo uint) (*models.Producto, error) {
	p, err := s.productos.FindByCodigo(ctx, codigo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProductoNoEncontrado(codigo)
		}
		return nil, err
	}
	return p, nil
}
