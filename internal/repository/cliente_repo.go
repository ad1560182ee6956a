package repository

import (
	"context"

	"entregas-backend/internal/models"

	"gorm.io/gorm"
)

type ClienteRepository interface {
	Create(ctx context.Context, c *models.Cliente) error
	FindByID(ctx context.Context, id uint) (*models.Cliente, error)
	List(ctx context.Context) ([]models.Cliente, error)
	ListActivos(ctx context.Context) ([]models.Cliente, error)
	Update(ctx context.Context, c *models.Cliente) error
	SoftDelete(ctx context.Context, id uint) error
}

type clienteRepo struct{ db *gorm.DB }

func NewClienteRepository(db *gorm.DB) ClienteRepository { return &clienteRepo{db: db} }

func (r *clienteRepo) Create(ctx context.Context, c *models.Cliente) error {
	return r.db.WithContext(ctx).Omit("Zona", "Pedidos").Create(c).Error
}

func (r *clienteRepo) FindByID(ctx context.Context, id uint) (*models.Cliente, error) {
	var c models.Cliente
	err := r.db.WithContext(ctx).Preload("Zona").First(&c, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *clienteRepo) List(ctx context.Context) ([]models.Cliente, error) {
	var clientes []models.Cliente
	err := r.db.WithContext(ctx).Preload("Zona").Order("apellido_nombre ASC").Find(&clientes).Error
	return clientes, err
}

func (r *clienteRepo) ListActivos(ctx context.Context) ([]models.Cliente, error) {
	var clientes []models.Cliente
	err := r.db.WithContext(ctx).Preload("Zona").
		Where("disponible = true").Order("apellido_nombre ASC").Find(&clientes).Error
	return clientes, err
}

func (r *clienteRepo) Update(ctx context.Context, c *models.Cliente) error {
	return r.db.WithContext(ctx).Omit("Zona", "Pedidos").Save(c).Error
}

func (r *clienteRepo) SoftDelete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&models.Cliente{}).
		Where("id = ?", id).Update("disponible", false).Error
}
