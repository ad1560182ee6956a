package entregas

import (
	"context"
	"testing"
	"time"

	"entregas-backend/internal/domain"
	"entregas-backend/internal/models"
	"entregas-backend/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type entregaRepoStub struct {
	entregas map[uint]*models.Entrega
	nextID   uint
}

func newEntregaRepoStub() *entregaRepoStub {
	return &entregaRepoStub{entregas: map[uint]*models.Entrega{}}
}

func (s *entregaRepoStub) CreateTx(_ *gorm.DB, e *models.Entrega) error {
	s.nextID++
	e.ID = s.nextID
	copia := *e
	s.entregas[e.ID] = &copia
	return nil
}

func (s *entregaRepoStub) FindByID(_ context.Context, id uint) (*models.Entrega, error) {
	e, ok := s.entregas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *e
	return &copia, nil
}

func (s *entregaRepoStub) List(_ context.Context) ([]models.Entrega, error) {
	var out []models.Entrega
	for _, e := range s.entregas {
		out = append(out, *e)
	}
	return out, nil
}

func (s *entregaRepoStub) ListByFilters(ctx context.Context, _ repository.EntregaFilter) ([]models.Entrega, error) {
	return s.List(ctx)
}

func (s *entregaRepoStub) ListByCliente(ctx context.Context, _ uint) ([]models.Entrega, error) {
	return s.List(ctx)
}

func (s *entregaRepoStub) SaveTx(_ *gorm.DB, e *models.Entrega) error {
	copia := *e
	s.entregas[e.ID] = &copia
	return nil
}

func (s *entregaRepoStub) DeleteTx(_ *gorm.DB, id uint) error {
	delete(s.entregas, id)
	return nil
}

func (s *entregaRepoStub) DB() *gorm.DB { return nil }

type pedidoRepoStub struct {
	pedidos map[uint]*models.Pedido
}

func newPedidoRepoStub(pedidos ...*models.Pedido) *pedidoRepoStub {
	s := &pedidoRepoStub{pedidos: map[uint]*models.Pedido{}}
	for _, p := range pedidos {
		s.pedidos[p.NroPedido] = p
	}
	return s
}

func (s *pedidoRepoStub) CreateTx(_ *gorm.DB, p *models.Pedido) error {
	s.pedidos[p.NroPedido] = p
	return nil
}

func (s *pedidoRepoStub) FindByNro(_ context.Context, nro uint) (*models.Pedido, error) {
	p, ok := s.pedidos[nro]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *p
	return &copia, nil
}

func (s *pedidoRepoStub) FindByNros(_ context.Context, nros []uint) ([]models.Pedido, error) {
	var out []models.Pedido
	for _, nro := range nros {
		if p, ok := s.pedidos[nro]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (s *pedidoRepoStub) List(_ context.Context) ([]models.Pedido, error)        { return nil, nil }
func (s *pedidoRepoStub) ListSinPago(_ context.Context) ([]models.Pedido, error) { return nil, nil }
func (s *pedidoRepoStub) ListPagosSinEntrega(_ context.Context) ([]models.Pedido, error) {
	return nil, nil
}
func (s *pedidoRepoStub) ListByCliente(_ context.Context, _ uint) ([]models.Pedido, error) {
	return nil, nil
}
func (s *pedidoRepoStub) ListImpagosByCliente(_ context.Context, _ uint) ([]models.Pedido, error) {
	return nil, nil
}
func (s *pedidoRepoStub) ListByFilters(_ context.Context, _ repository.PedidoFilter) ([]models.Pedido, error) {
	return nil, nil
}
func (s *pedidoRepoStub) SaveTx(_ *gorm.DB, _ *models.Pedido) error                 { return nil }
func (s *pedidoRepoStub) UpdateTotalTx(_ *gorm.DB, _ uint, _ decimal.Decimal) error { return nil }

func (s *pedidoRepoStub) SetEntregaTx(_ *gorm.DB, nro uint, entregaID *uint) error {
	if p, ok := s.pedidos[nro]; ok {
		p.EntregaID = entregaID
	}
	return nil
}

func (s *pedidoRepoStub) DetachEntregaTx(_ *gorm.DB, entregaID uint) error {
	for _, p := range s.pedidos {
		if p.EntregaID != nil && *p.EntregaID == entregaID {
			p.EntregaID = nil
		}
	}
	return nil
}

func (s *pedidoRepoStub) DeleteTx(_ *gorm.DB, nro uint) error {
	delete(s.pedidos, nro)
	return nil
}
func (s *pedidoRepoStub) FindLineaByID(_ context.Context, _ uint) (*models.LineaDeProducto, error) {
	return nil, gorm.ErrRecordNotFound
}
func (s *pedidoRepoStub) ListLineasByPedido(_ context.Context, _ uint) ([]models.LineaDeProducto, error) {
	return nil, nil
}
func (s *pedidoRepoStub) CreateLineaTx(_ *gorm.DB, _ *models.LineaDeProducto) error { return nil }
func (s *pedidoRepoStub) SaveLineaTx(_ *gorm.DB, _ *models.LineaDeProducto) error   { return nil }
func (s *pedidoRepoStub) DeleteLineaTx(_ *gorm.DB, _ uint) error                    { return nil }
func (s *pedidoRepoStub) DeleteLineasByPedidoTx(_ *gorm.DB, _ uint) error           { return nil }
func (s *pedidoRepoStub) DB() *gorm.DB                                              { return nil }

type repartidorRepoStub struct {
	repartidores map[uint]*models.Repartidor
}

func newRepartidorRepoStub(reps ...*models.Repartidor) *repartidorRepoStub {
	s := &repartidorRepoStub{repartidores: map[uint]*models.Repartidor{}}
	for _, r := range reps {
		s.repartidores[r.ID] = r
	}
	return s
}

func (s *repartidorRepoStub) Create(_ context.Context, r *models.Repartidor) error {
	s.repartidores[r.ID] = r
	return nil
}

func (s *repartidorRepoStub) FindByID(_ context.Context, id uint) (*models.Repartidor, error) {
	r, ok := s.repartidores[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return r, nil
}

func (s *repartidorRepoStub) List(_ context.Context) ([]models.Repartidor, error) { return nil, nil }
func (s *repartidorRepoStub) ListActivos(_ context.Context) ([]models.Repartidor, error) {
	return nil, nil
}
func (s *repartidorRepoStub) Update(_ context.Context, r *models.Repartidor) error { return nil }
func (s *repartidorRepoStub) SoftDelete(_ context.Context, id uint) error          { return nil }

type zonaRepoStub struct {
	zonas map[uint]*models.Zona
}

func newZonaRepoStub(zonas ...*models.Zona) *zonaRepoStub {
	s := &zonaRepoStub{zonas: map[uint]*models.Zona{}}
	for _, z := range zonas {
		s.zonas[z.ID] = z
	}
	return s
}

func (s *zonaRepoStub) Create(_ context.Context, z *models.Zona) error {
	s.zonas[z.ID] = z
	return nil
}

func (s *zonaRepoStub) FindByID(_ context.Context, id uint) (*models.Zona, error) {
	z, ok := s.zonas[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return z, nil
}

func (s *zonaRepoStub) List(_ context.Context) ([]models.Zona, error)        { return nil, nil }
func (s *zonaRepoStub) ListActivas(_ context.Context) ([]models.Zona, error) { return nil, nil }
func (s *zonaRepoStub) Update(_ context.Context, z *models.Zona) error       { return nil }
func (s *zonaRepoStub) SoftDelete(_ context.Context, id uint) error          { return nil }

// --- fixtures ---

func dia(d int) time.Time {
	return time.Date(2026, time.March, d, 10, 0, 0, 0, time.UTC)
}

func pedidoPago(nro uint, fechaPedido time.Time, zonaID uint) *models.Pedido {
	zid := zonaID
	return &models.Pedido{
		NroPedido: nro,
		Fecha:     fechaPedido,
		ClienteID: 1,
		Total:     decimal.NewFromInt(100),
		Cliente:   &models.Cliente{ID: 1, ApellidoNombre: "García, Ana", ZonaID: &zid},
		Pago:      &models.Pago{ID: nro, Fecha: fechaPedido, PedidoID: nro},
	}
}

func pedidoImpago(nro uint, fechaPedido time.Time, zonaID uint) *models.Pedido {
	p := pedidoPago(nro, fechaPedido, zonaID)
	p.Pago = nil
	return p
}

type fixture struct {
	svc      *Service
	entregas *entregaRepoStub
	pedidos  *pedidoRepoStub
}

func newFixture(pedidos ...*models.Pedido) *fixture {
	entregaRepo := newEntregaRepoStub()
	pedidoRepo := newPedidoRepoStub(pedidos...)
	zonaRepo := newZonaRepoStub(
		&models.Zona{ID: 1, Nombre: "Centro", Disponible: true},
		&models.Zona{ID: 2, Nombre: "Norte", Disponible: true},
	)
	repartidorRepo := newRepartidorRepoStub(
		&models.Repartidor{ID: 1, ApellidoNombre: "Pérez, Juan", ZonaID: 1, Disponible: true},
		&models.Repartidor{ID: 2, ApellidoNombre: "Sosa, Marta", ZonaID: 2, Disponible: true},
	)

	return &fixture{
		svc:      NewService(entregaRepo, pedidoRepo, repartidorRepo, zonaRepo, nil),
		entregas: entregaRepo,
		pedidos:  pedidoRepo,
	}
}

// --- tests ---

func TestCrearEntregaAsignaTodosLosPedidos(t *testing.T) {
	f := newFixture(pedidoPago(1, dia(1), 1), pedidoPago(2, dia(2), 1))
	fechaEntrega := dia(5)

	entrega, err := f.svc.Crear(context.Background(), EntregaInput{
		Fecha:        &fechaEntrega,
		RepartidorID: 1,
		ZonaID:       1,
		PedidoNros:   []uint{1, 2},
	})
	require.NoError(t, err)

	for _, nro := range []uint{1, 2} {
		p, err := f.pedidos.FindByNro(context.Background(), nro)
		require.NoError(t, err)
		require.NotNil(t, p.EntregaID)
		assert.Equal(t, entrega.ID, *p.EntregaID)
	}
}

func TestCrearEntregaRepartidorDeOtraZona(t *testing.T) {
	f := newFixture(pedidoPago(1, dia(1), 1))
	fechaEntrega := dia(5)

	_, err := f.svc.Crear(context.Background(), EntregaInput{
		Fecha:        &fechaEntrega,
		RepartidorID: 2, // pertenece a la zona 2
		ZonaID:       1,
		PedidoNros:   []uint{1},
	})
	var verr *domain.ValidacionError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Mensaje, "repartidor")
}

func TestCrearEntregaPedidoImpagoNoEscribeNada(t *testing.T) {
	f := newFixture(
		pedidoPago(1, dia(1), 1),
		pedidoPago(2, dia(1), 1),
		pedidoImpago(3, dia(1), 1),
	)
	fechaEntrega := dia(5)

	_, err := f.svc.Crear(context.Background(), EntregaInput{
		Fecha:        &fechaEntrega,
		RepartidorID: 1,
		ZonaID:       1,
		PedidoNros:   []uint{1, 2, 3},
	})
	var verr *domain.ValidacionError
	require.ErrorAs(t, err, &verr)

	// Ningún pedido quedó asignado y no se creó la entrega.
	assert.Empty(t, f.entregas.entregas)
	for _, nro := range []uint{1, 2, 3} {
		p, _ := f.pedidos.FindByNro(context.Background(), nro)
		assert.Nil(t, p.EntregaID)
	}
}

func TestCrearEntregaFechaAnteriorAlPedido(t *testing.T) {
	f := newFixture(pedidoPago(1, dia(10), 1))
	fechaEntrega := dia(8)

	_, err := f.svc.Crear(context.Background(), EntregaInput{
		Fecha:        &fechaEntrega,
		RepartidorID: 1,
		ZonaID:       1,
		PedidoNros:   []uint{1},
	})
	var verr *domain.ValidacionError
	assert.ErrorAs(t, err, &verr)
}

func TestCrearEntregaPedidoDeOtraZona(t *testing.T) {
	f := newFixture(pedidoPago(1, dia(1), 2))
	fechaEntrega := dia(5)

	_, err := f.svc.Crear(context.Background(), EntregaInput{
		Fecha:        &fechaEntrega,
		RepartidorID: 1,
		ZonaID:       1,
		PedidoNros:   []uint{1},
	})
	var verr *domain.ValidacionError
	assert.ErrorAs(t, err, &verr)
}

func TestCrearEntregaPedidoInexistente(t *testing.T) {
	f := newFixture(pedidoPago(1, dia(1), 1))
	fechaEntrega := dia(5)

	_, err := f.svc.Crear(context.Background(), EntregaInput{
		Fecha:        &fechaEntrega,
		RepartidorID: 1,
		ZonaID:       1,
		PedidoNros:   []uint{1, 99},
	})
	var nerr *domain.NoEncontradoError
	assert.ErrorAs(t, err, &nerr)
}

func TestCrearEntregaPedidoYaAsignado(t *testing.T) {
	f := newFixture(pedidoPago(1, dia(1), 1), pedidoPago(2, dia(1), 1))
	fechaEntrega := dia(5)

	_, err := f.svc.Crear(context.Background(), EntregaInput{
		Fecha: &fechaEntrega, RepartidorID: 1, ZonaID: 1, PedidoNros: []uint{1},
	})
	require.NoError(t, err)

	_, err = f.svc.Crear(context.Background(), EntregaInput{
		Fecha: &fechaEntrega, RepartidorID: 1, ZonaID: 1, PedidoNros: []uint{1, 2},
	})
	var verr *domain.ValidacionError
	assert.ErrorAs(t, err, &verr)
}

func TestCrearEntregaSinPedidos(t *testing.T) {
	f := newFixture()
	fechaEntrega := dia(5)

	// El reparto se puede armar vacío y asignarle pedidos después.
	entrega, err := f.svc.Crear(context.Background(), EntregaInput{
		Fecha:        &fechaEntrega,
		RepartidorID: 1,
		ZonaID:       1,
	})
	require.NoError(t, err)
	assert.Empty(t, entrega.Pedidos)
}

func TestActualizarEntregaConListaVaciaDesasociaTodo(t *testing.T) {
	f := newFixture(pedidoPago(1, dia(1), 1), pedidoPago(2, dia(1), 1))
	fechaEntrega := dia(5)

	entrega, err := f.svc.Crear(context.Background(), EntregaInput{
		Fecha: &fechaEntrega, RepartidorID: 1, ZonaID: 1, PedidoNros: []uint{1, 2},
	})
	require.NoError(t, err)

	_, err = f.svc.Actualizar(context.Background(), entrega.ID, EntregaInput{
		Fecha: &fechaEntrega, RepartidorID: 1, ZonaID: 1,
	})
	require.NoError(t, err)

	// La entrega sigue existiendo pero sin pedidos asociados.
	_, err = f.svc.Buscar(context.Background(), entrega.ID)
	require.NoError(t, err)
	for _, nro := range []uint{1, 2} {
		p, _ := f.pedidos.FindByNro(context.Background(), nro)
		assert.Nil(t, p.EntregaID)
	}
}

func TestActualizarEntregaReemplazaElConjunto(t *testing.T) {
	f := newFixture(pedidoPago(1, dia(1), 1), pedidoPago(2, dia(1), 1), pedidoPago(3, dia(1), 1))
	fechaEntrega := dia(5)

	entrega, err := f.svc.Crear(context.Background(), EntregaInput{
		Fecha: &fechaEntrega, RepartidorID: 1, ZonaID: 1, PedidoNros: []uint{1, 2},
	})
	require.NoError(t, err)

	// El pedido 2 sigue en la entrega (no cuenta como "ya asignado") y el 1 sale.
	_, err = f.svc.Actualizar(context.Background(), entrega.ID, EntregaInput{
		Fecha: &fechaEntrega, RepartidorID: 1, ZonaID: 1, PedidoNros: []uint{2, 3},
	})
	require.NoError(t, err)

	p1, _ := f.pedidos.FindByNro(context.Background(), 1)
	p2, _ := f.pedidos.FindByNro(context.Background(), 2)
	p3, _ := f.pedidos.FindByNro(context.Background(), 3)
	assert.Nil(t, p1.EntregaID)
	require.NotNil(t, p2.EntregaID)
	require.NotNil(t, p3.EntregaID)
	assert.Equal(t, entrega.ID, *p2.EntregaID)
	assert.Equal(t, entrega.ID, *p3.EntregaID)
}

func TestEliminarEntregaDesasociaSinBorrarPedidos(t *testing.T) {
	f := newFixture(pedidoPago(1, dia(1), 1))
	fechaEntrega := dia(5)

	entrega, err := f.svc.Crear(context.Background(), EntregaInput{
		Fecha: &fechaEntrega, RepartidorID: 1, ZonaID: 1, PedidoNros: []uint{1},
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.Eliminar(context.Background(), entrega.ID))

	p, err := f.pedidos.FindByNro(context.Background(), 1)
	require.NoError(t, err, "el pedido debe sobrevivir a la baja de la entrega")
	assert.Nil(t, p.EntregaID)
}
