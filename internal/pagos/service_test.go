package pagos

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

type pagoRepoStub struct {
	pagos  map[uint]*models.Pago
	nextID uint
}

func newPagoRepoStub() *pagoRepoStub { return &pagoRepoStub{pagos: map[uint]*models.Pago{}} }

func (s *pagoRepoStub) CreateTx(_ *gorm.DB, p *models.Pago) error {
	s.nextID++
	p.ID = s.nextID
	copia := *p
	s.pagos[p.ID] = &copia
	return nil
}

func (s *pagoRepoStub) FindByID(_ context.Context, id uint) (*models.Pago, error) {
	p, ok := s.pagos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copia := *p
	return &copia, nil
}

func (s *pagoRepoStub) List(_ context.Context) ([]models.Pago, error) {
	var out []models.Pago
	for _, p := range s.pagos {
		out = append(out, *p)
	}
	return out, nil
}

func (s *pagoRepoStub) SaveTx(_ *gorm.DB, p *models.Pago) error {
	copia := *p
	s.pagos[p.ID] = &copia
	return nil
}

func (s *pagoRepoStub) DeleteTx(_ *gorm.DB, id uint) error {
	delete(s.pagos, id)
	return nil
}

func (s *pagoRepoStub) DeleteByPedidoTx(_ *gorm.DB, nroPedido uint) error {
	for id, p := range s.pagos {
		if p.PedidoID == nroPedido {
			delete(s.pagos, id)
		}
	}
	return nil
}

func (s *pagoRepoStub) DB() *gorm.DB { return nil }

func (s *pagoRepoStub) pagoDePedido(nro uint) *models.Pago {
	for _, p := range s.pagos {
		if p.PedidoID == nro {
			copia := *p
			return &copia
		}
	}
	return nil
}

// pedidoRepoStub deriva Pedido.Pago del estado del stub de pagos, igual que
// el preload de GORM lo deriva de la FK.
type pedidoRepoStub struct {
	pedidos map[uint]*models.Pedido
	pagos   *pagoRepoStub
}

func newPedidoRepoStub(pagos *pagoRepoStub, pedidos ...*models.Pedido) *pedidoRepoStub {
	s := &pedidoRepoStub{pedidos: map[uint]*models.Pedido{}, pagos: pagos}
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
	copia.Pago = s.pagos.pagoDePedido(nro)
	return &copia, nil
}

func (s *pedidoRepoStub) FindByNros(_ context.Context, nros []uint) ([]models.Pedido, error) {
	return nil, nil
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
func (s *pedidoRepoStub) SaveTx(_ *gorm.DB, p *models.Pedido) error                 { return nil }
func (s *pedidoRepoStub) UpdateTotalTx(_ *gorm.DB, _ uint, _ decimal.Decimal) error { return nil }
func (s *pedidoRepoStub) SetEntregaTx(_ *gorm.DB, _ uint, _ *uint) error            { return nil }
func (s *pedidoRepoStub) DetachEntregaTx(_ *gorm.DB, _ uint) error                  { return nil }
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

type tipoPagoRepoStub struct {
	tipos  map[uint]*models.TipoPago
	nextID uint
}

func newTipoPagoRepoStub(tipos ...*models.TipoPago) *tipoPagoRepoStub {
	s := &tipoPagoRepoStub{tipos: map[uint]*models.TipoPago{}}
	for _, t := range tipos {
		s.tipos[t.ID] = t
		if t.ID > s.nextID {
			s.nextID = t.ID
		}
	}
	return s
}

func (s *tipoPagoRepoStub) Create(_ context.Context, t *models.TipoPago) error {
	s.nextID++
	t.ID = s.nextID
	s.tipos[t.ID] = t
	return nil
}

func (s *tipoPagoRepoStub) CreateTx(_ *gorm.DB, t *models.TipoPago) error {
	return s.Create(context.Background(), t)
}

func (s *tipoPagoRepoStub) FindByID(_ context.Context, id uint) (*models.TipoPago, error) {
	t, ok := s.tipos[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return t, nil
}

func (s *tipoPagoRepoStub) List(_ context.Context) ([]models.TipoPago, error)        { return nil, nil }
func (s *tipoPagoRepoStub) ListActivos(_ context.Context) ([]models.TipoPago, error) { return nil, nil }
func (s *tipoPagoRepoStub) Update(_ context.Context, t *models.TipoPago) error       { return nil }
func (s *tipoPagoRepoStub) SoftDelete(_ context.Context, id uint) error              { return nil }

func fecha(y int, m time.Month, d, hora int) time.Time {
	return time.Date(y, m, d, hora, 0, 0, 0, time.UTC)
}

type fixture struct {
	svc     *Service
	pagos   *pagoRepoStub
	pedidos *pedidoRepoStub
	tipos   *tipoPagoRepoStub
}

func newFixture(pedidos ...*models.Pedido) *fixture {
	pagoRepo := newPagoRepoStub()
	pedidoRepo := newPedidoRepoStub(pagoRepo, pedidos...)
	tipoRepo := newTipoPagoRepoStub(&models.TipoPago{ID: 1, Nombre: "Efectivo", Disponible: true})
	return &fixture{
		svc:     NewService(pagoRepo, pedidoRepo, tipoRepo, nil),
		pagos:   pagoRepo,
		pedidos: pedidoRepo,
		tipos:   tipoRepo,
	}
}

func pedidoDel(nro uint, f time.Time) *models.Pedido {
	return &models.Pedido{NroPedido: nro, Fecha: f, ClienteID: 1, Total: decimal.NewFromInt(100)}
}

func TestCrearPagoGeneraComprobanteUnico(t *testing.T) {
	f := newFixture(pedidoDel(1, fecha(2026, time.February, 10, 9)))
	fpago := fecha(2026, time.February, 12, 15)

	pago, err := f.svc.Crear(context.Background(), CrearPagoInput{
		Fecha:    &fpago,
		PedidoID: 1,
		TipoPago: TipoPagoInput{ID: 1},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, pago.Comprobante)
	assert.Equal(t, uint(1), pago.PedidoID)

	pedido, err := f.pedidos.FindByNro(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, pedido.Pago)
	assert.Equal(t, pago.ID, pedido.Pago.ID)
}

func TestCrearPagoPedidoInexistente(t *testing.T) {
	f := newFixture()

	_, err := f.svc.Crear(context.Background(), CrearPagoInput{PedidoID: 99, TipoPago: TipoPagoInput{ID: 1}})
	var nerr *domain.NoEncontradoError
	assert.ErrorAs(t, err, &nerr)
}

func TestCrearPagoPedidoYaPagado(t *testing.T) {
	f := newFixture(pedidoDel(1, fecha(2026, time.February, 10, 9)))

	_, err := f.svc.Crear(context.Background(), CrearPagoInput{PedidoID: 1, TipoPago: TipoPagoInput{ID: 1}})
	require.NoError(t, err)

	_, err = f.svc.Crear(context.Background(), CrearPagoInput{PedidoID: 1, TipoPago: TipoPagoInput{ID: 1}})
	var verr *domain.ValidacionError
	assert.ErrorAs(t, err, &verr)
}

func TestCrearPagoFechaAnteriorAlPedido(t *testing.T) {
	f := newFixture(pedidoDel(1, fecha(2026, time.February, 10, 9)))

	anterior := fecha(2026, time.February, 9, 18)
	_, err := f.svc.Crear(context.Background(), CrearPagoInput{
		Fecha:    &anterior,
		PedidoID: 1,
		TipoPago: TipoPagoInput{ID: 1},
	})
	var verr *domain.ValidacionError
	require.ErrorAs(t, err, &verr)

	// Mismo día pero hora anterior: la comparación es por día, no por instante.
	mismoDia := fecha(2026, time.February, 10, 7)
	_, err = f.svc.Crear(context.Background(), CrearPagoInput{
		Fecha:    &mismoDia,
		PedidoID: 1,
		TipoPago: TipoPagoInput{ID: 1},
	})
	assert.NoError(t, err)
}

func TestCrearPagoConTipoInline(t *testing.T) {
	f := newFixture(pedidoDel(1, fecha(2026, time.February, 10, 9)))

	pago, err := f.svc.Crear(context.Background(), CrearPagoInput{
		PedidoID: 1,
		TipoPago: TipoPagoInput{Nombre: "Transferencia", Descripcion: "CBU alias"},
	})
	require.NoError(t, err)

	tipo, err := f.tipos.FindByID(context.Background(), pago.TipoPagoID)
	require.NoError(t, err)
	assert.Equal(t, "Transferencia", tipo.Nombre)
}

func TestReasignarPagoDejaPedidoAnteriorImpago(t *testing.T) {
	f := newFixture(
		pedidoDel(1, fecha(2026, time.February, 10, 9)),
		pedidoDel(2, fecha(2026, time.February, 11, 9)),
	)

	pago, err := f.svc.Crear(context.Background(), CrearPagoInput{PedidoID: 1, TipoPago: TipoPagoInput{ID: 1}})
	require.NoError(t, err)

	nuevo := uint(2)
	_, err = f.svc.Actualizar(context.Background(), pago.ID, ActualizarPagoInput{PedidoID: &nuevo})
	require.NoError(t, err)

	p1, _ := f.pedidos.FindByNro(context.Background(), 1)
	p2, _ := f.pedidos.FindByNro(context.Background(), 2)
	assert.Nil(t, p1.Pago)
	require.NotNil(t, p2.Pago)
	assert.Equal(t, pago.ID, p2.Pago.ID)
}

func TestReasignarPagoAPedidoYaPagadoFalla(t *testing.T) {
	f := newFixture(
		pedidoDel(1, fecha(2026, time.February, 10, 9)),
		pedidoDel(2, fecha(2026, time.February, 10, 9)),
	)

	pago1, err := f.svc.Crear(context.Background(), CrearPagoInput{PedidoID: 1, TipoPago: TipoPagoInput{ID: 1}})
	require.NoError(t, err)
	_, err = f.svc.Crear(context.Background(), CrearPagoInput{PedidoID: 2, TipoPago: TipoPagoInput{ID: 1}})
	require.NoError(t, err)

	destino := uint(2)
	_, err = f.svc.Actualizar(context.Background(), pago1.ID, ActualizarPagoInput{PedidoID: &destino})
	var verr *domain.ValidacionError
	assert.ErrorAs(t, err, &verr)
}

func TestEliminarPagoDejaPedidoImpago(t *testing.T) {
	f := newFixture(pedidoDel(1, fecha(2026, time.February, 10, 9)))

	pago, err := f.svc.Crear(context.Background(), CrearPagoInput{PedidoID: 1, TipoPago: TipoPagoInput{ID: 1}})
	require.NoError(t, err)

	require.NoError(t, f.svc.Eliminar(context.Background(), pago.ID))

	pedido, _ := f.pedidos.FindByNro(context.Background(), 1)
	assert.Nil(t, pedido.Pago)
}
