// Package pedidos implementa el ciclo de vida de un pedido y sus líneas de
// producto. Toda mutación de líneas reserva o libera stock en la misma
// transacción que escribe el pedido.
package pedidos

import (
	"context"
	"errors"
	"strconv"
	"time"

	"entregas-backend/internal/domain"
	"entregas-backend/internal/events"
	"entregas-backend/internal/inventario"
	"entregas-backend/internal/models"
	"entregas-backend/internal/repository"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Service struct {
	pedidos   repository.PedidoRepository
	clientes  repository.ClienteRepository
	productos repository.ProductoRepository
	pagos     repository.PagoRepository
	stock     *inventario.StockService
	publisher *events.Publisher
}

func NewService(
	pedidos repository.PedidoRepository,
	clientes repository.ClienteRepository,
	productos repository.ProductoRepository,
	pagos repository.PagoRepository,
	stock *inventario.StockService,
	publisher *events.Publisher,
) *Service {
	return &Service{
		pedidos:   pedidos,
		clientes:  clientes,
		productos: productos,
		pagos:     pagos,
		stock:     stock,
		publisher: publisher,
	}
}

// LineaInput describe una línea entrante. Subtotal en nil significa "derivalo
// del precio vigente del producto".
type LineaInput struct {
	ID             uint             `json:"id"`
	ProductoCodigo uint             `json:"productoCodigo"`
	Cantidad       int              `json:"cantidad"`
	Subtotal       *decimal.Decimal `json:"subtotal"`
}

type CrearPedidoInput struct {
	Fecha     *time.Time   `json:"fecha"`
	ClienteID uint         `json:"clienteId"`
	Lineas    []LineaInput `json:"lineas"`
}

type ActualizarPedidoInput struct {
	Fecha     *time.Time   `json:"fecha"`
	ClienteID *uint        `json:"clienteId"`
	Lineas    []LineaInput `json:"lineas"`
}

func (s *Service) resolverCliente(ctx context.Context, id uint) (*models.Cliente, error) {
	c, err := s.clientes.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrClienteNoEncontrado(id)
		}
		return nil, err
	}
	return c, nil
}

func (s *Service) resolverProducto(ctx context.Context, codigo uint) (*models.Producto, error) {
	p, err := s.productos.FindByCodigo(ctx, codigo)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProductoNoEncontrado(codigo)
		}
		return nil, err
	}
	return p, nil
}

func subtotalDe(producto *models.Producto, cantidad int, dado *decimal.Decimal) decimal.Decimal {
	if dado != nil {
		return *dado
	}
	return producto.Precio.Mul(decimal.NewFromInt(int64(cantidad)))
}

func sumarSubtotales(lineas []models.LineaDeProducto) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lineas {
		total = total.Add(l.Subtotal)
	}
	return total
}

// Crear da de alta el pedido con sus líneas, reservando stock línea por línea.
// Si alguna reserva falla la transacción entera se revierte. Un pedido sin
// líneas es válido: queda con total cero hasta que se le agreguen.
func (s *Service) Crear(ctx context.Context, in CrearPedidoInput) (*models.Pedido, error) {
	if _, err := s.resolverCliente(ctx, in.ClienteID); err != nil {
		return nil, err
	}

	// Resolución previa: existencia de productos y precios vigentes.
	productos := make(map[uint]*models.Producto, len(in.Lineas))
	for _, li := range in.Lineas {
		if li.Cantidad <= 0 {
			return nil, domain.ErrCantidadInvalida()
		}
		if _, ok := productos[li.ProductoCodigo]; ok {
			continue
		}
		p, err := s.resolverProducto(ctx, li.ProductoCodigo)
		if err != nil {
			return nil, err
		}
		productos[li.ProductoCodigo] = p
	}

	fecha := time.Now()
	if in.Fecha != nil {
		fecha = *in.Fecha
	}

	pedido := &models.Pedido{Fecha: fecha, ClienteID: in.ClienteID, Total: decimal.Zero}

	err := repository.RunTx(ctx, s.pedidos.DB(), func(tx *gorm.DB) error {
		if err := s.pedidos.CreateTx(tx, pedido); err != nil {
			return err
		}
		for _, li := range in.Lineas {
			if err := s.stock.ReservarTx(tx, li.ProductoCodigo, li.Cantidad); err != nil {
				return err
			}
			linea := models.LineaDeProducto{
				PedidoID:       pedido.NroPedido,
				ProductoCodigo: li.ProductoCodigo,
				Cantidad:       li.Cantidad,
				Subtotal:       subtotalDe(productos[li.ProductoCodigo], li.Cantidad, li.Subtotal),
			}
			if err := s.pedidos.CreateLineaTx(tx, &linea); err != nil {
				return err
			}
			pedido.Lineas = append(pedido.Lineas, linea)
		}
		pedido.Total = sumarSubtotales(pedido.Lineas)
		return s.pedidos.UpdateTotalTx(tx, pedido.NroPedido, pedido.Total)
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publicar(ctx, events.TipoPedidoCreado, nroClave(pedido.NroPedido), eventoPedido(pedido))
	return pedido, nil
}

func nroClave(nro uint) string { return strconv.FormatUint(uint64(nro), 10) }

func eventoPedido(p *models.Pedido) map[string]any {
	return map[string]any{
		"nroPedido": p.NroPedido,
		"clienteId": p.ClienteID,
		"total":     p.Total,
		"fecha":     p.Fecha,
	}
}

// Actualizar modifica la cabecera y, si el cuerpo trae líneas, las reemplaza.
// Las líneas entrantes con ID se actualizan, las nuevas se crean y las
// ausentes se eliminan; cada cambio de cantidad o de producto ajusta el stock
// por la diferencia.
func (s *Service) Actualizar(ctx context.Context, nro uint, in ActualizarPedidoInput) (*models.Pedido, error) {
	pedido, err := s.Buscar(ctx, nro)
	if err != nil {
		return nil, err
	}
	if in.ClienteID != nil {
		if _, err := s.resolverCliente(ctx, *in.ClienteID); err != nil {
			return nil, err
		}
		pedido.ClienteID = *in.ClienteID
	}
	if in.Fecha != nil {
		pedido.Fecha = *in.Fecha
	}

	type cambioStock struct {
		codigo   uint
		cantidad int
		liberar  bool
	}
	var cambios []cambioStock
	var crear []models.LineaDeProducto
	var actualizar []models.LineaDeProducto
	var eliminar []models.LineaDeProducto

	// Un cuerpo sin "lineas" solo toca la cabecera: líneas, stock y total
	// quedan como están. Una lista vacía explícita sí reemplaza (y elimina)
	// el conjunto completo.
	if in.Lineas != nil {
		existentes := make(map[uint]models.LineaDeProducto, len(pedido.Lineas))
		for _, l := range pedido.Lineas {
			existentes[l.ID] = l
		}
		vistas := make(map[uint]bool, len(in.Lineas))

		for _, li := range in.Lineas {
			if li.Cantidad <= 0 {
				return nil, domain.ErrCantidadInvalida()
			}
			producto, err := s.resolverProducto(ctx, li.ProductoCodigo)
			if err != nil {
				return nil, err
			}

			if li.ID == 0 {
				cambios = append(cambios, cambioStock{codigo: li.ProductoCodigo, cantidad: li.Cantidad})
				crear = append(crear, models.LineaDeProducto{
					PedidoID:       nro,
					ProductoCodigo: li.ProductoCodigo,
					Cantidad:       li.Cantidad,
					Subtotal:       subtotalDe(producto, li.Cantidad, li.Subtotal),
				})
				continue
			}

			previa, ok := existentes[li.ID]
			if !ok {
				return nil, domain.ErrLineaNoEncontrada(li.ID)
			}
			vistas[li.ID] = true

			if previa.ProductoCodigo != li.ProductoCodigo {
				// Cambio de producto: se libera todo lo reservado del anterior y
				// se reserva la cantidad completa del nuevo.
				cambios = append(cambios, cambioStock{codigo: previa.ProductoCodigo, cantidad: previa.Cantidad, liberar: true})
				cambios = append(cambios, cambioStock{codigo: li.ProductoCodigo, cantidad: li.Cantidad})
			} else if delta := li.Cantidad - previa.Cantidad; delta > 0 {
				cambios = append(cambios, cambioStock{codigo: li.ProductoCodigo, cantidad: delta})
			} else if delta < 0 {
				cambios = append(cambios, cambioStock{codigo: li.ProductoCodigo, cantidad: -delta, liberar: true})
			}

			previa.ProductoCodigo = li.ProductoCodigo
			previa.Cantidad = li.Cantidad
			previa.Subtotal = subtotalDe(producto, li.Cantidad, li.Subtotal)
			previa.Producto = nil
			actualizar = append(actualizar, previa)
		}

		for id, l := range existentes {
			if !vistas[id] {
				cambios = append(cambios, cambioStock{codigo: l.ProductoCodigo, cantidad: l.Cantidad, liberar: true})
				eliminar = append(eliminar, l)
			}
		}

		finales := append(append([]models.LineaDeProducto{}, actualizar...), crear...)
		pedido.Total = sumarSubtotales(finales)
	}

	err = repository.RunTx(ctx, s.pedidos.DB(), func(tx *gorm.DB) error {
		for _, cs := range cambios {
			if cs.liberar {
				if err := s.stock.LiberarTx(tx, cs.codigo, cs.cantidad); err != nil {
					return err
				}
				continue
			}
			if err := s.stock.ReservarTx(tx, cs.codigo, cs.cantidad); err != nil {
				return err
			}
		}
		for i := range actualizar {
			if err := s.pedidos.SaveLineaTx(tx, &actualizar[i]); err != nil {
				return err
			}
		}
		for i := range crear {
			if err := s.pedidos.CreateLineaTx(tx, &crear[i]); err != nil {
				return err
			}
		}
		for _, l := range eliminar {
			if err := s.pedidos.DeleteLineaTx(tx, l.ID); err != nil {
				return err
			}
		}
		cabecera := *pedido
		cabecera.Lineas = nil
		cabecera.Pago = nil
		cabecera.Cliente = nil
		cabecera.Entrega = nil
		return s.pedidos.SaveTx(tx, &cabecera)
	})
	if err != nil {
		return nil, err
	}
	return s.Buscar(ctx, nro)
}

// Eliminar borra el pedido con sus líneas y su pago, devolviendo al stock
// todo lo reservado. Si estaba asignado a una entrega, queda desasociado.
func (s *Service) Eliminar(ctx context.Context, nro uint) error {
	pedido, err := s.Buscar(ctx, nro)
	if err != nil {
		return err
	}

	err = repository.RunTx(ctx, s.pedidos.DB(), func(tx *gorm.DB) error {
		for _, l := range pedido.Lineas {
			if err := s.stock.LiberarTx(tx, l.ProductoCodigo, l.Cantidad); err != nil {
				return err
			}
		}
		if err := s.pagos.DeleteByPedidoTx(tx, nro); err != nil {
			return err
		}
		if err := s.pedidos.DeleteLineasByPedidoTx(tx, nro); err != nil {
			return err
		}
		return s.pedidos.DeleteTx(tx, nro)
	})
	if err != nil {
		return err
	}

	s.publisher.Publicar(ctx, events.TipoPedidoEliminado, nroClave(nro), nil)
	return nil
}

// AgregarLinea suma una línea a un pedido existente y recalcula el total.
func (s *Service) AgregarLinea(ctx context.Context, nro uint, in LineaInput) (*models.Pedido, error) {
	pedido, err := s.Buscar(ctx, nro)
	if err != nil {
		return nil, err
	}
	if in.Cantidad <= 0 {
		return nil, domain.ErrCantidadInvalida()
	}
	producto, err := s.resolverProducto(ctx, in.ProductoCodigo)
	if err != nil {
		return nil, err
	}

	linea := models.LineaDeProducto{
		PedidoID:       nro,
		ProductoCodigo: in.ProductoCodigo,
		Cantidad:       in.Cantidad,
		Subtotal:       subtotalDe(producto, in.Cantidad, in.Subtotal),
	}
	nuevoTotal := pedido.Total.Add(linea.Subtotal)

	err = repository.RunTx(ctx, s.pedidos.DB(), func(tx *gorm.DB) error {
		if err := s.stock.ReservarTx(tx, in.ProductoCodigo, in.Cantidad); err != nil {
			return err
		}
		if err := s.pedidos.CreateLineaTx(tx, &linea); err != nil {
			return err
		}
		return s.pedidos.UpdateTotalTx(tx, nro, nuevoTotal)
	})
	if err != nil {
		return nil, err
	}
	return s.Buscar(ctx, nro)
}

// ActualizarLinea cambia cantidad o producto de una línea y ajusta stock por
// la diferencia.
func (s *Service) ActualizarLinea(ctx context.Context, nro, lineaID uint, in LineaInput) (*models.Pedido, error) {
	pedido, err := s.Buscar(ctx, nro)
	if err != nil {
		return nil, err
	}
	if in.Cantidad <= 0 {
		return nil, domain.ErrCantidadInvalida()
	}

	var previa *models.LineaDeProducto
	for i := range pedido.Lineas {
		if pedido.Lineas[i].ID == lineaID {
			previa = &pedido.Lineas[i]
			break
		}
	}
	if previa == nil {
		return nil, domain.ErrLineaNoEncontrada(lineaID)
	}

	producto, err := s.resolverProducto(ctx, in.ProductoCodigo)
	if err != nil {
		return nil, err
	}

	nueva := models.LineaDeProducto{
		ID:             lineaID,
		PedidoID:       nro,
		ProductoCodigo: in.ProductoCodigo,
		Cantidad:       in.Cantidad,
		Subtotal:       subtotalDe(producto, in.Cantidad, in.Subtotal),
	}
	nuevoTotal := pedido.Total.Sub(previa.Subtotal).Add(nueva.Subtotal)

	err = repository.RunTx(ctx, s.pedidos.DB(), func(tx *gorm.DB) error {
		if previa.ProductoCodigo != in.ProductoCodigo {
			if err := s.stock.LiberarTx(tx, previa.ProductoCodigo, previa.Cantidad); err != nil {
				return err
			}
			if err := s.stock.ReservarTx(tx, in.ProductoCodigo, in.Cantidad); err != nil {
				return err
			}
		} else if delta := in.Cantidad - previa.Cantidad; delta > 0 {
			if err := s.stock.ReservarTx(tx, in.ProductoCodigo, delta); err != nil {
				return err
			}
		} else if delta < 0 {
			if err := s.stock.LiberarTx(tx, in.ProductoCodigo, -delta); err != nil {
				return err
			}
		}
		if err := s.pedidos.SaveLineaTx(tx, &nueva); err != nil {
			return err
		}
		return s.pedidos.UpdateTotalTx(tx, nro, nuevoTotal)
	})
	if err != nil {
		return nil, err
	}
	return s.Buscar(ctx, nro)
}

// EliminarLinea saca la línea del pedido, libera su stock y recalcula el total.
func (s *Service) EliminarLinea(ctx context.Context, nro, lineaID uint) (*models.Pedido, error) {
	pedido, err := s.Buscar(ctx, nro)
	if err != nil {
		return nil, err
	}

	var linea *models.LineaDeProducto
	for i := range pedido.Lineas {
		if pedido.Lineas[i].ID == lineaID {
			linea = &pedido.Lineas[i]
			break
		}
	}
	if linea == nil {
		return nil, domain.ErrLineaNoEncontrada(lineaID)
	}

	nuevoTotal := pedido.Total.Sub(linea.Subtotal)

	err = repository.RunTx(ctx, s.pedidos.DB(), func(tx *gorm.DB) error {
		if err := s.stock.LiberarTx(tx, linea.ProductoCodigo, linea.Cantidad); err != nil {
			return err
		}
		if err := s.pedidos.DeleteLineaTx(tx, lineaID); err != nil {
			return err
		}
		return s.pedidos.UpdateTotalTx(tx, nro, nuevoTotal)
	})
	if err != nil {
		return nil, err
	}
	return s.Buscar(ctx, nro)
}

// ActualizarLineaPorID resuelve el pedido dueño de la línea y delega en
// ActualizarLinea. Es la variante para la ruta plana /lineas/:id.
func (s *Service) ActualizarLineaPorID(ctx context.Context, lineaID uint, in LineaInput) (*models.Pedido, error) {
	l, err := s.buscarLinea(ctx, lineaID)
	if err != nil {
		return nil, err
	}
	return s.ActualizarLinea(ctx, l.PedidoID, lineaID, in)
}

// EliminarLineaPorID es la variante plana de EliminarLinea.
func (s *Service) EliminarLineaPorID(ctx context.Context, lineaID uint) (*models.Pedido, error) {
	l, err := s.buscarLinea(ctx, lineaID)
	if err != nil {
		return nil, err
	}
	return s.EliminarLinea(ctx, l.PedidoID, lineaID)
}

func (s *Service) buscarLinea(ctx context.Context, lineaID uint) (*models.LineaDeProducto, error) {
	l, err := s.pedidos.FindLineaByID(ctx, lineaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrLineaNoEncontrada(lineaID)
		}
		return nil, err
	}
	return l, nil
}

func (s *Service) Buscar(ctx context.Context, nro uint) (*models.Pedido, error) {
	p, err := s.pedidos.FindByNro(ctx, nro)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPedidoNoEncontrado(nro)
		}
		return nil, err
	}
	return p, nil
}

func (s *Service) Listar(ctx context.Context) ([]models.Pedido, error) {
	return s.pedidos.List(ctx)
}

func (s *Service) ListarSinPago(ctx context.Context) ([]models.Pedido, error) {
	return s.pedidos.ListSinPago(ctx)
}

func (s *Service) ListarPagadosSinEntrega(ctx context.Context) ([]models.Pedido, error) {
	return s.pedidos.ListPagosSinEntrega(ctx)
}

func (s *Service) ListarPorFiltros(ctx context.Context, f repository.PedidoFilter) ([]models.Pedido, error) {
	return s.pedidos.ListByFilters(ctx, f)
}

func (s *Service) ListarDeCliente(ctx context.Context, clienteID uint) ([]models.Pedido, error) {
	return s.pedidos.ListByCliente(ctx, clienteID)
}

func (s *Service) ListarImpagosDeCliente(ctx context.Context, clienteID uint) ([]models.Pedido, error) {
	return s.pedidos.ListImpagosByCliente(ctx, clienteID)
}

func (s *Service) ListarLineas(ctx context.Context, nro uint) ([]models.LineaDeProducto, error) {
	if _, err := s.Buscar(ctx, nro); err != nil {
		return nil, err
	}
	return s.pedidos.ListLineasByPedido(ctx, nro)
}
