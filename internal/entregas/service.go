// Package entregas arma los repartos: una entrega agrupa pedidos pagos de
// una misma zona y los asigna a un repartidor de esa zona. La validación
// corre completa antes de escribir nada; o entran todos los pedidos o
// ninguno.
package entregas

import (
	"context"
	"errors"
	"strconv"
	"time"

	"entregas-backend/internal/domain"
	"entregas-backend/internal/events"
	"entregas-backend/internal/models"
	"entregas-backend/internal/repository"

	"gorm.io/gorm"
)

type Service struct {
	entregas     repository.EntregaRepository
	pedidos      repository.PedidoRepository
	repartidores repository.RepartidorRepository
	zonas        repository.ZonaRepository
	publisher    *events.Publisher
}

func NewService(
	entregas repository.EntregaRepository,
	pedidos repository.PedidoRepository,
	repartidores repository.RepartidorRepository,
	zonas repository.ZonaRepository,
	publisher *events.Publisher,
) *Service {
	return &Service{
		entregas:     entregas,
		pedidos:      pedidos,
		repartidores: repartidores,
		zonas:        zonas,
		publisher:    publisher,
	}
}

type EntregaInput struct {
	Fecha        *time.Time `json:"fecha"`
	RepartidorID uint       `json:"repartidorId"`
	ZonaID       uint       `json:"zonaId"`
	PedidoNros   []uint     `json:"pedidoNros"`
}

// validar corre todos los chequeos de negocio sin escribir nada y devuelve
// los pedidos a asignar (puede ser un conjunto vacío). entregaID distinto de
// cero indica una actualización: los pedidos que ya pertenecen a esa entrega
// no cuentan como "ya asignados".
func (s *Service) validar(ctx context.Context, in EntregaInput, fecha time.Time, entregaID uint) ([]models.Pedido, error) {
	if _, err := s.zonas.FindByID(ctx, in.ZonaID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrZonaNoEncontrada(in.ZonaID)
		}
		return nil, err
	}

	repartidor, err := s.repartidores.FindByID(ctx, in.RepartidorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRepartidorNoEncontrado(in.RepartidorID)
		}
		return nil, err
	}
	if repartidor.ZonaID != in.ZonaID {
		return nil, domain.ErrRepartidorDeOtraZona()
	}

	// Una entrega sin pedidos es válida: se arma el reparto y los pedidos
	// se asignan después. En actualización, la lista vacía desasocia todo.
	if len(in.PedidoNros) == 0 {
		return nil, nil
	}

	pedidos, err := s.pedidos.FindByNros(ctx, in.PedidoNros)
	if err != nil {
		return nil, err
	}
	if len(pedidos) != len(in.PedidoNros) {
		return nil, domain.ErrPedidosNoEncontrados()
	}

	dia := domain.InicioDelDia(fecha)
	for _, p := range pedidos {
		if p.EntregaID != nil && (entregaID == 0 || *p.EntregaID != entregaID) {
			return nil, domain.ErrPedidoYaAsignado(p.NroPedido)
		}
		if p.Pago == nil {
			return nil, domain.ErrPedidoNoPagado(p.NroPedido)
		}
		if dia.Before(domain.InicioDelDia(p.Fecha)) {
			return nil, domain.ErrEntregaAnteriorAlPedido(p.NroPedido)
		}
		if p.Cliente == nil || p.Cliente.ZonaID == nil || *p.Cliente.ZonaID != in.ZonaID {
			return nil, domain.ErrPedidoDeOtraZona(p.NroPedido)
		}
	}
	return pedidos, nil
}

// Crear valida todo el lote y recién después escribe la entrega y asigna los
// pedidos en una sola transacción.
func (s *Service) Crear(ctx context.Context, in EntregaInput) (*models.Entrega, error) {
	fecha := time.Now()
	if in.Fecha != nil {
		fecha = *in.Fecha
	}

	pedidos, err := s.validar(ctx, in, fecha, 0)
	if err != nil {
		return nil, err
	}

	entrega := &models.Entrega{
		Fecha:        fecha,
		RepartidorID: in.RepartidorID,
		ZonaID:       in.ZonaID,
	}

	err = repository.RunTx(ctx, s.entregas.DB(), func(tx *gorm.DB) error {
		if err := s.entregas.CreateTx(tx, entrega); err != nil {
			return err
		}
		for _, p := range pedidos {
			if err := s.pedidos.SetEntregaTx(tx, p.NroPedido, &entrega.ID); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publicar(ctx, events.TipoEntregaCreada, claveEntrega(entrega.ID), map[string]any{
		"entregaId":    entrega.ID,
		"repartidorId": entrega.RepartidorID,
		"zonaId":       entrega.ZonaID,
		"pedidos":      in.PedidoNros,
	})
	return s.Buscar(ctx, entrega.ID)
}

// Actualizar rearma la entrega con el nuevo conjunto de pedidos: primero se
// desasocia el conjunto anterior y después se asigna el nuevo, todo en la
// misma transacción.
func (s *Service) Actualizar(ctx context.Context, id uint, in EntregaInput) (*models.Entrega, error) {
	entrega, err := s.Buscar(ctx, id)
	if err != nil {
		return nil, err
	}

	fecha := entrega.Fecha
	if in.Fecha != nil {
		fecha = *in.Fecha
	}

	pedidos, err := s.validar(ctx, in, fecha, id)
	if err != nil {
		return nil, err
	}

	entrega.Fecha = fecha
	entrega.RepartidorID = in.RepartidorID
	entrega.ZonaID = in.ZonaID
	entrega.Repartidor = nil
	entrega.Zona = nil
	entrega.Pedidos = nil

	err = repository.RunTx(ctx, s.entregas.DB(), func(tx *gorm.DB) error {
		if err := s.pedidos.DetachEntregaTx(tx, id); err != nil {
			return err
		}
		for _, p := range pedidos {
			if err := s.pedidos.SetEntregaTx(tx, p.NroPedido, &id); err != nil {
				return err
			}
		}
		return s.entregas.SaveTx(tx, entrega)
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publicar(ctx, events.TipoEntregaActualizada, claveEntrega(id), map[string]any{
		"entregaId": id,
		"pedidos":   in.PedidoNros,
	})
	return s.Buscar(ctx, id)
}

// Eliminar borra la entrega y desasocia sus pedidos, que quedan disponibles
// para un reparto futuro. Los pedidos no se tocan más allá del vínculo.
func (s *Service) Eliminar(ctx context.Context, id uint) error {
	if _, err := s.Buscar(ctx, id); err != nil {
		return err
	}
	return repository.RunTx(ctx, s.entregas.DB(), func(tx *gorm.DB) error {
		if err := s.pedidos.DetachEntregaTx(tx, id); err != nil {
			return err
		}
		return s.entregas.DeleteTx(tx, id)
	})
}

func (s *Service) Buscar(ctx context.Context, id uint) (*models.Entrega, error) {
	e, err := s.entregas.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrEntregaNoEncontrada(id)
		}
		return nil, err
	}
	return e, nil
}

func (s *Service) Listar(ctx context.Context) ([]models.Entrega, error) {
	return s.entregas.List(ctx)
}

func (s *Service) ListarPorFiltros(ctx context.Context, f repository.EntregaFilter) ([]models.Entrega, error) {
	return s.entregas.ListByFilters(ctx, f)
}

func (s *Service) ListarDeCliente(ctx context.Context, clienteID uint) ([]models.Entrega, error) {
	return s.entregas.ListByCliente(ctx, clienteID)
}

func claveEntrega(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
