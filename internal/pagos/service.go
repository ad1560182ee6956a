// Package pagos registra los pagos de pedidos. Un pedido admite a lo sumo un
// pago y la fecha del pago nunca puede ser anterior al día del pedido.
package pagos

import (
	"context"
	"errors"
	"time"

	"entregas-backend/internal/domain"
	"entregas-backend/internal/events"
	"entregas-backend/internal/models"
	"entregas-backend/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	pagos     repository.PagoRepository
	pedidos   repository.PedidoRepository
	tipos     repository.TipoPagoRepository
	publisher *events.Publisher
}

func NewService(
	pagos repository.PagoRepository,
	pedidos repository.PedidoRepository,
	tipos repository.TipoPagoRepository,
	publisher *events.Publisher,
) *Service {
	return &Service{pagos: pagos, pedidos: pedidos, tipos: tipos, publisher: publisher}
}

// TipoPagoInput permite referenciar un tipo existente por ID o darlo de alta
// inline con el pago, como hace la pantalla de cobranza.
type TipoPagoInput struct {
	ID          uint   `json:"id"`
	Nombre      string `json:"nombre"`
	Descripcion string `json:"descripcion"`
}

type CrearPagoInput struct {
	Fecha    *time.Time    `json:"fecha"`
	PedidoID uint          `json:"pedidoId"`
	TipoPago TipoPagoInput `json:"tipoPago"`
}

type ActualizarPagoInput struct {
	Fecha    *time.Time     `json:"fecha"`
	PedidoID *uint          `json:"pedidoId"`
	TipoPago *TipoPagoInput `json:"tipoPago"`
}

func (s *Service) resolverPedido(ctx context.Context, nro uint) (*models.Pedido, error) {
	p, err := s.pedidos.FindByNro(ctx, nro)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPedidoNoEncontrado(nro)
		}
		return nil, err
	}
	return p, nil
}

// validarFecha compara a granularidad de día: pagar el mismo día del pedido
// es válido aunque la hora del pago sea anterior.
func validarFecha(fechaPago time.Time, pedido *models.Pedido) error {
	if domain.InicioDelDia(fechaPago).Before(domain.InicioDelDia(pedido.Fecha)) {
		return domain.ErrPagoAnteriorAlPedido(pedido.NroPedido)
	}
	return nil
}

// resolverTipoTx devuelve el ID del tipo de pago, dándolo de alta si vino
// inline sin ID.
func (s *Service) resolverTipoTx(ctx context.Context, tx *gorm.DB, in TipoPagoInput) (uint, error) {
	if in.ID != 0 {
		if _, err := s.tipos.FindByID(ctx, in.ID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return 0, domain.ErrTipoPagoNoEncontrado(in.ID)
			}
			return 0, err
		}
		return in.ID, nil
	}
	if in.Nombre == "" {
		return 0, &domain.ValidacionError{Mensaje: "El tipo de pago es obligatorio"}
	}
	tipo := &models.TipoPago{Nombre: in.Nombre, Descripcion: in.Descripcion, Disponible: true}
	if err := s.tipos.CreateTx(tx, tipo); err != nil {
		return 0, err
	}
	return tipo.ID, nil
}

// Crear registra el pago de un pedido. El comprobante se genera acá y es
// único por pago.
func (s *Service) Crear(ctx context.Context, in CrearPagoInput) (*models.Pago, error) {
	pedido, err := s.resolverPedido(ctx, in.PedidoID)
	if err != nil {
		return nil, err
	}
	if pedido.Pago != nil {
		return nil, domain.ErrPedidoYaPagado(pedido.NroPedido)
	}

	fecha := time.Now()
	if in.Fecha != nil {
		fecha = *in.Fecha
	}
	if err := validarFecha(fecha, pedido); err != nil {
		return nil, err
	}

	pago := &models.Pago{
		Fecha:       fecha,
		Comprobante: uuid.NewString(),
		PedidoID:    pedido.NroPedido,
	}

	err = repository.RunTx(ctx, s.pagos.DB(), func(tx *gorm.DB) error {
		tipoID, err := s.resolverTipoTx(ctx, tx, in.TipoPago)
		if err != nil {
			return err
		}
		pago.TipoPagoID = tipoID
		return s.pagos.CreateTx(tx, pago)
	})
	if err != nil {
		return nil, err
	}

	s.publisher.Publicar(ctx, events.TipoPagoRegistrado, pago.Comprobante, map[string]any{
		"pagoId":   pago.ID,
		"pedidoId": pago.PedidoID,
		"fecha":    pago.Fecha,
	})
	return pago, nil
}

// Actualizar permite corregir fecha, tipo de pago o reasignar el pago a otro
// pedido. Reasignar deja al pedido anterior automáticamente impago.
func (s *Service) Actualizar(ctx context.Context, id uint, in ActualizarPagoInput) (*models.Pago, error) {
	pago, err := s.Buscar(ctx, id)
	if err != nil {
		return nil, err
	}

	destinoNro := pago.PedidoID
	if in.PedidoID != nil {
		destinoNro = *in.PedidoID
	}
	destino, err := s.resolverPedido(ctx, destinoNro)
	if err != nil {
		return nil, err
	}
	if destinoNro != pago.PedidoID && destino.Pago != nil {
		return nil, domain.ErrPedidoYaPagado(destinoNro)
	}

	fecha := pago.Fecha
	if in.Fecha != nil {
		fecha = *in.Fecha
	}
	if err := validarFecha(fecha, destino); err != nil {
		return nil, err
	}

	pago.Fecha = fecha
	pago.PedidoID = destinoNro
	pago.TipoPago = nil
	pago.Pedido = nil

	err = repository.RunTx(ctx, s.pagos.DB(), func(tx *gorm.DB) error {
		if in.TipoPago != nil {
			tipoID, err := s.resolverTipoTx(ctx, tx, *in.TipoPago)
			if err != nil {
				return err
			}
			pago.TipoPagoID = tipoID
		}
		return s.pagos.SaveTx(tx, pago)
	})
	if err != nil {
		return nil, err
	}
	return s.Buscar(ctx, id)
}

// Eliminar borra el pago; el pedido vuelve a estar impago.
func (s *Service) Eliminar(ctx context.Context, id uint) error {
	if _, err := s.Buscar(ctx, id); err != nil {
		return err
	}
	return repository.RunTx(ctx, s.pagos.DB(), func(tx *gorm.DB) error {
		return s.pagos.DeleteTx(tx, id)
	})
}

func (s *Service) Buscar(ctx context.Context, id uint) (*models.Pago, error) {
	p, err := s.pagos.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrPagoNoEncontrado(id)
		}
		return nil, err
	}
	return p, nil
}

func (s *Service) Listar(ctx context.Context) ([]models.Pago, error) {
	return s.pagos.List(ctx)
}
