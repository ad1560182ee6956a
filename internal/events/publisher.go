// Package events publica eventos de dominio en Kafka. La publicación es
// best-effort y posterior al commit: un broker caído nunca falla un request.
package events

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

const (
	TipoPedidoCreado       = "pedido.creado"
	TipoPedidoEliminado    = "pedido.eliminado"
	TipoPagoRegistrado     = "pago.registrado"
	TipoEntregaCreada      = "entrega.creada"
	TipoEntregaActualizada = "entrega.actualizada"
)

type Evento struct {
	Tipo    string    `json:"tipo"`
	Clave   string    `json:"clave"`
	Fecha   time.Time `json:"fecha"`
	Payload any       `json:"payload,omitempty"`
}

type Publisher struct {
	writer *kafka.Writer
}

// NewPublisher crea el publicador. Con brokers vacío devuelve nil y todos los
// Publicar sobre él son no-ops.
func NewPublisher(brokers, topic string) *Publisher {
	if brokers == "" {
		return nil
	}
	w := &kafka.Writer{
		Addr:         kafka.TCP(strings.Split(brokers, ",")...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireOne,
		Async:        true,
	}
	return &Publisher{writer: w}
}

// Publicar serializa y envía el evento. Los errores se loguean y se descartan.
func (p *Publisher) Publicar(ctx context.Context, tipo, clave string, payload any) {
	if p == nil || p.writer == nil {
		return
	}
	ev := Evento{Tipo: tipo, Clave: clave, Fecha: time.Now(), Payload: payload}
	b, err := json.Marshal(ev)
	if err != nil {
		log.Error().Err(pkgerrors.Wrap(err, "serializando evento")).Str("tipo", tipo).Msg("evento descartado")
		return
	}
	msg := kafka.Message{Key: []byte(clave), Value: b}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		log.Error().Err(err).Str("tipo", tipo).Str("clave", clave).Msg("no se pudo publicar el evento")
	}
}

// Close drena el writer en el shutdown.
func (p *Publisher) Close() error {
	if p == nil || p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
