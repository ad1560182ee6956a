package pedidos

import (
	"fmt"
	"time"

	"entregas-backend/internal/repository"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// GET /api/pedidos/export?fechaInicio=&fechaFin= — planilla con un pedido por
// fila; sin parámetros exporta todo.
func (h *Handler) Exportar(c *fiber.Ctx) error {
	var filter repository.PedidoFilter
	var err error
	if filter.FechaInicio, err = parseFecha(c.Query("fechaInicio")); err != nil {
		return err
	}
	if filter.FechaFin, err = parseFecha(c.Query("fechaFin")); err != nil {
		return err
	}

	pedidos, err := h.svc.ListarPorFiltros(c.Context(), filter)
	if err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	const hoja = "Pedidos"
	f.SetSheetName("Sheet1", hoja)

	encabezados := []string{"Nro Pedido", "Fecha", "Cliente", "Zona", "Total", "Pagado", "Entrega"}
	for i, enc := range encabezados {
		celda, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(hoja, celda, enc)
	}

	for fila, p := range pedidos {
		cliente := ""
		zona := ""
		if p.Cliente != nil {
			cliente = p.Cliente.ApellidoNombre
			if p.Cliente.Zona != nil {
				zona = p.Cliente.Zona.Nombre
			}
		}
		pagado := "No"
		if p.Pago != nil {
			pagado = "Sí"
		}
		entrega := ""
		if p.EntregaID != nil {
			entrega = fmt.Sprintf("#%d", *p.EntregaID)
		}

		valores := []any{
			p.NroPedido,
			p.Fecha.Format("2006-01-02"),
			cliente,
			zona,
			p.Total.StringFixed(2),
			pagado,
			entrega,
		}
		for col, v := range valores {
			celda, _ := excelize.CoordinatesToCellName(col+1, fila+2)
			f.SetCellValue(hoja, celda, v)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return err
	}

	nombre := fmt.Sprintf("pedidos-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+nombre+`"`)
	return c.Send(buf.Bytes())
}
