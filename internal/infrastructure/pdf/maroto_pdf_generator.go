// Package pdf implementa la generación del extracto de cuenta en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre de la cuenta + tipo  │  Fecha de emisión    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Concepto | Cargo | Abono | Saldo             │
//	│  ─────────────────────────────────────────────────────────  │
//	│  SALDO ACTUAL (positivo = la cuenta nos debe)                │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	appledger "github.com/jhoicas/Cartera-api/internal/application/ledger"
	"github.com/jhoicas/Cartera-api/internal/domain/entity"
	"github.com/jhoicas/Cartera-api/internal/domain/ledger"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorRed     = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ appledger.StatementPDFGenerator = (*MarotoPDFGenerator)(nil)

// MarotoPDFGenerator implementa ledger.StatementPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct{}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator() *MarotoPDFGenerator { return &MarotoPDFGenerator{} }

// GenerateStatementPDF genera el extracto y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateStatementPDF(
	_ context.Context,
	account *entity.Account,
	lines []ledger.StatementLine,
	balance decimal.Decimal,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Extracto de cuenta", true).
		WithAuthor(account.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(account))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	for _, r := range tableLineRows(lines) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(balanceRow(balance))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: nombre de la cuenta + tipo (izq) y fecha de emisión (der).
func headerRow(account *entity.Account) core.Row {
	kindLabel := "Cliente"
	if account.Kind == entity.AccountKindSupplier {
		kindLabel = "Proveedor"
	}
	subtitle := kindLabel
	if account.Phone != "" {
		subtitle += "   |   Tel: " + account.Phone
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New(account.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(subtitle, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("EXTRACTO DE CUENTA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New("Emitido: "+time.Now().Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow: cabecera de la tabla de movimientos.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Fecha", 2, align.Left),
		h("Concepto", 4, align.Left),
		h("Cargo", 2, align.Right),
		h("Abono", 2, align.Right),
		h("Saldo", 2, align.Right),
	)
}

// tableLineRows: una fila por evento del extracto, con cargo o abono según el
// tipo del evento y el saldo acumulado a la derecha.
func tableLineRows(lines []ledger.StatementLine) []core.Row {
	result := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		fecha := "—"
		if !l.Event.Date.IsZero() {
			fecha = l.Event.Date.Format("02/01/2006")
		}
		cargo, abono := "", ""
		switch l.Event.Kind {
		case entity.EventInvoice:
			cargo = "$" + formatMoney(l.Event.Amount.StringFixed(0))
			if paid := ledger.EffectiveTotalPaid(l.Event); paid.GreaterThan(decimal.Zero) {
				abono = "$" + formatMoney(paid.StringFixed(0))
			}
		case entity.EventPayment:
			abono = "$" + formatMoney(l.Event.Amount.StringFixed(0))
		case entity.EventOpeningBalance:
			if l.Event.Amount.GreaterThanOrEqual(decimal.Zero) {
				cargo = "$" + formatMoney(l.Event.Amount.StringFixed(0))
			} else {
				abono = "$" + formatMoney(l.Event.Amount.Neg().StringFixed(0))
			}
		}
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(fecha, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(4).Add(text.New(conceptOf(l.Event), props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(2).Add(text.New(cargo, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(abono, props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New("$"+formatMoney(l.Running.StringFixed(0)), props.Text{
				Size: 8, Align: align.Right, Top: 1, Right: 1,
			})),
		))
	}
	return result
}

// balanceRow: saldo actual resaltado, en rojo si la cuenta nos debe.
func balanceRow(balance decimal.Decimal) core.Row {
	color := colorPrimary
	if balance.GreaterThan(decimal.Zero) {
		color = colorRed
	}
	return row.New(12).Add(
		col.New(6),
		col.New(3).Add(text.New("SALDO ACTUAL:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: color, Right: 2, Top: 2,
		})),
		col.New(3).Add(text.New("$"+formatMoney(balance.StringFixed(0)), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: color, Right: 1, Top: 2,
		})),
	)
}

// conceptOf arma la descripción corta del evento para la tabla.
func conceptOf(ev *entity.LedgerEvent) string {
	switch ev.Kind {
	case entity.EventInvoice:
		if ev.Note != "" {
			return "Factura: " + ev.Note
		}
		return "Factura"
	case entity.EventPayment:
		label := "Pago"
		if ev.LinkedInvoiceID != "" {
			label = "Pago aplicado"
		}
		if ev.Note != "" {
			return label + ": " + ev.Note
		}
		return label
	case entity.EventOpeningBalance:
		return "Saldo inicial"
	}
	return ev.Kind
}

// ── helpers ───────────────────────────────────────────────────────────────────

// formatMoney inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "-1000000" → "-1.000.000"
func formatMoney(s string) string {
	sign := ""
	if len(s) > 0 && s[0] == '-' {
		sign = "-"
		s = s[1:]
	}
	n := len(s)
	if n <= 3 {
		return sign + s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf)
}
