package report

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/jhoicas/stock-tracker/internal/domain"
	"github.com/jhoicas/stock-tracker/internal/domain/repository"
)

const (
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	contentTypePDF  = "application/pdf"
)

var unsafeName = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// ReportUseCase arma los datos y delega el formato en los generadores.
type ReportUseCase struct {
	itemRepo repository.StockItemRepository
	txRepo   repository.StockTransactionRepository
	xlsx     SpreadsheetGenerator
	pdf      PDFGenerator
	now      func() time.Time
}

// NewReportUseCase construye el caso de uso inyectando los generadores.
func NewReportUseCase(
	itemRepo repository.StockItemRepository,
	txRepo repository.StockTransactionRepository,
	xlsx SpreadsheetGenerator,
	pdf PDFGenerator,
) *ReportUseCase {
	return &ReportUseCase{itemRepo: itemRepo, txRepo: txRepo, xlsx: xlsx, pdf: pdf, now: time.Now}
}

// ExportItemLedger exporta el libro de un artículo en el formato pedido (xlsx o pdf).
//
// Retorna:
//   - domain.ErrNotFound     si el artículo no existe.
//   - domain.ErrUnauthorized si pertenece a otro usuario.
//   - domain.ErrInvalidInput si el formato no es soportado.
func (uc *ReportUseCase) ExportItemLedger(ctx context.Context, ownerID, itemID, format string) (*File, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = FormatXLSX
	}
	if format != FormatXLSX && format != FormatPDF {
		return nil, fmt.Errorf("%w: formato %q", domain.ErrInvalidInput, format)
	}

	item, err := uc.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("report: obtener artículo: %w", err)
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	if item.OwnerID != ownerID {
		return nil, domain.ErrUnauthorized
	}
	txs, err := uc.txRepo.ListByItem(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("report: obtener libro: %w", err)
	}

	base := fmt.Sprintf("libro_%s_%s", slug(item.Name), uc.now().Format("20060102_150405"))
	if format == FormatPDF {
		data, err := uc.pdf.ItemLedgerPDF(ctx, item, txs)
		if err != nil {
			return nil, fmt.Errorf("report: pdf: %w", err)
		}
		return &File{Name: base + ".pdf", ContentType: contentTypePDF, Data: data}, nil
	}
	data, err := uc.xlsx.ItemLedgerXLSX(ctx, item, txs)
	if err != nil {
		return nil, fmt.Errorf("report: xlsx: %w", err)
	}
	return &File{Name: base + ".xlsx", ContentType: contentTypeXLSX, Data: data}, nil
}

// ExportInventory exporta todos los artículos del usuario a XLSX.
func (uc *ReportUseCase) ExportInventory(ctx context.Context, ownerID string) (*File, error) {
	items, err := uc.itemRepo.ListByOwner(ctx, ownerID, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("report: listar artículos: %w", err)
	}
	data, err := uc.xlsx.InventoryXLSX(ctx, items)
	if err != nil {
		return nil, fmt.Errorf("report: xlsx: %w", err)
	}
	return &File{
		Name:        fmt.Sprintf("inventario_%s.xlsx", uc.now().Format("20060102_150405")),
		ContentType: contentTypeXLSX,
		Data:        data,
	}, nil
}

func slug(s string) string {
	s = strings.Trim(unsafeName.ReplaceAllString(strings.ToLower(s), "_"), "_")
	if s == "" {
		return "articulo"
	}
	return s
}
