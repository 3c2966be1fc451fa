package catalog

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/tealeg/xlsx"

	"github.com/iudanet/shopfront/internal/models"
)

// Колонки листа Products
var productColumns = []string{
	"SKU", "Name", "Brand", "Partner", "Collection", "Color", "Size", "Price", "ImageName", "Image",
}

// RowError describes a spreadsheet row that could not be imported
type RowError struct {
	Message string `json:"message"`
	Row     int    `json:"row"` // номер строки в листе, начиная с 1
}

// ImportResult summarises a spreadsheet import
type ImportResult struct {
	Errors   []RowError `json:"errors"`
	Imported int        `json:"imported"`
}

// ExportProducts writes local products to w as an xlsx workbook
func (s *Service) ExportProducts(ctx context.Context, w io.Writer) (int, error) {
	products := s.products.List(ctx)
	names := s.names(ctx)

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return 0, fmt.Errorf("failed to create sheet: %w", err)
	}

	header := sheet.AddRow()
	for _, h := range productColumns {
		header.AddCell().SetValue(h)
	}

	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetValue(p.SKU)
		row.AddCell().SetValue(p.Name)
		row.AddCell().SetValue(names.Brand(p.BrandID))
		row.AddCell().SetValue(names.Partner(p.PartnerID))
		row.AddCell().SetValue(names.Collection(p.CollectionID))
		row.AddCell().SetValue(p.Color)
		row.AddCell().SetValue(p.Size)
		row.AddCell().SetString(strconv.FormatFloat(p.Price, 'f', -1, 64))
		row.AddCell().SetValue(p.ImageName)
		row.AddCell().SetValue(p.Image)
	}

	if err := file.Write(w); err != nil {
		return 0, fmt.Errorf("failed to write workbook: %w", err)
	}

	return len(products), nil
}

// ImportProductsXLSX reads a workbook in the export layout and appends every valid row.
// Brand, partner and collection are matched by name, case-insensitively.
func (s *Service) ImportProductsXLSX(ctx context.Context, r io.ReaderAt, size int64) (*ImportResult, error) {
	file, err := xlsx.OpenReaderAt(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to parse workbook: %w", err)
	}

	if len(file.Sheets) == 0 || file.Sheets[0].MaxRow < 2 {
		return nil, fmt.Errorf("workbook is empty or missing header row")
	}

	brands := s.brands.List(ctx)
	partners := s.partners.List(ctx)
	collections := s.collections.List(ctx)

	result := &ImportResult{Errors: []RowError{}}
	var products []models.Product

	sheet := file.Sheets[0]
	for i := 1; i < sheet.MaxRow; i++ {
		row := sheet.Rows[i]
		get := func(index int) string {
			if row != nil && index < len(row.Cells) {
				return strings.TrimSpace(row.Cells[index].String())
			}
			return ""
		}

		if get(1) == "" && get(2) == "" && get(7) == "" {
			continue // пустая строка
		}

		in := ProductInput{
			Name:      get(1),
			Color:     get(5),
			Size:      get(6),
			Price:     get(7),
			ImageName: get(8),
			Image:     get(9),
		}
		in.SetBrand(idByName(brands, get(2)))
		in.SetPartner(idByName(PartnersForBrand(partners, in.BrandID), get(3)))
		in.SetCollection(idByName(CollectionsForBrandPartner(collections, in.BrandID, in.PartnerID), get(4)))

		// названный, но не найденный партнёр или коллекция не сбрасывается молча
		var product models.Product
		switch {
		case in.BrandID != "" && get(3) != "" && in.PartnerID == "":
			err = fmt.Errorf("partner %q of brand %q: %w", get(3), get(2), ErrNotFound)
		case in.BrandID != "" && get(4) != "" && in.CollectionID == "":
			err = fmt.Errorf("collection %q of partner %q: %w", get(4), get(3), ErrNotFound)
		default:
			product, err = s.buildProduct(ctx, in)
		}
		if err != nil {
			result.Errors = append(result.Errors, RowError{Row: i + 1, Message: err.Error()})
			continue
		}
		products = append(products, product)
	}

	imported, err := s.ImportProducts(ctx, products)
	if err != nil {
		return nil, err
	}
	result.Imported = imported

	return result, nil
}

// idByName returns the id of the first record whose name matches, or ""
func idByName[T Entity](items []T, name string) string {
	if name == "" {
		return ""
	}
	for _, item := range items {
		if strings.EqualFold(item.GetName(), name) {
			return item.GetID()
		}
	}
	return ""
}
