package catalog

import (
	"bytes"
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx"

	"github.com/iudanet/shopfront/internal/event"
	"github.com/iudanet/shopfront/internal/models"
	"github.com/iudanet/shopfront/internal/storage"
	"github.com/iudanet/shopfront/internal/validation"
)

func TestService_BrandCRUD(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	brand, err := env.svc.CreateBrand(ctx, "new balance")
	require.NoError(t, err)
	assert.Equal(t, "New Balance", brand.Name)
	assert.NotEmpty(t, brand.ID)

	_, err = env.svc.CreateBrand(ctx, "   ")
	require.Error(t, err)
	assert.Equal(t, validation.MsgRequiredFields, err.Error())

	updated, err := env.svc.UpdateBrand(ctx, brand.ID, "nb")
	require.NoError(t, err)
	assert.Equal(t, "Nb", updated.Name)

	require.NoError(t, env.svc.DeleteBrand(ctx, brand.ID))
	assert.Empty(t, env.svc.Brands(ctx, Query{}))
	assert.ErrorIs(t, env.svc.DeleteBrand(ctx, brand.ID), ErrNotFound)
}

func TestService_BrandSearchSorted(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	for _, name := range []string{"puma", "nike", "nine west"} {
		_, err := env.svc.CreateBrand(ctx, name)
		require.NoError(t, err)
	}

	got := env.svc.Brands(ctx, Query{Search: "ni", Sort: SortNameAsc})
	require.Len(t, got, 2)
	assert.Equal(t, "Nike", got[0].Name)
	assert.Equal(t, "Nine West", got[1].Name)
}

func TestService_PartnerRequiresExistingBrand(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)

	_, err := env.svc.CreatePartner(ctx, "ABC", "")
	assert.ErrorIs(t, err, validation.ErrInvalid)

	_, err = env.svc.CreatePartner(ctx, "ABC", "no-such-brand")
	assert.ErrorIs(t, err, ErrInvalidSelection)
}

func TestService_PartnerSearchMatchesBrandName(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	_, _, _ = env.seedNike(t)

	got := env.svc.Partners(ctx, Query{Search: "nik"})
	require.Len(t, got, 1)
	assert.Equal(t, "ABC", got[0].Name)
}

func TestService_CollectionValidation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	brand, partner, _ := env.seedNike(t)

	puma, err := env.svc.CreateBrand(ctx, "Puma")
	require.NoError(t, err)

	// партнёр принадлежит другому бренду
	_, err = env.svc.CreateCollection(ctx, "Cat", Selection{BrandID: puma.ID, PartnerID: partner.ID})
	assert.ErrorIs(t, err, ErrInvalidSelection)

	_, err = env.svc.CreateCollection(ctx, "Cat", Selection{BrandID: brand.ID})
	assert.ErrorIs(t, err, validation.ErrInvalid)

	got := env.svc.Collections(ctx, Query{Search: "abc"})
	assert.Len(t, got, 1, "поиск по имени партнёра")
}

func TestService_CreateProduct(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	brand, partner, collection := env.seedNike(t)

	first, err := env.svc.CreateProduct(ctx, env.productInput(brand.ID, partner.ID, collection.ID))
	require.NoError(t, err)

	assert.NotEmpty(t, first.ID)
	assert.Equal(t, int64(1), first.SKU)
	assert.Equal(t, "Air Max", first.Name)
	assert.Equal(t, "Red", first.Color)
	assert.InDelta(t, 99.5, first.Price, 0.0001)
	assert.True(t, first.IsLocalProduct)
	assert.Equal(t, models.Rating{Rate: 4.0, Count: 0}, first.Rating)
	assert.Equal(t, env.now, first.CreatedAt)

	second, err := env.svc.CreateProduct(ctx, env.productInput(brand.ID, "", ""))
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.SKU)

	// SKU = max+1 даже после удаления
	require.NoError(t, env.svc.DeleteProduct(ctx, first.ID))
	third, err := env.svc.CreateProduct(ctx, env.productInput(brand.ID, "", ""))
	require.NoError(t, err)
	assert.Equal(t, int64(3), third.SKU)
}

func TestService_CreateProduct_Validation(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	brand, partner, _ := env.seedNike(t)

	tests := []struct {
		name    string
		mutate  func(in *ProductInput)
		wantMsg string
		wantErr error
	}{
		{name: "missing name", mutate: func(in *ProductInput) { in.Name = " " }, wantMsg: validation.MsgRequiredFields},
		{name: "missing brand", mutate: func(in *ProductInput) { in.Selection = Selection{} }, wantMsg: validation.MsgRequiredFields},
		{name: "missing price", mutate: func(in *ProductInput) { in.Price = "" }, wantMsg: validation.MsgRequiredFields},
		{name: "missing image", mutate: func(in *ProductInput) { in.Image = "" }, wantMsg: validation.MsgRequiredFields},
		{name: "non numeric price", mutate: func(in *ProductInput) { in.Price = "1.2.3" }, wantMsg: validation.MsgInvalidPrice},
		{name: "image is not a data uri", mutate: func(in *ProductInput) { in.Image = "hello, not an image" }, wantMsg: validation.MsgInvalidImage},
		{name: "gif image", mutate: func(in *ProductInput) {
			in.Image = "data:image/gif;base64," + base64.StdEncoding.EncodeToString([]byte("GIF89a......"))
		}, wantMsg: validation.MsgInvalidImage},
		{name: "oversize image", mutate: func(in *ProductInput) {
			big := append(append([]byte{}, pngBytes...), make([]byte, validation.MaxImageSize)...)
			in.Image = "data:image/png;base64," + base64.StdEncoding.EncodeToString(big)
		}, wantMsg: validation.MsgImageTooLarge},
		{name: "collection without partner", mutate: func(in *ProductInput) { in.PartnerID = ""; in.CollectionID = "x" }, wantErr: ErrInvalidSelection},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := env.productInput(brand.ID, partner.ID, "")
			tt.mutate(&in)

			_, err := env.svc.CreateProduct(ctx, in)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.Equal(t, tt.wantMsg, err.Error())
			}
		})
	}

	assert.Empty(t, env.svc.Products(ctx, Query{}), "ничего не сохранено при ошибке валидации")
	assert.Zero(t, env.pub.count())
}

func TestService_UpdateProductKeepsIdentity(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	brand, partner, collection := env.seedNike(t)

	created, err := env.svc.CreateProduct(ctx, env.productInput(brand.ID, partner.ID, collection.ID))
	require.NoError(t, err)

	in := env.productInput(brand.ID, "", "")
	in.Name = "air force"
	in.Price = "120"
	updated, err := env.svc.UpdateProduct(ctx, created.ID, in)
	require.NoError(t, err)

	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, created.SKU, updated.SKU)
	assert.Equal(t, created.Rating, updated.Rating)
	assert.Equal(t, "Air Force", updated.Name)
	assert.Empty(t, updated.PartnerID)

	stored, err := env.svc.Product(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, stored)

	_, err = env.svc.UpdateProduct(ctx, "missing", in)
	assert.ErrorIs(t, err, ErrNotFound)

	// неверное изображение не сохраняется
	in.Image = "hello, not an image"
	_, err = env.svc.UpdateProduct(ctx, created.ID, in)
	require.Error(t, err)
	assert.Equal(t, validation.MsgInvalidImage, err.Error())
	stored, err = env.svc.Product(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, updated, stored)
}

func TestService_ProductMutationsStampAndPublish(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	brand, _, _ := env.seedNike(t)

	product, err := env.svc.CreateProduct(ctx, env.productInput(brand.ID, "", ""))
	require.NoError(t, err)

	for _, key := range []string{storage.KeyAdminProductsUpdated, storage.KeyProductsUpdated} {
		ts, err := env.store.GetTimestamp(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, env.now.UnixMilli(), ts, key)
	}

	_, err = env.svc.UpdateProduct(ctx, product.ID, env.productInput(brand.ID, "", ""))
	require.NoError(t, err)
	require.NoError(t, env.svc.DeleteProduct(ctx, product.ID))

	require.Equal(t, 3, env.pub.count())
	for _, topic := range env.pub.topics {
		assert.Equal(t, event.TopicProductsChanged, topic)
	}
	change, ok := env.pub.payloads[2].(ProductChange)
	require.True(t, ok)
	assert.Equal(t, "deleted", change.Action)
	assert.Equal(t, product.ID, change.ProductID)
}

func TestService_BrandMutationsDoNotPublish(t *testing.T) {
	env := newTestEnv(t)
	env.seedNike(t)
	assert.Zero(t, env.pub.count())
}

func TestService_ProductSearch(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	brand, partner, collection := env.seedNike(t)

	_, err := env.svc.CreateProduct(ctx, env.productInput(brand.ID, partner.ID, collection.ID))
	require.NoError(t, err)

	in := env.productInput(brand.ID, "", "")
	in.Name = "court vision"
	in.Color = "blue"
	in.Price = "45"
	_, err = env.svc.CreateProduct(ctx, in)
	require.NoError(t, err)

	assert.Len(t, env.svc.Products(ctx, Query{Search: "nike"}), 2, "по бренду")
	assert.Len(t, env.svc.Products(ctx, Query{Search: "abc"}), 1, "по партнёру")
	assert.Len(t, env.svc.Products(ctx, Query{Search: "air"}), 1, "по коллекции и имени")
	assert.Len(t, env.svc.Products(ctx, Query{Search: "BLUE"}), 1, "по цвету")
	assert.Len(t, env.svc.Products(ctx, Query{Search: "99.5"}), 1, "по цене")
	assert.Empty(t, env.svc.Products(ctx, Query{Search: "zzz"}))
}

func TestService_DeleteBrandDoesNotCascade(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	brand, partner, collection := env.seedNike(t)

	product, err := env.svc.CreateProduct(ctx, env.productInput(brand.ID, partner.ID, collection.ID))
	require.NoError(t, err)

	assert.True(t, env.svc.Orphans(ctx).Empty())

	require.NoError(t, env.svc.DeleteBrand(ctx, brand.ID))

	assert.Len(t, env.svc.Partners(ctx, Query{}), 1)
	assert.Len(t, env.svc.Collections(ctx, Query{}), 1)
	assert.Len(t, env.svc.Products(ctx, Query{}), 1)

	report := env.svc.Orphans(ctx)
	assert.Equal(t, []models.Partner{partner}, report.Partners)
	assert.Equal(t, []models.Collection{collection}, report.Collections)
	require.Len(t, report.Products, 1)
	assert.Equal(t, product.ID, report.Products[0].ID)
}

func TestImageDataURI(t *testing.T) {
	uri, err := ImageDataURI(pngBytes)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))

	_, err = ImageDataURI([]byte("GIF89a......"))
	require.Error(t, err)
	assert.Equal(t, validation.MsgInvalidImage, err.Error())

	big := append(append([]byte{}, pngBytes...), make([]byte, validation.MaxImageSize)...)
	_, err = ImageDataURI(big)
	require.Error(t, err)
	assert.Equal(t, validation.MsgImageTooLarge, err.Error())
}

func TestLoadImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shoe.png")
	require.NoError(t, os.WriteFile(path, pngBytes, 0600))

	uri, name, err := LoadImage(path)
	require.NoError(t, err)
	assert.Equal(t, "shoe.png", name)
	assert.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))

	_, _, err = LoadImage(filepath.Join(t.TempDir(), "missing.png"))
	assert.Error(t, err)
}

func TestService_ExcelRoundTrip(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	brand, partner, collection := env.seedNike(t)

	_, err := env.svc.CreateProduct(ctx, env.productInput(brand.ID, partner.ID, collection.ID))
	require.NoError(t, err)

	var buf bytes.Buffer
	n, err := env.svc.ExportProducts(ctx, &buf)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.NotZero(t, buf.Len())

	// Импорт той же книги дублирует товар с новым SKU
	data := buf.Bytes()
	result, err := env.svc.ImportProductsXLSX(ctx, bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Empty(t, result.Errors)

	products := env.svc.Products(ctx, Query{})
	require.Len(t, products, 2)
	imported := products[1]
	assert.Equal(t, int64(2), imported.SKU)
	assert.Equal(t, "Air Max", imported.Name)
	assert.Equal(t, brand.ID, imported.BrandID)
	assert.Equal(t, partner.ID, imported.PartnerID)
	assert.Equal(t, collection.ID, imported.CollectionID)
	assert.InDelta(t, 99.5, imported.Price, 0.0001)
}

func TestService_ImportRejectsInvalidRows(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.seedNike(t)

	var buf bytes.Buffer
	// экспорт пустого каталога даёт только заголовок
	_, err := env.svc.ExportProducts(ctx, &buf)
	require.NoError(t, err)

	data := buf.Bytes()
	_, err = env.svc.ImportProductsXLSX(ctx, bytes.NewReader(data), int64(len(data)))
	assert.Error(t, err, "книга без строк данных")

	_, err = env.svc.ImportProductsXLSX(ctx, bytes.NewReader([]byte("not a zip")), 9)
	assert.Error(t, err)
}

// workbook builds an xlsx file in the export layout from the given data rows
func workbook(t *testing.T, rows ...[]string) []byte {
	t.Helper()

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	require.NoError(t, err)

	header := sheet.AddRow()
	for _, h := range productColumns {
		header.AddCell().SetString(h)
	}
	for _, cells := range rows {
		row := sheet.AddRow()
		for _, c := range cells {
			row.AddCell().SetString(c)
		}
	}

	var buf bytes.Buffer
	require.NoError(t, file.Write(&buf))
	return buf.Bytes()
}

func TestService_ImportReportsBadRows(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	env.seedNike(t)
	image := env.productInput("", "", "").Image

	data := workbook(t,
		[]string{"", "air max", "Nike", "ABC", "Air", "red", "42", "99.5", "a.png", image},
		[]string{"", "cortez", "Nike", "XYZ", "", "white", "41", "80", "c.png", image},
		[]string{"", "blazer", "Nike", "ABC", "Dunk", "black", "43", "90", "b.png", image},
		[]string{"", "pegasus", "Nike", "", "", "blue", "44", "120", "p.png", "hello, not an image"},
		[]string{"", "vomero", "Nike", "", "", "grey", "45", "130", "v.png", image},
	)

	result, err := env.svc.ImportProductsXLSX(ctx, bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	require.Len(t, result.Errors, 3)

	assert.Equal(t, 3, result.Errors[0].Row)
	assert.Contains(t, result.Errors[0].Message, `partner "XYZ"`)
	assert.Equal(t, 4, result.Errors[1].Row)
	assert.Contains(t, result.Errors[1].Message, `collection "Dunk"`)
	assert.Equal(t, 5, result.Errors[2].Row)
	assert.Equal(t, validation.MsgInvalidImage, result.Errors[2].Message)

	products := env.svc.Products(ctx, Query{})
	require.Len(t, products, 2)
	assert.Equal(t, "Air Max", products[0].Name)
	assert.NotEmpty(t, products[0].CollectionID)
	assert.Equal(t, "Vomero", products[1].Name)
}
