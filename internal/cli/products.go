package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/iudanet/shopfront/internal/auth"
	"github.com/iudanet/shopfront/internal/catalog"
	"github.com/iudanet/shopfront/internal/models"
)

// ProductFlags are the product form fields given on the command line.
// Brand, Partner and Collection accept a row number, a name or an id.
// Image is a path to a PNG or JPEG file.
type ProductFlags struct {
	Name       string
	Brand      string
	Partner    string
	Collection string
	Color      string
	Size       string
	Price      string
	Image      string
}

func (c *Cli) ListProducts(ctx context.Context, q catalog.Query) error {
	if _, err := c.gate(ctx, auth.RouteProducts); err != nil {
		return err
	}

	products := c.catalog.Products(ctx, q)
	names := c.catalog.Names(ctx)

	c.io.Println("=== Products ===")
	c.io.Println()
	if len(products) == 0 {
		c.io.Println("No products found.")
		c.io.Println("Use 'shop product add' to create one.")
		return nil
	}

	for i, p := range products {
		c.io.Printf("%d. %s  %s  SKU %d\n", i+1, p.Name, money(p.Price), p.SKU)
		c.io.Printf("   %s / %s / %s", orDash(names.Brand(p.BrandID)),
			orDash(names.Partner(p.PartnerID)), orDash(names.Collection(p.CollectionID)))
		if p.Color != "" || p.Size != "" {
			c.io.Printf("  color: %s  size: %s", orDash(p.Color), orDash(p.Size))
		}
		c.io.Println()
	}
	return nil
}

// productSelection resolves the cascade brand → partner → collection
func (c *Cli) productSelection(ctx context.Context, f ProductFlags) (catalog.Selection, error) {
	sel, err := c.selection(ctx, f.Brand, f.Partner)
	if err != nil {
		return sel, err
	}

	collectionID, err := resolve(c.catalog.CollectionOptions(ctx, sel.BrandID, sel.PartnerID), f.Collection)
	if err != nil {
		return sel, fmt.Errorf("collection %w", err)
	}
	sel.SetCollection(collectionID)
	return sel, nil
}

func (c *Cli) AddProduct(ctx context.Context, f ProductFlags) error {
	if _, err := c.gate(ctx, auth.RouteProducts); err != nil {
		return err
	}

	var err error
	if f.Name, err = c.ask(f.Name, "Name: "); err != nil {
		return err
	}
	if f.Brand, err = c.ask(f.Brand, "Brand: "); err != nil {
		return err
	}
	if f.Price, err = c.ask(f.Price, "Price: "); err != nil {
		return err
	}
	if f.Image, err = c.ask(f.Image, "Image file: "); err != nil {
		return err
	}

	sel, err := c.productSelection(ctx, f)
	if err != nil {
		return err
	}

	uri, imageName, err := catalog.LoadImage(f.Image)
	if err != nil {
		return err
	}

	product, err := c.catalog.CreateProduct(ctx, catalog.ProductInput{
		Selection: sel,
		Name:      f.Name,
		Color:     f.Color,
		Size:      f.Size,
		Price:     f.Price,
		Image:     uri,
		ImageName: imageName,
	})
	if err != nil {
		return err
	}

	c.io.Printf("✓ Product added: %s (SKU %d)\n", product.Name, product.SKU)
	return nil
}

// EditProduct changes the product at pos. Empty flags keep the current value.
// A new brand clears partner and collection unless they are given too.
func (c *Cli) EditProduct(ctx context.Context, pos int, q catalog.Query, f ProductFlags) error {
	if _, err := c.gate(ctx, auth.RouteProducts); err != nil {
		return err
	}

	products := c.catalog.Products(ctx, q)
	if _, err := idAt(products, pos); err != nil {
		return err
	}
	current := products[pos-1]

	in := productForm(current)
	if f.Name != "" {
		in.Name = f.Name
	}
	if f.Color != "" {
		in.Color = f.Color
	}
	if f.Size != "" {
		in.Size = f.Size
	}
	if f.Price != "" {
		in.Price = f.Price
	}

	switch {
	case f.Brand != "":
		sel, err := c.productSelection(ctx, f)
		if err != nil {
			return err
		}
		in.Selection = sel
	case f.Partner != "":
		partnerID, err := resolve(c.catalog.PartnerOptions(ctx, in.BrandID), f.Partner)
		if err != nil {
			return fmt.Errorf("partner %w", err)
		}
		in.SetPartner(partnerID)
		collectionID, err := resolve(c.catalog.CollectionOptions(ctx, in.BrandID, partnerID), f.Collection)
		if err != nil {
			return fmt.Errorf("collection %w", err)
		}
		in.SetCollection(collectionID)
	case f.Collection != "":
		collectionID, err := resolve(c.catalog.CollectionOptions(ctx, in.BrandID, in.PartnerID), f.Collection)
		if err != nil {
			return fmt.Errorf("collection %w", err)
		}
		in.SetCollection(collectionID)
	}

	if f.Image != "" {
		uri, imageName, err := catalog.LoadImage(f.Image)
		if err != nil {
			return err
		}
		in.Image, in.ImageName = uri, imageName
	}

	product, err := c.catalog.UpdateProduct(ctx, current.ID, in)
	if err != nil {
		return err
	}

	c.io.Printf("✓ Product updated: %s\n", product.Name)
	return nil
}

// productForm fills the edit form with the stored product
func productForm(p models.Product) catalog.ProductInput {
	return catalog.ProductInput{
		Selection: catalog.Selection{
			BrandID:      p.BrandID,
			PartnerID:    p.PartnerID,
			CollectionID: p.CollectionID,
		},
		Name:      p.Name,
		Color:     p.Color,
		Size:      p.Size,
		Price:     strconv.FormatFloat(p.Price, 'f', -1, 64),
		Image:     p.Image,
		ImageName: p.ImageName,
	}
}

func (c *Cli) DeleteProduct(ctx context.Context, pos int, q catalog.Query) error {
	if _, err := c.gate(ctx, auth.RouteProducts); err != nil {
		return err
	}

	products := c.catalog.Products(ctx, q)
	id, err := idAt(products, pos)
	if err != nil {
		return err
	}

	if err := c.catalog.DeleteProduct(ctx, id); err != nil {
		return err
	}

	c.io.Printf("✓ Product deleted: %s\n", products[pos-1].Name)
	return nil
}

// ExportProducts writes local products to an xlsx file
func (c *Cli) ExportProducts(ctx context.Context, path string) error {
	if _, err := c.gate(ctx, auth.RouteProducts); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	count, err := c.catalog.ExportProducts(ctx, f)
	if closeErr := f.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("failed to close %s: %w", path, closeErr)
	}
	if err != nil {
		return err
	}

	c.io.Printf("✓ Exported %d product(s) to %s\n", count, path)
	return nil
}

// ImportProducts appends products from an xlsx file in the export layout
func (c *Cli) ImportProducts(ctx context.Context, path string) error {
	if _, err := c.gate(ctx, auth.RouteProducts); err != nil {
		return err
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat %s: %w", path, err)
	}

	result, err := c.catalog.ImportProductsXLSX(ctx, f, info.Size())
	if err != nil {
		return err
	}

	c.io.Printf("✓ Imported %d product(s)\n", result.Imported)
	for _, rowErr := range result.Errors {
		c.io.Printf("  row %d: %s\n", rowErr.Row, rowErr.Message)
	}
	return nil
}
