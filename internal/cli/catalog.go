package cli

import (
	"context"
	"fmt"

	"github.com/iudanet/shopfront/internal/auth"
	"github.com/iudanet/shopfront/internal/catalog"
)

// Brands

func (c *Cli) ListBrands(ctx context.Context, q catalog.Query) error {
	if _, err := c.gate(ctx, auth.RouteBrand); err != nil {
		return err
	}

	brands := c.catalog.Brands(ctx, q)

	c.io.Println("=== Brands ===")
	c.io.Println()
	if len(brands) == 0 {
		c.io.Println("No brands found.")
		return nil
	}
	for i, b := range brands {
		c.io.Printf("%d. %s\n", i+1, b.Name)
	}
	return nil
}

func (c *Cli) AddBrand(ctx context.Context, name string) error {
	if _, err := c.gate(ctx, auth.RouteBrand); err != nil {
		return err
	}

	name, err := c.ask(name, "Brand name: ")
	if err != nil {
		return err
	}

	brand, err := c.catalog.CreateBrand(ctx, name)
	if err != nil {
		return err
	}

	c.io.Printf("✓ Brand added: %s\n", brand.Name)
	return nil
}

// EditBrand renames the brand printed at pos by 'brand list' with the same query
func (c *Cli) EditBrand(ctx context.Context, pos int, q catalog.Query, name string) error {
	if _, err := c.gate(ctx, auth.RouteBrand); err != nil {
		return err
	}

	id, err := idAt(c.catalog.Brands(ctx, q), pos)
	if err != nil {
		return err
	}
	name, err = c.ask(name, "New name: ")
	if err != nil {
		return err
	}

	brand, err := c.catalog.UpdateBrand(ctx, id, name)
	if err != nil {
		return err
	}

	c.io.Printf("✓ Brand updated: %s\n", brand.Name)
	return nil
}

func (c *Cli) DeleteBrand(ctx context.Context, pos int, q catalog.Query) error {
	if _, err := c.gate(ctx, auth.RouteBrand); err != nil {
		return err
	}

	brands := c.catalog.Brands(ctx, q)
	id, err := idAt(brands, pos)
	if err != nil {
		return err
	}

	if err := c.catalog.DeleteBrand(ctx, id); err != nil {
		return err
	}

	c.io.Printf("✓ Brand deleted: %s\n", brands[pos-1].Name)
	return nil
}

// Partners

func (c *Cli) ListPartners(ctx context.Context, q catalog.Query) error {
	if _, err := c.gate(ctx, auth.RoutePartners); err != nil {
		return err
	}

	partners := c.catalog.Partners(ctx, q)
	names := c.catalog.Names(ctx)

	c.io.Println("=== Partners ===")
	c.io.Println()
	if len(partners) == 0 {
		c.io.Println("No partners found.")
		return nil
	}
	for i, p := range partners {
		c.io.Printf("%d. %s (brand: %s)\n", i+1, p.Name, orDash(names.Brand(p.BrandID)))
	}
	return nil
}

// AddPartner creates a partner. brand is a row number of 'brand list', a name or an id
func (c *Cli) AddPartner(ctx context.Context, name, brand string) error {
	if _, err := c.gate(ctx, auth.RoutePartners); err != nil {
		return err
	}

	name, err := c.ask(name, "Partner name: ")
	if err != nil {
		return err
	}
	if brand, err = c.ask(brand, "Brand: "); err != nil {
		return err
	}
	brandID, err := resolve(c.catalog.Brands(ctx, catalog.Query{}), brand)
	if err != nil {
		return fmt.Errorf("brand %w", err)
	}

	partner, err := c.catalog.CreatePartner(ctx, name, brandID)
	if err != nil {
		return err
	}

	c.io.Printf("✓ Partner added: %s\n", partner.Name)
	return nil
}

// EditPartner changes the partner at pos. Empty name or brand keep the current value
func (c *Cli) EditPartner(ctx context.Context, pos int, q catalog.Query, name, brand string) error {
	if _, err := c.gate(ctx, auth.RoutePartners); err != nil {
		return err
	}

	partners := c.catalog.Partners(ctx, q)
	if _, err := idAt(partners, pos); err != nil {
		return err
	}
	current := partners[pos-1]

	if name == "" {
		name = current.Name
	}
	brandID := current.BrandID
	if brand != "" {
		var err error
		if brandID, err = resolve(c.catalog.Brands(ctx, catalog.Query{}), brand); err != nil {
			return fmt.Errorf("brand %w", err)
		}
	}

	partner, err := c.catalog.UpdatePartner(ctx, current.ID, name, brandID)
	if err != nil {
		return err
	}

	c.io.Printf("✓ Partner updated: %s\n", partner.Name)
	return nil
}

func (c *Cli) DeletePartner(ctx context.Context, pos int, q catalog.Query) error {
	if _, err := c.gate(ctx, auth.RoutePartners); err != nil {
		return err
	}

	partners := c.catalog.Partners(ctx, q)
	id, err := idAt(partners, pos)
	if err != nil {
		return err
	}

	if err := c.catalog.DeletePartner(ctx, id); err != nil {
		return err
	}

	c.io.Printf("✓ Partner deleted: %s\n", partners[pos-1].Name)
	return nil
}

// Collections

func (c *Cli) ListCollections(ctx context.Context, q catalog.Query) error {
	if _, err := c.gate(ctx, auth.RouteCollection); err != nil {
		return err
	}

	collections := c.catalog.Collections(ctx, q)
	names := c.catalog.Names(ctx)

	c.io.Println("=== Collections ===")
	c.io.Println()
	if len(collections) == 0 {
		c.io.Println("No collections found.")
		return nil
	}
	for i, col := range collections {
		c.io.Printf("%d. %s (brand: %s, partner: %s)\n", i+1, col.Name,
			orDash(names.Brand(col.BrandID)), orDash(names.Partner(col.PartnerID)))
	}
	return nil
}

// selection resolves brand, then partner among that brand's partners
func (c *Cli) selection(ctx context.Context, brand, partner string) (catalog.Selection, error) {
	var sel catalog.Selection

	brandID, err := resolve(c.catalog.Brands(ctx, catalog.Query{}), brand)
	if err != nil {
		return sel, fmt.Errorf("brand %w", err)
	}
	sel.SetBrand(brandID)

	partnerID, err := resolve(c.catalog.PartnerOptions(ctx, brandID), partner)
	if err != nil {
		return sel, fmt.Errorf("partner %w", err)
	}
	sel.SetPartner(partnerID)

	return sel, nil
}

// AddCollection creates a collection. partner is looked up among the brand's partners
func (c *Cli) AddCollection(ctx context.Context, name, brand, partner string) error {
	if _, err := c.gate(ctx, auth.RouteCollection); err != nil {
		return err
	}

	name, err := c.ask(name, "Collection name: ")
	if err != nil {
		return err
	}
	if brand, err = c.ask(brand, "Brand: "); err != nil {
		return err
	}
	if partner, err = c.ask(partner, "Partner: "); err != nil {
		return err
	}

	sel, err := c.selection(ctx, brand, partner)
	if err != nil {
		return err
	}

	collection, err := c.catalog.CreateCollection(ctx, name, sel)
	if err != nil {
		return err
	}

	c.io.Printf("✓ Collection added: %s\n", collection.Name)
	return nil
}

// EditCollection changes the collection at pos.
// A new brand requires a partner of that brand.
func (c *Cli) EditCollection(ctx context.Context, pos int, q catalog.Query, name, brand, partner string) error {
	if _, err := c.gate(ctx, auth.RouteCollection); err != nil {
		return err
	}

	collections := c.catalog.Collections(ctx, q)
	if _, err := idAt(collections, pos); err != nil {
		return err
	}
	current := collections[pos-1]

	if name == "" {
		name = current.Name
	}

	sel := catalog.Selection{BrandID: current.BrandID, PartnerID: current.PartnerID}
	switch {
	case brand != "":
		var err error
		if sel, err = c.selection(ctx, brand, partner); err != nil {
			return err
		}
	case partner != "":
		partnerID, err := resolve(c.catalog.PartnerOptions(ctx, sel.BrandID), partner)
		if err != nil {
			return fmt.Errorf("partner %w", err)
		}
		sel.SetPartner(partnerID)
	}

	collection, err := c.catalog.UpdateCollection(ctx, current.ID, name, sel)
	if err != nil {
		return err
	}

	c.io.Printf("✓ Collection updated: %s\n", collection.Name)
	return nil
}

func (c *Cli) DeleteCollection(ctx context.Context, pos int, q catalog.Query) error {
	if _, err := c.gate(ctx, auth.RouteCollection); err != nil {
		return err
	}

	collections := c.catalog.Collections(ctx, q)
	id, err := idAt(collections, pos)
	if err != nil {
		return err
	}

	if err := c.catalog.DeleteCollection(ctx, id); err != nil {
		return err
	}

	c.io.Printf("✓ Collection deleted: %s\n", collections[pos-1].Name)
	return nil
}

// Orphans prints records left behind by deleted parents
func (c *Cli) Orphans(ctx context.Context) error {
	if _, err := c.gate(ctx, auth.RouteAdminDashboard); err != nil {
		return err
	}

	report := c.catalog.Orphans(ctx)
	if report.Empty() {
		c.io.Println("No orphaned records.")
		return nil
	}

	c.io.Println("=== Orphaned records ===")
	for _, p := range report.Partners {
		c.io.Printf("partner     %s  %s\n", p.ID, p.Name)
	}
	for _, col := range report.Collections {
		c.io.Printf("collection  %s  %s\n", col.ID, col.Name)
	}
	for _, p := range report.Products {
		c.io.Printf("product     %s  %s\n", p.ID, p.Name)
	}
	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
