package cli

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/iudanet/shopfront/internal/auth"
	"github.com/iudanet/shopfront/internal/cart"
	"github.com/iudanet/shopfront/internal/catalog"
	"github.com/iudanet/shopfront/internal/models"
	"github.com/iudanet/shopfront/internal/productsync"
)

// Sync loads the feed (or its cache) and merges it with local products
func (c *Cli) Sync(ctx context.Context) error {
	if _, err := c.requireLogin(ctx); err != nil {
		return err
	}

	res, err := c.sync.Load(ctx)
	if err != nil {
		return err
	}

	source := "feed"
	if res.FromCache {
		source = "cache"
	}
	c.io.Println("✓ Storefront synced")
	c.io.Printf("Local:  %d\n", res.Local)
	c.io.Printf("Feed:   %d (from %s)\n", res.Feed, source)
	c.io.Printf("Merged: %d\n", res.Merged)
	return nil
}

// Catalog prints the storefront. With watch it keeps reprinting on every
// change until ctx is cancelled.
func (c *Cli) Catalog(ctx context.Context, search string, watch bool, interval time.Duration) error {
	if _, err := c.gate(ctx, auth.RouteDashboard); err != nil {
		return err
	}

	if _, err := c.sync.Load(ctx); err != nil {
		return err
	}
	c.printStorefront(search)

	if !watch {
		return nil
	}

	c.watchSearch = search
	c.watching.Store(true)
	defer c.watching.Store(false)

	c.io.Println()
	c.io.Println("Watching for changes (Ctrl+C to stop)...")

	err := c.sync.Run(ctx, interval)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// OnChange is registered with the sync service and reprints the storefront
// while Catalog is watching
func (c *Cli) OnChange(res *productsync.SyncResult) {
	if !c.watching.Load() {
		return
	}
	c.io.Println()
	c.io.Printf("--- storefront updated: %d local, %d feed ---\n", res.Local, res.Feed)
	c.printStorefront(c.watchSearch)
}

func (c *Cli) storefront(search string) []models.Product {
	products := c.sync.Snapshot()

	needle := strings.ToLower(strings.TrimSpace(search))
	if needle == "" {
		return products
	}
	return slices.DeleteFunc(slices.Clone(products), func(p models.Product) bool {
		return !strings.Contains(strings.ToLower(p.Name), needle) &&
			!strings.Contains(strings.ToLower(p.Category), needle)
	})
}

func (c *Cli) printStorefront(search string) {
	products := c.storefront(search)

	c.io.Println("=== Storefront ===")
	c.io.Println()
	if len(products) == 0 {
		c.io.Println("No products found.")
		return
	}

	for i, p := range products {
		origin := ""
		if p.IsLocalProduct {
			origin = "  [shop]"
		}
		c.io.Printf("%d. %s  %s  ★%.1f%s\n", i+1, p.Name, money(p.Price), p.Rating.Rate, origin)
	}
}

// storefrontProduct resolves a row number of 'shop catalog' or a product id
func (c *Cli) storefrontProduct(ctx context.Context, ref string) (models.Product, error) {
	if _, err := c.sync.Load(ctx); err != nil {
		return models.Product{}, err
	}

	if n, err := strconv.Atoi(ref); err == nil {
		products := c.sync.Snapshot()
		i, err := position(n, len(products))
		if err != nil {
			return models.Product{}, err
		}
		return products[i], nil
	}

	product, ok := c.sync.Product(ref)
	if !ok {
		return models.Product{}, fmt.Errorf("product %q: %w", ref, catalog.ErrNotFound)
	}
	return product, nil
}

// ShowProduct prints the detail view of a storefront product
func (c *Cli) ShowProduct(ctx context.Context, ref string) error {
	if _, err := c.gate(ctx, auth.RouteProductDetail); err != nil {
		return err
	}

	product, err := c.storefrontProduct(ctx, ref)
	if err != nil {
		return err
	}

	names := c.catalog.Names(ctx)
	return render(c.io, "product", productTemplate, struct {
		Product    models.Product
		Brand      string
		Partner    string
		Collection string
	}{
		Product:    product,
		Brand:      names.Brand(product.BrandID),
		Partner:    names.Partner(product.PartnerID),
		Collection: names.Collection(product.CollectionID),
	})
}

// Cart

func (c *Cli) customer(ctx context.Context) (string, error) {
	session, err := c.gate(ctx, auth.RouteCart)
	if err != nil {
		return "", err
	}
	return session.UserID, nil
}

// line returns the product id of the cart row at pos
func (c *Cli) line(ctx context.Context, userID string, pos int) (models.CartItem, error) {
	items := c.cart.Items(ctx, userID)
	i, err := position(pos, len(items))
	if err != nil {
		return models.CartItem{}, err
	}
	return items[i], nil
}

func (c *Cli) CartList(ctx context.Context) error {
	userID, err := c.customer(ctx)
	if err != nil {
		return err
	}

	state := c.cart.State(ctx, userID)

	c.io.Println("=== Cart ===")
	c.io.Println()
	if len(state.Items) == 0 {
		c.io.Println("Your cart is empty.")
		c.io.Println("Use 'shop cart add <row>' to add products from 'shop catalog'.")
		return nil
	}

	for i, item := range state.Items {
		mark := "[ ]"
		if slices.Contains(state.Selected, item.Product.ID) {
			mark = "[x]"
		}
		c.io.Printf("%d. %s %s x%d  %s\n", i+1, mark, item.Product.Name, item.Quantity, money(item.LineTotal()))
	}

	c.io.Println()
	return render(c.io, "totals", totalsTemplate, cart.ComputeTotals(state.Items))
}

// CartAdd adds qty units of a storefront product (row number or id)
func (c *Cli) CartAdd(ctx context.Context, ref string, qty int) error {
	userID, err := c.customer(ctx)
	if err != nil {
		return err
	}

	product, err := c.storefrontProduct(ctx, ref)
	if err != nil {
		return err
	}

	item, err := c.cart.AddOrIncrement(ctx, userID, product, qty)
	if err != nil {
		return err
	}

	c.io.Printf("✓ %s in cart: x%d\n", product.Name, item.Quantity)
	return nil
}

func (c *Cli) CartQuantity(ctx context.Context, pos, qty int) error {
	userID, err := c.customer(ctx)
	if err != nil {
		return err
	}

	item, err := c.line(ctx, userID, pos)
	if err != nil {
		return err
	}

	changed, err := c.cart.UpdateQuantity(ctx, userID, item.Product.ID, qty)
	if err != nil {
		return err
	}
	if !changed {
		c.io.Printf("Quantity must be between %d and %d, left at %d.\n", cart.MinQuantity, cart.MaxQuantity, item.Quantity)
		return nil
	}

	c.io.Printf("✓ %s: x%d\n", item.Product.Name, qty)
	return nil
}

func (c *Cli) CartRemove(ctx context.Context, pos int) error {
	userID, err := c.customer(ctx)
	if err != nil {
		return err
	}

	item, err := c.line(ctx, userID, pos)
	if err != nil {
		return err
	}

	if err := c.cart.Remove(ctx, userID, item.Product.ID); err != nil {
		return err
	}

	c.io.Printf("✓ Removed %s\n", item.Product.Name)
	return nil
}

// CartSelect toggles the given rows, or selects/clears every row
func (c *Cli) CartSelect(ctx context.Context, rows []int, all, none bool) error {
	userID, err := c.customer(ctx)
	if err != nil {
		return err
	}

	switch {
	case all:
		err = c.cart.SelectAll(ctx, userID)
	case none:
		err = c.cart.ClearSelection(ctx, userID)
	default:
		for _, pos := range rows {
			item, lineErr := c.line(ctx, userID, pos)
			if lineErr != nil {
				return lineErr
			}
			if _, err = c.cart.Toggle(ctx, userID, item.Product.ID); err != nil {
				break
			}
		}
	}
	if err != nil {
		return err
	}

	c.io.Printf("✓ %d of %d item(s) selected\n", len(c.cart.Selected(ctx, userID)), len(c.cart.Items(ctx, userID)))
	return nil
}

// checkoutSet parses mode and resolves the single row
func (c *Cli) checkoutSet(ctx context.Context, userID, mode string, pos int) (models.CheckoutMode, string, []models.CartItem, error) {
	checkoutMode, err := cart.ParseMode(mode)
	if err != nil {
		return "", "", nil, err
	}

	var productID string
	if checkoutMode == models.CheckoutSingle {
		item, err := c.line(ctx, userID, pos)
		if err != nil {
			return "", "", nil, err
		}
		productID = item.Product.ID
	}

	items, err := c.cart.CheckoutSet(ctx, userID, checkoutMode, productID)
	if err != nil {
		return "", "", nil, err
	}
	return checkoutMode, productID, items, nil
}

// CartTotals prints what a checkout in mode would cost
func (c *Cli) CartTotals(ctx context.Context, mode string, pos int) error {
	userID, err := c.customer(ctx)
	if err != nil {
		return err
	}

	_, _, items, err := c.checkoutSet(ctx, userID, mode, pos)
	if err != nil {
		return err
	}

	c.io.Printf("%d item(s)\n", len(items))
	return render(c.io, "totals", totalsTemplate, cart.ComputeTotals(items))
}

// Checkout places an order for the checkout set.
// When payment is empty the accepted methods are offered.
func (c *Cli) Checkout(ctx context.Context, mode string, pos int, payment string) error {
	userID, err := c.customer(ctx)
	if err != nil {
		return err
	}

	checkoutMode, productID, items, err := c.checkoutSet(ctx, userID, mode, pos)
	if err != nil {
		return err
	}

	c.io.Println("=== Checkout ===")
	c.io.Println()
	for i, item := range items {
		c.io.Printf("%d. %s x%d  %s\n", i+1, item.Product.Name, item.Quantity, money(item.LineTotal()))
	}
	c.io.Println()
	if err := render(c.io, "totals", totalsTemplate, cart.ComputeTotals(items)); err != nil {
		return err
	}

	if payment == "" {
		if payment, err = c.choosePayment(); err != nil {
			return err
		}
	}

	order, err := c.cart.PlaceOrder(ctx, cart.OrderRequest{
		UserID:        userID,
		Mode:          checkoutMode,
		ProductID:     productID,
		PaymentMethod: payment,
	})
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("✓ Order placed!")
	return render(c.io, "order", orderTemplate, order)
}

// choosePayment accepts a method number or its name
func (c *Cli) choosePayment() (string, error) {
	c.io.Println()
	c.io.Println("Payment methods:")
	for i, m := range cart.PaymentMethods {
		c.io.Printf("  %d. %s\n", i+1, m)
	}

	input, err := c.io.ReadInput("Payment method: ")
	if err != nil {
		return "", fmt.Errorf("failed to read payment method: %w", err)
	}

	if n, err := strconv.Atoi(input); err == nil {
		if i, err := position(n, len(cart.PaymentMethods)); err == nil {
			return cart.PaymentMethods[i], nil
		}
		return "", cart.ErrPaymentRequired
	}
	for _, m := range cart.PaymentMethods {
		if strings.EqualFold(m, input) {
			return m, nil
		}
	}
	return input, nil
}

// Orders prints the order history of the current customer
func (c *Cli) Orders(ctx context.Context) error {
	userID, err := c.customer(ctx)
	if err != nil {
		return err
	}

	orders := c.cart.Orders(ctx, userID)
	if len(orders) == 0 {
		c.io.Println("No orders yet.")
		return nil
	}

	for _, order := range orders {
		if err := render(c.io, "order", orderTemplate, order); err != nil {
			return err
		}
	}
	return nil
}
