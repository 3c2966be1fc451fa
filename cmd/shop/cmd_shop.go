package main

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

// shop catalog
var catalogFlags struct {
	search   string
	watch    bool
	interval time.Duration
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Browse the storefront: local products followed by the feed",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		interval := catalogFlags.interval
		if interval <= 0 {
			interval = application.Config.PollInterval
		}
		return shell.Catalog(cmd.Context(), catalogFlags.search, catalogFlags.watch, interval)
	},
}

var catalogShowCmd = &cobra.Command{
	Use:   "show <row|id>",
	Short: "Show product details",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return shell.ShowProduct(cmd.Context(), args[0])
	},
}

// shop sync
var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Reload the product feed and merge it with local products",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return shell.Sync(cmd.Context())
	},
}

// shop cart ...
var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Show and change your cart",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return shell.CartList(cmd.Context())
	},
}

var cartListCmd = &cobra.Command{
	Use:   "list",
	Short: "Show cart lines and totals",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return shell.CartList(cmd.Context())
	},
}

var cartAddQty int

var cartAddCmd = &cobra.Command{
	Use:   "add <row|id>",
	Short: "Add a storefront product to the cart",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return shell.CartAdd(cmd.Context(), args[0], cartAddQty)
	},
}

var cartQtyCmd = &cobra.Command{
	Use:   "qty <row> <quantity>",
	Short: "Set the quantity of a cart line (1..20)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		pos, err := row(args[0])
		if err != nil {
			return err
		}
		qty, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid quantity %q", args[1])
		}
		return shell.CartQuantity(cmd.Context(), pos, qty)
	},
}

var cartRemoveCmd = &cobra.Command{
	Use:   "remove <row>",
	Short: "Remove a cart line",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pos, err := row(args[0])
		if err != nil {
			return err
		}
		return shell.CartRemove(cmd.Context(), pos)
	},
}

var cartSelectFlags struct {
	all  bool
	none bool
}

var cartSelectCmd = &cobra.Command{
	Use:   "select [row...]",
	Short: "Toggle selection of cart lines",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 && !cartSelectFlags.all && !cartSelectFlags.none {
			return errors.New("give row numbers, --all or --none")
		}
		rows := make([]int, 0, len(args))
		for _, arg := range args {
			pos, err := row(arg)
			if err != nil {
				return err
			}
			rows = append(rows, pos)
		}
		return shell.CartSelect(cmd.Context(), rows, cartSelectFlags.all, cartSelectFlags.none)
	},
}

// флаги набора для оформления, общие для totals и checkout
type checkoutSetFlags struct {
	mode string
	item int
}

func (f *checkoutSetFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.mode, "mode", "all", "What to check out: all, selected or single")
	cmd.Flags().IntVar(&f.item, "item", 0, "Cart row for --mode single")
}

var cartTotals checkoutSetFlags

var cartTotalsCmd = &cobra.Command{
	Use:   "totals",
	Short: "Show what a checkout would cost",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return shell.CartTotals(cmd.Context(), cartTotals.mode, cartTotals.item)
	},
}

// shop checkout
var (
	checkoutSet     checkoutSetFlags
	checkoutPayment string
)

var checkoutCmd = &cobra.Command{
	Use:   "checkout",
	Short: "Place an order for the cart, the selected lines or a single line",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return shell.Checkout(cmd.Context(), checkoutSet.mode, checkoutSet.item, checkoutPayment)
	},
}

// shop orders
var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Show your order history",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return shell.Orders(cmd.Context())
	},
}

func init() {
	catalogCmd.Flags().StringVarP(&catalogFlags.search, "search", "s", "", "Filter by name or category")
	catalogCmd.Flags().BoolVarP(&catalogFlags.watch, "watch", "w", false, "Keep running and reprint on changes")
	catalogCmd.Flags().DurationVar(&catalogFlags.interval, "interval", 0, "Poll interval for --watch (default SHOP_POLL_INTERVAL)")
	catalogCmd.AddCommand(catalogShowCmd)

	cartAddCmd.Flags().IntVarP(&cartAddQty, "qty", "q", 1, "Quantity to add")
	cartSelectCmd.Flags().BoolVar(&cartSelectFlags.all, "all", false, "Select every line")
	cartSelectCmd.Flags().BoolVar(&cartSelectFlags.none, "none", false, "Clear the selection")
	cartSelectCmd.MarkFlagsMutuallyExclusive("all", "none")
	cartTotals.bind(cartTotalsCmd)
	cartCmd.AddCommand(cartListCmd, cartAddCmd, cartQtyCmd, cartRemoveCmd, cartSelectCmd, cartTotalsCmd)

	checkoutSet.bind(checkoutCmd)
	checkoutCmd.Flags().StringVar(&checkoutPayment, "payment", "", "Payment method; asked interactively when empty")
}
