package main

import (
	"github.com/spf13/cobra"

	"github.com/iudanet/shopfront/internal/cli"
)

// shop brand ...
var brandCmd = &cobra.Command{
	Use:   "brand",
	Short: "Manage brands (admin)",
}

var brandQuery queryFlags

var brandListCmd = &cobra.Command{
	Use:   "list",
	Short: "List brands",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := brandQuery.query()
		if err != nil {
			return err
		}
		return shell.ListBrands(cmd.Context(), q)
	},
}

var brandAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a brand",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return shell.AddBrand(cmd.Context(), optional(args, 0))
	},
}

var brandEditCmd = &cobra.Command{
	Use:   "edit <row> [name]",
	Short: "Rename the brand at a row of 'brand list'",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		pos, err := row(args[0])
		if err != nil {
			return err
		}
		q, err := brandQuery.query()
		if err != nil {
			return err
		}
		return shell.EditBrand(cmd.Context(), pos, q, optional(args, 1))
	},
}

var brandDeleteCmd = &cobra.Command{
	Use:   "delete <row>",
	Short: "Delete the brand at a row of 'brand list'. Children are kept",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pos, err := row(args[0])
		if err != nil {
			return err
		}
		q, err := brandQuery.query()
		if err != nil {
			return err
		}
		return shell.DeleteBrand(cmd.Context(), pos, q)
	},
}

// shop partner ...
var partnerCmd = &cobra.Command{
	Use:   "partner",
	Short: "Manage partners (admin)",
}

var (
	partnerQuery queryFlags
	partnerBrand string
)

var partnerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List partners",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := partnerQuery.query()
		if err != nil {
			return err
		}
		return shell.ListPartners(cmd.Context(), q)
	},
}

var partnerAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a partner to a brand",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return shell.AddPartner(cmd.Context(), optional(args, 0), partnerBrand)
	},
}

var partnerEditCmd = &cobra.Command{
	Use:   "edit <row> [name]",
	Short: "Change the partner at a row of 'partner list'",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		pos, err := row(args[0])
		if err != nil {
			return err
		}
		q, err := partnerQuery.query()
		if err != nil {
			return err
		}
		return shell.EditPartner(cmd.Context(), pos, q, optional(args, 1), partnerBrand)
	},
}

var partnerDeleteCmd = &cobra.Command{
	Use:   "delete <row>",
	Short: "Delete the partner at a row of 'partner list'",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pos, err := row(args[0])
		if err != nil {
			return err
		}
		q, err := partnerQuery.query()
		if err != nil {
			return err
		}
		return shell.DeletePartner(cmd.Context(), pos, q)
	},
}

// shop collection ...
var collectionCmd = &cobra.Command{
	Use:   "collection",
	Short: "Manage collections (admin)",
}

var (
	collectionQuery   queryFlags
	collectionBrand   string
	collectionPartner string
)

var collectionListCmd = &cobra.Command{
	Use:   "list",
	Short: "List collections",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := collectionQuery.query()
		if err != nil {
			return err
		}
		return shell.ListCollections(cmd.Context(), q)
	},
}

var collectionAddCmd = &cobra.Command{
	Use:   "add [name]",
	Short: "Add a collection for a brand and one of its partners",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return shell.AddCollection(cmd.Context(), optional(args, 0), collectionBrand, collectionPartner)
	},
}

var collectionEditCmd = &cobra.Command{
	Use:   "edit <row> [name]",
	Short: "Change the collection at a row of 'collection list'",
	Args:  cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		pos, err := row(args[0])
		if err != nil {
			return err
		}
		q, err := collectionQuery.query()
		if err != nil {
			return err
		}
		return shell.EditCollection(cmd.Context(), pos, q, optional(args, 1), collectionBrand, collectionPartner)
	},
}

var collectionDeleteCmd = &cobra.Command{
	Use:   "delete <row>",
	Short: "Delete the collection at a row of 'collection list'",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pos, err := row(args[0])
		if err != nil {
			return err
		}
		q, err := collectionQuery.query()
		if err != nil {
			return err
		}
		return shell.DeleteCollection(cmd.Context(), pos, q)
	},
}

// shop product ...
var productCmd = &cobra.Command{
	Use:   "product",
	Short: "Manage local products (admin)",
}

var (
	productQuery queryFlags
	productFlags cli.ProductFlags
)

var productListCmd = &cobra.Command{
	Use:   "list",
	Short: "List local products",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		q, err := productQuery.query()
		if err != nil {
			return err
		}
		return shell.ListProducts(cmd.Context(), q)
	},
}

var productAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a product. Missing required fields are prompted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return shell.AddProduct(cmd.Context(), productFlags)
	},
}

var productEditCmd = &cobra.Command{
	Use:   "edit <row>",
	Short: "Change the product at a row of 'product list'",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pos, err := row(args[0])
		if err != nil {
			return err
		}
		q, err := productQuery.query()
		if err != nil {
			return err
		}
		return shell.EditProduct(cmd.Context(), pos, q, productFlags)
	},
}

var productDeleteCmd = &cobra.Command{
	Use:   "delete <row>",
	Short: "Delete the product at a row of 'product list'",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		pos, err := row(args[0])
		if err != nil {
			return err
		}
		q, err := productQuery.query()
		if err != nil {
			return err
		}
		return shell.DeleteProduct(cmd.Context(), pos, q)
	},
}

var productExportCmd = &cobra.Command{
	Use:   "export <file.xlsx>",
	Short: "Export local products to a spreadsheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return shell.ExportProducts(cmd.Context(), args[0])
	},
}

var productImportCmd = &cobra.Command{
	Use:   "import <file.xlsx>",
	Short: "Import products from a spreadsheet in the export layout",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return shell.ImportProducts(cmd.Context(), args[0])
	},
}

// shop orphans
var orphansCmd = &cobra.Command{
	Use:   "orphans",
	Short: "List partners, collections and products whose parent was deleted",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return shell.Orphans(cmd.Context())
	},
}

func init() {
	brandQuery.bind(brandListCmd)
	brandQuery.bind(brandEditCmd)
	brandQuery.bind(brandDeleteCmd)
	brandCmd.AddCommand(brandListCmd, brandAddCmd, brandEditCmd, brandDeleteCmd)

	partnerQuery.bind(partnerListCmd)
	partnerQuery.bind(partnerEditCmd)
	partnerQuery.bind(partnerDeleteCmd)
	for _, c := range []*cobra.Command{partnerAddCmd, partnerEditCmd} {
		c.Flags().StringVar(&partnerBrand, "brand", "", "Brand row, name or id")
	}
	partnerCmd.AddCommand(partnerListCmd, partnerAddCmd, partnerEditCmd, partnerDeleteCmd)

	collectionQuery.bind(collectionListCmd)
	collectionQuery.bind(collectionEditCmd)
	collectionQuery.bind(collectionDeleteCmd)
	for _, c := range []*cobra.Command{collectionAddCmd, collectionEditCmd} {
		c.Flags().StringVar(&collectionBrand, "brand", "", "Brand row, name or id")
		c.Flags().StringVar(&collectionPartner, "partner", "", "Partner of the brand: row, name or id")
	}
	collectionCmd.AddCommand(collectionListCmd, collectionAddCmd, collectionEditCmd, collectionDeleteCmd)

	productQuery.bind(productListCmd)
	productQuery.bind(productEditCmd)
	productQuery.bind(productDeleteCmd)
	for _, c := range []*cobra.Command{productAddCmd, productEditCmd} {
		f := c.Flags()
		f.StringVar(&productFlags.Name, "name", "", "Product name")
		f.StringVar(&productFlags.Brand, "brand", "", "Brand row, name or id")
		f.StringVar(&productFlags.Partner, "partner", "", "Partner of the brand")
		f.StringVar(&productFlags.Collection, "collection", "", "Collection of the brand and partner")
		f.StringVar(&productFlags.Color, "color", "", "Color")
		f.StringVar(&productFlags.Size, "size", "", "Size")
		f.StringVar(&productFlags.Price, "price", "", "Price, e.g. 99.50")
		f.StringVar(&productFlags.Image, "image", "", "Path to a PNG or JPEG image (max 2MB)")
	}
	productCmd.AddCommand(productListCmd, productAddCmd, productEditCmd, productDeleteCmd, productExportCmd, productImportCmd)
}
