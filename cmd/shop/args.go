package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iudanet/shopfront/internal/catalog"
)

// queryFlags are the --search/--sort flags of list views.
// edit and delete take the same flags so row numbers match the printed list.
type queryFlags struct {
	search string
	sort   string
}

func (q *queryFlags) bind(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&q.search, "search", "s", "", "Filter rows by substring")
	cmd.Flags().StringVar(&q.sort, "sort", "", "Sort by name: asc or desc")
}

func (q *queryFlags) query() (catalog.Query, error) {
	query := catalog.Query{Search: q.search}
	switch strings.ToLower(q.sort) {
	case "":
	case "asc":
		query.Sort = catalog.SortNameAsc
	case "desc":
		query.Sort = catalog.SortNameDesc
	default:
		return query, fmt.Errorf("unknown sort order %q, use asc or desc", q.sort)
	}
	return query, nil
}

// row parses a 1-based row number argument
func row(arg string) (int, error) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid row number %q", arg)
	}
	return n, nil
}

// optional returns args[i] or ""
func optional(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}
