// Package cli implements the commands of the shop terminal client.
// Every command checks the role gate for its route before touching data.
package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"

	"github.com/iudanet/shopfront/internal/auth"
	"github.com/iudanet/shopfront/internal/cart"
	"github.com/iudanet/shopfront/internal/catalog"
	"github.com/iudanet/shopfront/internal/iocli"
	"github.com/iudanet/shopfront/internal/models"
	"github.com/iudanet/shopfront/internal/productsync"
)

// ErrAccessDenied is returned when the gate refuses a command
var ErrAccessDenied = errors.New("access denied")

// Services are the application services the commands drive
type Services struct {
	Auth    *auth.Service
	Catalog *catalog.Service
	Cart    *cart.Service
	Sync    productsync.Service
}

type Cli struct {
	io      iocli.IO
	auth    *auth.Service
	catalog *catalog.Service
	cart    *cart.Service
	sync    productsync.Service

	watching    atomic.Bool
	watchSearch string
}

func New(io iocli.IO, s Services) *Cli {
	return &Cli{
		io:      io,
		auth:    s.Auth,
		catalog: s.Catalog,
		cart:    s.Cart,
		sync:    s.Sync,
	}
}

// commandFor подсказывает команду, открывающую маршрут
var commandFor = map[string]string{
	auth.RouteRegister:       "shop register",
	auth.RouteLogin:          "shop login",
	auth.RouteDashboard:      "shop catalog",
	auth.RouteAdminDashboard: "shop product list",
}

// gate returns the current session when it may open route
func (c *Cli) gate(ctx context.Context, route string) (*models.Session, error) {
	session := c.auth.Current(ctx)
	decision := auth.Decide(session, route)
	if decision.Allowed {
		return session, nil
	}

	if hint, ok := commandFor[decision.Redirect]; ok {
		return nil, fmt.Errorf("%w: try '%s'", ErrAccessDenied, hint)
	}
	return nil, ErrAccessDenied
}

// requireLogin пропускает любого вошедшего пользователя
func (c *Cli) requireLogin(ctx context.Context) (*models.Session, error) {
	session := c.auth.Current(ctx)
	if !session.IsLoggedIn {
		return nil, fmt.Errorf("%w: try 'shop login'", ErrAccessDenied)
	}
	return session, nil
}

// ask returns value, or prompts for it when empty
func (c *Cli) ask(value, prompt string) (string, error) {
	if value != "" {
		return value, nil
	}
	input, err := c.io.ReadInput(prompt)
	if err != nil {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return input, nil
}

// position converts a 1-based printed row number to a list index
func position(pos, size int) (int, error) {
	if pos < 1 || pos > size {
		return 0, fmt.Errorf("row %d: %w", pos, catalog.ErrIndexOutOfRange)
	}
	return pos - 1, nil
}

// idAt resolves a printed row number in view to the record id
func idAt[T catalog.Entity](view []T, pos int) (string, error) {
	return catalog.IDAt(view, pos-1)
}

// resolve finds a record by row number, name (case-insensitive) or id.
// An empty ref resolves to "".
func resolve[T catalog.Entity](items []T, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", nil
	}

	if n, err := strconv.Atoi(ref); err == nil {
		return idAt(items, n)
	}

	for _, item := range items {
		if strings.EqualFold(item.GetName(), ref) || item.GetID() == ref {
			return item.GetID(), nil
		}
	}
	return "", fmt.Errorf("%q: %w", ref, catalog.ErrNotFound)
}

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}
