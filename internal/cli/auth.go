package cli

import (
	"context"
	"fmt"

	"github.com/iudanet/shopfront/internal/auth"
)

// RegisterInput holds values given on the command line. Empty ones are prompted for
type RegisterInput struct {
	Name     string
	Email    string
	Password string
	Admin    bool
}

func (c *Cli) Register(ctx context.Context, in RegisterInput) error {
	if _, err := c.gate(ctx, auth.RouteRegister); err != nil {
		return err
	}

	c.io.Println("=== Registration ===")
	c.io.Println()

	name, err := c.ask(in.Name, "Name: ")
	if err != nil {
		return err
	}
	email, err := c.ask(in.Email, "Email: ")
	if err != nil {
		return err
	}

	password := in.Password
	if password == "" {
		if password, err = c.io.ReadPassword("Password: "); err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
		confirm, err := c.io.ReadPassword("Confirm password: ")
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		if password != confirm {
			return fmt.Errorf("passwords do not match")
		}
	}

	user, err := c.auth.Register(ctx, name, email, password, in.Admin)
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("✓ Registration successful!")
	c.io.Printf("User ID: %s\n", user.ID)
	c.io.Printf("Role:    %s\n", user.Role)
	c.io.Println()
	c.io.Println("Please run 'shop login' to continue.")
	return nil
}

func (c *Cli) Login(ctx context.Context, email, password string) error {
	if _, err := c.gate(ctx, auth.RouteLogin); err != nil {
		return err
	}

	c.io.Println("=== Login ===")
	c.io.Println()

	email, err := c.ask(email, "Email: ")
	if err != nil {
		return err
	}
	if password == "" {
		if password, err = c.io.ReadPassword("Password: "); err != nil {
			return fmt.Errorf("failed to read password: %w", err)
		}
	}

	session, err := c.auth.Login(ctx, email, password)
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("✓ Login successful!")
	c.io.Printf("Welcome, %s (%s)\n", session.Name, session.Role)
	if hint, ok := commandFor[auth.Home(session)]; ok {
		c.io.Printf("Start with '%s'.\n", hint)
	}
	return nil
}

func (c *Cli) Logout(ctx context.Context) error {
	session := c.auth.Current(ctx)
	if !session.IsLoggedIn {
		c.io.Println("Not logged in.")
		return nil
	}

	if err := c.auth.Logout(ctx); err != nil {
		return err
	}

	c.io.Println("✓ Logged out successfully")
	return nil
}

func (c *Cli) Status(ctx context.Context) error {
	session := c.auth.Current(ctx)
	if !session.IsLoggedIn {
		c.io.Println("Not logged in.")
		c.io.Println("Please run 'shop login' or 'shop register'.")
		return nil
	}
	return render(c.io, "status", statusTemplate, session)
}
