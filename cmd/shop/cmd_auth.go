package main

import (
	"github.com/spf13/cobra"

	"github.com/iudanet/shopfront/internal/cli"
)

var registerFlags cli.RegisterInput

// shop register
var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Register a new account",
	RunE: func(cmd *cobra.Command, args []string) error {
		return shell.Register(cmd.Context(), registerFlags)
	},
}

var loginFlags struct {
	email    string
	password string
}

// shop login
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and keep the session in the local store",
	RunE: func(cmd *cobra.Command, args []string) error {
		return shell.Login(cmd.Context(), loginFlags.email, loginFlags.password)
	},
}

// shop logout
var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Forget the current session",
	RunE: func(cmd *cobra.Command, args []string) error {
		return shell.Logout(cmd.Context())
	},
}

// shop status
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show who is logged in",
	RunE: func(cmd *cobra.Command, args []string) error {
		return shell.Status(cmd.Context())
	},
}

func init() {
	f := registerCmd.Flags()
	f.StringVar(&registerFlags.Name, "name", "", "Display name (letters only)")
	f.StringVar(&registerFlags.Email, "email", "", "Email")
	f.StringVar(&registerFlags.Password, "password", "", "Password (prompted when empty)")
	f.BoolVar(&registerFlags.Admin, "admin", false, "Register as administrator")

	f = loginCmd.Flags()
	f.StringVar(&loginFlags.email, "email", "", "Email")
	f.StringVar(&loginFlags.password, "password", "", "Password (prompted when empty)")
}
