// Package cmd provides the CLI commands for storectl.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/agricult/storectl/internal/config"
)

var cfgFile string
var sessionFilePath string

var rootCmd = &cobra.Command{
	Use:   "storectl",
	Short: "storectl - storefront API client",
	Long: `storectl is a command-line client for a storefront REST API.

It browses the product catalog, manages a login session and shopping
cart, and places orders against a remote storefront server.

Quick start:
  1. Point it at a server: export STORECTL_API_BASE_URL=https://shop.example.com/api
  2. Browse: storectl products
  3. Log in: storectl login --username you

Configuration:
  Config is loaded from storectl.yaml in the current directory,
  $HOME/.storectl/, or /etc/storectl/.

  Environment variables can override config values with the STORECTL_ prefix.
  Example: STORECTL_API_BASE_URL=https://shop.example.com/api

Commands:
  login       Log in and persist the session
  logout      Clear the session and cached cart
  register    Create a new account
  products    List and search the catalog
  cart        Show and mutate the shopping cart
  orders      List orders, place orders, buy now
  version     Print version information`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./storectl.yaml)")
	rootCmd.PersistentFlags().StringVar(&sessionFilePath, "session", "", "path to session file (default: ~/.storectl/session.json)")
}

func initConfig() {
	config.InitViper(cfgFile)
}
