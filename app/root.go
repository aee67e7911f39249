// Package app implements the main application commands.
package app

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "go-shop-admin",
	Short: "GoShopAdmin is a permission-based admin service for a small shop",
	Long: `GoShopAdmin is a permission-based admin service for a small shop.
It manages users, products and fine-grained permissions through a REST API
protected by signed session tokens.`,
	Args: cobra.OnlyValidArgs,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
