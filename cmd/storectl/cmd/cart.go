package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/agricult/storectl/internal/api"
)

var cartAddQty int
var cartUpdateQty int

var cartCmd = &cobra.Command{
	Use:   "cart",
	Short: "Show and mutate the shopping cart",
	Long: `Show the cart, add products, change quantities, remove lines.

The cart lives on the server; every mutation is followed by a reload so
the displayed state is always the server's. Requires a login session.

Examples:
  storectl cart
  storectl cart add 42 --qty 3
  storectl cart update 7 --qty 1
  storectl cart remove 7`,
	RunE: runCartShow,
}

var cartAddCmd = &cobra.Command{
	Use:   "add PRODUCT_ID",
	Short: "Add a product to the cart",
	Args:  cobra.ExactArgs(1),
	RunE:  runCartAdd,
}

var cartUpdateCmd = &cobra.Command{
	Use:   "update ITEM_ID",
	Short: "Set the quantity of a cart line (0 removes it)",
	Args:  cobra.ExactArgs(1),
	RunE:  runCartUpdate,
}

var cartRemoveCmd = &cobra.Command{
	Use:   "remove ITEM_ID",
	Short: "Remove a cart line",
	Args:  cobra.ExactArgs(1),
	RunE:  runCartRemove,
}

func init() {
	cartAddCmd.Flags().IntVar(&cartAddQty, "qty", 1, "quantity to add")
	cartUpdateCmd.Flags().IntVar(&cartUpdateQty, "qty", 0, "new quantity (0 removes the line)")
	cartCmd.AddCommand(cartAddCmd)
	cartCmd.AddCommand(cartUpdateCmd)
	cartCmd.AddCommand(cartRemoveCmd)
	rootCmd.AddCommand(cartCmd)
}

// requireLogin maps ErrNotAuthenticated to a friendly hint.
func requireLogin(err error) error {
	if errors.Is(err, api.ErrNotAuthenticated) {
		return errors.New("not logged in, run: storectl login")
	}
	return err
}

func runCartShow(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if !a.session.Current().Active() {
		return requireLogin(api.ErrNotAuthenticated)
	}
	cart, err := a.cart.Load(cmd.Context())
	if err != nil {
		return requireLogin(err)
	}
	printCart(cart, a.cart.DerivedTotal())
	return nil
}

func runCartAdd(cmd *cobra.Command, args []string) error {
	productID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return err
	}
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.cart.Add(cmd.Context(), productID, cartAddQty); err != nil {
		return requireLogin(err)
	}
	fmt.Println("Added to cart")
	printCart(a.cart.Current(), a.cart.DerivedTotal())
	return nil
}

func runCartUpdate(cmd *cobra.Command, args []string) error {
	itemID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return err
	}
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.cart.UpdateItem(cmd.Context(), itemID, cartUpdateQty); err != nil {
		return requireLogin(err)
	}
	printCart(a.cart.Current(), a.cart.DerivedTotal())
	return nil
}

func runCartRemove(cmd *cobra.Command, args []string) error {
	itemID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return err
	}
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.cart.RemoveItem(cmd.Context(), itemID); err != nil {
		return requireLogin(err)
	}
	printCart(a.cart.Current(), a.cart.DerivedTotal())
	return nil
}
