package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var orderAddress string
var buyNowQty int

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "List orders, place orders, buy now",
	Long: `List previous orders and place new ones. Requires a login session.

Examples:
  storectl orders
  storectl orders place --address "House No, Street, City, State, Pincode"
  storectl orders buy-now 42 --qty 2 --address "..."`,
	RunE: runOrdersList,
}

var ordersPlaceCmd = &cobra.Command{
	Use:   "place",
	Short: "Place an order from the cart",
	RunE:  runOrdersPlace,
}

var buyNowCmd = &cobra.Command{
	Use:   "buy-now PRODUCT_ID",
	Short: "Order a product directly, bypassing the cart",
	Args:  cobra.ExactArgs(1),
	RunE:  runBuyNow,
}

func init() {
	ordersPlaceCmd.Flags().StringVar(&orderAddress, "address", "", "shipping address (required)")
	buyNowCmd.Flags().StringVar(&orderAddress, "address", "", "shipping address (required)")
	buyNowCmd.Flags().IntVar(&buyNowQty, "qty", 1, "quantity to order")
	ordersCmd.AddCommand(ordersPlaceCmd)
	ordersCmd.AddCommand(buyNowCmd)
	rootCmd.AddCommand(ordersCmd)
}

func runOrdersList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	list, err := a.orders.List(cmd.Context())
	if err != nil {
		return requireLogin(err)
	}
	printOrders(list)
	return nil
}

func runOrdersPlace(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	// The order is cut from the server's cart; load it first so the
	// empty-cart check runs against current state.
	if _, err := a.cart.Load(cmd.Context()); err != nil {
		return requireLogin(err)
	}

	conf, err := a.cart.PlaceOrder(cmd.Context(), orderAddress)
	if err != nil {
		return requireLogin(err)
	}
	if conf != nil && conf.Message != "" {
		fmt.Println(conf.Message)
	} else {
		fmt.Println("Order placed successfully")
	}
	return nil
}

func runBuyNow(cmd *cobra.Command, args []string) error {
	productID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return err
	}
	a, err := newApp()
	if err != nil {
		return err
	}

	conf, err := a.cart.BuyNow(cmd.Context(), productID, buyNowQty, orderAddress)
	if err != nil {
		return requireLogin(err)
	}
	if conf != nil && conf.Message != "" {
		fmt.Println(conf.Message)
	} else {
		fmt.Println("Order placed successfully")
	}
	return nil
}
