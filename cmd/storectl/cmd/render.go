package cmd

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/agricult/storectl/internal/api"
)

// textView renders catalog results as plain text. It implements
// catalog.View; the core packages never construct output themselves.
type textView struct{}

func (textView) ShowProducts(products []api.Product) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRICE\tSTOCK")
	for _, p := range products {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\n", p.ID, p.Name, formatAmount(p.Price), p.Stock)
	}
	_ = w.Flush()
}

func (textView) ShowPagination(page, totalPages int) {
	fmt.Printf("Page %d of %d\n", page+1, totalPages)
}

func (textView) ShowEmpty() {
	fmt.Println("No products found")
}

func (textView) ShowError(err error) {
	fmt.Fprintf(os.Stderr, "Error loading products: %v\n", err)
}

// printProduct renders the product detail view.
func printProduct(p *api.Product) {
	fmt.Printf("%s (#%d)\n", p.Name, p.ID)
	fmt.Printf("  Price: %s\n", formatAmount(p.Price))
	fmt.Printf("  Stock: %d\n", p.Stock)
	if p.Brand != "" {
		fmt.Printf("  Brand: %s\n", p.Brand)
	}
	if p.Origin != "" {
		fmt.Printf("  Origin: %s\n", p.Origin)
	}
	if p.Unit != "" {
		fmt.Printf("  Unit: %s\n", p.Unit)
	}
	if p.SourceURL != "" {
		fmt.Printf("  Source: %s\n", p.SourceURL)
	}
	if p.Description != "" {
		fmt.Printf("  %s\n", p.Description)
	}
	if p.Specifications != "" {
		fmt.Printf("  Specifications: %s\n", p.Specifications)
	}
}

// printCart renders the cart with per-line unit price breakdown, the line
// count, and the derived total.
func printCart(cart *api.Cart, total api.Amount) {
	if cart == nil || len(cart.Items) == 0 {
		fmt.Println("Your cart is empty")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ITEM\tPRODUCT\tUNIT\tQTY\tLINE TOTAL")
	for _, item := range cart.Items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n",
			item.ID, item.Product.Name,
			formatAmount(item.UnitPrice()), item.Quantity, formatAmount(item.Price))
	}
	_ = w.Flush()
	fmt.Printf("%d item(s), total %s\n", len(cart.Items), formatAmount(total))
}

// printOrders renders the order list.
func printOrders(list []api.Order) {
	if len(list) == 0 {
		fmt.Println("No orders found")
		return
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ORDER\tDATE\tSTATUS\tTOTAL")
	for _, o := range list {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", o.ID, o.OrderDate, o.Status, formatAmount(o.TotalAmount))
	}
	_ = w.Flush()
}

// formatAmount renders an amount as rupees with Indian digit grouping,
// e.g. ₹12,34,567.89.
func formatAmount(a api.Amount) string {
	s := a.String()
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, frac, _ := strings.Cut(s, ".")

	grouped := intPart
	if len(intPart) > 3 {
		head := intPart[:len(intPart)-3]
		tail := intPart[len(intPart)-3:]
		var parts []string
		for len(head) > 2 {
			parts = append([]string{head[len(head)-2:]}, parts...)
			head = head[:len(head)-2]
		}
		if head != "" {
			parts = append([]string{head}, parts...)
		}
		grouped = strings.Join(append(parts, tail), ",")
	}

	sign := ""
	if neg {
		sign = "-"
	}
	return fmt.Sprintf("%s₹%s.%s", sign, grouped, frac)
}
