// storectl is a command-line client for the storefront API.
package main

import "github.com/agricult/storectl/cmd/storectl/cmd"

func main() {
	cmd.Execute()
}
