package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agricult/storectl/internal/api"
)

var loginUsername string
var loginPassword string

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in and persist the session",
	Long: `Authenticate against the storefront API and persist the session token.

The session survives across invocations until "storectl logout".`,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the session and cached cart",
	RunE:  runLogout,
}

var regUsername string
var regEmail string
var regPassword string

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	Long:  `Create a new account, then log in with "storectl login".`,
	RunE:  runRegister,
}

func init() {
	loginCmd.Flags().StringVarP(&loginUsername, "username", "u", "", "username")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "password (prompted when omitted)")
	registerCmd.Flags().StringVarP(&regUsername, "username", "u", "", "username")
	registerCmd.Flags().StringVar(&regEmail, "email", "", "email address")
	registerCmd.Flags().StringVarP(&regPassword, "password", "p", "", "password (prompted when omitted)")
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(registerCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	username := loginUsername
	if username == "" {
		username, err = promptLine("Username: ")
		if err != nil {
			return err
		}
	}
	password := loginPassword
	if password == "" {
		password, err = promptLine("Password: ")
		if err != nil {
			return err
		}
	}

	sess, err := a.session.Login(cmd.Context(), username, password)
	if err != nil {
		return err
	}
	fmt.Printf("Logged in as %s\n", sess.Username)

	// Warm the cart mirror so the next cart command shows a count.
	if cart, err := a.cart.Load(cmd.Context()); err == nil && cart != nil {
		fmt.Printf("Cart: %d item(s)\n", len(cart.Items))
	}
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.session.Logout(); err != nil {
		return err
	}
	fmt.Println("Logged out")
	return nil
}

func runRegister(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	reg := api.Registration{
		Username: regUsername,
		Email:    regEmail,
		Password: regPassword,
	}
	if reg.Username == "" {
		if reg.Username, err = promptLine("Username: "); err != nil {
			return err
		}
	}
	if reg.Email == "" {
		if reg.Email, err = promptLine("Email: "); err != nil {
			return err
		}
	}
	if reg.Password == "" {
		if reg.Password, err = promptLine("Password: "); err != nil {
			return err
		}
	}

	if err := a.session.Register(cmd.Context(), reg); err != nil {
		return err
	}
	fmt.Println("Registered. Log in with: storectl login")
	return nil
}

// promptLine reads one line from stdin after printing a prompt.
func promptLine(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}
