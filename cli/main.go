// Package main provides a command-line client for the support desk router.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/auth"
	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/domain"
)

var (
	serverAddr string
	token      string

	// Dev login: sign a token locally instead of using one from the identity service.
	devSecret  string
	devSubject string
	devRole    string
)

var rootCmd = &cobra.Command{
	Use:           "deskctl",
	Short:         "Talk to the support desk router",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverAddr, "server", envOr("ROUTER_URL", "http://localhost:8080"), "router base URL")
	rootCmd.PersistentFlags().StringVar(&token, "token", os.Getenv("ROUTER_TOKEN"), "bearer token from the identity service")
	rootCmd.PersistentFlags().StringVar(&devSecret, "dev-secret", os.Getenv("JWT_SECRET"), "sign a dev token with this secret when --token is empty")
	rootCmd.PersistentFlags().StringVar(&devSubject, "as", "1", "dev token subject (emp_id)")
	rootCmd.PersistentFlags().StringVar(&devRole, "role", string(domain.RoleAdmin), "dev token role")

	rootCmd.AddCommand(askCmd, chatCmd, toolsCmd, tokenCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// bearer returns --token, or a freshly signed dev token.
func bearer() (string, error) {
	if token != "" {
		return token, nil
	}
	if devSecret == "" {
		return "", fmt.Errorf("no token: pass --token or --dev-secret")
	}
	role := domain.Role(devRole)
	if !role.Valid() {
		return "", fmt.Errorf("unknown role %q", devRole)
	}
	return auth.Sign(devSecret, devSubject, role, time.Hour)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
