package main

import (
	"errors"
	"fmt"

	"github.com/NodyHody06/vaulty/pkg/keyring"
	"github.com/NodyHody06/vaulty/pkg/vault"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(statusCmd)
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show vault location, format and lock state",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Printf("Directory: %s\n", store.Dir())

		if !store.Exists() {
			fmt.Println("Vault:     not initialized")
			return nil
		}
		fmt.Printf("Vault:     %s\n", store.Format())

		switch err := store.CheckLock(); {
		case err == nil:
			fmt.Println("Lock:      none")
		case errors.Is(err, vault.ErrCooldownActive):
			fmt.Printf("Lock:      %s\n", err)
		default:
			return err
		}

		ring := keyring.System{}
		if _, err := keyring.LoadTrustedRevision(ring); err != nil {
			if errors.Is(err, keyring.ErrNotFound) {
				fmt.Println("Keyring:   available, no trusted revision")
			} else {
				fmt.Printf("Keyring:   unavailable (%v)\n", err)
			}
		} else {
			fmt.Println("Keyring:   available")
		}

		for _, w := range store.PermissionWarnings() {
			fmt.Printf("Warning:   %s\n", w)
		}
		return nil
	},
}
