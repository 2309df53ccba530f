package main

import (
	"fmt"

	"github.com/NodyHody06/vaulty/pkg/crypto"

	"github.com/spf13/cobra"
)

var initVaultDir string

func init() {
	rootCmd.AddCommand(initCmd)
	initCmd.Flags().StringVar(&initVaultDir, "dir", "", "Vault directory (must resolve inside home)")
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a new empty vault",
	Long: `Create a new empty vault protected by a master passphrase.

The vault is stored under ~/.terminal-vault by default. A different
directory can be chosen with --dir; it must resolve inside the home
directory and is remembered in config.json.

Examples:
  # Create a vault in the default location
  vaulty init

  # Create a vault in ~/vaults/personal
  vaulty init --dir vaults/personal`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if initVaultDir != "" {
			if err := configureVaultDir(initVaultDir); err != nil {
				return err
			}
		}

		if store.Exists() {
			return fmt.Errorf("vault already exists at %s", store.VaultPath())
		}

		passphrase, err := readNewPassphrase()
		if err != nil {
			return err
		}
		defer crypto.SecureWipe(passphrase)

		if _, err := store.Init(passphrase); err != nil {
			return err
		}

		fmt.Printf("Vault created at %s\n", store.VaultPath())
		return nil
	},
}
