package main

import (
	"os"

	"github.com/NodyHody06/vaulty/pkg/keyring"
	"github.com/NodyHody06/vaulty/pkg/vault"

	"github.com/spf13/cobra"
)

var store *vault.Store

var rootCmd = &cobra.Command{
	Use:   "vaulty",
	Short: "vaulty is a local encrypted credential store",
	Long: `A local secret store for credentials and private notes, encrypted
under a master passphrase with envelope encryption, brute-force lockout and
rollback detection.`,
	SilenceUsage: true,
	// PersistentPreRunE runs before every subcommand and binds the store
	// to the configured vault directory and the OS secret store.
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// generate does not touch the vault at all
		if cmd.Name() == "generate" || cmd.Name() == "completion" {
			return nil
		}

		s, err := vault.Open(keyring.System{})
		if err != nil {
			return err
		}
		store = s
		return nil
	},
}

// configureVaultDir validates a user-chosen storage directory, records it in
// config.json and rebinds the store to it. Validation is fatal: storage is
// never redirected to an unvalidated path.
func configureVaultDir(dir string) error {
	home, err := os.UserHomeDir()
	if err != nil {
		return err
	}

	resolved, err := vault.ValidateVaultDir(home, dir)
	if err != nil {
		return err
	}

	if err := vault.SaveConfig(resolved); err != nil {
		return err
	}

	store = vault.NewStore(resolved, keyring.System{})
	return nil
}
