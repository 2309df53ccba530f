package main

import (
	"fmt"

	"github.com/NodyHody06/vaulty/pkg/crypto"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(passwdCmd)
}

var passwdCmd = &cobra.Command{
	Use:   "passwd",
	Short: "Change the master passphrase",
	Long: `Change the master passphrase.

The vault is unlocked with the current passphrase, then re-encrypted
under a fresh key derived from the new one.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		v, passphrase, err := unlockVault()
		if err != nil {
			return err
		}
		crypto.SecureWipe(passphrase)

		next, err := readNewPassphrase()
		if err != nil {
			return err
		}
		defer crypto.SecureWipe(next)

		if err := store.Save(v, next); err != nil {
			return err
		}

		fmt.Println("Master passphrase changed")
		return nil
	},
}
