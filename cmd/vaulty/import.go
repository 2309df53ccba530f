package main

import (
	"fmt"
	"os"

	"github.com/NodyHody06/vaulty/pkg/crypto"
	"github.com/NodyHody06/vaulty/pkg/vault"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func init() {
	rootCmd.AddCommand(importCmd)
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import entries from a YAML export",
	Long: `Import entries from a YAML export.

Imported entries are appended to the vault with fresh IDs. Existing
entries are never modified or removed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}

		var doc exportDoc
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return fmt.Errorf("failed to parse %s: %w", args[0], err)
		}

		v, passphrase, err := unlockVault()
		if err != nil {
			return err
		}
		defer crypto.SecureWipe(passphrase)

		for i, e := range doc.Entries {
			entry, err := vault.NewEntry(e.Name, e.Email, e.Password, e.Username, e.Notes)
			if err != nil {
				return fmt.Errorf("entry %d: %w", i+1, err)
			}
			v.AddEntry(entry)
		}
		for i, n := range doc.Notes {
			note, err := vault.NewNote(n.Title, n.Content)
			if err != nil {
				return fmt.Errorf("note %d: %w", i+1, err)
			}
			v.AddNote(note)
		}

		if err := store.Save(v, passphrase); err != nil {
			return err
		}

		fmt.Printf("Imported %d entries and %d notes\n", len(doc.Entries), len(doc.Notes))
		return nil
	},
}
