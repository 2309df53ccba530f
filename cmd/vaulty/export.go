package main

import (
	"fmt"
	"os"

	"github.com/NodyHody06/vaulty/pkg/crypto"
	"github.com/NodyHody06/vaulty/pkg/vault"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var exportOutput string

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to file instead of stdout")
}

// exportDoc is the plaintext backup document. Exported files contain
// every secret in the clear and must be handled accordingly.
type exportDoc struct {
	Entries []exportEntry `yaml:"entries"`
	Notes   []exportNote  `yaml:"notes,omitempty"`
}

type exportEntry struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Username string `yaml:"username,omitempty"`
	Notes    string `yaml:"notes,omitempty"`
}

type exportNote struct {
	Title   string `yaml:"title"`
	Content string `yaml:"content"`
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the vault as plaintext YAML",
	Long: `Export the vault as plaintext YAML.

The output contains every password in the clear. Use it for backups
or for moving to another tool, then delete it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		v, passphrase, err := unlockVault()
		if err != nil {
			return err
		}
		defer crypto.SecureWipe(passphrase)

		doc := exportDoc{
			Entries: make([]exportEntry, 0, len(v.Entries)),
			Notes:   make([]exportNote, 0, len(v.Notes)),
		}
		for _, e := range v.Entries {
			doc.Entries = append(doc.Entries, exportEntry{
				Name:     e.Name,
				Email:    e.Email,
				Password: e.Password,
				Username: e.Username,
				Notes:    e.Notes,
			})
		}
		for _, n := range v.Notes {
			doc.Notes = append(doc.Notes, exportNote{Title: n.Title, Content: n.Content})
		}

		out, err := yaml.Marshal(&doc)
		if err != nil {
			return fmt.Errorf("failed to encode export: %w", err)
		}

		if exportOutput == "" {
			fmt.Print(string(out))
			return nil
		}
		if err := os.WriteFile(exportOutput, out, vault.FileMode); err != nil {
			return fmt.Errorf("failed to write %s: %w", exportOutput, err)
		}
		fmt.Fprintf(os.Stderr, "Exported %d entries to %s\n", len(doc.Entries), exportOutput)
		return nil
	},
}
