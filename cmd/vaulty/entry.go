package main

import (
	"fmt"
	"strings"

	"github.com/NodyHody06/vaulty/pkg/crypto"
	"github.com/NodyHody06/vaulty/pkg/password"
	"github.com/NodyHody06/vaulty/pkg/vault"

	"github.com/spf13/cobra"
)

// Add command flags
var (
	addName     string
	addEmail    string
	addUsername string
	addNotes    string
	addGenerate bool
)

// Show command flags
var showReveal bool

func init() {
	rootCmd.AddCommand(addCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(removeCmd)

	addCmd.Flags().StringVar(&addName, "name", "", "Service, app or site label (required)")
	addCmd.Flags().StringVar(&addEmail, "email", "", "Account email (required)")
	addCmd.Flags().StringVar(&addUsername, "username", "", "Account username")
	addCmd.Flags().StringVar(&addNotes, "notes", "", "Free-text notes")
	addCmd.Flags().BoolVarP(&addGenerate, "generate", "g", false, "Generate a strong password instead of prompting")

	showCmd.Flags().BoolVar(&showReveal, "reveal", false, "Print the password in the clear")
}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a credential entry",
	Long: `Add a credential entry to the vault.

Examples:
  # Add an entry, prompting for the password
  vaulty add --name example.com --email a@b.com

  # Add an entry with a generated password
  vaulty add --name example.com --email a@b.com -g`,
	RunE: func(cmd *cobra.Command, args []string) error {
		v, passphrase, err := unlockVault()
		if err != nil {
			return err
		}
		defer crypto.SecureWipe(passphrase)
		warnPermissions()

		var pw string
		if addGenerate {
			pw, err = password.Generate(password.DefaultLength)
			if err != nil {
				return err
			}
		} else {
			raw, err := readPassphrase("Entry password: ")
			if err != nil {
				return err
			}
			pw = string(raw)
			crypto.SecureWipe(raw)
		}

		entry, err := vault.NewEntry(addName, addEmail, pw, addUsername, addNotes)
		if err != nil {
			return err
		}

		v.AddEntry(entry)
		if err := store.Save(v, passphrase); err != nil {
			return err
		}

		fmt.Printf("Added entry %s (%s)\n", entry.Name, entry.ID)
		return nil
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List credential entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		v, passphrase, err := unlockVault()
		if err != nil {
			return err
		}
		defer crypto.SecureWipe(passphrase)
		warnPermissions()

		if len(v.Entries) == 0 {
			fmt.Println("No entries")
			return nil
		}
		for _, e := range v.Entries {
			fmt.Printf("%s  %-24s %s\n", e.ID, e.Name, e.Email)
		}
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a credential entry",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, passphrase, err := unlockVault()
		if err != nil {
			return err
		}
		defer crypto.SecureWipe(passphrase)

		entry, err := v.FindEntry(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Name:     %s\n", entry.Name)
		fmt.Printf("Email:    %s\n", entry.Email)
		if entry.Username != "" {
			fmt.Printf("Username: %s\n", entry.Username)
		}
		if showReveal {
			fmt.Printf("Password: %s\n", entry.Password)
		} else {
			fmt.Printf("Password: %s\n", strings.Repeat("*", len(entry.Password)))
		}
		if entry.Notes != "" {
			fmt.Printf("Notes:    %s\n", entry.Notes)
		}
		return nil
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a credential entry",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) != 1 {
			return fmt.Errorf("expected exactly one entry id")
		}

		v, passphrase, err := unlockVault()
		if err != nil {
			return err
		}
		defer crypto.SecureWipe(passphrase)

		if err := v.RemoveEntry(args[0]); err != nil {
			return err
		}
		if err := store.Save(v, passphrase); err != nil {
			return err
		}

		fmt.Println("Entry removed")
		return nil
	},
}
