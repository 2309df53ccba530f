package main

import (
	"fmt"

	"github.com/NodyHody06/vaulty/pkg/crypto"
	"github.com/NodyHody06/vaulty/pkg/vault"

	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(noteCmd)
	noteCmd.AddCommand(noteAddCmd)
	noteCmd.AddCommand(noteListCmd)
	noteCmd.AddCommand(noteShowCmd)
	noteCmd.AddCommand(noteRemoveCmd)
}

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Manage secure notes",
}

var noteAddCmd = &cobra.Command{
	Use:   "add <title> <content>",
	Short: "Add a secure note",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, passphrase, err := unlockVault()
		if err != nil {
			return err
		}
		defer crypto.SecureWipe(passphrase)

		note, err := vault.NewNote(args[0], args[1])
		if err != nil {
			return err
		}

		v.AddNote(note)
		if err := store.Save(v, passphrase); err != nil {
			return err
		}

		fmt.Printf("Added note %s (%s)\n", note.Title, note.ID)
		return nil
	},
}

var noteListCmd = &cobra.Command{
	Use:   "list",
	Short: "List secure notes",
	RunE: func(cmd *cobra.Command, args []string) error {
		v, passphrase, err := unlockVault()
		if err != nil {
			return err
		}
		defer crypto.SecureWipe(passphrase)

		if len(v.Notes) == 0 {
			fmt.Println("No notes")
			return nil
		}
		for _, n := range v.Notes {
			fmt.Printf("%s  %s\n", n.ID, n.Title)
		}
		return nil
	},
}

var noteShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a secure note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, passphrase, err := unlockVault()
		if err != nil {
			return err
		}
		defer crypto.SecureWipe(passphrase)

		note, err := v.FindNote(args[0])
		if err != nil {
			return err
		}

		fmt.Printf("Title: %s\n\n%s\n", note.Title, note.Content)
		return nil
	},
}

var noteRemoveCmd = &cobra.Command{
	Use:   "remove <id>",
	Short: "Remove a secure note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, passphrase, err := unlockVault()
		if err != nil {
			return err
		}
		defer crypto.SecureWipe(passphrase)

		if err := v.RemoveNote(args[0]); err != nil {
			return err
		}
		if err := store.Save(v, passphrase); err != nil {
			return err
		}

		fmt.Println("Note removed")
		return nil
	},
}
