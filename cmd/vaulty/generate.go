package main

import (
	"fmt"

	"github.com/NodyHody06/vaulty/pkg/password"

	"github.com/spf13/cobra"
)

var generateLength int

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().IntVarP(&generateLength, "length", "l", password.DefaultLength, "Password length")
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a strong random password",
	Long: `Generate a strong random password without touching the vault.

The password contains at least one uppercase letter, one lowercase
letter, one digit and one symbol. Visually ambiguous characters
(0, O, 1, l, I) are excluded.

Examples:
  vaulty generate
  vaulty generate --length 32`,
	RunE: func(cmd *cobra.Command, args []string) error {
		pw, err := password.Generate(generateLength)
		if err != nil {
			return err
		}
		fmt.Println(pw)
		return nil
	},
}
