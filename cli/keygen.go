// SPDX-License-Identifier: GPL-3.0-or-later
package cli

import (
	"fmt"

	"github.com/CrawX/go-mailbridge/vault"

	"github.com/spf13/cobra"
)

var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate a new credential encryption key",
	Long: `Generate a new key for encrypting stored mail passwords. Export it in the
environment variable named by EncryptionKeyEnv (EMAIL_ENCRYPTION_KEY by default).`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		key, err := vault.GenerateKey()
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), key)
		return nil
	},
}
