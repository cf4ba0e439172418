// SPDX-License-Identifier: GPL-3.0-or-later
package cli

import (
	"fmt"

	"github.com/CrawX/go-mailbridge/credentials"
	"github.com/CrawX/go-mailbridge/domain"
	"github.com/CrawX/go-mailbridge/persistence"
	"github.com/CrawX/go-mailbridge/vault"

	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage stored mail settings",
}

var settingsSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Create or change the mail settings of a user",
	Long: `Create or change the mail settings of a user. Only the given flags are changed,
an empty password flag removes the stored password.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		user, _ := cmd.Flags().GetString("user")

		conf, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		p, err := persistence.NewPersistence(conf.Database, conf.DocumentsDir)
		if err != nil {
			return fmt.Errorf("could not connect to database: %w", err)
		}
		defer p.Close()

		provider := credentials.NewProvider(p, vault.FromEnv(conf.EncryptionKeyEnv))
		err = provider.Update(cmd.Context(), user, settingsUpdate(cmd))
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "mail settings of user %s saved\n", user)
		return nil
	},
}

func init() {
	flags := settingsSetCmd.Flags()
	flags.String("user", "", "user the settings belong to")
	flags.String("imap-host", "", "imap server host")
	flags.Int("imap-port", 993, "imap server port")
	flags.String("imap-user", "", "imap login")
	flags.String("imap-password", "", "imap password")
	flags.Bool("imap-ssl", true, "use implicit TLS for imap, otherwise STARTTLS when offered")
	flags.String("smtp-host", "", "smtp server host")
	flags.Int("smtp-port", 587, "smtp server port")
	flags.String("smtp-user", "", "smtp login")
	flags.String("smtp-password", "", "smtp password")
	flags.Bool("enabled", true, "enable the mail integration")
	_ = settingsSetCmd.MarkFlagRequired("user")

	settingsCmd.AddCommand(settingsSetCmd)
}

// settingsUpdate only carries the flags given on the command line.
func settingsUpdate(cmd *cobra.Command) *domain.SettingsUpdate {
	flags := cmd.Flags()
	str := func(name string) *string {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetString(name)
		return &v
	}
	num := func(name string) *int {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetInt(name)
		return &v
	}
	boolean := func(name string) *bool {
		if !flags.Changed(name) {
			return nil
		}
		v, _ := flags.GetBool(name)
		return &v
	}

	return &domain.SettingsUpdate{
		ImapHost:           str("imap-host"),
		ImapPort:           num("imap-port"),
		ImapUser:           str("imap-user"),
		ImapPassword:       str("imap-password"),
		ImapUseSSL:         boolean("imap-ssl"),
		SmtpHost:           str("smtp-host"),
		SmtpPort:           num("smtp-port"),
		SmtpUser:           str("smtp-user"),
		SmtpPassword:       str("smtp-password"),
		IntegrationEnabled: boolean("enabled"),
	}
}
