// SPDX-License-Identifier: GPL-3.0-or-later
package cli

import (
	"fmt"
	"mime"
	"path/filepath"

	"github.com/CrawX/go-mailbridge/domain"
	"github.com/CrawX/go-mailbridge/persistence"

	"github.com/spf13/cobra"
)

var documentsCmd = &cobra.Command{
	Use:   "documents",
	Short: "Manage documents that can be attached to sent mails",
}

var documentsAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Register a file below the documents dir for a user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		user, _ := flags.GetString("user")
		path, _ := flags.GetString("path")
		name, _ := flags.GetString("name")
		contentType, _ := flags.GetString("content-type")

		conf, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		p, err := persistence.NewPersistence(conf.Database, conf.DocumentsDir)
		if err != nil {
			return fmt.Errorf("could not connect to database: %w", err)
		}
		defer p.Close()

		id, err := p.AddDocument(cmd.Context(), newDocument(user, name, path, contentType))
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "document %d added\n", id)
		return nil
	},
}

func init() {
	flags := documentsAddCmd.Flags()
	flags.String("user", "", "user the document belongs to")
	flags.String("path", "", "file path relative to the documents dir")
	flags.String("name", "", "attachment filename, defaults to the file's base name")
	flags.String("content-type", "", "attachment content type, guessed from the name if empty")
	_ = documentsAddCmd.MarkFlagRequired("user")
	_ = documentsAddCmd.MarkFlagRequired("path")

	documentsCmd.AddCommand(documentsAddCmd)
}

func newDocument(user, name, path, contentType string) *domain.Document {
	if len(name) == 0 {
		name = filepath.Base(path)
	}
	if len(contentType) == 0 {
		contentType = mime.TypeByExtension(filepath.Ext(name))
	}

	return &domain.Document{
		UserID:      user,
		Name:        name,
		Path:        path,
		ContentType: contentType,
	}
}
