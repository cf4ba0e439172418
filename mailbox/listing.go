// SPDX-License-Identifier: GPL-3.0-or-later
package mailbox

import (
	"sort"
	"strings"

	"github.com/CrawX/go-mailbridge/domain"
)

var unselectable = map[string]bool{
	`\noselect`:    true,
	`\nonexistent`: true,
}

// FromFolders turns a folder listing into selectable mailboxes, INBOX first and the rest by display name.
func FromFolders(folders []*domain.FolderInfo) []domain.Mailbox {
	mailboxes := []domain.Mailbox{}
	for _, f := range folders {
		flags := make([]string, 0, len(f.Attributes))
		skip := false
		for _, a := range f.Attributes {
			flag := strings.ToLower(a)
			if unselectable[flag] {
				skip = true
			}
			flags = append(flags, flag)
		}
		if skip || len(f.Name) == 0 {
			continue
		}

		mailboxes = append(mailboxes, domain.Mailbox{
			Name:        f.Name,
			DisplayName: DisplayName(f.Name, f.Delimiter),
			Delimiter:   f.Delimiter,
			Flags:       flags,
		})
	}

	sort.SliceStable(mailboxes, func(i, j int) bool {
		a, b := mailboxes[i], mailboxes[j]
		aInbox, bInbox := strings.EqualFold(a.Name, Inbox), strings.EqualFold(b.Name, Inbox)
		if aInbox != bInbox {
			return aInbox
		}

		ad, bd := strings.ToLower(a.DisplayName), strings.ToLower(b.DisplayName)
		if ad != bd {
			return ad < bd
		}
		return a.Name < b.Name
	})

	return mailboxes
}

// DisplayName strips the INBOX hierarchy prefix of dot or delimiter separated servers.
func DisplayName(name, delimiter string) string {
	prefixes := []string{Inbox + "."}
	if len(delimiter) > 0 && delimiter != "." {
		prefixes = append(prefixes, Inbox+delimiter)
	}

	for _, prefix := range prefixes {
		if len(name) > len(prefix) && strings.EqualFold(name[:len(prefix)], prefix) {
			return name[len(prefix):]
		}
	}
	return name
}
