// SPDX-License-Identifier: GPL-3.0-or-later
package mailbox

import (
	"strings"
)

const Inbox = "INBOX"

type Provider string

const (
	ProviderGeneric = Provider("generic")
	ProviderGmail   = Provider("gmail")
	ProviderOutlook = Provider("outlook")
)

// DetectProvider guesses the mail provider from the account address and the imap host.
func DetectProvider(account, host string) Provider {
	account = strings.ToLower(account)
	if at := strings.LastIndex(account, "@"); at >= 0 {
		account = account[at+1:]
	}
	host = strings.ToLower(host)

	for _, s := range []string{account, host} {
		if strings.Contains(s, "gmail.com") || strings.Contains(s, "googlemail.com") {
			return ProviderGmail
		}
	}
	for _, s := range []string{account, host} {
		for _, marker := range []string{"outlook.", "hotmail.", "office365.com", "live.com"} {
			if strings.Contains(s, marker) {
				return ProviderOutlook
			}
		}
	}

	return ProviderGeneric
}

var defaultSpellings = map[string][]string{
	"sent": {
		"Sent Items", "Sent Messages", "Sent Mail", "Отправленные", "Gesendet", "Gesendete Elemente",
		"Envoyés", "Enviados", "Inviati",
	},
	"drafts": {
		"Draft", "Черновики", "Entwürfe", "Brouillons", "Borradores",
	},
	"trash": {
		"Deleted Items", "Deleted Messages", "Bin", "Корзина", "Papierkorb", "Corbeille", "Papelera",
	},
	"junk": {
		"Spam", "Junk E-mail", "Junk Email", "Спам", "Bulk Mail",
	},
	"spam": {
		"Junk", "Junk E-mail", "Junk Email", "Спам", "Bulk Mail",
	},
	"archive": {
		"Archives", "Архив", "Archiv",
	},
}

var defaultNative = map[Provider]map[string][]string{
	ProviderGmail: {
		"sent":    {"[Gmail]/Sent Mail", "[Google Mail]/Sent Mail", "[Gmail]/Отправленные", "[Gmail]/Gesendet"},
		"drafts":  {"[Gmail]/Drafts", "[Google Mail]/Drafts", "[Gmail]/Черновики", "[Gmail]/Entwürfe"},
		"trash":   {"[Gmail]/Trash", "[Gmail]/Bin", "[Google Mail]/Trash", "[Gmail]/Корзина", "[Gmail]/Papierkorb"},
		"junk":    {"[Gmail]/Spam", "[Google Mail]/Spam"},
		"spam":    {"[Gmail]/Spam", "[Google Mail]/Spam"},
		"archive": {"[Gmail]/All Mail", "[Google Mail]/All Mail"},
	},
	ProviderOutlook: {
		"sent":  {"Sent Items"},
		"trash": {"Deleted Items"},
		"junk":  {"Junk Email"},
		"spam":  {"Junk Email"},
	},
}

// Folders without a native entry are tried below these prefixes.
var defaultNativePrefixes = map[Provider][]string{
	ProviderGmail: {"[Gmail]/"},
}

// Table holds the ordered naming candidates per logical folder.
type Table struct {
	spellings      map[string][]string
	native         map[Provider]map[string][]string
	nativePrefixes map[Provider][]string
}

func DefaultTable() *Table {
	t := &Table{
		spellings:      map[string][]string{},
		native:         map[Provider]map[string][]string{},
		nativePrefixes: defaultNativePrefixes,
	}
	for k, v := range defaultSpellings {
		t.spellings[k] = v
	}
	for provider, folders := range defaultNative {
		t.native[provider] = map[string][]string{}
		for k, v := range folders {
			t.native[provider][k] = v
		}
	}

	return t
}

// WithSpellings replaces the locale spellings of logical folders.
func (t *Table) WithSpellings(spellings map[string][]string) *Table {
	for k, v := range spellings {
		t.spellings[strings.ToLower(k)] = v
	}
	return t
}

// WithNative replaces the native names of logical folders for a provider.
func (t *Table) WithNative(provider Provider, native map[string][]string) *Table {
	if _, ok := t.native[provider]; !ok {
		t.native[provider] = map[string][]string{}
	}
	for k, v := range native {
		t.native[provider][strings.ToLower(k)] = v
	}
	return t
}

// Candidates returns the server names to try for a logical folder, in order and without duplicates.
func (t *Table) Candidates(logical string, provider Provider) []string {
	name := strings.TrimSpace(logical)
	if len(name) == 0 || strings.EqualFold(name, Inbox) {
		return []string{Inbox}
	}
	key := strings.ToLower(name)

	candidates := []string{}
	seen := map[string]bool{}
	add := func(c ...string) {
		for _, v := range c {
			if len(v) == 0 || seen[v] {
				continue
			}
			seen[v] = true
			candidates = append(candidates, v)
		}
	}

	add(name)

	if native, ok := t.native[provider][key]; ok {
		add(native...)
	} else {
		for _, prefix := range t.nativePrefixes[provider] {
			add(prefix + name)
		}
	}

	add(Inbox+"."+name, "/"+name, Inbox+"/"+name)
	add(t.spellings[key]...)

	return candidates
}
