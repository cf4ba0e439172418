// SPDX-License-Identifier: GPL-3.0-or-later
package smtpconnection

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/smtp"
	"strings"
)

// plainAuth is smtp.PlainAuth without the TLS check, the caller decides when plaintext is acceptable.
type plainAuth struct {
	username, password string
}

func (a *plainAuth) Start(*smtp.ServerInfo) (string, []byte, error) {
	return "PLAIN", []byte("\x00" + a.username + "\x00" + a.password), nil
}

func (a *plainAuth) Next(_ []byte, more bool) ([]byte, error) {
	if more {
		return nil, errors.New("unexpected server challenge for PLAIN")
	}
	return nil, nil
}

type loginAuth struct {
	username, password string
}

func (a *loginAuth) Start(*smtp.ServerInfo) (string, []byte, error) {
	return "LOGIN", []byte{}, nil
}

func (a *loginAuth) Next(fromServer []byte, more bool) ([]byte, error) {
	if !more {
		return nil, nil
	}

	// some servers encode the prompt twice
	prompt := loginPrompt(string(fromServer))
	if prompt != "username" && prompt != "password" {
		if decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(string(fromServer))); err == nil {
			prompt = loginPrompt(string(decoded))
		}
	}
	switch prompt {
	case "username":
		return []byte(a.username), nil
	case "password":
		return []byte(a.password), nil
	}

	return nil, fmt.Errorf("unexpected server challenge: %s", fromServer)
}

func loginPrompt(prompt string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(prompt)), ":")
}

// chooseAuth prefers PLAIN and falls back to LOGIN.
func chooseAuth(c smtpClient, username, password string) smtp.Auth {
	_, mechanisms := c.Extension("AUTH")
	for _, m := range strings.Fields(strings.ToUpper(mechanisms)) {
		if m == "PLAIN" {
			return &plainAuth{username: username, password: password}
		}
	}
	for _, m := range strings.Fields(strings.ToUpper(mechanisms)) {
		if m == "LOGIN" {
			return &loginAuth{username: username, password: password}
		}
	}

	return &plainAuth{username: username, password: password}
}
