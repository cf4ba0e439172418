// SPDX-License-Identifier: GPL-3.0-or-later
package vault

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/CrawX/go-mailbridge/domain"
	"github.com/CrawX/go-mailbridge/log"

	"github.com/fernet/fernet-go"
	"github.com/sirupsen/logrus"
)

var (
	ErrDisabled   = errors.New("credential encryption is disabled, no valid key configured")
	ErrEncryption = errors.New("could not encrypt secret")
	ErrDecryption = errors.New("could not decrypt secret")
)

// Tokens never expire, stored credentials stay valid until rotated.
const noTTL = -1

// Vault encrypts and decrypts mail credentials with one process-wide key.
// A vault without a valid key stays usable but refuses every operation.
type Vault struct {
	keys           []*fernet.Key
	disabledReason string

	l *logrus.Logger
}

func New(encodedKey string) *Vault {
	v := &Vault{
		l: log.Logger(log.LOG_VAULT),
	}

	encodedKey = strings.TrimSpace(encodedKey)
	if len(encodedKey) == 0 {
		v.disabledReason = "no key set"
		v.l.Warn("No encryption key set, mail credentials cannot be used")
		return v
	}

	key, err := fernet.DecodeKey(encodedKey)
	if err != nil {
		v.disabledReason = "key must be 32 base64 encoded bytes"
		v.l.WithField("error", err).Warn("Invalid encryption key, mail credentials cannot be used")
		return v
	}

	v.keys = []*fernet.Key{key}
	return v
}

// FromEnv builds a vault from the key in the named environment variable.
func FromEnv(name string) *Vault {
	return New(os.Getenv(name))
}

func (v *Vault) Enabled() bool {
	return len(v.keys) > 0
}

func (v *Vault) disabledError() error {
	return domain.NewError(domain.ConfigError, ErrDisabled, "credential encryption is not configured: %s", v.disabledReason)
}

func (v *Vault) Encrypt(plaintext string) ([]byte, error) {
	if !v.Enabled() {
		return nil, v.disabledError()
	}

	token, err := fernet.EncryptAndSign([]byte(plaintext), v.keys[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEncryption, err)
	}

	return token, nil
}

func (v *Vault) Decrypt(ciphertext []byte) (string, error) {
	if !v.Enabled() {
		return "", v.disabledError()
	}

	token := bytes.TrimSpace(ciphertext)
	if len(token) == 0 {
		return "", fmt.Errorf("%w: empty ciphertext", ErrDecryption)
	}

	plaintext := fernet.VerifyAndDecrypt(token, noTTL, v.keys)
	if plaintext == nil {
		// Older rows hold the token base64 encoded a second time.
		decoded, err := base64.StdEncoding.DecodeString(string(token))
		if err != nil {
			return "", fmt.Errorf("%w: token invalid", ErrDecryption)
		}

		plaintext = fernet.VerifyAndDecrypt(bytes.TrimSpace(decoded), noTTL, v.keys)
		if plaintext == nil {
			return "", fmt.Errorf("%w: token invalid", ErrDecryption)
		}
		v.l.Debug("Decrypted secret from legacy double encoded token")
	}

	if !utf8.Valid(plaintext) {
		return "", fmt.Errorf("%w: plaintext is not valid utf-8", ErrDecryption)
	}

	return string(plaintext), nil
}

// GenerateKey returns a new random key in the encoding New expects.
func GenerateKey() (string, error) {
	key := &fernet.Key{}
	err := key.Generate()
	if err != nil {
		return "", fmt.Errorf("could not generate key: %w", err)
	}

	return key.Encode(), nil
}
