// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads service credentials from plain-text key files.
// Each secret lives in its own file under the secrets directory: the
// filename is the key and the trimmed file contents are the value.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Secrets holds the credentials read from the secrets directory. Fields
// for absent or empty key files stay zero.
type Secrets struct {
	// OpenAlexEmail is the contact address passed to OpenAlex as the
	// mailto parameter for polite-pool access. Key file: openalex-email.
	OpenAlexEmail string
}

// Load reads the known key files under dir. A missing directory or a
// missing key file is not an error; the corresponding field is left
// empty.
func Load(dir string) (Secrets, error) {
	email, err := readKey(dir, "openalex-email")
	if err != nil {
		return Secrets{}, err
	}
	return Secrets{OpenAlexEmail: email}, nil
}

// readKey returns the trimmed contents of one key file, or "" when the
// file does not exist.
func readKey(dir, name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("reading secret %s: %w", name, err)
	}
	return strings.TrimSpace(string(data)), nil
}
