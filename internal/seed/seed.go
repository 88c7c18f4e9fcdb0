// Package seed provides the static data present before any user action.
package seed

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"messenger/internal/models"
)

//go:embed seed.yaml
var defaultSeed []byte

var (
	ErrDuplicateMessageID = errors.New("duplicate message id")
	ErrDuplicateContactID = errors.New("duplicate contact id")
	ErrEmptyMessageText   = errors.New("empty message text")
)

// Data is the initial content of the message store and contact directory.
type Data struct {
	Messages []models.Message `yaml:"messages"`
	Contacts []models.Contact `yaml:"contacts"`
}

// Default returns the embedded seed data.
func Default() (Data, error) {
	return Parse(defaultSeed)
}

// Load reads seed data from path, or the embedded default when path is empty.
func Load(path string) (Data, error) {
	if path == "" {
		return Default()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return Data{}, fmt.Errorf("read seed file: %w", err)
	}
	data, err := Parse(raw)
	if err != nil {
		return Data{}, fmt.Errorf("seed file %s: %w", path, err)
	}
	return data, nil
}

// Parse decodes and validates a YAML seed document.
func Parse(raw []byte) (Data, error) {
	var data Data
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return Data{}, fmt.Errorf("decode seed: %w", err)
	}
	if err := data.Validate(); err != nil {
		return Data{}, err
	}
	return data, nil
}

// Validate checks id uniqueness and the non-empty text invariant.
func (d Data) Validate() error {
	seenMessages := map[int64]struct{}{}
	for _, m := range d.Messages {
		if _, ok := seenMessages[m.ID]; ok {
			return fmt.Errorf("%w: %d", ErrDuplicateMessageID, m.ID)
		}
		seenMessages[m.ID] = struct{}{}
		if strings.TrimSpace(m.Text) == "" {
			return fmt.Errorf("%w: message %d", ErrEmptyMessageText, m.ID)
		}
	}

	seenContacts := map[int64]struct{}{}
	for _, c := range d.Contacts {
		if _, ok := seenContacts[c.ID]; ok {
			return fmt.Errorf("%w: %d", ErrDuplicateContactID, c.ID)
		}
		seenContacts[c.ID] = struct{}{}
	}
	return nil
}
