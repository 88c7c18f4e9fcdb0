package repositories

import (
	"errors"

	"messenger/internal/models"
)

var ErrContactNotFound = errors.New("contact not found")

// ContactDirectory exposes the read-only contacts grid.
type ContactDirectory interface {
	List() []models.Contact
	Get(id int64) (models.Contact, error)
}

// StaticContactDirectory holds contacts loaded once at startup.
type StaticContactDirectory struct {
	contacts []models.Contact
}

// NewContactDirectory copies contacts so later changes to the input are not observed.
func NewContactDirectory(contacts []models.Contact) *StaticContactDirectory {
	cp := make([]models.Contact, len(contacts))
	copy(cp, contacts)
	return &StaticContactDirectory{contacts: cp}
}

// List returns the contacts in load order.
func (d *StaticContactDirectory) List() []models.Contact {
	out := make([]models.Contact, len(d.contacts))
	copy(out, d.contacts)
	return out
}

// Get returns a single contact.
func (d *StaticContactDirectory) Get(id int64) (models.Contact, error) {
	for _, c := range d.contacts {
		if c.ID == id {
			return c, nil
		}
	}
	return models.Contact{}, ErrContactNotFound
}

var _ ContactDirectory = (*StaticContactDirectory)(nil)
