// Package vault implements the encrypted credential store: the plaintext
// data model, the on-disk envelope format with its two legacy predecessors,
// the unlock/migration protocol, rollback detection against the OS secret
// store, and the failed-attempt lockout.
package vault

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// Validation errors for entries and notes.
var (
	ErrEmptyName     = errors.New("vault: entry name must not be empty")
	ErrEmptyEmail    = errors.New("vault: entry email must not be empty")
	ErrEmptyPassword = errors.New("vault: entry password must not be empty")
	ErrEmptyTitle    = errors.New("vault: note title must not be empty")
	ErrNotFound      = errors.New("vault: no item with that id")
)

// Vault is the plaintext payload that gets encrypted as a whole. It is
// created empty on first run and replaced wholesale on every save. Revision
// increases by one per save and backs rollback detection.
type Vault struct {
	Revision uint64  `json:"revision"`
	Entries  []Entry `json:"entries"`
	Notes    []Note  `json:"notes"`
}

// Entry is a stored credential. The ID is random, assigned at creation and
// stable across edits. Names are labels, not keys: multiple entries may
// share a service name.
type Entry struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Username string `json:"username,omitempty"`
	Notes    string `json:"notes,omitempty"`
}

// Note is a free-text secret note.
type Note struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
}

// New returns an empty vault at revision zero.
func New() *Vault {
	return &Vault{
		Entries: []Entry{},
		Notes:   []Note{},
	}
}

// NewEntry validates and builds a credential entry with a fresh ID.
// Name and title strings are NFC-normalized so that lookups do not split on
// Unicode representation.
func NewEntry(name, email, password, username, notes string) (Entry, error) {
	name = norm.NFC.String(strings.TrimSpace(name))
	email = strings.TrimSpace(email)

	if name == "" {
		return Entry{}, ErrEmptyName
	}
	if email == "" {
		return Entry{}, ErrEmptyEmail
	}
	if password == "" {
		return Entry{}, ErrEmptyPassword
	}

	return Entry{
		ID:       uuid.NewString(),
		Name:     name,
		Email:    email,
		Password: password,
		Username: username,
		Notes:    notes,
	}, nil
}

// NewNote validates and builds a note with a fresh ID. Titles are unique in
// practice but uniqueness is not enforced.
func NewNote(title, content string) (Note, error) {
	title = norm.NFC.String(strings.TrimSpace(title))
	if title == "" {
		return Note{}, ErrEmptyTitle
	}

	return Note{
		ID:      uuid.NewString(),
		Title:   title,
		Content: content,
	}, nil
}

// AddEntry appends an entry, preserving insertion order.
func (v *Vault) AddEntry(e Entry) {
	v.Entries = append(v.Entries, e)
}

// UpdateEntry replaces the entry with the same ID. The ID itself never
// changes across edits.
func (v *Vault) UpdateEntry(e Entry) error {
	for i := range v.Entries {
		if v.Entries[i].ID == e.ID {
			v.Entries[i] = e
			return nil
		}
	}
	return ErrNotFound
}

// RemoveEntry deletes the entry with the given ID.
func (v *Vault) RemoveEntry(id string) error {
	for i := range v.Entries {
		if v.Entries[i].ID == id {
			v.Entries = append(v.Entries[:i], v.Entries[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// FindEntry returns the entry with the given ID.
func (v *Vault) FindEntry(id string) (Entry, error) {
	for i := range v.Entries {
		if v.Entries[i].ID == id {
			return v.Entries[i], nil
		}
	}
	return Entry{}, ErrNotFound
}

// AddNote appends a note, preserving insertion order.
func (v *Vault) AddNote(n Note) {
	v.Notes = append(v.Notes, n)
}

// UpdateNote replaces the note with the same ID.
func (v *Vault) UpdateNote(n Note) error {
	for i := range v.Notes {
		if v.Notes[i].ID == n.ID {
			v.Notes[i] = n
			return nil
		}
	}
	return ErrNotFound
}

// RemoveNote deletes the note with the given ID.
func (v *Vault) RemoveNote(id string) error {
	for i := range v.Notes {
		if v.Notes[i].ID == id {
			v.Notes = append(v.Notes[:i], v.Notes[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// FindNote returns the note with the given ID.
func (v *Vault) FindNote(id string) (Note, error) {
	for i := range v.Notes {
		if v.Notes[i].ID == id {
			return v.Notes[i], nil
		}
	}
	return Note{}, ErrNotFound
}
