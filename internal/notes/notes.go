// Package notes keeps the free-form notes a user can later turn into
// reminders.
package notes

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sahilm/fuzzy"

	"github.com/julianstephens/chime/internal/models"
)

// ErrEmptyNote is returned when both title and body are blank.
var ErrEmptyNote = errors.New("note needs a title or a body")

// Book holds notes newest first.
type Book struct {
	notes []models.Note
	now   func() time.Time
}

func New(notes []models.Note) *Book {
	b := &Book{now: time.Now}
	b.notes = append(b.notes, notes...)
	return b
}

// SetClock overrides the CreatedAt source.
func (b *Book) SetClock(now func() time.Time) {
	b.now = now
}

// Save adds a note at the top of the book.
func (b *Book) Save(title, body string) (models.Note, error) {
	title = strings.TrimSpace(title)
	body = strings.TrimSpace(body)
	if title == "" && body == "" {
		return models.Note{}, ErrEmptyNote
	}
	n := models.Note{
		ID:        uuid.New().String(),
		Title:     title,
		Body:      body,
		CreatedAt: b.now(),
	}
	b.notes = append([]models.Note{n}, b.notes...)
	return n, nil
}

// Delete removes the note with id, reporting whether it existed.
func (b *Book) Delete(id string) bool {
	for i := range b.notes {
		if b.notes[i].ID == id {
			b.notes = append(b.notes[:i], b.notes[i+1:]...)
			return true
		}
	}
	return false
}

func (b *Book) Get(id string) (models.Note, bool) {
	for _, n := range b.notes {
		if n.ID == id {
			return n, true
		}
	}
	return models.Note{}, false
}

func (b *Book) List() []models.Note {
	out := make([]models.Note, len(b.notes))
	copy(out, b.notes)
	return out
}

// Search fuzzy-matches query against title and body, best match first.
// An empty query returns every note.
func (b *Book) Search(query string) []models.Note {
	query = strings.TrimSpace(query)
	if query == "" {
		return b.List()
	}
	haystack := make([]string, len(b.notes))
	for i, n := range b.notes {
		haystack[i] = n.Title + " " + n.Body
	}
	matches := fuzzy.Find(query, haystack)
	out := make([]models.Note, len(matches))
	for i, m := range matches {
		out[i] = b.notes[m.Index]
	}
	return out
}

// Draft returns the text a new reminder should be pre-filled with. The body
// is preferred; a title-only note drafts its title.
func (b *Book) Draft(id string) (string, bool) {
	n, ok := b.Get(id)
	if !ok {
		return "", false
	}
	if n.Body != "" {
		return n.Body, true
	}
	return n.Title, true
}
