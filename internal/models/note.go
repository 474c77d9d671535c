package models

import "time"

type Note struct {
	ID        string    `json:"id" yaml:"id"`
	Title     string    `json:"title" yaml:"title"`
	Body      string    `json:"body" yaml:"body"`
	CreatedAt time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
}

// Heading returns the title, falling back to the first line of the body.
func (n Note) Heading() string {
	if n.Title != "" {
		return n.Title
	}
	for i, c := range n.Body {
		if c == '\n' {
			return n.Body[:i]
		}
	}
	return n.Body
}
