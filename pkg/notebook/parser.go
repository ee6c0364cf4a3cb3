// Package notebook parses Kindle notebook HTML exports into a book title,
// author string and the list of highlighted notes.
package notebook

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// ParseError is returned when the export is malformed or carries no usable
// content.
type ParseError struct {
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	return e.Message
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ParsedNotebook is the extracted content of one Kindle export.
type ParsedNotebook struct {
	BookTitle string
	Authors   string
	Notes     []string
}

// Parse extracts the book title (.bookTitle), authors (.authors) and note
// texts (.noteText) from a Kindle notebook HTML export. A missing or empty
// title and an export without notes are both errors; a missing authors block
// degrades to an empty string.
func Parse(htmlContent string) (*ParsedNotebook, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, &ParseError{Message: "could not parse HTML content", Err: err}
	}

	bookTitle := strings.TrimSpace(doc.Find(".bookTitle").First().Text())
	if bookTitle == "" {
		return nil, &ParseError{Message: "Could not find book title in HTML content"}
	}

	authors := strings.TrimSpace(doc.Find(".authors").First().Text())

	var notes []string
	doc.Find(".noteText").Each(func(_ int, sel *goquery.Selection) {
		if text := strings.TrimSpace(sel.Text()); text != "" {
			notes = append(notes, text)
		}
	})
	if len(notes) == 0 {
		return nil, &ParseError{Message: "No notes found in HTML content"}
	}

	return &ParsedNotebook{
		BookTitle: bookTitle,
		Authors:   authors,
		Notes:     notes,
	}, nil
}
