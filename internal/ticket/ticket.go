// Package ticket holds the exit-ticket domain types shared by ingest,
// scoring and analysis.
package ticket

import (
	"fmt"
	"strings"
)

// Category identifies which reflection prompt a response answers.
type Category string

const (
	// Learning is the "summary of learning" prompt (three things learned).
	Learning Category = "learning"
	// Question is the "open questions about the material" prompt.
	Question Category = "question"
	// Interest is the "most interesting / want to explore" prompt.
	Interest Category = "interest"
)

// Categories lists all prompt categories in report order.
func Categories() []Category {
	return []Category{Learning, Question, Interest}
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case Learning, Question, Interest:
		return true
	}
	return false
}

// Response is a single student's answer to one prompt. Immutable once
// analysis begins.
type Response struct {
	StudentID string
	Text      string
	Category  Category
}

// NewResponse validates and builds a Response. Text is trimmed; an empty
// student id, empty text or unknown category is rejected here rather than
// somewhere downstream.
func NewResponse(studentID, text string, category Category) (Response, error) {
	id := strings.TrimSpace(studentID)
	if id == "" {
		return Response{}, fmt.Errorf("response has empty student id")
	}
	if !category.Valid() {
		return Response{}, fmt.Errorf("unknown prompt category %q", category)
	}
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return Response{}, fmt.Errorf("student %s: empty response text", id)
	}
	return Response{StudentID: id, Text: trimmed, Category: category}, nil
}

// Ticket is one student's full exit ticket: one response slot per prompt.
// Empty slots mean the student skipped that prompt.
type Ticket struct {
	StudentID string
	Answers   map[Category]string
}
