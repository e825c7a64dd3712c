// Package ingest loads exit-ticket spreadsheets and reference material
// from disk into domain types.
package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"exitlens/internal/ticket"
)

// Required spreadsheet columns. Header matching is case-insensitive.
var requiredColumns = []string{"Student_ID", "Q1_Response", "Q2_Response", "Q3_Response"}

// columnCategory maps a response column to its prompt category.
var columnCategory = map[string]ticket.Category{
	"Q1_Response": ticket.Learning,
	"Q2_Response": ticket.Question,
	"Q3_Response": ticket.Interest,
}

// ReadTickets parses an exit-ticket CSV. Rows with a blank student id or
// with every response empty are skipped with a log entry; a missing
// required column aborts, since the file is then the wrong shape entirely.
func ReadTickets(r io.Reader, log *zap.Logger) ([]ticket.Ticket, error) {
	if log == nil {
		log = zap.NewNop()
	}
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("empty spreadsheet")
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	colIdx, err := indexColumns(header)
	if err != nil {
		return nil, err
	}

	var tickets []ticket.Ticket
	seen := make(map[string]bool)
	row := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}

		id := strings.TrimSpace(field(record, colIdx["Student_ID"]))
		if id == "" || strings.EqualFold(id, "nan") {
			log.Warn("row skipped: blank student id", zap.Int("row", row))
			continue
		}
		if seen[id] {
			log.Warn("row skipped: duplicate student id",
				zap.Int("row", row), zap.String("student", id))
			continue
		}

		tk := ticket.Ticket{StudentID: id, Answers: make(map[ticket.Category]string)}
		empty := true
		for col, cat := range columnCategory {
			text := strings.TrimSpace(field(record, colIdx[col]))
			if strings.EqualFold(text, "nan") {
				text = ""
			}
			tk.Answers[cat] = text
			if text != "" {
				empty = false
			}
		}
		if empty {
			log.Warn("row skipped: all responses empty",
				zap.Int("row", row), zap.String("student", id))
			continue
		}
		seen[id] = true
		tickets = append(tickets, tk)
	}
	return tickets, nil
}

// ReadTicketsFile is ReadTickets over a file path.
func ReadTicketsFile(path string, log *zap.Logger) ([]ticket.Ticket, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open responses file: %w", err)
	}
	defer f.Close()
	tickets, err := ReadTickets(f, log)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return tickets, nil
}

// Responses flattens tickets into the per-prompt response list the
// analyzer consumes, dropping empty answer slots.
func Responses(tickets []ticket.Ticket) []ticket.Response {
	var out []ticket.Response
	for _, tk := range tickets {
		for _, cat := range ticket.Categories() {
			text := tk.Answers[cat]
			if text == "" {
				continue
			}
			r, err := ticket.NewResponse(tk.StudentID, text, cat)
			if err != nil {
				continue
			}
			out = append(out, r)
		}
	}
	return out
}

// ReadReference loads the reference material text. The whole file is one
// document; format parsing beyond plain text is out of scope here.
func ReadReference(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read reference material: %w", err)
	}
	text := strings.TrimSpace(string(b))
	if text == "" {
		return "", fmt.Errorf("reference material %s is empty", path)
	}
	return text, nil
}

func indexColumns(header []string) (map[string]int, error) {
	idx := make(map[string]int, len(requiredColumns))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(h))] = i
	}
	out := make(map[string]int, len(requiredColumns))
	var missing []string
	for _, col := range requiredColumns {
		i, ok := idx[strings.ToLower(col)]
		if !ok {
			missing = append(missing, col)
			continue
		}
		out[col] = i
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}
	return out, nil
}

func field(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return record[i]
}
