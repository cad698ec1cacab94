package model

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Status is the column key a task sits under on the board.
type Status string

// Column keys used by the task API.
const (
	StatusToDo       Status = "a_fazer"
	StatusInProgress Status = "em_andamento"
	StatusDone       Status = "concluida"
	StatusCancelled  Status = "cancelada"
)

// DefaultColumns returns the board columns in display order.
func DefaultColumns() []Status {
	return []Status{StatusToDo, StatusInProgress, StatusDone, StatusCancelled}
}

// ParseColumns splits a comma separated list of column keys, skipping blanks.
func ParseColumns(s string) []Status {
	var cols []Status
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		cols = append(cols, Status(part))
	}
	return cols
}

// Title turns a column key into a display title ("em_andamento" -> "Em Andamento").
func (s Status) Title() string {
	words := strings.Fields(strings.ReplaceAll(string(s), "_", " "))
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}
