package parser

import (
	"strings"
)

type scanState int

const (
	outsideField scanState = iota
	insideQuotedField
)

// Parse splits comma separated text into rows of fields.
//
// Quoted fields may contain commas, line breaks and doubled quotes. Rows made only of blank
// fields are dropped, other rows are returned as they are, without column count checks.
// Parse never fails: an unterminated quote makes the rest of the input part of the last field.
func Parse(content string) [][]string {
	var (
		table [][]string
		row   []string
		field strings.Builder
		state = outsideField
	)

	endField := func() {
		row = append(row, field.String())
		field.Reset()
	}
	endRow := func() {
		endField()
		if !isBlankRow(row) {
			table = append(table, row)
		}
		row = nil
	}

	runes := []rune(content)
	for i := 0; i < len(runes); i++ {
		c := runes[i]

		if state == insideQuotedField {
			if c == '"' {
				if i+1 < len(runes) && runes[i+1] == '"' {
					field.WriteRune('"')
					i++
					continue
				}
				state = outsideField
				continue
			}
			field.WriteRune(c)
			continue
		}

		switch {
		case c == '"':
			state = insideQuotedField
		case c == ',':
			endField()
		case c == '\n':
			endRow()
		case c == '\r' && i+1 < len(runes) && runes[i+1] == '\n':
			i++
			endRow()
		default:
			field.WriteRune(c)
		}
	}

	if field.Len() > 0 || len(row) > 0 {
		endRow()
	}

	return table
}

func isBlankRow(row []string) bool {
	for _, f := range row {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
