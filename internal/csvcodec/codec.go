// Package csvcodec converts flat records to and from the CSV dialect used by
// backups.
//
// The dialect is deliberately small: fields are separated by ',' and records
// by '\n'. A value containing ',', '"' or '\n' is wrapped in double quotes
// with inner quotes doubled; every other value is written as is. Empty fields
// decode to null, so an empty string never survives a round trip.
package csvcodec

import (
	"fmt"
	"strings"
)

// Record maps a header name to a value. A missing key or a nil value is null.
type Record map[string]*string

// String returns a pointer to s, for building records.
func String(s string) *string {
	return &s
}

// Get returns the value for name, or "" if it is null.
func (r Record) Get(name string) string {
	if v := r[name]; v != nil {
		return *v
	}
	return ""
}

// CodecError reports malformed CSV input.
type CodecError struct {
	// Line is the 1-based line where the offending record starts.
	Line int
	Msg  string
}

func (e *CodecError) Error() string {
	return fmt.Sprintf("csv: line %d: %s", e.Line, e.Msg)
}

// Escape returns v as it appears in an encoded field.
func Escape(v string) string {
	if !strings.ContainsAny(v, ",\"\n") {
		return v
	}
	return `"` + strings.ReplaceAll(v, `"`, `""`) + `"`
}

// Encode renders records under header. Every line, the header included, ends
// with '\n'; with no records the output is the header line alone.
func Encode(header []string, records []Record) []byte {
	var b strings.Builder
	writeLine(&b, header, func(name string) string { return name })
	for _, rec := range records {
		writeLine(&b, header, rec.Get)
	}
	return []byte(b.String())
}

func writeLine(b *strings.Builder, header []string, value func(string) string) {
	for i, name := range header {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(Escape(value(name)))
	}
	b.WriteByte('\n')
}

// Decode parses data into its header and records.
//
// Blank lines are skipped and header names are trimmed. Fields map onto the
// header by position: missing trailing fields are null and fields beyond the
// header are dropped. A newline inside a quoted field belongs to the value.
// An input without a header decodes to nil, nil.
func Decode(data []byte) ([]string, []Record, error) {
	rows, err := split(string(data))
	if err != nil {
		return nil, nil, err
	}
	if len(rows) == 0 {
		return nil, nil, nil
	}

	header := make([]string, len(rows[0]))
	for i, name := range rows[0] {
		header[i] = strings.TrimSpace(name)
	}

	records := make([]Record, 0, len(rows)-1)
	for _, fields := range rows[1:] {
		rec := make(Record, len(header))
		for i, name := range header {
			if i < len(fields) && fields[i] != "" {
				rec[name] = String(fields[i])
			} else {
				rec[name] = nil
			}
		}
		records = append(records, rec)
	}

	return header, records, nil
}

// split scans text into rows of raw field values.
func split(text string) ([][]string, error) {
	var (
		rows      [][]string
		fields    []string
		field     strings.Builder
		inQuotes  bool
		line      = 1
		startLine = 1
		blank     = true // no content since the last record boundary
	)

	endRecord := func() {
		fields = append(fields, field.String())
		field.Reset()
		if !blank {
			rows = append(rows, fields)
		}
		fields = nil
		blank = true
	}

	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == '"':
			if inQuotes && i+1 < len(text) && text[i+1] == '"' {
				field.WriteByte('"')
				i++
			} else {
				inQuotes = !inQuotes
			}
			blank = false
		case c == ',' && !inQuotes:
			fields = append(fields, field.String())
			field.Reset()
			blank = false
		case c == '\n' && !inQuotes:
			endRecord()
			line++
			startLine = line
		default:
			if c == '\n' {
				line++
			}
			field.WriteByte(c)
			if c != ' ' && c != '\t' && c != '\r' {
				blank = false
			}
		}
	}

	if inQuotes {
		return nil, &CodecError{Line: startLine, Msg: "unterminated quoted field"}
	}
	endRecord()

	return rows, nil
}
