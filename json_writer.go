package realvalue

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
)

// jsonObjectWriter helps construct a JSON object with a specific field order.
// Its zero value is ready to use.
type jsonObjectWriter struct {
	bytes.Buffer
	err error
}

// Append adds a new key-value pair to the JSON object. The value is marshaled
// to JSON using `json.Marshal`.
func (w *jsonObjectWriter) Append(key string, value any) *jsonObjectWriter {
	if w.err != nil {
		return w
	}
	k, err := json.Marshal(key)
	if err != nil {
		w.err = err
		return w
	}
	val, err := json.Marshal(value)
	if err != nil {
		w.err = fmt.Errorf("failed to marshal value for key %s: %w", k, err)
		return w
	}
	w.Write(k)
	w.WriteString(":")
	w.Write(val)
	w.WriteString(",")
	return w
}

// Optional appends a key-value pair only if the value is not nil.
func (w *jsonObjectWriter) Optional(key string, value any) *jsonObjectWriter {
	if value == nil {
		return w
	}
	return w.Append(key, value)
}

// MarshalJSON finalizes the JSON object construction, wraps the content in
// braces, and returns the complete JSON byte slice.
func (w *jsonObjectWriter) MarshalJSON() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	content := bytes.TrimSuffix(w.Bytes(), []byte(","))
	final := make([]byte, 0, len(content)+2)
	final = append(final, '{')
	final = append(final, content...)
	final = append(final, '}')
	return final, nil
}

// WriteJSONL writes the table as JSON Lines: one object per row, keys in
// column order. Missing values are omitted.
func (t *Table) WriteJSONL(w io.Writer) error { return t.writeJSONL(w, false) }

// WriteJSONL writes every table of the report as JSON Lines, each row starts
// with a "table" key holding the table name.
func (r *Report) WriteJSONL(w io.Writer) error {
	for _, t := range r.Tables() {
		if err := t.writeJSONL(w, true); err != nil {
			return fmt.Errorf("table %s: %w", t.Name, err)
		}
	}
	return nil
}

func (t *Table) writeJSONL(w io.Writer, named bool) error {
	for _, row := range t.Rows {
		var o jsonObjectWriter
		if named {
			o.Append("table", t.Name)
		}
		for i, cell := range row {
			o.Optional(t.Columns[i], cell)
		}
		line, err := o.MarshalJSON()
		if err != nil {
			return err
		}
		line = append(line, '\n')
		if _, err := w.Write(line); err != nil {
			return err
		}
	}
	return nil
}
