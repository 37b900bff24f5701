package tablespec

import (
	"strings"
)

// PartitionKey is a partition column together with the expression that
// computes its value from a source row, e.g. year(order_date).
type PartitionKey struct {
	Column  ColumnSpec
	Formula string
}

// PartitionColumns returns the columns of keys in order.
func PartitionColumns(keys []PartitionKey) []ColumnSpec {
	cols := make([]ColumnSpec, len(keys))
	for i, k := range keys {
		cols[i] = k.Column
	}
	return cols
}

// ParseColumnSpecs parses a field structure: one "name|type|comment" entry per
// line, comment optional. A comment may itself contain '|'. Blank lines are
// skipped.
func ParseColumnSpecs(text string) ([]ColumnSpec, error) {
	var cols []ColumnSpec
	err := eachSpecLine(text, func(line int, fields []string) error {
		c := ColumnSpec{Name: fields[0], DataType: fields[1]}
		if len(fields) > 2 {
			c.Comment = strings.Join(fields[2:], "|")
		}
		if err := c.Validate(); err != nil {
			return &ParseError{Line: line, Message: err.Error()}
		}
		cols = append(cols, c)
		return nil
	})
	return cols, err
}

// ParsePartitionSpecs parses a partition structure: one "name|type|formula"
// entry per line. A missing formula defaults to the column name.
func ParsePartitionSpecs(text string) ([]PartitionKey, error) {
	var keys []PartitionKey
	err := eachSpecLine(text, func(line int, fields []string) error {
		k := PartitionKey{Column: ColumnSpec{Name: fields[0], DataType: fields[1]}, Formula: fields[0]}
		if len(fields) > 2 && fields[2] != "" {
			k.Formula = strings.Join(fields[2:], "|")
		}
		if err := k.Column.Validate(); err != nil {
			return &ParseError{Line: line, Message: err.Error()}
		}
		keys = append(keys, k)
		return nil
	})
	return keys, err
}

func eachSpecLine(text string, fn func(line int, fields []string) error) error {
	for i, raw := range strings.Split(text, "\n") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		fields := strings.Split(raw, "|")
		for j := range fields {
			fields[j] = strings.TrimSpace(fields[j])
		}
		if len(fields) < 2 {
			return &ParseError{Line: i + 1, Message: "expected at least name|type"}
		}
		if err := fn(i+1, fields); err != nil {
			return err
		}
	}
	return nil
}
