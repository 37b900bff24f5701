package tablespec

import (
	"fmt"

	"feedlake/internal/ddl"
)

// GenericTextType is the type every column is widened to by WidenToText roles.
const GenericTextType = "string"

// ColumnSpec describes one column of a feed.
type ColumnSpec struct {
	Name     string
	DataType string
	Comment  string
}

// CreateSQL renders the column for a column list:
//
//	<name> <type>[ comment '<comment>']
//
// When widen is set the declared type is replaced by GenericTextType.
func (c ColumnSpec) CreateSQL(widen bool) string {
	typ := c.DataType
	if widen {
		typ = GenericTextType
	}
	s := c.Name + " " + typ
	if c.Comment != "" {
		s += " comment " + ddl.QuoteLiteral(c.Comment)
	}
	return s
}

// PartitionSQL renders the column inside a PARTITIONED BY clause.
func (c ColumnSpec) PartitionSQL() string {
	return c.Name + " " + c.DataType
}

// Validate checks the column name and declared type.
func (c ColumnSpec) Validate() error {
	if err := ddl.ValidateIdentifier(c.Name); err != nil {
		return fmt.Errorf("invalid column name %q: %w", c.Name, err)
	}
	if err := ddl.ValidateColumnType(c.DataType); err != nil {
		return fmt.Errorf("invalid column type for %q: %w", c.Name, err)
	}
	return nil
}
