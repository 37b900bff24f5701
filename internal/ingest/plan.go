// Package ingest plans and registers the managed Hive tables of a feed.
//
// A Planner derives every clause of a table against a single tablespec.Role
// and assembles the CREATE TABLE statement. A Registrar submits the
// statements of a Plan and records them in the DDL history.
package ingest

import (
	"strings"

	"feedlake/internal/tablespec"
)

// TableStatement holds the derived clauses for one table and the assembled
// statement. Clauses are kept verbatim so callers can build their own
// templates.
type TableStatement struct {
	Role          tablespec.Role `json:"-"`
	RoleName      string         `json:"role"`
	TableName     string         `json:"table_name"`
	QualifiedName string         `json:"qualified_name"`
	Columns       string         `json:"columns"`
	Partition     string         `json:"partition"`
	Format        string         `json:"format"`
	Location      string         `json:"location"`
	Properties    string         `json:"properties"`
	Statement     string         `json:"statement"`
}

// PartitionFormula is a master partition key and the expression that fills
// it when rows are merged from the valid table.
type PartitionFormula struct {
	Column  string `json:"column"`
	Type    string `json:"type"`
	Formula string `json:"formula"`
}

// Plan is the set of statements for every table of one feed.
type Plan struct {
	ID         string             `json:"id"`
	Category   string             `json:"category"`
	Feed       string             `json:"feed"`
	Partitions []PartitionFormula `json:"partitions,omitempty"`
	Statements []TableStatement   `json:"statements"`
}

// Statement returns the statement planned for role.
func (p *Plan) Statement(role tablespec.Role) (TableStatement, bool) {
	for _, s := range p.Statements {
		if s.Role == role {
			return s, true
		}
	}
	return TableStatement{}, false
}

// Filter returns a copy of p restricted to roles, in plan order. No roles
// keeps every statement.
func (p *Plan) Filter(roles ...tablespec.Role) *Plan {
	if len(roles) == 0 {
		return p
	}
	keep := make(map[tablespec.Role]bool, len(roles))
	for _, r := range roles {
		keep[r] = true
	}
	out := &Plan{ID: p.ID, Category: p.Category, Feed: p.Feed, Partitions: p.Partitions}
	for _, s := range p.Statements {
		if keep[s.Role] {
			out.Statements = append(out.Statements, s)
		}
	}
	return out
}

// assemble joins the clauses in HiveQL order. Landing tables are EXTERNAL so
// dropping them never removes the landed files.
func assemble(s TableStatement) string {
	head := "CREATE TABLE IF NOT EXISTS "
	if s.Role == tablespec.Feed {
		head = "CREATE EXTERNAL TABLE IF NOT EXISTS "
	}
	parts := []string{head + s.QualifiedName + " (" + s.Columns + ")"}
	for _, clause := range []string{s.Partition, s.Format, s.Location, s.Properties} {
		if c := strings.TrimSpace(clause); c != "" {
			parts = append(parts, c)
		}
	}
	return strings.Join(parts, " ")
}
