package feed

import (
	"errors"
	"fmt"

	"feedlake/internal/ddl"
	"feedlake/internal/tablespec"
)

// ValidationError represents a single validation problem.
type ValidationError struct {
	Path    string // e.g. "feeds/orders.yaml" or "feeds/all.yaml[2]"
	Message string
}

func (e ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s", e.Path, e.Message)
	}
	return e.Message
}

// reservedColumns are added by the table roles and cannot be declared.
var reservedColumns = map[string]bool{
	tablespec.ProcessingPartitionColumn: true,
	tablespec.RejectReasonColumn:        true,
}

// Validate checks a feed document and returns every problem found.
func Validate(doc *Document, path string) []ValidationError {
	var errs []ValidationError
	add := func(format string, args ...interface{}) {
		errs = append(errs, ValidationError{Path: path, Message: fmt.Sprintf(format, args...)})
	}

	if doc.APIVersion != SupportedAPIVersion {
		add("unsupported apiVersion %q (expected %q)", doc.APIVersion, SupportedAPIVersion)
	}
	if doc.Kind != KindFeed {
		add("unexpected kind %q (expected %q)", doc.Kind, KindFeed)
	}
	if err := ddl.ValidateIdentifier(doc.Metadata.Category); err != nil {
		add("metadata.category: %v", err)
	}
	if err := ddl.ValidateIdentifier(doc.Metadata.Name); err != nil {
		add("metadata.name: %v", err)
	}

	spec := doc.Spec
	switch {
	case len(spec.Fields) > 0 && spec.FieldStructure != "":
		add("spec: fields and fieldStructure are mutually exclusive")
	case len(spec.Fields) == 0 && spec.FieldStructure == "":
		add("spec: one of fields or fieldStructure is required")
	}
	if len(spec.Partitions) > 0 && spec.PartitionStructure != "" {
		add("spec: partitions and partitionStructure are mutually exclusive")
	}

	for i, f := range spec.Fields {
		col := tablespec.ColumnSpec{Name: f.Name, DataType: f.Type, Comment: f.Comment}
		if err := col.Validate(); err != nil {
			add("spec.fields[%d]: %v", i, err)
		}
	}
	for i, p := range spec.Partitions {
		col := tablespec.ColumnSpec{Name: p.Name, DataType: p.Type}
		if err := col.Validate(); err != nil {
			add("spec.partitions[%d]: %v", i, err)
		}
	}

	cols, colPath, err := resolveColumns(spec)
	if err != nil {
		add("%s: %v", colPath, err)
	}
	for _, msg := range nameProblems(colPath, columnNames(cols), "column") {
		add("%s", msg)
	}

	keys, partPath, err := resolvePartitions(spec)
	if err != nil {
		add("%s: %v", partPath, err)
	}
	for _, msg := range nameProblems(partPath, columnNames(tablespec.PartitionColumns(keys)), "partition") {
		add("%s", msg)
	}

	return errs
}

// Resolve converts a validated document into a Definition, parsing the
// pipe-delimited structures when they are used. Both forms go through the
// same reserved and duplicate name checks.
func Resolve(doc *Document) (*Definition, error) {
	cols, colPath, err := resolveColumns(doc.Spec)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", colPath, err)
	}
	if len(cols) == 0 {
		return nil, fmt.Errorf("%s: no columns declared", colPath)
	}
	if msgs := nameProblems(colPath, columnNames(cols), "column"); len(msgs) > 0 {
		return nil, errors.New(msgs[0])
	}

	keys, partPath, err := resolvePartitions(doc.Spec)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", partPath, err)
	}
	if msgs := nameProblems(partPath, columnNames(tablespec.PartitionColumns(keys)), "partition"); len(msgs) > 0 {
		return nil, errors.New(msgs[0])
	}

	return &Definition{
		Category:    doc.Metadata.Category,
		Name:        doc.Metadata.Name,
		Description: doc.Metadata.Description,
		Columns:     cols,
		Partitions:  keys,
		Storage:     doc.Spec.Storage,
	}, nil
}

// resolveColumns returns the declared columns and the document path they
// came from.
func resolveColumns(spec Spec) ([]tablespec.ColumnSpec, string, error) {
	if spec.FieldStructure != "" && len(spec.Fields) == 0 {
		cols, err := tablespec.ParseColumnSpecs(spec.FieldStructure)
		return cols, "spec.fieldStructure", err
	}
	cols := make([]tablespec.ColumnSpec, len(spec.Fields))
	for i, f := range spec.Fields {
		cols[i] = tablespec.ColumnSpec{Name: f.Name, DataType: f.Type, Comment: f.Comment}
	}
	return cols, "spec.fields", nil
}

func resolvePartitions(spec Spec) ([]tablespec.PartitionKey, string, error) {
	if spec.PartitionStructure != "" && len(spec.Partitions) == 0 {
		keys, err := tablespec.ParsePartitionSpecs(spec.PartitionStructure)
		return keys, "spec.partitionStructure", err
	}
	var keys []tablespec.PartitionKey
	for _, p := range spec.Partitions {
		formula := p.Formula
		if formula == "" {
			formula = p.Name
		}
		keys = append(keys, tablespec.PartitionKey{
			Column:  tablespec.ColumnSpec{Name: p.Name, DataType: p.Type},
			Formula: formula,
		})
	}
	return keys, "spec.partitions", nil
}

func columnNames(cols []tablespec.ColumnSpec) []string {
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.Name
	}
	return names
}

// nameProblems reports reserved and repeated names, indexed by entry.
func nameProblems(path string, names []string, noun string) []string {
	var msgs []string
	seen := make(map[string]bool, len(names))
	for i, name := range names {
		if name == "" {
			continue
		}
		if reservedColumns[name] {
			msgs = append(msgs, fmt.Sprintf("%s[%d]: column name %q is reserved", path, i, name))
		}
		if seen[name] {
			msgs = append(msgs, fmt.Sprintf("%s[%d]: duplicate %s %q", path, i, noun, name))
		}
		seen[name] = true
	}
	return msgs
}
