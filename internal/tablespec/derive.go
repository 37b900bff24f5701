package tablespec

import (
	"path"
	"path/filepath"
	"strings"

	"feedlake/internal/ddl"
)

const (
	// ProcessingPartitionColumn is the synthetic pipeline-run partition column.
	ProcessingPartitionColumn = "processing_dttm"
	// RejectReasonColumn holds the validation failure of an invalid row.
	RejectReasonColumn = "dlp_reject_reason"
)

var processingPartitionClause = " PARTITIONED BY (" + ddl.QuoteIdentifier(ProcessingPartitionColumn) + " " + GenericTextType + ") "

// TableName appends the role suffix to entity as "_<suffix>".
func (r Role) TableName(entity string) string {
	if suffix := r.Policy().Suffix; suffix != "" {
		return entity + "_" + suffix
	}
	return entity
}

// QualifiedName returns `<source>`.`<table>` for the trimmed source and entity.
func (r Role) QualifiedName(source, entity string) (string, error) {
	source = strings.TrimSpace(source)
	entity = strings.TrimSpace(entity)
	if source == "" {
		return "", ErrInvalidIdentifier("source", "must not be empty")
	}
	if entity == "" {
		return "", ErrInvalidIdentifier("entity", "must not be empty")
	}
	return ddl.QualifiedName(source, r.TableName(entity)), nil
}

// LocationClause returns " LOCATION '<base>/<source>/<entity>/<suffix>'". The
// suffix segment is omitted for roles without one. Base locations with a URI
// scheme (hdfs://, s3a://) keep scheme and authority; local paths are made
// absolute.
func (r Role) LocationClause(baseLocation, source, entity string) (string, error) {
	switch {
	case baseLocation == "":
		return "", ErrMissingArgument("tableLocation")
	case source == "":
		return "", ErrMissingArgument("source")
	case entity == "":
		return "", ErrMissingArgument("entity")
	}
	loc, err := resolveLocation(baseLocation, source, entity, r.Policy().Suffix)
	if err != nil {
		return "", err
	}
	return " LOCATION " + ddl.QuoteLiteral(loc), nil
}

func resolveLocation(base string, segments ...string) (string, error) {
	if scheme, rest, ok := strings.Cut(base, "://"); ok {
		authority, p := rest, "/"
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			authority, p = rest[:i], rest[i:]
		}
		return scheme + "://" + authority + path.Join(append([]string{p}, segments...)...), nil
	}
	abs, err := filepath.Abs(filepath.Join(append([]string{base}, segments...)...))
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(abs), nil
}

// ColumnClause renders the column list. For roles without the pipeline time
// partition, columns named in partitionColumns are left out because they are
// declared by the partition clause. Input order is preserved. Roles that
// append the rejection reason always emit ", dlp_reject_reason string ", even
// after an empty column list.
func (r Role) ColumnClause(columns, partitionColumns []ColumnSpec) string {
	p := r.Policy()

	suppressed := make(map[string]struct{}, len(partitionColumns))
	if !p.UsesPipelineTimePartition {
		for _, pc := range partitionColumns {
			suppressed[pc.Name] = struct{}{}
		}
	}

	defs := make([]string, 0, len(columns))
	for _, c := range columns {
		if _, ok := suppressed[c.Name]; ok {
			continue
		}
		defs = append(defs, c.CreateSQL(p.WidenToText))
	}

	clause := strings.Join(defs, ", ")
	if p.AppendRejectionReason {
		clause += ", " + RejectReasonColumn + " " + GenericTextType + " "
	}
	return clause
}

// PartitionClause renders the PARTITIONED BY clause. Pipeline time partitioned
// roles always get processing_dttm and ignore partitionColumns.
func (r Role) PartitionClause(partitionColumns []ColumnSpec) string {
	if r.Policy().UsesPipelineTimePartition {
		return processingPartitionClause
	}
	if len(partitionColumns) == 0 {
		return ""
	}
	defs := make([]string, len(partitionColumns))
	for i, pc := range partitionColumns {
		defs[i] = pc.PartitionSQL()
	}
	return " PARTITIONED BY (" + strings.Join(defs, ", ") + ") "
}

// FormatClause selects the storage format clause.
func (r Role) FormatClause(rawFormat, targetFormat string) string {
	if r.Policy().UseTargetStorageFormat {
		return targetFormat
	}
	return rawFormat
}

// TablePropertiesClause returns targetProperties for target-format roles and
// "" otherwise.
func (r Role) TablePropertiesClause(targetProperties string) string {
	if r.Policy().UseTargetStorageFormat {
		return targetProperties
	}
	return ""
}
