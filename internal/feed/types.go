// Package feed loads and validates declarative feed definitions: YAML
// documents that name a feed, its columns, its partition keys, and optional
// storage overrides.
package feed

import "feedlake/internal/tablespec"

// SupportedAPIVersion is the only accepted apiVersion.
const SupportedAPIVersion = "feedlake/v1"

// KindFeed is the kind of a feed definition document.
const KindFeed = "Feed"

// Document is one YAML feed definition.
type Document struct {
	APIVersion string   `yaml:"apiVersion"`
	Kind       string   `yaml:"kind"`
	Metadata   Metadata `yaml:"metadata"`
	Spec       Spec     `yaml:"spec"`
}

// Metadata identifies the feed. Category becomes the Hive database.
type Metadata struct {
	Category    string `yaml:"category"`
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`
}

// Spec declares columns and partitions either as lists or as the
// pipe-delimited structure strings kept in feed metadata.
type Spec struct {
	Fields             []FieldSpec     `yaml:"fields,omitempty"`
	FieldStructure     string          `yaml:"fieldStructure,omitempty"`
	Partitions         []PartitionSpec `yaml:"partitions,omitempty"`
	PartitionStructure string          `yaml:"partitionStructure,omitempty"`
	Storage            StorageSpec     `yaml:"storage,omitempty"`
}

// FieldSpec declares one column.
type FieldSpec struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	Comment string `yaml:"comment,omitempty"`
}

// PartitionSpec declares one master-table partition key.
type PartitionSpec struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type"`
	Formula string `yaml:"formula,omitempty"`
}

// StorageSpec overrides the environment storage settings for one feed.
type StorageSpec struct {
	Location            string `yaml:"location,omitempty"`
	FeedFormat          string `yaml:"feedFormat,omitempty"`
	TargetFormat        string `yaml:"targetFormat,omitempty"`
	TargetTblProperties string `yaml:"targetTblProperties,omitempty"`
}

// Definition is a validated feed with its columns resolved.
type Definition struct {
	Category    string
	Name        string
	Description string
	Columns     []tablespec.ColumnSpec
	Partitions  []tablespec.PartitionKey
	Storage     StorageSpec
	// Source is the file the definition was loaded from, if any.
	Source string
}

// Key returns "<category>.<name>".
func (d *Definition) Key() string {
	return d.Category + "." + d.Name
}
