// Command feed-schema-gen generates the JSON Schema of feed definition
// documents for editor validation.
package main

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strings"

	"feedlake/internal/feed"
)

// identifierPattern mirrors ddl.ValidateIdentifier.
const (
	identifierPattern   = `^[a-zA-Z_][a-zA-Z0-9_]*$`
	identifierMaxLength = 128
)

type schemaGenerator struct {
	defs map[string]map[string]interface{}
}

func newSchemaGenerator() *schemaGenerator {
	return &schemaGenerator{defs: make(map[string]map[string]interface{})}
}

func (g *schemaGenerator) typeSchema(t reflect.Type) map[string]interface{} {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	switch t.Kind() {
	case reflect.String:
		return map[string]interface{}{"type": "string"}
	case reflect.Bool:
		return map[string]interface{}{"type": "boolean"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return map[string]interface{}{"type": "integer"}
	case reflect.Slice, reflect.Array:
		return map[string]interface{}{"type": "array", "items": g.typeSchema(t.Elem())}
	case reflect.Map:
		return map[string]interface{}{"type": "object", "additionalProperties": g.typeSchema(t.Elem())}
	case reflect.Struct:
		name := t.Name()
		if name == "" {
			return map[string]interface{}{"type": "object", "additionalProperties": true}
		}
		if _, ok := g.defs[name]; !ok {
			g.defs[name] = g.buildStructDefinition(t)
		}
		return map[string]interface{}{"$ref": "#/$defs/" + name}
	default:
		return map[string]interface{}{}
	}
}

func (g *schemaGenerator) buildStructDefinition(t reflect.Type) map[string]interface{} {
	properties := map[string]interface{}{}
	required := make([]string, 0)

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		tag := field.Tag.Get("yaml")
		if tag == "-" {
			continue
		}
		name, omitEmpty := yamlFieldName(field.Name, tag)
		if name == "" {
			continue
		}

		properties[name] = g.typeSchema(field.Type)
		switch field.Type.Kind() {
		case reflect.Pointer, reflect.Slice, reflect.Map:
		default:
			if !omitEmpty {
				required = append(required, name)
			}
		}
	}
	sort.Strings(required)

	definition := map[string]interface{}{
		"type":                 "object",
		"properties":           properties,
		"additionalProperties": false,
	}
	if len(required) > 0 {
		definition["required"] = required
	}
	return definition
}

func yamlFieldName(fieldName, yamlTag string) (string, bool) {
	if yamlTag == "" {
		return strings.ToLower(fieldName[:1]) + fieldName[1:], false
	}
	name, opts, _ := strings.Cut(yamlTag, ",")
	omitEmpty := false
	for _, opt := range strings.Split(opts, ",") {
		if opt == "omitempty" {
			omitEmpty = true
		}
	}
	return name, omitEmpty
}

func getDefProperty(defs map[string]map[string]interface{}, defName, propName string) map[string]interface{} {
	def, ok := defs[defName]
	if !ok {
		return nil
	}
	props, ok := def["properties"].(map[string]interface{})
	if !ok {
		return nil
	}
	prop, ok := props[propName].(map[string]interface{})
	if !ok {
		return nil
	}
	return prop
}

func addAllOfRule(def map[string]interface{}, rule map[string]interface{}) {
	list, _ := def["allOf"].([]interface{})
	def["allOf"] = append(list, rule)
}

func setIdentifier(defs map[string]map[string]interface{}, defName, propName string) {
	if prop := getDefProperty(defs, defName, propName); prop != nil {
		prop["pattern"] = identifierPattern
		prop["maxLength"] = identifierMaxLength
	}
}

// exclusive forbids declaring both a list and its pipe-delimited form.
func exclusive(list, structure string) map[string]interface{} {
	return map[string]interface{}{
		"not": map[string]interface{}{"required": []string{list, structure}},
	}
}

func applyFeedConstraints(defs map[string]map[string]interface{}) {
	if prop := getDefProperty(defs, "Document", "apiVersion"); prop != nil {
		prop["enum"] = []string{feed.SupportedAPIVersion}
	}
	if prop := getDefProperty(defs, "Document", "kind"); prop != nil {
		prop["enum"] = []string{feed.KindFeed}
	}

	setIdentifier(defs, "Metadata", "category")
	setIdentifier(defs, "Metadata", "name")
	setIdentifier(defs, "FieldSpec", "name")
	setIdentifier(defs, "PartitionSpec", "name")

	spec, ok := defs["Spec"]
	if !ok {
		return
	}
	addAllOfRule(spec, exclusive("fields", "fieldStructure"))
	addAllOfRule(spec, exclusive("partitions", "partitionStructure"))
	addAllOfRule(spec, map[string]interface{}{
		"anyOf": []interface{}{
			map[string]interface{}{"required": []string{"fields"}},
			map[string]interface{}{"required": []string{"fieldStructure"}},
		},
	})
}

func encodeCanonicalJSON(path string, content interface{}) (string, error) {
	data, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal %s: %w", path, err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o600); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:]), nil
}

func buildFeedSchema() map[string]interface{} {
	gen := newSchemaGenerator()
	rootRef := gen.typeSchema(reflect.TypeOf(feed.Document{}))
	applyFeedConstraints(gen.defs)

	return map[string]interface{}{
		"$schema":     "https://json-schema.org/draft/2020-12/schema",
		"$id":         "schemas/feed/v1/feed.schema.json",
		"title":       "feedlake feed definition",
		"description": "A " + feed.SupportedAPIVersion + " " + feed.KindFeed + " document.",
		"allOf":       []map[string]interface{}{rootRef},
		"$defs":       gen.defs,
	}
}

func run(outDir string) error {
	if err := os.MkdirAll(outDir, 0o750); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	hash, err := encodeCanonicalJSON(filepath.Join(outDir, "feed.schema.json"), buildFeedSchema())
	if err != nil {
		return err
	}

	manifest := map[string]interface{}{
		"version":    "v1",
		"apiVersion": feed.SupportedAPIVersion,
		"files":      map[string]string{"feed.schema.json": hash},
	}
	_, err = encodeCanonicalJSON(filepath.Join(outDir, "index.json"), manifest)
	return err
}

func main() {
	var outDir string
	flag.StringVar(&outDir, "outdir", "schemas/feed/v1", "Output schema directory")
	flag.Parse()

	if err := run(outDir); err != nil {
		_, _ = fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}
