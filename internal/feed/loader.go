package feed

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"

	"gopkg.in/yaml.v3"
)

// LoadOptions configures YAML loading behavior.
type LoadOptions struct {
	AllowUnknownFields bool
}

// LoadFile reads every YAML document in path. Multiple feeds may share a file
// separated by "---".
func LoadFile(path string, opts LoadOptions) ([]Document, error) {
	data, err := os.ReadFile(path) //nolint:gosec // intentional: reading user-specified feed files
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	docs, err := Decode(data, opts)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(docs) == 0 {
		return nil, fmt.Errorf("%s: no feed documents", path)
	}
	return docs, nil
}

// Decode parses a YAML stream of feed documents. Empty documents are skipped.
func Decode(data []byte, opts LoadOptions) ([]Document, error) {
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(!opts.AllowUnknownFields)

	var docs []Document
	for {
		var doc Document
		err := decoder.Decode(&doc)
		if errors.Is(err, io.EOF) {
			return docs, nil
		}
		if err != nil {
			return nil, err
		}
		if reflect.ValueOf(doc).IsZero() {
			continue
		}
		docs = append(docs, doc)
	}
}

// LoadDefinitions loads, validates, and resolves every feed in paths. All
// validation problems across all files are returned together.
func LoadDefinitions(paths []string, opts LoadOptions) ([]*Definition, []ValidationError, error) {
	var (
		defs []*Definition
		errs []ValidationError
	)
	seen := make(map[string]string)
	for _, path := range paths {
		docs, err := LoadFile(path, opts)
		if err != nil {
			return nil, nil, err
		}
		for i := range docs {
			doc := &docs[i]
			docPath := path
			if len(docs) > 1 {
				docPath = fmt.Sprintf("%s[%d]", path, i)
			}
			if verrs := Validate(doc, docPath); len(verrs) > 0 {
				errs = append(errs, verrs...)
				continue
			}
			def, err := Resolve(doc)
			if err != nil {
				errs = append(errs, ValidationError{Path: docPath, Message: err.Error()})
				continue
			}
			if prev, dup := seen[def.Key()]; dup {
				errs = append(errs, ValidationError{Path: docPath, Message: fmt.Sprintf("feed %s already defined in %s", def.Key(), prev)})
				continue
			}
			seen[def.Key()] = docPath
			def.Source = docPath
			defs = append(defs, def)
		}
	}
	return defs, errs, nil
}
