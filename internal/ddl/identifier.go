// Package ddl holds the Hive quoting and validation primitives shared by the
// table derivation code.
package ddl

import (
	"fmt"
	"regexp"
	"strings"
)

// identifierRe allows alphanumeric + underscores, starting with a letter or underscore.
var identifierRe = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// columnTypeRe matches the character set of Hive type declarations:
//
//	WORD                         → int, string, timestamp
//	WORD(digits[,digits])        → varchar(64), decimal(10,2)
//	WORD<...>                    → array<string>, map<string,int>, struct<a:int,b:string>
//
// Nesting of <> and () is checked separately by balanced.
var columnTypeRe = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*(?:[<(][A-Za-z0-9_<>():, ]*[>)])?$`)

// maxIdentifierLen is the maximum length allowed for a Hive identifier.
const maxIdentifierLen = 128

// maxColumnTypeLen leaves room for nested struct declarations.
const maxColumnTypeLen = 512

// ValidateIdentifier checks that name is a safe unquoted Hive identifier:
//   - Non-empty
//   - At most 128 characters
//   - Matches [a-zA-Z_][a-zA-Z0-9_]*
func ValidateIdentifier(name string) error {
	if name == "" {
		return fmt.Errorf("name is required")
	}
	if len(name) > maxIdentifierLen {
		return fmt.Errorf("name must be at most %d characters", maxIdentifierLen)
	}
	if !identifierRe.MatchString(name) {
		return fmt.Errorf("name must match [a-zA-Z_][a-zA-Z0-9_]*")
	}
	return nil
}

// QuoteIdentifier wraps a Hive identifier in backticks, doubling any embedded
// backtick. It always quotes; validate first if the name must be plain.
func QuoteIdentifier(name string) string {
	return "`" + strings.ReplaceAll(name, "`", "``") + "`"
}

// QualifiedName quotes each part individually and joins them with dots:
// QualifiedName("sales", "orders") is `sales`.`orders`.
func QualifiedName(parts ...string) string {
	quoted := make([]string, len(parts))
	for i, p := range parts {
		quoted[i] = QuoteIdentifier(p)
	}
	return strings.Join(quoted, ".")
}

// QuoteLiteral wraps a value in single quotes using HiveQL escaping: backslash
// and single quote are escaped with a backslash.
func QuoteLiteral(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	return "'" + strings.ReplaceAll(value, "'", `\'`) + "'"
}

// ValidateColumnType checks that typeName is a plausible Hive column type:
//   - Non-empty
//   - At most 512 characters
//   - No statement terminators, quotes, or comments
//   - Balanced <> and () nesting
func ValidateColumnType(typeName string) error {
	if typeName == "" {
		return fmt.Errorf("column type is required")
	}
	if len(typeName) > maxColumnTypeLen {
		return fmt.Errorf("column type must be at most %d characters", maxColumnTypeLen)
	}
	if strings.ContainsAny(typeName, ";'\"`\\") || strings.Contains(typeName, "--") {
		return fmt.Errorf("column type contains invalid characters")
	}
	if !columnTypeRe.MatchString(typeName) || !balanced(typeName) {
		return fmt.Errorf("column type %q is not a recognized type pattern", typeName)
	}
	return nil
}

func balanced(s string) bool {
	var stack []rune
	for _, r := range s {
		switch r {
		case '<', '(':
			stack = append(stack, r)
		case '>', ')':
			if len(stack) == 0 {
				return false
			}
			open := stack[len(stack)-1]
			if (r == '>' && open != '<') || (r == ')' && open != '(') {
				return false
			}
			stack = stack[:len(stack)-1]
		}
	}
	return len(stack) == 0
}
