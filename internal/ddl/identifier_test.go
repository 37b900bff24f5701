package ddl

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateIdentifier(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		// Valid cases
		{name: "simple", input: "orders"},
		{name: "underscore_prefix", input: "_staging"},
		{name: "mixed_case", input: "OrderLines"},
		{name: "with_digits", input: "feed2"},
		{name: "max_length", input: strings.Repeat("a", 128)},

		// Invalid cases
		{name: "empty", input: "", wantErr: "name is required"},
		{name: "too_long", input: strings.Repeat("a", 129), wantErr: "at most 128 characters"},
		{name: "starts_with_digit", input: "1orders", wantErr: "must match"},
		{name: "contains_space", input: "my orders", wantErr: "must match"},
		{name: "contains_hyphen", input: "my-orders", wantErr: "must match"},
		{name: "contains_dot", input: "sales.orders", wantErr: "must match"},
		{name: "contains_backtick", input: "foo`bar", wantErr: "must match"},
		{name: "sql_injection", input: "foo; DROP TABLE", wantErr: "must match"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateIdentifier(tt.input)
			if tt.wantErr == "" {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestQuoteIdentifier(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "simple", input: "orders", want: "`orders`"},
		{name: "with_backtick", input: "my`table", want: "`my``table`"},
		{name: "multiple_backticks", input: "a`b`c", want: "`a``b``c`"},
		{name: "empty", input: "", want: "``"},
		{name: "double_quote_untouched", input: `my"table`, want: "`my\"table`"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, QuoteIdentifier(tt.input))
		})
	}
}

func TestQualifiedName(t *testing.T) {
	assert.Equal(t, "`sales`.`orders_valid`", QualifiedName("sales", "orders_valid"))
	assert.Equal(t, "`orders`", QualifiedName("orders"))
	assert.Equal(t, "`we``ird`.`t`", QualifiedName("we`ird", "t"))
}

func TestQuoteLiteral(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "simple", input: "hello", want: "'hello'"},
		{name: "with_single_quote", input: "it's", want: `'it\'s'`},
		{name: "with_backslash", input: `a\b`, want: `'a\\b'`},
		{name: "empty", input: "", want: "''"},
		{name: "hdfs_path", input: "hdfs:///model.db/sales", want: "'hdfs:///model.db/sales'"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, QuoteLiteral(tt.input))
		})
	}
}

func TestValidateColumnType(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		// Valid types
		{name: "int", input: "int"},
		{name: "string", input: "string"},
		{name: "upper_bigint", input: "BIGINT"},
		{name: "timestamp", input: "timestamp"},
		{name: "varchar_length", input: "varchar(64)"},
		{name: "decimal_precision_scale", input: "decimal(10,2)"},
		{name: "decimal_spaced", input: "decimal(18, 4)"},
		{name: "array", input: "array<string>"},
		{name: "map", input: "map<string,int>"},
		{name: "struct", input: "struct<a:int,b:string>"},
		{name: "nested", input: "array<struct<id:bigint,price:decimal(10,2)>>"},

		// Invalid types
		{name: "empty", input: "", wantErr: "column type is required"},
		{name: "too_long", input: strings.Repeat("a", 513), wantErr: "at most 512 characters"},
		{name: "semicolon_injection", input: "int); DROP TABLE foo", wantErr: "invalid characters"},
		{name: "quote_injection", input: "string'", wantErr: "invalid characters"},
		{name: "comment_injection", input: "int -- drop", wantErr: "invalid characters"},
		{name: "backtick", input: "int`", wantErr: "invalid characters"},
		{name: "starts_with_digit", input: "123", wantErr: "not a recognized type"},
		{name: "unbalanced_angle", input: "array<string", wantErr: "not a recognized type"},
		{name: "mismatched", input: "array<string)", wantErr: "not a recognized type"},
		{name: "just_parens", input: "()", wantErr: "not a recognized type"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateColumnType(tt.input)
			if tt.wantErr == "" {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}
