package tablespec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnSpec_CreateSQL(t *testing.T) {
	tests := []struct {
		name  string
		col   ColumnSpec
		widen bool
		want  string
	}{
		{name: "plain", col: ColumnSpec{Name: "id", DataType: "int"}, want: "id int"},
		{name: "widened", col: ColumnSpec{Name: "id", DataType: "int"}, widen: true, want: "id string"},
		{name: "comment", col: ColumnSpec{Name: "amount", DataType: "decimal(10,2)", Comment: "order total"}, want: "amount decimal(10,2) comment 'order total'"},
		{name: "widened_comment", col: ColumnSpec{Name: "amount", DataType: "decimal(10,2)", Comment: "total"}, widen: true, want: "amount string comment 'total'"},
		{name: "comment_with_quote", col: ColumnSpec{Name: "note", DataType: "string", Comment: "buyer's note"}, want: `note string comment 'buyer\'s note'`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.col.CreateSQL(tt.widen))
		})
	}
}

func TestColumnSpec_PartitionSQL(t *testing.T) {
	c := ColumnSpec{Name: "region", DataType: "string", Comment: "ignored"}
	assert.Equal(t, "region string", c.PartitionSQL())
}

func TestColumnSpec_Validate(t *testing.T) {
	require.NoError(t, ColumnSpec{Name: "id", DataType: "bigint"}.Validate())

	err := ColumnSpec{Name: "bad name", DataType: "int"}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid column name")

	err = ColumnSpec{Name: "id", DataType: ""}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid column type")
}
