package feed

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"feedlake/internal/tablespec"
)

const ordersYAML = `apiVersion: feedlake/v1
kind: Feed
metadata:
  category: sales
  name: orders
  description: Daily order extract
spec:
  fields:
    - name: id
      type: int
      comment: order id
    - name: amount
      type: decimal(10,2)
    - name: region
      type: string
  partitions:
    - name: region
      type: string
  storage:
    location: hdfs:///model.db
`

const customersYAML = `apiVersion: feedlake/v1
kind: Feed
metadata:
  category: crm
  name: customers
spec:
  fieldStructure: |
    id|bigint|customer id
    name|string
  partitionStructure: |
    signup_year|int|year(signup_date)
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDecode_MultipleDocuments(t *testing.T) {
	docs, err := Decode([]byte(ordersYAML+"---\n"+customersYAML+"---\n"), LoadOptions{})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "orders", docs[0].Metadata.Name)
	assert.Len(t, docs[0].Spec.Fields, 3)
	assert.Equal(t, "hdfs:///model.db", docs[0].Spec.Storage.Location)
	assert.Equal(t, "customers", docs[1].Metadata.Name)
	assert.Contains(t, docs[1].Spec.FieldStructure, "id|bigint|customer id")
}

func TestDecode_UnknownFields(t *testing.T) {
	data := []byte("apiVersion: feedlake/v1\nkind: Feed\nmetadata:\n  category: sales\n  name: orders\n  owner: ops\n")

	_, err := Decode(data, LoadOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "owner")

	docs, err := Decode(data, LoadOptions{AllowUnknownFields: true})
	require.NoError(t, err)
	require.Len(t, docs, 1)
}

func TestLoadFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := LoadFile(filepath.Join(dir, "missing.yaml"), LoadOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read")

	empty := writeFile(t, dir, "empty.yaml", "# nothing here\n")
	_, err = LoadFile(empty, LoadOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no feed documents")

	broken := writeFile(t, dir, "broken.yaml", "metadata: [unterminated\n")
	_, err = LoadFile(broken, LoadOptions{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse")
}

func TestLoadDefinitions(t *testing.T) {
	dir := t.TempDir()
	orders := writeFile(t, dir, "orders.yaml", ordersYAML)
	customers := writeFile(t, dir, "customers.yaml", customersYAML)

	defs, verrs, err := LoadDefinitions([]string{orders, customers}, LoadOptions{})
	require.NoError(t, err)
	require.Empty(t, verrs)
	require.Len(t, defs, 2)

	assert.Equal(t, "sales.orders", defs[0].Key())
	assert.Equal(t, orders, defs[0].Source)
	assert.Equal(t, []tablespec.ColumnSpec{
		{Name: "id", DataType: "int", Comment: "order id"},
		{Name: "amount", DataType: "decimal(10,2)"},
		{Name: "region", DataType: "string"},
	}, defs[0].Columns)
	assert.Equal(t, []tablespec.PartitionKey{
		{Column: tablespec.ColumnSpec{Name: "region", DataType: "string"}, Formula: "region"},
	}, defs[0].Partitions)

	assert.Equal(t, "crm.customers", defs[1].Key())
	assert.Equal(t, []tablespec.PartitionKey{
		{Column: tablespec.ColumnSpec{Name: "signup_year", DataType: "int"}, Formula: "year(signup_date)"},
	}, defs[1].Partitions)
}

func TestLoadDefinitions_CollectsValidationErrors(t *testing.T) {
	dir := t.TempDir()
	orders := writeFile(t, dir, "orders.yaml", ordersYAML)
	again := writeFile(t, dir, "again.yaml", ordersYAML)
	bad := writeFile(t, dir, "bad.yaml", "apiVersion: feedlake/v2\nkind: Feed\nmetadata:\n  category: sales\n  name: returns\nspec:\n  fieldStructure: \"id|int\"\n")

	defs, verrs, err := LoadDefinitions([]string{orders, again, bad}, LoadOptions{})
	require.NoError(t, err)
	require.Len(t, defs, 1)
	require.Len(t, verrs, 2)
	assert.Contains(t, verrs[0].Error(), "already defined in "+orders)
	assert.Contains(t, verrs[1].Error(), "unsupported apiVersion")
}

func TestLoadDefinitions_MultiDocPaths(t *testing.T) {
	dir := t.TempDir()
	all := writeFile(t, dir, "all.yaml", ordersYAML+"---\n"+customersYAML)

	defs, verrs, err := LoadDefinitions([]string{all}, LoadOptions{})
	require.NoError(t, err)
	require.Empty(t, verrs)
	require.Len(t, defs, 2)
	assert.Equal(t, all+"[0]", defs[0].Source)
	assert.Equal(t, all+"[1]", defs[1].Source)
}
