package queryir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestColumnList_Scalar(t *testing.T) {
	var agg Aggregate
	err := yaml.Unmarshal([]byte(`sum: amount`), &agg)
	require.NoError(t, err)
	assert.Equal(t, ColumnList{"amount"}, agg.Sum)
}

func TestColumnList_Sequence(t *testing.T) {
	var agg Aggregate
	err := yaml.Unmarshal([]byte(`sum: [amount, tax]`), &agg)
	require.NoError(t, err)
	assert.Equal(t, ColumnList{"amount", "tax"}, agg.Sum)
}

func TestColumnList_PreservesOrder(t *testing.T) {
	var agg Aggregate
	err := yaml.Unmarshal([]byte("groupBy:\n  - region\n  - status\n  - channel\n"), &agg)
	require.NoError(t, err)
	assert.Equal(t, ColumnList{"region", "status", "channel"}, agg.GroupBy)
}

func TestColumnList_RejectsMapping(t *testing.T) {
	var agg Aggregate
	err := yaml.Unmarshal([]byte("sum:\n  amount: true\n"), &agg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "column list")
}

func TestAggregate_Active(t *testing.T) {
	assert.False(t, Aggregate{}.Active())
	assert.True(t, Aggregate{GroupBy: ColumnList{"status"}}.Active())
	assert.True(t, Aggregate{Sum: ColumnList{"amount"}}.Active())
	assert.True(t, Aggregate{Min: ColumnList{"amount"}}.Active())
}

func TestAggregate_HasCalculation(t *testing.T) {
	assert.False(t, Aggregate{GroupBy: ColumnList{"status"}}.HasCalculation())
	assert.True(t, Aggregate{Average: ColumnList{"amount"}}.HasCalculation())
	assert.True(t, Aggregate{Max: ColumnList{"amount"}}.HasCalculation())
}

func TestStrategy_Unmarshal(t *testing.T) {
	var join Join
	err := yaml.Unmarshal([]byte(`strategy: foreignKey`), &join)
	require.NoError(t, err)
	assert.Equal(t, StrategyForeignKey, join.Strategy)

	err = yaml.Unmarshal([]byte(`strategy: edge`), &join)
	require.NoError(t, err)
	assert.Equal(t, StrategyEdge, join.Strategy)
}

func TestStrategy_UnmarshalUnknown(t *testing.T) {
	var join Join
	err := yaml.Unmarshal([]byte(`strategy: teleport`), &join)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown join strategy")
}

func TestStrategy_String(t *testing.T) {
	assert.Equal(t, "foreignKey", StrategyForeignKey.String())
	assert.Equal(t, "edge", StrategyEdge.String())
	assert.Equal(t, "unspecified", StrategyUnspecified.String())
}

func TestParseDescriptor(t *testing.T) {
	data := []byte(`
table: orders
select: [status, amount]
fetchPlan: [customer]
joins:
  customer:
    strategy: foreignKey
    populates:
      - table: customers
        parentKey: customer
aggregate:
  groupBy: status
  average: amount
`)

	desc, err := ParseDescriptor(data)
	require.NoError(t, err)

	assert.Equal(t, "orders", desc.Table)
	assert.Equal(t, []string{"status", "amount"}, desc.Select)
	assert.Equal(t, []string{"customer"}, desc.FetchPlan)
	require.Contains(t, desc.Joins, "customer")
	assert.Equal(t, StrategyForeignKey, desc.Joins["customer"].Strategy)
	require.Len(t, desc.Joins["customer"].Populates, 1)
	assert.Equal(t, "customers", desc.Joins["customer"].Populates[0].Table)
	assert.Equal(t, "customer", desc.Joins["customer"].Populates[0].ParentKey)
	assert.Equal(t, ColumnList{"status"}, desc.Aggregate.GroupBy)
	assert.Equal(t, ColumnList{"amount"}, desc.Aggregate.Average)
}

func TestParseDescriptor_MissingTable(t *testing.T) {
	_, err := ParseDescriptor([]byte(`select: [status]`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "table is required")
}

func TestParseDescriptor_UnknownField(t *testing.T) {
	// Strict decoding catches typos like "fetchplan" for "fetchPlan".
	_, err := ParseDescriptor([]byte("table: orders\nfetchplan: [customer]\n"))
	require.Error(t, err)
}

func TestLoadDescriptor_MissingFile(t *testing.T) {
	_, err := LoadDescriptor("testdata/does-not-exist.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read query file")
}
