package city_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/building-analyzer/internal/city"
	"github.com/building-analyzer/internal/domain"
)

func newImporter() *city.Importer {
	return city.NewImporter(zap.NewNop())
}

func TestParseInventory(t *testing.T) {
	t.Run("delimiters and era levels", func(t *testing.T) {
		text := "W_MultiAge_A\t2\nW_MultiAge_B;1;5\nW_MultiAge_C 3 22\n"
		entries, err := newImporter().ParseInventory(text)
		require.NoError(t, err)
		assert.Equal(t, []domain.ImportEntry{
			{BuildingID: "W_MultiAge_A", Quantity: 2},
			{BuildingID: "W_MultiAge_B", Quantity: 1, EraLevel: 5},
			{BuildingID: "W_MultiAge_C", Quantity: 3, EraLevel: 22},
		}, entries)
	})

	t.Run("quantities", func(t *testing.T) {
		text := "W_A\t2.7\nW_B\t0\nW_C\tmany\nW_D\t1"
		entries, err := newImporter().ParseInventory(text)
		require.NoError(t, err)
		assert.Equal(t, []domain.ImportEntry{
			{BuildingID: "W_A", Quantity: 2},
			{BuildingID: "W_D", Quantity: 1},
		}, entries)
	})

	t.Run("invalid era level is dropped", func(t *testing.T) {
		entries, err := newImporter().ParseInventory("W_A\t1\t99")
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, 0, entries[0].EraLevel)
	})

	t.Run("short ids and missing fields", func(t *testing.T) {
		entries, err := newImporter().ParseInventory("ab\t4\nW_Solo\nW_Good\t1")
		require.NoError(t, err)
		assert.Equal(t, []domain.ImportEntry{{BuildingID: "W_Good", Quantity: 1}}, entries)
	})

	t.Run("duplicates sum per key", func(t *testing.T) {
		text := "W_A\t1\nW_A\t2\nW_A\t1\t3\nW_A\t4\t3"
		entries, err := newImporter().ParseInventory(text)
		require.NoError(t, err)
		assert.Equal(t, []domain.ImportEntry{
			{BuildingID: "W_A", Quantity: 3},
			{BuildingID: "W_A", Quantity: 5, EraLevel: 3},
		}, entries)
	})

	t.Run("empty result is an error", func(t *testing.T) {
		_, err := newImporter().ParseInventory("\n\n  \nnodelimiter\n")
		assert.ErrorIs(t, err, city.ErrEmptyImport)
	})
}

func TestParseCity(t *testing.T) {
	text := "W_A\t3\t2\nW_B\t0\t1\nW_C\t2\nW_D\t4\t1\t9\nW_E;22;1"
	entries, err := newImporter().ParseCity(text)
	require.NoError(t, err)
	assert.Equal(t, []domain.ImportEntry{
		{BuildingID: "W_A", Quantity: 2, EraLevel: 3},
		{BuildingID: "W_E", Quantity: 1, EraLevel: 22},
	}, entries)

	_, err = newImporter().Parse("garden", text)
	assert.Error(t, err)

	viaKind, err := newImporter().Parse(domain.ImportCity, text)
	require.NoError(t, err)
	assert.Equal(t, entries, viaKind)
}

func buildings() *domain.Table {
	return domain.BuildTableFromMaps([]map[string]any{
		{"id": "W_A", "Era": "BronzeAge", "forge_points": 2.0, "goods": 5.0, "Total Score": 10.0},
		{"id": "W_A", "Era": "IronAge", "forge_points": 3.0, "goods": 6.0, "Total Score": 12.0},
		{"id": "W_B", "Era": "BronzeAge", "forge_points": 1.0, "goods": nil, "Total Score": 4.0},
	})
}

func TestValidate(t *testing.T) {
	entries := []domain.ImportEntry{
		{BuildingID: "W_A", Quantity: 1},
		{BuildingID: "W_Z", Quantity: 2},
		{BuildingID: "W_B", Quantity: 1},
	}
	matched, unmatched := city.Validate(entries, buildings())
	assert.Equal(t, []domain.ImportEntry{entries[0], entries[2]}, matched)
	assert.Equal(t, []string{"W_Z"}, unmatched)
}

func TestMerge(t *testing.T) {
	tbl := buildings()

	t.Run("era level selects one row", func(t *testing.T) {
		out := city.Merge([]domain.ImportEntry{{BuildingID: "W_A", Quantity: 4, EraLevel: 2}}, tbl, domain.ImportCity)
		require.Equal(t, 1, out.Len())
		assert.Equal(t, "IronAge", out.Text(0, domain.ColEra))
		assert.Equal(t, 4.0, out.NumberOr(0, domain.ColQuantity, 0))
		assert.Equal(t, "city", out.Text(0, domain.ColSource))
	})

	t.Run("no era level takes every era", func(t *testing.T) {
		out := city.Merge([]domain.ImportEntry{{BuildingID: "W_A", Quantity: 2}}, tbl, domain.ImportInventory)
		require.Equal(t, 2, out.Len())
		assert.Equal(t, "BronzeAge", out.Text(0, domain.ColEra))
		assert.Equal(t, "IronAge", out.Text(1, domain.ColEra))
		assert.Equal(t, "inventory", out.Text(1, domain.ColSource))
	})

	t.Run("same row twice", func(t *testing.T) {
		entries := []domain.ImportEntry{
			{BuildingID: "W_B", Quantity: 1},
			{BuildingID: "W_B", Quantity: 2, EraLevel: 1},
		}
		out := city.Merge(entries, tbl, domain.ImportInventory)
		require.Equal(t, 2, out.Len())
		assert.Equal(t, 1.0, out.NumberOr(0, domain.ColQuantity, 0))
		assert.Equal(t, 2.0, out.NumberOr(1, domain.ColQuantity, 0))
	})

	t.Run("unmatched entries are dropped", func(t *testing.T) {
		out := city.Merge([]domain.ImportEntry{{BuildingID: "W_Z", Quantity: 1}}, tbl, domain.ImportCity)
		assert.Equal(t, 0, out.Len())
		assert.True(t, out.HasColumn(domain.ColQuantity))
	})
}

func TestTotals(t *testing.T) {
	entries := []domain.ImportEntry{
		{BuildingID: "W_A", Quantity: 2, EraLevel: 2},
		{BuildingID: "W_B", Quantity: 3},
	}
	merged := city.Merge(entries, buildings(), domain.ImportInventory)

	totals := city.Totals(merged)
	assert.Equal(t, 5, totals.Buildings)
	assert.Equal(t, 2, totals.Rows)
	assert.Equal(t, 36.0, totals.TotalScore)
	assert.Equal(t, 9.0, totals.Metrics[domain.ColForgePoints])
	// missing goods on W_B contribute nothing
	assert.Equal(t, 12.0, totals.Metrics[domain.ColGoods])
}
