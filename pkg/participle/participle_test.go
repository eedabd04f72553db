package participle

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testCutter() *Cutter {
	return NewCutter(
		[]string{"catalog", "indicator", "api"},
		[]string{"owner", "department"},
	)
}

func TestCutClassifiesTokens(t *testing.T) {
	tests := []struct {
		name    string
		keyword string
		want    []Token
	}{
		{
			name:    "plain words",
			keyword: "monthly revenue",
			want: []Token{
				{Word: "monthly", Kind: KindPlain},
				{Word: "revenue", Kind: KindPlain},
			},
		},
		{
			name:    "object and dimension terms",
			keyword: "catalog by department",
			want: []Token{
				{Word: "catalog", Kind: KindObject},
				{Word: "by", Kind: KindPlain},
				{Word: "department", Kind: KindDimension},
			},
		},
		{
			name:    "classification is case insensitive, casing preserved",
			keyword: "Catalog OWNER",
			want: []Token{
				{Word: "Catalog", Kind: KindObject},
				{Word: "OWNER", Kind: KindDimension},
			},
		},
		{
			name:    "punctuation splits, underscore and hyphen survive",
			keyword: "sales_mart, order-items; api",
			want: []Token{
				{Word: "sales_mart", Kind: KindPlain},
				{Word: "order-items", Kind: KindPlain},
				{Word: "api", Kind: KindObject},
			},
		},
		{
			name:    "duplicates collapse",
			keyword: "revenue revenue Revenue",
			want: []Token{
				{Word: "revenue", Kind: KindPlain},
			},
		},
		{
			name:    "empty keyword",
			keyword: "   ",
			want:    []Token{},
		},
	}

	c := testCutter()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Cut(tt.keyword)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRemaining(t *testing.T) {
	c := testCutter()
	tokens := c.Cut("catalog monthly revenue by department")

	assert.Equal(t, "catalog monthly revenue by department", Remaining(tokens, nil))
	assert.Equal(t, "monthly revenue by", Remaining(tokens, []string{"catalog", "department"}))
	assert.Equal(t, "monthly revenue by", Remaining(tokens, []string{"CATALOG", "Department"}), "stop matching is case insensitive")
	assert.Equal(t, "", Remaining(tokens, []string{"catalog", "monthly", "revenue", "by", "department"}))
}
