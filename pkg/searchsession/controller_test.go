package searchsession

import (
	"context"
	"testing"

	"catalog-console-be/pkg/participle"

	"github.com/stretchr/testify/assert"
)

func page(names []string, total int, token string) Result {
	entries := make([]Entry, 0, len(names))
	for _, n := range names {
		entries = append(entries, Entry{ID: n, Name: n})
	}
	return Result{Entries: entries, TotalCount: total, NextPageToken: token}
}

func TestSetKeywordFreshVsRefinement(t *testing.T) {
	c := NewController("all", 10)

	plan := c.SetKeyword("customer orders")
	if plan == nil {
		t.Fatal("expected a plan for a new keyword")
	}
	assert.True(t, plan.Fresh)
	assert.Equal(t, LoadInit, plan.LoadType)

	c.Apply(plan, page([]string{"a", "b"}, 20, "10"))

	// Stop words set after the first search must survive an identical resubmit.
	stopPlan := c.SetStopWords([]DimFilter{{Word: "orders", Kind: "plain"}})
	if stopPlan == nil {
		t.Fatal("expected a refinement plan from stop words")
	}
	assert.False(t, stopPlan.Fresh)
	c.Apply(stopPlan, page([]string{"a"}, 1, ""))

	same := c.SetKeyword("customer orders")
	if same == nil {
		t.Fatal("expected a plan for resubmitted keyword")
	}
	assert.False(t, same.Fresh, "identical keyword is a refinement")
	assert.Len(t, same.Query.StopEntityInfos, 1, "refinement keeps stop words")

	changed := c.SetKeyword("supplier invoices")
	assert.True(t, changed.Fresh, "changed keyword is a fresh search")
	assert.Empty(t, changed.Query.StopEntityInfos, "fresh search drops stop words")
	assert.Empty(t, changed.Query.NextPageToken)
}

func TestSetKeywordEmptyGoesIdle(t *testing.T) {
	c := NewController("all", 10)

	plan := c.SetKeyword("sales")
	c.Apply(plan, page([]string{"a", "b"}, 2, ""))

	assert.Nil(t, c.SetKeyword("   "))

	st := c.Snapshot()
	assert.True(t, st.Idle)
	assert.Empty(t, st.Entries)
	assert.Zero(t, st.TotalCount)

	// Filters while idle issue nothing.
	assert.Nil(t, c.SetStructuredFilters(map[string]interface{}{"owner": "bob"}))
	assert.Nil(t, c.SetStopWords(nil))
	assert.Nil(t, c.LoadMore())
}

func TestPaginationMerge(t *testing.T) {
	c := NewController("all", 2)

	first := c.SetKeyword("report")
	c.Apply(first, page([]string{"a", "b"}, 5, "2"))

	more := c.LoadMore()
	if more == nil {
		t.Fatal("expected a continuation plan")
	}
	assert.Equal(t, LoadMore, more.LoadType)
	assert.Equal(t, "2", more.Query.NextPageToken)

	c.Apply(more, page([]string{"c", "d"}, 5, "4"))

	st := c.Snapshot()
	assert.Len(t, st.Entries, 4, "continuation appends")
	assert.Equal(t, 5, st.TotalCount)
	assert.Equal(t, "4", st.NextPageToken)
}

func TestLoadMoreNoops(t *testing.T) {
	c := NewController("all", 2)

	plan := c.SetKeyword("report")
	c.Apply(plan, page([]string{"a", "b"}, 2, ""))

	// Everything loaded, no token.
	assert.Nil(t, c.LoadMore())

	// While a continuation is in flight another LoadMore is refused.
	refill := c.SetKeyword("report2")
	c.Apply(refill, page([]string{"a", "b"}, 6, "2"))
	more := c.LoadMore()
	c.Begin(context.Background(), more)
	assert.Nil(t, c.LoadMore())
	c.Apply(more, page([]string{"c"}, 6, "3"))
	assert.NotNil(t, c.LoadMore())
}

func TestLastIssuedWins(t *testing.T) {
	c := NewController("all", 10)

	stale := c.SetKeyword("first")
	ctx := c.Begin(context.Background(), stale)

	fresh := c.SetKeyword("second")
	assert.Error(t, ctx.Err(), "superseded request context is cancelled")

	// The stale response arrives after the newer plan was issued.
	assert.False(t, c.Apply(stale, page([]string{"old"}, 1, "")))

	assert.True(t, c.Apply(fresh, page([]string{"new"}, 1, "")))

	st := c.Snapshot()
	assert.Equal(t, "new", st.Entries[0].Name)
}

func TestTabSwitchResetsAndFlagsQa(t *testing.T) {
	c := NewController("all", 10)

	plan := c.SetKeyword("inventory")
	c.Apply(plan, Result{
		Entries:    []Entry{{ID: "a", Name: "a"}},
		TotalCount: 1,
		QueryCuts:  []participle.Token{{Word: "inventory", Kind: participle.KindPlain}},
		Facets:     Facets{Objects: []FacetItem{{Name: "catalog", Count: 1}}},
	})
	c.SetStopWords([]DimFilter{{Word: "inventory", Kind: "plain"}})

	tab := c.SetAssetTypeTab("indicator")
	if tab == nil {
		t.Fatal("expected a plan from tab switch")
	}
	assert.True(t, tab.Fresh)
	assert.True(t, tab.ResetQa)
	assert.Equal(t, "indicator", tab.Query.AssetType)
	assert.Empty(t, tab.Query.StopEntityInfos)

	st := c.Snapshot()
	assert.Empty(t, st.Facets.Objects, "tab switch clears facets")
}

func TestTabSwitchWhileIdle(t *testing.T) {
	c := NewController("all", 10)

	plan := c.SetAssetTypeTab("catalog")
	if plan == nil {
		t.Fatal("expected a reset-only plan")
	}
	assert.True(t, plan.ResetQa)
	assert.Zero(t, plan.Signature, "no search issued while idle")
	assert.True(t, c.Snapshot().Idle)
}

func TestFreshPlanOverwritesCutsAndFacets(t *testing.T) {
	c := NewController("all", 10)

	first := c.SetKeyword("orders by department")
	c.Apply(first, Result{
		Entries:    []Entry{{ID: "a"}},
		TotalCount: 1,
		QueryCuts:  []participle.Token{{Word: "orders", Kind: participle.KindPlain}},
		Facets:     Facets{Dimensions: []FacetItem{{Name: "sales", Count: 3}}},
	})

	// Refinement responses leave cuts and facets alone even if populated.
	refine := c.SetStructuredFilters(map[string]interface{}{"department": "sales"})
	c.Apply(refine, Result{
		Entries:    []Entry{{ID: "b"}},
		TotalCount: 1,
		QueryCuts:  []participle.Token{{Word: "ignored", Kind: participle.KindPlain}},
	})

	st := c.Snapshot()
	assert.Equal(t, "orders", st.QueryCuts[0].Word)
	assert.Equal(t, "sales", st.Facets.Dimensions[0].Name)
}

func TestFailKeepsPriorResults(t *testing.T) {
	c := NewController("all", 10)

	ok := c.SetKeyword("steady")
	c.Apply(ok, page([]string{"a"}, 1, ""))

	bad := c.SetStructuredFilters(map[string]interface{}{"owner": "x"})
	c.Begin(context.Background(), bad)
	c.Fail(bad)

	st := c.Snapshot()
	assert.Len(t, st.Entries, 1, "failed refinement leaves prior page visible")
}
