// internal/navigation/table_test.go
package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveFirstMatchWins(t *testing.T) {
	table := NewTable(
		Route{MustCompile("/orders"), "history"},
		Route{MustCompile("/orders/:orderId"), "detail"},
	)

	view, params, ok := table.Resolve("/orders")
	require.True(t, ok)
	assert.Equal(t, "history", view)
	assert.Empty(t, params)

	view, params, ok = table.Resolve("/orders/ORD-1234")
	require.True(t, ok)
	assert.Equal(t, "detail", view)
	assert.Equal(t, "ORD-1234", params["orderId"])
}

func TestResolveDeclarationOrderSettlesAmbiguity(t *testing.T) {
	// Both patterns match "/store/cart"; position decides.
	table := NewTable(
		Route{MustCompile("/store/cart"), "literal"},
		Route{MustCompile("/store/:slug"), "param"},
	)

	view, _, ok := table.Resolve("/store/cart")
	require.True(t, ok)
	assert.Equal(t, "literal", view)

	reversed := NewTable(
		Route{MustCompile("/store/:slug"), "param"},
		Route{MustCompile("/store/cart"), "literal"},
	)

	view, params, ok := reversed.Resolve("/store/cart")
	require.True(t, ok)
	assert.Equal(t, "param", view)
	assert.Equal(t, "cart", params["slug"])
}

func TestResolveMissIsNotAnError(t *testing.T) {
	table := AppTable()

	_, _, ok := table.Resolve("/no-such-screen")
	assert.False(t, ok)
}

func TestAppTableResolvesStorefrontScreens(t *testing.T) {
	table := AppTable()

	cases := []struct {
		location string
		view     string
		params   Params
	}{
		{"/", ViewHome, Params{}},
		{"/onboarding", ViewOnboarding, Params{}},
		{"/tracking/ORD-9911", ViewTracking, Params{"orderId": "ORD-9911"}},
		{"/store/shafis-fashion", ViewStoreProfile, Params{"slug": "shafis-fashion"}},
		{"/try-on/42", ViewTryOn, Params{"id": "42"}},
		{"/cart", ViewCart, Params{}},
		{"/ceo-dashboard", ViewCEODashboard, Params{}},
		{"/orders", ViewOrderHistory, Params{}},
		{"/orders/ORD-1001", ViewOrderHistory, Params{"orderId": "ORD-1001"}},
		{"/studio", ViewStudio, Params{}},
	}

	for _, tc := range cases {
		view, params, ok := table.Resolve(tc.location)
		require.True(t, ok, "location %s", tc.location)
		assert.Equal(t, tc.view, view, "location %s", tc.location)
		assert.Equal(t, tc.params, params, "location %s", tc.location)
	}
}

func TestAddCompilesPattern(t *testing.T) {
	table := NewTable()
	require.NoError(t, table.Add("/vendors/:id", "vendor"))
	assert.Equal(t, 1, table.Len())

	assert.Error(t, table.Add("/bad/:", "broken"))
}
