// internal/navigation/pattern_test.go
package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileRejectsEmptyParamName(t *testing.T) {
	_, err := Compile("/orders/:")
	assert.Error(t, err)
}

func TestCompileRejectsDuplicateParamNames(t *testing.T) {
	_, err := Compile("/a/:id/b/:id")
	assert.Error(t, err)
}

func TestMatchCapturesParams(t *testing.T) {
	p := MustCompile("/store/:slug")

	params, ok := p.Match("/store/shafis-fashion")
	require.True(t, ok)
	assert.Equal(t, "shafis-fashion", params["slug"])
}

func TestMatchIsAnchored(t *testing.T) {
	p := MustCompile("/cart")

	_, ok := p.Match("/cart/extra")
	assert.False(t, ok)

	_, ok = p.Match("/prefix/cart")
	assert.False(t, ok)
}

func TestMatchIsCaseSensitive(t *testing.T) {
	p := MustCompile("/legal")

	_, ok := p.Match("/Legal")
	assert.False(t, ok)
}

func TestMatchRejectsEmptyCapture(t *testing.T) {
	p := MustCompile("/tracking/:orderId")

	_, ok := p.Match("/tracking/")
	assert.False(t, ok)
}

func TestMatchStripsQuery(t *testing.T) {
	p := MustCompile("/orders/:orderId")

	params, ok := p.Match("/orders/ORD-4821?ref=email")
	require.True(t, ok)
	assert.Equal(t, "ORD-4821", params["orderId"])
}

func TestMatchSegmentCountMustAgree(t *testing.T) {
	p := MustCompile("/try-on/:id")

	_, ok := p.Match("/try-on")
	assert.False(t, ok)

	_, ok = p.Match("/try-on/5/extra")
	assert.False(t, ok)
}

func TestMatchRoot(t *testing.T) {
	p := MustCompile("/")

	params, ok := p.Match("/")
	require.True(t, ok)
	assert.Empty(t, params)
}
