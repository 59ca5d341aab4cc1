// internal/ai/gateway_test.go
package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"

	"github.com/snehalata/aura-backend/internal/models"
)

var errRateLimited = errors.New("provider returned 429 RESOURCE_EXHAUSTED")

// fakeCollaborator scripts provider responses and counts calls.
type fakeCollaborator struct {
	calls int

	textReply string
	textErr   error

	jsonReply []byte
	jsonErr   error

	image    *InlineImage
	imageErr error

	grounded    *GroundedResult
	groundedErr error

	videoURI string
	videoErr error
}

func (f *fakeCollaborator) GenerateText(ctx context.Context, model, system, prompt string, temperature float32) (string, error) {
	f.calls++
	return f.textReply, f.textErr
}

func (f *fakeCollaborator) GenerateJSON(ctx context.Context, model, prompt string, schema *genai.Schema) ([]byte, error) {
	f.calls++
	return f.jsonReply, f.jsonErr
}

func (f *fakeCollaborator) GenerateImage(ctx context.Context, model, prompt string, images []InlineImage) (*InlineImage, error) {
	f.calls++
	return f.image, f.imageErr
}

func (f *fakeCollaborator) GenerateGrounded(ctx context.Context, model, query string) (*GroundedResult, error) {
	f.calls++
	return f.grounded, f.groundedErr
}

func (f *fakeCollaborator) GenerateVideo(ctx context.Context, model, prompt, aspectRatio string) (string, error) {
	f.calls++
	return f.videoURI, f.videoErr
}

func newTestGateway(client Collaborator, clock Clock) *Gateway {
	return NewGateway(client, time.Minute, clock, DefaultModels())
}

func TestChatReplyPassesThrough(t *testing.T) {
	client := &fakeCollaborator{textReply: "Greetings from the Grid"}
	g := newTestGateway(client, &fakeClock{now: time.Unix(0, 0)})

	reply := g.ChatReply(context.Background(), "ctx", "hello")
	assert.Equal(t, "Greetings from the Grid", reply)
}

func TestChatReplyFallsBackOnError(t *testing.T) {
	client := &fakeCollaborator{textErr: errors.New("boom")}
	g := newTestGateway(client, &fakeClock{now: time.Unix(0, 0)})

	reply := g.ChatReply(context.Background(), "ctx", "hello")
	assert.Equal(t, "Aura Systems are currently offline for maintenance.", reply)
}

func TestNilClientAlwaysServesFallback(t *testing.T) {
	g := newTestGateway(nil, &fakeClock{now: time.Unix(0, 0)})

	assert.Equal(t, "See how Saree looks on you.", g.StyleSuggestion(context.Background(), "Saree", "Saree"))
	assert.Nil(t, g.Recommendations(context.Background(), nil, nil))
}

func TestRateLimitArmsSharedCooldown(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	client := &fakeCollaborator{textErr: errRateLimited}
	g := newTestGateway(client, clock)

	reply := g.ChatReply(context.Background(), "ctx", "hi")
	assert.Equal(t, "Aura Systems are currently offline for maintenance.", reply)
	assert.Equal(t, 1, client.calls)

	// Cooldown is global: a different operation short-circuits without
	// touching the collaborator.
	client.textErr = nil
	client.textReply = "back online"
	_ = g.StyleSuggestion(context.Background(), "Saree", "Saree")
	assert.Equal(t, 1, client.calls)

	_, err := g.GenerateImage(context.Background(), "render", nil)
	assert.ErrorIs(t, err, ErrCoolingDown)
	assert.Equal(t, 1, client.calls)

	// The window elapses and traffic resumes.
	clock.advance(61 * time.Second)
	reply = g.ChatReply(context.Background(), "ctx", "hi again")
	assert.Equal(t, "back online", reply)
	assert.Equal(t, 2, client.calls)
}

func TestNonRateLimitErrorDoesNotTrip(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	client := &fakeCollaborator{textErr: errors.New("transient network blip")}
	g := newTestGateway(client, clock)

	_ = g.ChatReply(context.Background(), "ctx", "hi")

	client.textErr = nil
	client.textReply = "recovered"
	assert.Equal(t, "recovered", g.ChatReply(context.Background(), "ctx", "hi"))
}

func TestRecommendationsFilterCartItems(t *testing.T) {
	client := &fakeCollaborator{jsonReply: []byte(`{"recommendedIds":[1,2,3]}`)}
	g := newTestGateway(client, &fakeClock{now: time.Unix(0, 0)})

	cart := models.Cart{{ProductID: 2, Name: "Panjabi", Quantity: 1}}
	ids := g.Recommendations(context.Background(), cart, []models.Product{{ID: 1}, {ID: 2}, {ID: 3}})

	assert.Equal(t, []int64{1, 3}, ids)
}

func TestRecommendationsMalformedResponseFallsBack(t *testing.T) {
	client := &fakeCollaborator{jsonReply: []byte(`not json at all`)}
	g := newTestGateway(client, &fakeClock{now: time.Unix(0, 0)})

	assert.Nil(t, g.Recommendations(context.Background(), nil, nil))
}

func TestAuditVendorFailsClosed(t *testing.T) {
	cases := []struct {
		name   string
		client *fakeCollaborator
	}{
		{"provider error", &fakeCollaborator{jsonErr: errors.New("boom")}},
		{"malformed json", &fakeCollaborator{jsonReply: []byte(`{{`)}},
		{"missing status", &fakeCollaborator{jsonReply: []byte(`{"reason":"ok"}`)}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := newTestGateway(tc.client, &fakeClock{now: time.Unix(0, 0)})
			audit := g.AuditVendor(context.Background(), "Shop", "desc", "TL-1")
			assert.Equal(t, string(models.AuditStatusPending), audit.Status)
			assert.Equal(t, "Neural audit failed.", audit.Reason)
		})
	}
}

func TestAuditVendorVerdictPassesThrough(t *testing.T) {
	client := &fakeCollaborator{jsonReply: []byte(`{"status":"PASSED","reason":"Legit trade license."}`)}
	g := newTestGateway(client, &fakeClock{now: time.Unix(0, 0)})

	audit := g.AuditVendor(context.Background(), "Shop", "desc", "TL-1")
	assert.Equal(t, "PASSED", audit.Status)
	assert.Equal(t, "Legit trade license.", audit.Reason)
}

func TestAnalyzeSearchIntent(t *testing.T) {
	client := &fakeCollaborator{jsonReply: []byte(`{"category":"Saree","maxPrice":5000,"semanticKeywords":["jamdani","handloom"]}`)}
	g := newTestGateway(client, &fakeClock{now: time.Unix(0, 0)})

	intent := g.AnalyzeSearchIntent(context.Background(), "jamdani saree under 5000")
	require.NotNil(t, intent)
	assert.Equal(t, "Saree", intent.Category)
	assert.Equal(t, 5000.0, intent.MaxPrice)
	assert.Equal(t, []string{"jamdani", "handloom"}, intent.SemanticKeywords)
}

func TestMediaOpsReportCooldown(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1000, 0)}
	client := &fakeCollaborator{imageErr: errRateLimited}
	g := newTestGateway(client, clock)

	_, err := g.GenerateImage(context.Background(), "prompt", nil)
	assert.Error(t, err)

	_, err = g.TryOn(context.Background(), InlineImage{}, InlineImage{})
	assert.ErrorIs(t, err, ErrCoolingDown)

	_, err = g.GroundedSearch(context.Background(), "query")
	assert.ErrorIs(t, err, ErrCoolingDown)

	_, err = g.GenerateVideo(context.Background(), "prompt", "")
	assert.ErrorIs(t, err, ErrCoolingDown)
}

func TestInteractionsCountEveryAttempt(t *testing.T) {
	g := newTestGateway(nil, &fakeClock{now: time.Unix(0, 0)})

	_ = g.ChatReply(context.Background(), "ctx", "hi")
	_, _ = g.GenerateImage(context.Background(), "prompt", nil)
	_ = g.StyleSuggestion(context.Background(), "Saree", "Saree")

	assert.Equal(t, uint64(3), g.Interactions())
}

func TestIsRateLimited(t *testing.T) {
	assert.True(t, IsRateLimited(errRateLimited))
	assert.True(t, IsRateLimited(genai.APIError{Code: 429}))
	assert.True(t, IsRateLimited(genai.APIError{Status: "RESOURCE_EXHAUSTED"}))
	assert.False(t, IsRateLimited(errors.New("timeout")))
	assert.False(t, IsRateLimited(nil))
}
