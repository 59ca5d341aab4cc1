// internal/ai/gateway.go
package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/snehalata/aura-backend/internal/models"
)

// ErrCoolingDown is returned by media operations that have no static
// fallback while the breaker is open.
var ErrCoolingDown = fmt.Errorf("aura gateway is cooling down")

// Models names the provider models per operation class.
type Models struct {
	Chat  string
	Lite  string
	Image string
	Video string
}

// DefaultModels mirrors the storefront's provider configuration.
func DefaultModels() Models {
	return Models{
		Chat:  "gemini-3-flash-preview",
		Lite:  "gemini-flash-lite-latest",
		Image: "gemini-2.5-flash-image",
		Video: "veo-3.1-fast-generate-preview",
	}
}

// VendorAudit is the structured verdict of an automated vendor check.
type VendorAudit struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}

// Gateway is the single boundary to the AI collaborator. Every call
// funnels through the resilience wrapper: a caller-supplied fallback
// is returned on any failure, and a rate-limit failure arms the
// shared cooldown breaker for all operations.
type Gateway struct {
	client       Collaborator
	breaker      *Breaker
	models       Models
	log          *logrus.Entry
	interactions atomic.Uint64
}

func NewGateway(client Collaborator, cooldown time.Duration, clock Clock, m Models) *Gateway {
	if m == (Models{}) {
		m = DefaultModels()
	}
	return &Gateway{
		client:  client,
		breaker: NewBreaker(cooldown, clock),
		models:  m,
		log:     logrus.WithField("component", "aura_gateway"),
	}
}

// Breaker exposes the cooldown state for diagnostics.
func (g *Gateway) Breaker() *Breaker {
	return g.breaker
}

// Interactions counts attempted gateway operations, fallback or not.
func (g *Gateway) Interactions() uint64 {
	return g.interactions.Load()
}

// resilient runs call unless the breaker is open, returning fallback
// on cooldown or on any error. Rate-limit errors trip the breaker.
func resilient[T any](g *Gateway, ctx context.Context, fallback T, call func(context.Context) (T, error)) T {
	g.interactions.Add(1)

	if g.client == nil || !g.breaker.Allow() {
		return fallback
	}

	result, err := call(ctx)
	if err != nil {
		if IsRateLimited(err) {
			g.breaker.Trip()
			g.log.WithError(err).Warn("Rate limited, cooldown armed")
		} else {
			g.log.WithError(err).Error("Collaborator call failed")
		}
		return fallback
	}
	return result
}

// StyleSuggestion writes a one-line try-on invitation for a product.
func (g *Gateway) StyleSuggestion(ctx context.Context, productName, category string) string {
	fallback := fmt.Sprintf("See how %s looks on you.", productName)
	return resilient(g, ctx, fallback, func(ctx context.Context) (string, error) {
		prompt := fmt.Sprintf(
			"Write a short, alluring 1-sentence prompt for a user to try on this fashion item: %q (%s). Keep it under 15 words. Tone: Elegant, inviting.",
			productName, category)
		text, err := g.client.GenerateText(ctx, g.models.Chat, "", prompt, 0.7)
		if err != nil {
			return "", err
		}
		if text = strings.TrimSpace(text); text == "" {
			return fmt.Sprintf("Experience the elegance of %s.", productName), nil
		}
		return text, nil
	})
}

// ChatReply answers a shopper message with the ecosystem context as
// the system instruction.
func (g *Gateway) ChatReply(ctx context.Context, systemContext, message string) string {
	const fallback = "Aura Systems are currently offline for maintenance."
	return resilient(g, ctx, fallback, func(ctx context.Context) (string, error) {
		text, err := g.client.GenerateText(ctx, g.models.Chat, systemContext, message, 0.7)
		if err != nil {
			return "", err
		}
		if text == "" {
			return "Aura Neural Link is unstable. Please retry.", nil
		}
		return text, nil
	})
}

// Recommendations picks product ids to pair with the cart's contents.
// Ids already in the cart are filtered out; the fallback is empty.
func (g *Gateway) Recommendations(ctx context.Context, cart models.Cart, catalog []models.Product) []int64 {
	return resilient(g, ctx, nil, func(ctx context.Context) ([]int64, error) {
		var history, available strings.Builder
		for _, item := range cart {
			fmt.Fprintf(&history, "ID: %d (%s, %s), ", item.ProductID, item.Name, item.Category)
		}
		for _, p := range catalog {
			fmt.Fprintf(&available, "ID: %d (%s, %s)\n", p.ID, p.Name, p.Category)
		}

		prompt := fmt.Sprintf(
			"User current cart items: [%s]. Based on these, recommend exactly 3 other products from this list:\n%s\nReturn their numeric IDs as JSON.",
			history.String(), available.String())

		raw, err := g.client.GenerateJSON(ctx, g.models.Lite, prompt, recommendationSchema)
		if err != nil {
			return nil, err
		}

		var parsed struct {
			RecommendedIDs []int64 `json:"recommendedIds"`
		}
		if err := json.Unmarshal(raw, &parsed); err != nil {
			return nil, fmt.Errorf("malformed recommendation response: %w", err)
		}

		inCart := make(map[int64]bool, len(cart))
		for _, item := range cart {
			inCart[item.ProductID] = true
		}
		ids := make([]int64, 0, len(parsed.RecommendedIDs))
		for _, id := range parsed.RecommendedIDs {
			if !inCart[id] {
				ids = append(ids, id)
			}
		}
		return ids, nil
	})
}

// AnalyzeSearchIntent decomposes a free-text query into facets. A nil
// result means the query could not be analyzed; callers fall back to
// plain keyword search.
func (g *Gateway) AnalyzeSearchIntent(ctx context.Context, query string) *SearchIntent {
	return resilient(g, ctx, nil, func(ctx context.Context) (*SearchIntent, error) {
		prompt := fmt.Sprintf(
			"Analyze search query: %q. Extract category, maxPrice, material (e.g., cotton, silk), color, style (e.g., Vintage, Modern, Traditional, Cyberpunk, Boho), and semanticKeywords.",
			query)

		raw, err := g.client.GenerateJSON(ctx, g.models.Chat, prompt, searchIntentSchema)
		if err != nil {
			return nil, err
		}

		var intent SearchIntent
		if err := json.Unmarshal(raw, &intent); err != nil {
			return nil, fmt.Errorf("malformed intent response: %w", err)
		}
		return &intent, nil
	})
}

// AuditVendor runs the automated compliance check on a vendor
// application. Failing closed means a PENDING verdict, never an
// approval.
func (g *Gateway) AuditVendor(ctx context.Context, shop, description, license string) VendorAudit {
	fallback := VendorAudit{Status: string(models.AuditStatusPending), Reason: "Neural audit failed."}
	return resilient(g, ctx, fallback, func(ctx context.Context) (VendorAudit, error) {
		prompt := fmt.Sprintf("Audit shop: %s, %s, license: %s. Return JSON with status and reason.",
			shop, description, license)

		raw, err := g.client.GenerateJSON(ctx, g.models.Chat, prompt, vendorAuditSchema)
		if err != nil {
			return VendorAudit{}, err
		}

		var audit VendorAudit
		if err := json.Unmarshal(raw, &audit); err != nil || audit.Status == "" {
			return fallback, nil
		}
		return audit, nil
	})
}

// GenerateImage produces an image from a prompt, optionally seeded
// with a reference image.
func (g *Gateway) GenerateImage(ctx context.Context, prompt string, reference *InlineImage) (*InlineImage, error) {
	g.interactions.Add(1)
	if g.client == nil || !g.breaker.Allow() {
		return nil, ErrCoolingDown
	}

	var refs []InlineImage
	if reference != nil {
		refs = append(refs, *reference)
	}
	img, err := g.client.GenerateImage(ctx, g.models.Image, prompt, refs)
	if err != nil {
		g.tripOnRateLimit(err)
		return nil, err
	}
	return img, nil
}

// EditImage applies an instruction to an existing image.
func (g *Gateway) EditImage(ctx context.Context, instruction string, image InlineImage) (*InlineImage, error) {
	g.interactions.Add(1)
	if g.client == nil || !g.breaker.Allow() {
		return nil, ErrCoolingDown
	}

	img, err := g.client.GenerateImage(ctx, g.models.Image, instruction, []InlineImage{image})
	if err != nil {
		g.tripOnRateLimit(err)
		return nil, err
	}
	return img, nil
}

// TryOn overlays a garment image onto a person image.
func (g *Gateway) TryOn(ctx context.Context, person, garment InlineImage) (*InlineImage, error) {
	g.interactions.Add(1)
	if g.client == nil || !g.breaker.Allow() {
		return nil, ErrCoolingDown
	}

	img, err := g.client.GenerateImage(ctx, g.models.Image,
		"Overlay this garment onto the person naturally.",
		[]InlineImage{person, garment})
	if err != nil {
		g.tripOnRateLimit(err)
		return nil, err
	}
	return img, nil
}

// GroundedSearch answers a query with web-grounded citations.
func (g *Gateway) GroundedSearch(ctx context.Context, query string) (*GroundedResult, error) {
	g.interactions.Add(1)
	if g.client == nil || !g.breaker.Allow() {
		return nil, ErrCoolingDown
	}

	result, err := g.client.GenerateGrounded(ctx, g.models.Chat, query)
	if err != nil {
		g.tripOnRateLimit(err)
		return nil, err
	}
	return result, nil
}

// GenerateVideo produces a short video and returns its download URI.
func (g *Gateway) GenerateVideo(ctx context.Context, prompt, aspectRatio string) (string, error) {
	g.interactions.Add(1)
	if g.client == nil || !g.breaker.Allow() {
		return "", ErrCoolingDown
	}
	if aspectRatio == "" {
		aspectRatio = "16:9"
	}

	uri, err := g.client.GenerateVideo(ctx, g.models.Video, prompt, aspectRatio)
	if err != nil {
		g.tripOnRateLimit(err)
		return "", err
	}
	return uri, nil
}

func (g *Gateway) tripOnRateLimit(err error) {
	if IsRateLimited(err) {
		g.breaker.Trip()
		g.log.WithError(err).Warn("Rate limited, cooldown armed")
		return
	}
	g.log.WithError(err).Error("Collaborator call failed")
}

// BuildEcosystemContext renders the chat system instruction from the
// live vendor and product catalog.
func BuildEcosystemContext(vendors []models.Vendor, products []models.Product) string {
	var productLines, vendorLines strings.Builder
	for _, p := range products {
		fmt.Fprintf(&productLines, "- [ID:%d] %s (৳%.0f) - %s [Vendor ID: %d]\n",
			p.ID, p.Name, p.Price, p.Category, p.VendorID)
	}
	for _, v := range vendors {
		fmt.Fprintf(&vendorLines, "- [Vendor:%d] %s (%s) - %s\n",
			v.ID, v.Name, v.Status, v.Description)
	}

	return fmt.Sprintf(`IDENTITY: You are Aura AI (স্নেহলতা ইকোসিস্টেম গাইড).
TONE: Elegant, futuristic, warm, and helpful. Always maintain a sophisticated "Neural Guardian" persona.
LANGUAGE: Respond in the language the user initiates (Bengali or English).
GREETING: Start the first interaction with "আসসালামু আলাইকুম" or "Greetings from the Grid".

ECOSYSTEM DATA:

VENDORS:
%s
INVENTORY:
%s
RULES:
1. When recommending products, explicitly mention their ID and Price.
2. If a vendor is BLOCKED or PENDING, warn the user if they ask about them.
3. Keep responses concise unless asked for a detailed story.
4. You can perform "Visual Try-On" if the user uploads a photo (simulation).
`, vendorLines.String(), productLines.String())
}
