// internal/ai/client.go
package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"
)

// InlineImage is an image carried inline over the collaborator wire.
type InlineImage struct {
	MIMEType string `json:"mime_type"`
	Data     []byte `json:"data"`
}

// Source is one grounding citation returned by grounded search.
type Source struct {
	Title string `json:"title"`
	URI   string `json:"uri"`
}

// GroundedResult is the text plus citations of a grounded query.
type GroundedResult struct {
	Text    string   `json:"text"`
	Sources []Source `json:"sources"`
}

// Collaborator is the request/response boundary to the generative
// model provider. The gateway owns all resilience; implementations
// just translate calls.
type Collaborator interface {
	GenerateText(ctx context.Context, model, system, prompt string, temperature float32) (string, error)
	GenerateJSON(ctx context.Context, model, prompt string, schema *genai.Schema) ([]byte, error)
	GenerateImage(ctx context.Context, model, prompt string, images []InlineImage) (*InlineImage, error)
	GenerateGrounded(ctx context.Context, model, query string) (*GroundedResult, error)
	GenerateVideo(ctx context.Context, model, prompt, aspectRatio string) (string, error)
}

// IsRateLimited classifies rate-limit errors, the only failure class
// that arms the cooldown breaker.
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == 429 || apiErr.Status == "RESOURCE_EXHAUSTED"
	}
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

// GenAIClient implements Collaborator against the Gemini API.
type GenAIClient struct {
	client       *genai.Client
	pollInterval time.Duration
}

func NewGenAIClient(ctx context.Context, apiKey string) (*GenAIClient, error) {
	if apiKey == "" {
		return nil, errors.New("AI API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create genai client: %w", err)
	}

	return &GenAIClient{client: client, pollInterval: 10 * time.Second}, nil
}

func (c *GenAIClient) GenerateText(ctx context.Context, model, system, prompt string, temperature float32) (string, error) {
	config := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(temperature),
	}
	if system != "" {
		config.SystemInstruction = genai.NewContentFromText(system, genai.RoleUser)
	}

	resp, err := c.client.Models.GenerateContent(ctx, model, genai.Text(prompt), config)
	if err != nil {
		return "", fmt.Errorf("text generation failed: %w", err)
	}
	return resp.Text(), nil
}

func (c *GenAIClient) GenerateJSON(ctx context.Context, model, prompt string, schema *genai.Schema) ([]byte, error) {
	resp, err := c.client.Models.GenerateContent(ctx, model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   schema,
	})
	if err != nil {
		return nil, fmt.Errorf("structured generation failed: %w", err)
	}
	return []byte(resp.Text()), nil
}

func (c *GenAIClient) GenerateImage(ctx context.Context, model, prompt string, images []InlineImage) (*InlineImage, error) {
	parts := make([]*genai.Part, 0, len(images)+1)
	for _, img := range images {
		parts = append(parts, genai.NewPartFromBytes(img.Data, img.MIMEType))
	}
	parts = append(parts, genai.NewPartFromText(prompt))

	contents := []*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}
	resp, err := c.client.Models.GenerateContent(ctx, model, contents, nil)
	if err != nil {
		return nil, fmt.Errorf("image generation failed: %w", err)
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData != nil {
				return &InlineImage{
					MIMEType: part.InlineData.MIMEType,
					Data:     part.InlineData.Data,
				}, nil
			}
		}
	}
	return nil, errors.New("no image in model response")
}

func (c *GenAIClient) GenerateGrounded(ctx context.Context, model, query string) (*GroundedResult, error) {
	resp, err := c.client.Models.GenerateContent(ctx, model, genai.Text(query), &genai.GenerateContentConfig{
		Tools: []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}},
	})
	if err != nil {
		return nil, fmt.Errorf("grounded search failed: %w", err)
	}

	result := &GroundedResult{Text: resp.Text()}
	if len(resp.Candidates) > 0 && resp.Candidates[0].GroundingMetadata != nil {
		for _, chunk := range resp.Candidates[0].GroundingMetadata.GroundingChunks {
			if chunk.Web != nil {
				result.Sources = append(result.Sources, Source{
					Title: chunk.Web.Title,
					URI:   chunk.Web.URI,
				})
			}
		}
	}
	return result, nil
}

func (c *GenAIClient) GenerateVideo(ctx context.Context, model, prompt, aspectRatio string) (string, error) {
	op, err := c.client.Models.GenerateVideos(ctx, model, prompt, nil, &genai.GenerateVideosConfig{
		NumberOfVideos: 1,
		AspectRatio:    aspectRatio,
	})
	if err != nil {
		return "", fmt.Errorf("video generation failed: %w", err)
	}

	for !op.Done {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(c.pollInterval):
		}
		op, err = c.client.Operations.GetVideosOperation(ctx, op, nil)
		if err != nil {
			return "", fmt.Errorf("video operation poll failed: %w", err)
		}
	}

	if op.Response == nil || len(op.Response.GeneratedVideos) == 0 || op.Response.GeneratedVideos[0].Video == nil {
		return "", errors.New("no video in operation response")
	}
	return op.Response.GeneratedVideos[0].Video.URI, nil
}
