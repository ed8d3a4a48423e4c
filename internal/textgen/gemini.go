package textgen

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"
)

const DefaultModel = "gemini-3-flash-preview"

// generator is the subset of *genai.Models used here
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Gemini implements Assistant on the Gemini API
type Gemini struct {
	models generator
	model  string
	tracer trace.Tracer
}

// NewGemini connects to the Gemini API with apiKey. An empty model selects
// DefaultModel.
func NewGemini(ctx context.Context, apiKey, model string) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}
	return newGemini(client.Models, model), nil
}

func newGemini(models generator, model string) *Gemini {
	if model == "" {
		model = DefaultModel
	}
	return &Gemini{models: models, model: model, tracer: otel.Tracer("nexus/textgen")}
}

func (g *Gemini) generate(ctx context.Context, op, prompt string) (string, error) {
	ctx, span := g.tracer.Start(ctx, "textgen."+op, trace.WithAttributes(attribute.String("textgen.model", g.model)))
	defer span.End()

	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(prompt), nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, op)
		return "", fmt.Errorf("textgen: %s: %w", op, err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		span.SetStatus(codes.Error, "empty response")
		return "", ErrEmptyResponse
	}
	return text, nil
}

func (g *Gemini) Enhance(ctx context.Context, topic string) (string, error) {
	return g.generate(ctx, "enhance", fmt.Sprintf(
		"Write a short, engaging social media post about: %q. Include 2-3 relevant hashtags. Keep it under 280 characters.", topic))
}

// Moderate asks for a YES/NO verdict. Anything but a plain NO is unsafe.
func (g *Gemini) Moderate(ctx context.Context, text string) (bool, error) {
	answer, err := g.generate(ctx, "moderate", fmt.Sprintf(
		"Is the following text offensive, hate speech, or spam? Answer ONLY with \"YES\" or \"NO\". Text: %q", text))
	if err != nil {
		return false, err
	}
	return strings.EqualFold(strings.Trim(answer, ". \n"), "NO"), nil
}

func (g *Gemini) Translate(ctx context.Context, text, lang string) (string, error) {
	return g.generate(ctx, "translate", fmt.Sprintf(
		"Translate the following text to %s. Return ONLY the translated text, do not add any explanations or quotes. Text: %q",
		LanguageName(lang), text))
}

func (g *Gemini) ClanDescription(ctx context.Context, name string) (string, error) {
	return g.generate(ctx, "clan_description", fmt.Sprintf(
		"Write a catchy, 1-sentence description for a social group called %q.", name))
}
