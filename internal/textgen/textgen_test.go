package textgen

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

type fakeModels struct {
	reply   string
	err     error
	prompts []string
	model   string
}

func (f *fakeModels) GenerateContent(_ context.Context, model string, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	for _, c := range contents {
		for _, p := range c.Parts {
			f.prompts = append(f.prompts, p.Text)
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{Content: genai.NewContentFromText(f.reply, genai.RoleModel)}},
	}, nil
}

func TestGeminiModerate(t *testing.T) {
	cases := map[string]bool{"NO": true, "no.": true, "YES": false, "Maybe": false}
	for reply, safe := range cases {
		g := newGemini(&fakeModels{reply: reply}, "")
		got, err := g.Moderate(context.Background(), "hello")
		require.NoError(t, err)
		assert.Equal(t, safe, got, reply)
	}
}

func TestGeminiTranslateUsesLanguageName(t *testing.T) {
	models := &fakeModels{reply: "  Hola  "}
	g := newGemini(models, "custom-model")

	out, err := g.Translate(context.Background(), "Hello", "es")

	require.NoError(t, err)
	assert.Equal(t, "Hola", out)
	assert.Equal(t, "custom-model", models.model)
	require.Len(t, models.prompts, 1)
	assert.Contains(t, models.prompts[0], "to Spanish")
}

func TestGeminiEmptyResponse(t *testing.T) {
	g := newGemini(&fakeModels{reply: "   "}, "")

	_, err := g.Enhance(context.Background(), "cats")

	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestFallbackOnFailure(t *testing.T) {
	ctx := context.Background()
	fb := NewFallback(newGemini(&fakeModels{err: errors.New("unreachable")}, ""))

	out, err := fb.Enhance(ctx, "cats")
	require.NoError(t, err)
	assert.Equal(t, "cats", out)

	safe, err := fb.Moderate(ctx, "anything")
	require.NoError(t, err)
	assert.True(t, safe)

	out, err = fb.Translate(ctx, "Hello", "fr")
	require.NoError(t, err)
	assert.Equal(t, "Hello", out)

	out, err = fb.ClanDescription(ctx, "Owls")
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestFallbackWithoutService(t *testing.T) {
	fb := NewFallback(nil)

	assert.False(t, fb.Enabled())
	out, err := fb.Translate(context.Background(), "Hello", "de")
	require.NoError(t, err)
	assert.Equal(t, "Hello", out)
}

func TestFallbackPassesThroughVerdict(t *testing.T) {
	fb := NewFallback(newGemini(&fakeModels{reply: "YES"}, ""))

	safe, err := fb.Moderate(context.Background(), "spam spam")

	require.NoError(t, err)
	assert.False(t, safe)
}

func TestLanguageName(t *testing.T) {
	assert.Equal(t, "Japanese", LanguageName("ja"))
	assert.Equal(t, "pt", LanguageName("pt"))
}
