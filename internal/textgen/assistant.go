// Package textgen wraps the generative text service used for post
// enhancement, moderation, translation and clan descriptions.
package textgen

import (
	"context"
	"errors"
)

var ErrEmptyResponse = errors.New("textgen: empty response")

// Assistant is the generative text capability. Implementations may fail;
// wrap them with NewFallback before handing them to callers that must keep
// working when the service is unreachable.
type Assistant interface {
	// Enhance turns a topic into a short post
	Enhance(ctx context.Context, topic string) (string, error)
	// Moderate reports whether text is safe to publish
	Moderate(ctx context.Context, text string) (bool, error)
	// Translate renders text in the language with the given code
	Translate(ctx context.Context, text, lang string) (string, error)
	// ClanDescription writes a one-sentence tagline for a clan name
	ClanDescription(ctx context.Context, name string) (string, error)
}

var languageNames = map[string]string{
	"en": "English",
	"es": "Spanish",
	"fr": "French",
	"de": "German",
	"ja": "Japanese",
	"ru": "Russian",
}

// LanguageName maps a language code to the name used in prompts. Unknown
// codes are returned as is.
func LanguageName(code string) string {
	if name, ok := languageNames[code]; ok {
		return name
	}
	return code
}
