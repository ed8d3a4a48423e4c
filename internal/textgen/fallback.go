package textgen

import (
	"context"
	"log/slog"
)

// Fallback never fails. When the inner assistant is missing or errors, text
// comes back unchanged, moderation passes and clan descriptions are empty.
type Fallback struct {
	inner Assistant
}

// NewFallback wraps inner. A nil inner gives an assistant that always falls back.
func NewFallback(inner Assistant) *Fallback {
	return &Fallback{inner: inner}
}

// Enabled reports whether a real service sits behind the fallback
func (f *Fallback) Enabled() bool {
	return f.inner != nil
}

func (f *Fallback) Enhance(ctx context.Context, topic string) (string, error) {
	if f.inner == nil {
		return topic, nil
	}
	out, err := f.inner.Enhance(ctx, topic)
	if err != nil {
		slog.Warn("textgen: enhance failed, returning input", "error", err)
		return topic, nil
	}
	return out, nil
}

func (f *Fallback) Moderate(ctx context.Context, text string) (bool, error) {
	if f.inner == nil {
		return true, nil
	}
	safe, err := f.inner.Moderate(ctx, text)
	if err != nil {
		slog.Warn("textgen: moderation failed, treating as safe", "error", err)
		return true, nil
	}
	return safe, nil
}

func (f *Fallback) Translate(ctx context.Context, text, lang string) (string, error) {
	if f.inner == nil {
		return text, nil
	}
	out, err := f.inner.Translate(ctx, text, lang)
	if err != nil {
		slog.Warn("textgen: translation failed, returning input", "lang", lang, "error", err)
		return text, nil
	}
	return out, nil
}

func (f *Fallback) ClanDescription(ctx context.Context, name string) (string, error) {
	if f.inner == nil {
		return "", nil
	}
	out, err := f.inner.ClanDescription(ctx, name)
	if err != nil {
		slog.Warn("textgen: clan description failed", "error", err)
		return "", nil
	}
	return out, nil
}
