package repositories

import (
	"context"

	"github.com/anonto42/nexus-social/backend/internal/models"
	"github.com/anonto42/nexus-social/backend/internal/store"
)

// SettingsRepository holds the scalar preference keys of the context
type SettingsRepository struct {
	Theme         *Cell[models.Theme]
	Language      *Cell[models.Language]
	Breathing     *Cell[bool]
	BaseConnected *Cell[bool]
	CurrentUserID *Cell[string]
}

func newSettingsRepository(st *store.Store, changes *changeFeed) SettingsRepository {
	return SettingsRepository{
		Theme:         newCell(store.KeyTheme, st, changes, constant(models.ThemeLight), nil),
		Language:      newCell(store.KeyLanguage, st, changes, constant(models.LanguageEnglish), validLanguage),
		Breathing:     newCell(store.KeyBreathing, st, changes, constant(true), nil),
		BaseConnected: newCell(store.KeyBaseConnected, st, changes, constant(false), nil),
		CurrentUserID: newCell(store.KeyCurrentUserID, st, changes, constant(""), nil),
	}
}

func (r SettingsRepository) hydrators() map[string]func(context.Context) {
	return map[string]func(context.Context){
		store.KeyTheme:         r.Theme.Hydrate,
		store.KeyLanguage:      r.Language.Hydrate,
		store.KeyBreathing:     r.Breathing.Hydrate,
		store.KeyBaseConnected: r.BaseConnected.Hydrate,
		store.KeyCurrentUserID: r.CurrentUserID.Hydrate,
	}
}

func constant[T any](v T) func() T {
	return func() T { return v }
}

func validLanguage(l models.Language) models.Language {
	if !l.Valid() {
		return models.LanguageEnglish
	}
	return l
}
