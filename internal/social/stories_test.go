package social

import (
	"testing"
	"time"

	"github.com/anonto42/nexus-social/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoryLifecycle(t *testing.T) {
	f := newFixture(t)
	a := f.addUser("alice")
	b := f.addUser("bob")

	_, err := f.engine.AddStory(f.ctx, a, StoryInput{})
	assert.ErrorIs(t, err, ErrEmptyContent)

	story, err := f.engine.AddStory(f.ctx, a, StoryInput{Content: "https://img.example/s.png", Kind: models.StoryMedia})
	require.NoError(t, err)
	assert.Equal(t, models.MediaImage, story.MediaType)
	assert.Equal(t, f.now.Add(24*time.Hour), story.ExpiresAt)

	require.NoError(t, f.engine.ViewStory(f.ctx, a, story.ID))
	require.NoError(t, f.engine.ViewStory(f.ctx, b, story.ID))
	require.NoError(t, f.engine.ViewStory(f.ctx, b, story.ID))
	got, _ := f.repos.Stories.GetStoryByID(story.ID)
	assert.Equal(t, []string{"bob"}, got.ViewerIDs)
	assert.Len(t, f.engine.ActiveStories(), 1)

	f.advance(25 * time.Hour)
	assert.Empty(t, f.engine.ActiveStories())
}

func TestExpiredStoriesAcceptViewsOnlyWhenPinned(t *testing.T) {
	f := newFixture(t)
	a := f.addUser("alice")
	b := f.addUser("bob")
	c := f.addUser("carol")
	story, err := f.engine.AddStory(f.ctx, a, StoryInput{Content: "sunset"})
	require.NoError(t, err)

	f.advance(48 * time.Hour)
	require.NoError(t, f.engine.ViewStory(f.ctx, b, story.ID))
	got, _ := f.repos.Stories.GetStoryByID(story.ID)
	assert.Empty(t, got.ViewerIDs)

	require.NoError(t, f.engine.PinStory(f.ctx, b, story.ID))
	got, _ = f.repos.Stories.GetStoryByID(story.ID)
	assert.False(t, got.Pinned)

	require.NoError(t, f.engine.PinStory(f.ctx, a, story.ID))
	require.NoError(t, f.engine.ViewStory(f.ctx, c, story.ID))
	got, _ = f.repos.Stories.GetStoryByID(story.ID)
	assert.Equal(t, []string{"carol"}, got.ViewerIDs)
	assert.Len(t, f.repos.Stories.GetHighlights("alice"), 1)
}

func TestDeleteStoryAuthorOnly(t *testing.T) {
	f := newFixture(t)
	a := f.addUser("alice")
	b := f.addUser("bob")
	story, err := f.engine.AddStory(f.ctx, a, StoryInput{Content: "brb"})
	require.NoError(t, err)

	require.NoError(t, f.engine.DeleteStory(f.ctx, b, story.ID))
	assert.Len(t, f.repos.Stories.All(), 1)

	require.NoError(t, f.engine.DeleteStory(f.ctx, a, story.ID))
	assert.Empty(t, f.repos.Stories.All())
}
