package social

import (
	"context"
	"strings"

	"github.com/anonto42/nexus-social/backend/internal/models"
)

// StoryInput is the input of AddStory
type StoryInput struct {
	Content   string
	Kind      models.StoryKind
	MediaType models.MediaType
}

// AddStory publishes a story that expires after models.StoryLifetime
func (e *Engine) AddStory(ctx context.Context, s *Session, in StoryInput) (*models.Story, error) {
	if strings.TrimSpace(in.Content) == "" {
		return nil, ErrEmptyContent
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	actor, ok := e.actor(s)
	if !ok {
		e.ignored("add story", "no session")
		return nil, nil
	}

	kind := in.Kind
	if kind == "" {
		kind = models.StoryText
	}
	now := e.Now()
	story := models.Story{
		ID:        e.newID(),
		AuthorID:  actor.ID,
		Content:   in.Content,
		Kind:      kind,
		CreatedAt: now,
		ExpiresAt: now.Add(models.StoryLifetime),
		ViewerIDs: []string{},
	}
	if kind == models.StoryMedia {
		story.MediaType = in.MediaType
		if story.MediaType == "" {
			story.MediaType = models.MediaImage
		}
	}

	return &story, e.repos.Stories.Put(ctx, append([]models.Story{story}, e.repos.Stories.All()...))
}

// ViewStory records the actor as a viewer of an active story. Authors are
// never counted as viewers of their own stories.
func (e *Engine) ViewStory(ctx context.Context, s *Session, storyID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	actor, ok := e.actor(s)
	if !ok {
		e.ignored("view story", "no session")
		return nil
	}
	stories := e.repos.Stories.All()
	i := indexOf(stories, func(st models.Story) bool { return st.ID == storyID })
	if i < 0 || stories[i].AuthorID == actor.ID || models.ContainsID(stories[i].ViewerIDs, actor.ID) {
		return nil
	}
	if !stories[i].Active(e.Now()) && !stories[i].Pinned {
		e.ignored("view story", "expired", "story", storyID)
		return nil
	}
	stories[i].ViewerIDs = models.AddID(stories[i].ViewerIDs, actor.ID)
	return e.repos.Stories.Put(ctx, stories)
}

// PinStory toggles the highlight flag of one of the actor's stories
func (e *Engine) PinStory(ctx context.Context, s *Session, storyID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	actor, ok := e.actor(s)
	if !ok {
		e.ignored("pin story", "no session")
		return nil
	}
	stories := e.repos.Stories.All()
	i := indexOf(stories, func(st models.Story) bool { return st.ID == storyID })
	if i < 0 || stories[i].AuthorID != actor.ID {
		e.ignored("pin story", "not found or not the author", "story", storyID)
		return nil
	}
	stories[i].Pinned = !stories[i].Pinned
	return e.repos.Stories.Put(ctx, stories)
}

// DeleteStory removes one of the actor's stories
func (e *Engine) DeleteStory(ctx context.Context, s *Session, storyID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	actor, ok := e.actor(s)
	if !ok {
		e.ignored("delete story", "no session")
		return nil
	}
	stories := e.repos.Stories.All()
	i := indexOf(stories, func(st models.Story) bool { return st.ID == storyID })
	if i < 0 || stories[i].AuthorID != actor.ID {
		e.ignored("delete story", "not found or not the author", "story", storyID)
		return nil
	}
	return e.repos.Stories.Put(ctx, removeAt(stories, i))
}

// ActiveStories returns every story visible now
func (e *Engine) ActiveStories() []models.Story {
	return e.repos.Stories.GetActiveStories(e.Now())
}
