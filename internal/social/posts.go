package social

import (
	"context"
	"strings"

	"github.com/anonto42/nexus-social/backend/internal/models"
)

// PostInput is the input of CreatePost
type PostInput struct {
	Content string
	Media   []models.MediaItem
	ClanID  string
}

// CreatePost publishes a post. A clan post awards clan experience; any other
// post notifies the users who belled the author.
func (e *Engine) CreatePost(ctx context.Context, s *Session, in PostInput) (*models.Post, error) {
	if strings.TrimSpace(in.Content) == "" && len(in.Media) == 0 {
		return nil, ErrEmptyContent
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	actor, ok := e.actor(s)
	if !ok {
		e.ignored("create post", "no session")
		return nil, nil
	}
	if in.ClanID != "" {
		if _, ok := e.repos.Clans.GetClanByID(in.ClanID); !ok {
			e.ignored("create post", "clan not found", "clan", in.ClanID)
			return nil, nil
		}
	}

	media := make([]models.MediaItem, len(in.Media))
	copy(media, in.Media)
	post := models.Post{
		ID:        e.newID(),
		AuthorID:  actor.ID,
		ClanID:    in.ClanID,
		Content:   in.Content,
		Media:     media,
		LikedBy:   []string{},
		Comments:  []models.Comment{},
		CreatedAt: e.Now(),
	}
	if e.repos.Settings.BaseConnected.Get() {
		post.ExternalAttestationID = e.attest()
	}

	errPosts := e.repos.Posts.Put(ctx, append([]models.Post{post}, e.repos.Posts.All()...))

	var errFanout error
	if in.ClanID != "" {
		errFanout = e.awardClanXP(ctx, in.ClanID, XPPost)
	} else {
		var notices []notice
		for _, sub := range e.repos.Users.GetBellSubscribers(actor.ID) {
			notices = append(notices, notice{recipient: sub.ID, actor: actor.ID, kind: models.NotificationNewPost, postID: post.ID})
		}
		errFanout = e.notify(ctx, notices...)
	}
	return &post, persist(errPosts, errFanout)
}

// EditPost replaces the content of one of the actor's posts
func (e *Engine) EditPost(ctx context.Context, s *Session, postID, content string) error {
	if strings.TrimSpace(content) == "" {
		return ErrEmptyContent
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	actor, ok := e.actor(s)
	if !ok {
		e.ignored("edit post", "no session")
		return nil
	}
	posts := e.repos.Posts.All()
	i := indexOf(posts, func(p models.Post) bool { return p.ID == postID })
	if i < 0 || posts[i].AuthorID != actor.ID {
		e.ignored("edit post", "not found or not the author", "post", postID)
		return nil
	}
	now := e.Now()
	posts[i].Content = content
	posts[i].EditedAt = &now
	return e.repos.Posts.Put(ctx, posts)
}

// DeletePost removes a post. Only its author or an admin may delete it.
func (e *Engine) DeletePost(ctx context.Context, s *Session, postID string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	actor, ok := e.actor(s)
	if !ok {
		e.ignored("delete post", "no session")
		return nil
	}
	posts := e.repos.Posts.All()
	i := indexOf(posts, func(p models.Post) bool { return p.ID == postID })
	if i < 0 || (posts[i].AuthorID != actor.ID && actor.Role != models.RoleAdmin) {
		e.ignored("delete post", "not found or not allowed", "post", postID)
		return nil
	}
	return e.repos.Posts.Put(ctx, removeAt(posts, i))
}

// LikePost toggles the actor's like. Only the like transition notifies the author.
// It returns whether the actor now likes the post.
func (e *Engine) LikePost(ctx context.Context, s *Session, postID string) (bool, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	actor, ok := e.actor(s)
	if !ok {
		e.ignored("like post", "no session")
		return false, nil
	}
	posts := e.repos.Posts.All()
	i := indexOf(posts, func(p models.Post) bool { return p.ID == postID })
	if i < 0 {
		e.ignored("like post", "post not found", "post", postID)
		return false, nil
	}

	likedBy, liked := models.ToggleID(posts[i].LikedBy, actor.ID)
	posts[i].LikedBy = likedBy
	errPosts := e.repos.Posts.Put(ctx, posts)

	var errNotes error
	if liked {
		errNotes = e.notify(ctx, notice{recipient: posts[i].AuthorID, actor: actor.ID, kind: models.NotificationLike, postID: postID})
	}
	return liked, persist(errPosts, errNotes)
}

// AddComment appends a comment and notifies the post author
func (e *Engine) AddComment(ctx context.Context, s *Session, postID, text string) (*models.Comment, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyContent
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	actor, ok := e.actor(s)
	if !ok {
		e.ignored("add comment", "no session")
		return nil, nil
	}
	posts := e.repos.Posts.All()
	i := indexOf(posts, func(p models.Post) bool { return p.ID == postID })
	if i < 0 {
		e.ignored("add comment", "post not found", "post", postID)
		return nil, nil
	}

	comment := models.Comment{ID: e.newID(), AuthorID: actor.ID, Text: text, CreatedAt: e.Now()}
	comments := make([]models.Comment, 0, len(posts[i].Comments)+1)
	posts[i].Comments = append(append(comments, posts[i].Comments...), comment)

	errPosts := e.repos.Posts.Put(ctx, posts)
	errNotes := e.notify(ctx, notice{recipient: posts[i].AuthorID, actor: actor.ID, kind: models.NotificationComment, postID: postID})
	return &comment, persist(errPosts, errNotes)
}
