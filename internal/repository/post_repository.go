package repository

import (
	"context"
	"log/slog"
	"sync"

	"github.com/maheshrc27/autoposter/internal/models"
	"github.com/maheshrc27/autoposter/internal/store"
)

// resourceLocks serialises read-modify-write cycles per document name within
// this process.
var resourceLocks sync.Map

func lockFor(name string) *sync.Mutex {
	mu, _ := resourceLocks.LoadOrStore(name, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

type PostRepository interface {
	Name() string
	// Load returns nil when the collection does not exist yet.
	Load(ctx context.Context) (*models.PostCollection, error)
	Save(ctx context.Context, c *models.PostCollection) error
	// Update loads a fresh copy, applies fn and saves the result while holding
	// the resource lock. A missing collection is passed to fn as empty.
	Update(ctx context.Context, fn func(c *models.PostCollection) error) error
	// SaveUpdated upserts post into a freshly loaded collection.
	SaveUpdated(ctx context.Context, post *models.Post) error
}

type postRepository struct {
	s    store.Store
	name string
}

func NewPostRepository(s store.Store, name string) PostRepository {
	return &postRepository{s: s, name: name}
}

func (r *postRepository) Name() string {
	return r.name
}

func (r *postRepository) Load(ctx context.Context) (*models.PostCollection, error) {
	var c models.PostCollection
	found, err := r.s.Load(ctx, r.name, &c)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}
	if !found {
		return nil, nil
	}
	return &c, nil
}

func (r *postRepository) Save(ctx context.Context, c *models.PostCollection) error {
	if c.Posts == nil {
		c.Posts = []*models.Post{}
	}
	return r.s.Save(ctx, r.name, c)
}

func (r *postRepository) Update(ctx context.Context, fn func(c *models.PostCollection) error) error {
	mu := lockFor(r.name)
	mu.Lock()
	defer mu.Unlock()

	c, err := r.Load(ctx)
	if err != nil {
		return err
	}
	if c == nil {
		c = &models.PostCollection{}
	}

	if err := fn(c); err != nil {
		return err
	}
	return r.Save(ctx, c)
}

func (r *postRepository) SaveUpdated(ctx context.Context, post *models.Post) error {
	if post == nil {
		return nil
	}
	return r.Update(ctx, func(c *models.PostCollection) error {
		Upsert(c, post)
		return nil
	})
}

// FindNext returns the first post in stored order matching pred.
func FindNext(c *models.PostCollection, pred func(*models.Post) bool) *models.Post {
	if c == nil {
		return nil
	}
	for _, p := range c.Posts {
		if pred(p) {
			return p
		}
	}
	return nil
}

// FindByID returns the top-level post with id.
func FindByID(c *models.PostCollection, id int64) *models.Post {
	return FindNext(c, func(p *models.Post) bool { return p.ID == id })
}

// Upsert replaces the post with the same id in place, or appends it.
func Upsert(c *models.PostCollection, post *models.Post) {
	for i, existing := range c.Posts {
		if existing.ID == post.ID {
			c.Posts[i] = post
			return
		}
	}
	c.Posts = append(c.Posts, post)
}
