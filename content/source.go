package content

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Source reads whole collections from a backing store.
type Source interface {
	Posts(ctx context.Context) ([]Post, error)
	Authors(ctx context.Context) ([]Author, error)
	Categories(ctx context.Context) ([]Category, error)
	Tags(ctx context.Context) ([]Tag, error)
	Pages(ctx context.Context) ([]Page, error)
	AffiliateCategories(ctx context.Context) ([]AffiliateCategory, error)
	AffiliateProducts(ctx context.Context) ([]AffiliateProduct, error)
	Settings(ctx context.Context) (Settings, error)
}

// Snapshot is every collection read from a Source at one point in time.
// A Snapshot is never modified after Load returns it and must not be
// copied once Index has been called.
type Snapshot struct {
	Posts               []Post
	Authors             []Author
	Categories          []Category
	Tags                []Tag
	Pages               []Page
	AffiliateCategories []AffiliateCategory
	AffiliateProducts   []AffiliateProduct
	Settings            Settings

	indexOnce sync.Once
	index     *Index
}

// Load reads all collections from src concurrently. Any collection error
// fails the whole load.
func Load(ctx context.Context, src Source) (*Snapshot, error) {
	s := &Snapshot{}
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) {
		s.Posts, err = src.Posts(ctx)
		return wrapLoad("posts", err)
	})
	g.Go(func() (err error) {
		s.Authors, err = src.Authors(ctx)
		return wrapLoad("authors", err)
	})
	g.Go(func() (err error) {
		s.Categories, err = src.Categories(ctx)
		return wrapLoad("categories", err)
	})
	g.Go(func() (err error) {
		s.Tags, err = src.Tags(ctx)
		return wrapLoad("tags", err)
	})
	g.Go(func() (err error) {
		s.Pages, err = src.Pages(ctx)
		return wrapLoad("pages", err)
	})
	g.Go(func() (err error) {
		s.AffiliateCategories, err = src.AffiliateCategories(ctx)
		return wrapLoad("affiliate categories", err)
	})
	g.Go(func() (err error) {
		s.AffiliateProducts, err = src.AffiliateProducts(ctx)
		return wrapLoad("affiliate products", err)
	})
	g.Go(func() (err error) {
		s.Settings, err = src.Settings(ctx)
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return wrapLoad("settings", err)
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	s.Index()
	return s, nil
}

func wrapLoad(collection string, err error) error {
	if err != nil {
		return fmt.Errorf("load %s: %w", collection, err)
	}
	return nil
}

// Index returns the lookup index for the snapshot, building it on first
// use. It is safe for concurrent use.
func (s *Snapshot) Index() *Index {
	s.indexOnce.Do(func() { s.index = NewIndex(s) })
	return s.index
}

// PublishedPosts returns the published posts, newest first.
func (s *Snapshot) PublishedPosts() []Post {
	return s.Index().published
}

// StaticSource serves collections held in memory. It is used by the CLI
// import path and by tests.
type StaticSource struct {
	Data Snapshot
	// Err, when set, is returned by every method.
	Err error
}

func (s *StaticSource) Posts(context.Context) ([]Post, error) { return s.Data.Posts, s.Err }

func (s *StaticSource) Authors(context.Context) ([]Author, error) { return s.Data.Authors, s.Err }

func (s *StaticSource) Categories(context.Context) ([]Category, error) {
	return s.Data.Categories, s.Err
}

func (s *StaticSource) Tags(context.Context) ([]Tag, error) { return s.Data.Tags, s.Err }

func (s *StaticSource) Pages(context.Context) ([]Page, error) { return s.Data.Pages, s.Err }

func (s *StaticSource) AffiliateCategories(context.Context) ([]AffiliateCategory, error) {
	return s.Data.AffiliateCategories, s.Err
}

func (s *StaticSource) AffiliateProducts(context.Context) ([]AffiliateProduct, error) {
	return s.Data.AffiliateProducts, s.Err
}

func (s *StaticSource) Settings(context.Context) (Settings, error) {
	return s.Data.Settings, s.Err
}
