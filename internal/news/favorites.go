package news

import "sync"

// Favorites is an ordered, add-only set of articles keyed by link.
type Favorites struct {
	mu    sync.RWMutex
	items []Article
	links map[string]struct{}
}

func NewFavorites() *Favorites {
	return &Favorites{links: make(map[string]struct{})}
}

// Add appends a unless an article with the same link is already present.
// It reports whether the set grew.
func (f *Favorites) Add(a Article) bool {
	if a.Link == "" {
		return false
	}
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.links[a.Link]; ok {
		return false
	}
	f.links[a.Link] = struct{}{}
	f.items = append(f.items, a)
	return true
}

func (f *Favorites) Contains(link string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.links[link]
	return ok
}

// List returns a copy of the favorites in insertion order.
func (f *Favorites) List() []Article {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]Article, len(f.items))
	copy(out, f.items)
	return out
}

func (f *Favorites) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.items)
}

// Update replaces the stored copy of an article, keeping its position.
// Used to keep a lazily resolved image on the favorite.
func (f *Favorites) Update(a Article) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.items {
		if f.items[i].Link == a.Link {
			f.items[i] = a
			return
		}
	}
}
