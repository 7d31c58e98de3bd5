package content

import (
	"iter"
	"slices"
)

// Page is an ordered page of items.
type Page[T any] struct {
	items []T
}

// NewPage creates a page holding items.
func NewPage[T any](items ...T) *Page[T] {
	return &Page[T]{items: slices.Clone(items)}
}

func (p *Page[T]) All() iter.Seq[T] { return slices.Values(p.items) }

func (p *Page[T]) Len() int { return len(p.items) }

// Shelf is a page nested below a parent shelf.
type Shelf[T any] struct {
	Page[T]

	Parent *Shelf[T]
}

// NewShelf creates a shelf below parent.
func NewShelf[T any](parent *Shelf[T], items ...T) *Shelf[T] {
	return &Shelf[T]{Page: Page[T]{items: slices.Clone(items)}, Parent: parent}
}

// ArticlePage is a page of articles.
type ArticlePage struct {
	Page[Article]

	Section string
}

// Catalog is anything that lists articles.
type Catalog interface {
	All() iter.Seq[Article]
	Len() int
}

// Index is a keyed lookup table.
type Index[K comparable, V any] struct {
	keys   []K
	values map[K]V
}

// NewIndex creates an empty index.
func NewIndex[K comparable, V any]() *Index[K, V] {
	return &Index[K, V]{values: make(map[K]V)}
}

func (i *Index[K, V]) Put(k K, v V) {
	if _, ok := i.values[k]; !ok {
		i.keys = append(i.keys, k)
	}
	i.values[k] = v
}

func (i *Index[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, k := range i.keys {
			if !yield(k, i.values[k]) {
				return
			}
		}
	}
}

func (i *Index[K, V]) Lookup(k K) (V, bool) {
	v, ok := i.values[k]
	return v, ok
}

func (i *Index[K, V]) Len() int { return len(i.keys) }

// Feed is a list of news.
type Feed []*NewsArticle

// Tags is a list of labels.
type Tags []string

// NewTags creates a tag list.
func NewTags(values ...string) Tags {
	return slices.Clone(values)
}

// Properties holds free-form metadata.
type Properties map[string]any
