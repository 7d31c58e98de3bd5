package content

// Slug is a URL-safe name.
type Slug string

// Tagged is addressable by slug or by id. Both constructors take one
// parameter.
type Tagged struct {
	Slug Slug
	ID   int64
}

func NewTaggedFromSlug(slug Slug) *Tagged { return &Tagged{Slug: slug} }

func NewTaggedFromID(id int64) *Tagged { return &Tagged{ID: id} }

// Hidden can only be built inside the package.
type Hidden struct {
	value int
}

func newHidden(value int) *Hidden { return &Hidden{value: value} }

// Tree is a self-referencing hierarchy.
type Tree struct {
	Parent   *Tree
	Children []*Tree
}

// NewTree creates a child of parent.
func NewTree(parent *Tree) *Tree {
	t := &Tree{Parent: parent}
	if parent != nil {
		parent.Children = append(parent.Children, t)
	}

	return t
}

// Stream delivers articles asynchronously.
type Stream chan *Article
