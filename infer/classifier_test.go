package infer

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"typeshape/typedesc"
)

var (
	node    = typedesc.New(typedesc.Spec{Package: "cms", Name: "Node"})
	article = typedesc.New(typedesc.Spec{Package: "cms", Name: "Article", Base: node})
	news    = typedesc.New(typedesc.Spec{Package: "cms", Name: "NewsArticle", Base: article})

	page = typedesc.NewGeneric("cms", "Page", typedesc.KindClass, []string{"T"}, func([]typedesc.Type) (typedesc.Spec, error) {
		return typedesc.Spec{}, nil
	})
	articlePage = typedesc.New(typedesc.Spec{Package: "cms", Name: "ArticlePage", Base: typedesc.MustInstantiate(page, article)})

	// implements the sequence shape twice
	multiSeq = typedesc.New(typedesc.Spec{
		Package:    "cms",
		Name:       "MultiSeq",
		Interfaces: []typedesc.Type{typedesc.SequenceOf(typedesc.Int), typedesc.SequenceOf(typedesc.Text)},
	})
)

func collect(t typedesc.Type) []string {
	var ids []string
	for a := range Ancestors(t) {
		ids = append(ids, a.ID())
	}

	return ids
}

func TestElementType(t *testing.T) {
	tests := []struct {
		name string
		typ  typedesc.Type
		def  typedesc.Type
		want typedesc.Type
	}{
		{"list of int as sequence", typedesc.ListOf(typedesc.Int), typedesc.Sequence, typedesc.Int},
		{"list of int as collection", typedesc.ListOf(typedesc.Int), typedesc.Collection, typedesc.Int},
		{"list of int as list", typedesc.ListOf(typedesc.Int), typedesc.List, typedesc.Int},
		{"sequence interface itself", typedesc.SequenceOf(news), typedesc.Sequence, news},
		{"dictionary as mapping", typedesc.DictionaryOf(typedesc.Text, typedesc.Int), typedesc.Mapping, typedesc.Text},
		{"dictionary as sequence", typedesc.DictionaryOf(typedesc.Text, typedesc.Int), typedesc.Sequence, typedesc.PairOf(typedesc.Text, typedesc.Int)},
		{"text as sequence", typedesc.Text, typedesc.Sequence, typedesc.Rune},
		{"array as collection", typedesc.ArrayOf(typedesc.Float64, 3), typedesc.Collection, typedesc.Float64},
		{"base class target through ancestor", articlePage, page, article},
		{"base class target on itself", typedesc.MustInstantiate(page, news), page, news},
		{"not implemented", typedesc.Int, typedesc.Sequence, nil},
		{"class target not inherited", article, page, nil},
		{"ambiguous implementation", multiSeq, typedesc.Sequence, nil},
		{"generic definition", typedesc.List, typedesc.Sequence, nil},
		{"nil type", nil, typedesc.Sequence, nil},
		{"nil target", typedesc.ListOf(typedesc.Int), nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ElementType(tt.typ, tt.def)
			if tt.want == nil {
				assert.False(t, ok)
				assert.Nil(t, got)
				return
			}

			require.True(t, ok)
			assert.Equal(t, tt.want.ID(), got.ID())
		})
	}
}

func TestGenericImplementations(t *testing.T) {
	impls := GenericImplementations(multiSeq, typedesc.Sequence)
	require.Len(t, impls, 2)
	assert.Equal(t, "Sequence[int]", impls[0].ID())
	assert.Equal(t, "Sequence[string]", impls[1].ID())

	// Sequence[Pair] is reachable through Mapping and Collection but counted once.
	impls = GenericImplementations(typedesc.DictionaryOf(typedesc.Text, typedesc.Int), typedesc.Sequence)
	require.Len(t, impls, 1)

	assert.Empty(t, GenericImplementations(typedesc.Dictionary, typedesc.Sequence))
}

func TestShapePredicates(t *testing.T) {
	pairs := typedesc.ListOf(typedesc.PairOf(typedesc.Text, article))
	derived := typedesc.New(typedesc.Spec{Package: "cms", Name: "Tags", Base: typedesc.ListOf(typedesc.Text)})

	tests := []struct {
		name       string
		typ        typedesc.Type
		sequence   bool
		collection bool
		keyed      bool
		castable   bool
	}{
		{"list of int", typedesc.ListOf(typedesc.Int), true, true, false, true},
		{"sequence of int", typedesc.SequenceOf(typedesc.Int), true, false, false, true},
		{"dictionary", typedesc.DictionaryOf(typedesc.Text, typedesc.Int), true, true, true, false},
		{"mapping interface", typedesc.MappingOf(typedesc.Text, typedesc.Int), true, true, true, false},
		{"list of pairs", pairs, true, true, true, true},
		{"text", typedesc.Text, true, false, false, false},
		{"array", typedesc.ArrayOf(typedesc.Int, 4), true, true, false, false},
		{"derived list", derived, true, true, false, false},
		{"scalar", typedesc.Int, false, false, false, false},
		{"class", article, false, false, false, false},
		{"ambiguous", multiSeq, false, false, false, false},
		{"generic definition", typedesc.List, false, false, false, false},
		{"nil", nil, false, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.sequence, IsSequence(tt.typ), "IsSequence")
			assert.Equal(t, tt.collection, IsCollection(tt.typ), "IsCollection")
			assert.Equal(t, tt.keyed, IsKeyedSequence(tt.typ), "IsKeyedSequence")
			assert.Equal(t, tt.castable, IsCastableSequence(tt.typ), "IsCastableSequence")
		})
	}
}

func TestAncestors(t *testing.T) {
	assert.Empty(t, collect(node), "no custom base")
	assert.Equal(t, []string{"cms.Node"}, collect(article))
	assert.Equal(t, []string{"cms.Article", "cms.Node"}, collect(news))
	assert.Empty(t, collect(typedesc.Object))
	assert.Empty(t, collect(typedesc.SequenceOf(typedesc.Int)), "interfaces have no base")
	assert.Empty(t, collect(nil))

	assert.Equal(t, []string{"cms.Page[cms.Article]"}, collect(articlePage))

	listDerived := typedesc.New(typedesc.Spec{Package: "cms", Name: "Feed", Base: typedesc.ListOf(news)})
	assert.Equal(t, []string{"List[cms.NewsArticle]"}, collect(listDerived))
}

func TestAncestors_StopsEarly(t *testing.T) {
	var seen []typedesc.Type
	for a := range Ancestors(news) {
		seen = append(seen, a)
		break
	}

	require.Len(t, seen, 1)
	assert.Equal(t, article.ID(), seen[0].ID())
}

func TestSequenceElementType(t *testing.T) {
	elem, ok := SequenceElementType(typedesc.ListOf(article))
	require.True(t, ok)
	assert.Equal(t, article.ID(), elem.ID())

	elem, ok = SequenceElementType(typedesc.SequenceOf(typedesc.Bool))
	require.True(t, ok, "interface type is included itself")
	assert.Equal(t, typedesc.Bool.ID(), elem.ID())

	elem, ok = SequenceElementType(multiSeq)
	require.True(t, ok, "first match wins")
	assert.Equal(t, typedesc.Int.ID(), elem.ID())

	elem, ok = SequenceElementType(typedesc.DictionaryOf(typedesc.Text, typedesc.Int))
	require.True(t, ok)
	assert.Equal(t, "Pair[string,int]", elem.ID())

	_, ok = SequenceElementType(typedesc.Int)
	assert.False(t, ok)

	_, ok = SequenceElementType(nil)
	assert.False(t, ok)
}

func TestAssignableTo(t *testing.T) {
	assert.True(t, AssignableTo(news, news))
	assert.True(t, AssignableTo(news, node))
	assert.False(t, AssignableTo(node, news))
	assert.True(t, AssignableTo(typedesc.ListOf(typedesc.Int), typedesc.SequenceOf(typedesc.Int)))
	assert.False(t, AssignableTo(typedesc.ListOf(typedesc.Int), typedesc.SequenceOf(typedesc.Text)))
	assert.True(t, AssignableTo(typedesc.Int, typedesc.Any))
	assert.True(t, AssignableTo(article, typedesc.Object))
	assert.False(t, AssignableTo(nil, node))
}

func TestIsSequenceOf(t *testing.T) {
	assert.True(t, IsSequenceOf(typedesc.ListOf(news), node))
	assert.True(t, IsSequenceOf(typedesc.ListOf(news), news))
	assert.False(t, IsSequenceOf(typedesc.ListOf(node), news))
	assert.False(t, IsSequenceOf(typedesc.Int, typedesc.Int))
}

func TestClassifier_Pure(t *testing.T) {
	list := typedesc.ListOf(typedesc.Int)
	before := slices.Clone(list.Interfaces())

	for range 3 {
		IsKeyedSequence(list)
		IsCastableSequence(list)
		GenericImplementations(list, typedesc.Sequence)
	}

	assert.Equal(t, before, list.Interfaces())
}
