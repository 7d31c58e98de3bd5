package analyze

import (
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"typeshape/infer"
	"typeshape/internal/diagnostic"
	"typeshape/typedesc"
)

const contentPkg = "typeshape/fixtures/content"

func loadContent(t *testing.T) (*Analyzer, *typedesc.Table) {
	t.Helper()

	analyzer := NewAnalyzer()
	table, err := analyzer.LoadPackages(contentPkg)
	require.NoError(t, err)
	require.NotNil(t, table)

	return analyzer, table
}

func lookup(t *testing.T, table *typedesc.Table, name string) typedesc.Type {
	t.Helper()

	typ, ok := table.LookupName(contentPkg + "." + name)
	require.True(t, ok, "type %s should be registered", name)

	return typ
}

func ids(types []typedesc.Type) []string {
	out := make([]string, len(types))
	for i, t := range types {
		out[i] = t.ID()
	}

	return out
}

func TestAnalyzer_LoadPackages(t *testing.T) {
	analyzer, table := loadContent(t)

	for _, name := range []string{
		"Node", "Article", "NewsArticle", "Renderer", "Document", "Catalog",
		"ArticlePage", "Feed", "Tags", "Properties", "Slug", "Tagged", "Hidden", "Tree", "Stream",
	} {
		_, ok := table.Lookup(contentPkg + "." + name)
		assert.True(t, ok, name)
	}

	page, ok := table.Lookup(contentPkg + ".Page[]")
	require.True(t, ok)
	assert.True(t, page.IsGenericDefinition())

	index, ok := table.Lookup(contentPkg + ".Index[,]")
	require.True(t, ok)
	assert.True(t, index.IsGenericDefinition())

	pkgs := analyzer.Packages()
	require.Len(t, pkgs, 1)
	assert.Equal(t, contentPkg, pkgs[0].Path)
	assert.Equal(t, "content", pkgs[0].Name)
	assert.Contains(t, pkgs[0].Types, contentPkg+".Article")
}

func TestAnalyzer_EmbeddedBaseChain(t *testing.T) {
	_, table := loadContent(t)
	news := lookup(t, table, "NewsArticle")

	var chain []string
	for a := range infer.Ancestors(news) {
		chain = append(chain, a.ID())
	}

	assert.Equal(t, []string{contentPkg + ".Article", contentPkg + ".Node"}, chain)
	assert.True(t, typedesc.IsRoot(lookup(t, table, "Node").Base()))
}

func TestAnalyzer_ImplementedInterfaces(t *testing.T) {
	_, table := loadContent(t)

	article := lookup(t, table, "Article")
	assert.Equal(t, []string{contentPkg + ".Document", contentPkg + ".Renderer"}, ids(article.Interfaces()))

	news := lookup(t, table, "NewsArticle")
	assert.True(t, infer.AssignableTo(news, lookup(t, table, "Renderer")))

	doc := lookup(t, table, "Document")
	assert.Equal(t, typedesc.KindInterface, doc.Kind())
	assert.Nil(t, doc.Base())
	assert.Equal(t, []string{contentPkg + ".Renderer"}, ids(doc.Interfaces()))

	assert.Empty(t, lookup(t, table, "Node").Interfaces())
}

func TestAnalyzer_IteratorShapes(t *testing.T) {
	_, table := loadContent(t)
	article := contentPkg + ".Article"

	catalog := lookup(t, table, "Catalog")
	assert.Equal(t, []string{"Collection[" + article + "]", "Sequence[" + article + "]"}, ids(catalog.Interfaces()))
	assert.True(t, infer.IsCollection(catalog))

	ap := lookup(t, table, "ArticlePage")
	assert.Equal(t, contentPkg+".Page["+article+"]", ap.Base().ID())
	assert.Contains(t, ids(ap.Interfaces()), contentPkg+".Catalog")

	elem, ok := infer.ElementType(ap, lookup(t, table, "Page"))
	require.True(t, ok)
	assert.Equal(t, article, elem.ID())

	elem, ok = infer.SequenceElementType(ap)
	require.True(t, ok)
	assert.Equal(t, article, elem.ID())
}

func TestAnalyzer_NamedNonStructTypes(t *testing.T) {
	_, table := loadContent(t)

	tags := lookup(t, table, "Tags")
	assert.Equal(t, "List[string]", tags.Base().ID())
	assert.True(t, infer.IsCollection(tags))
	assert.False(t, infer.IsCastableSequence(tags), "the derived list has no generic arguments of its own")

	feed := lookup(t, table, "Feed")
	elem, ok := infer.SequenceElementType(feed)
	require.True(t, ok)
	assert.Equal(t, "*"+contentPkg+".NewsArticle", elem.ID())

	props := lookup(t, table, "Properties")
	assert.Equal(t, "Dictionary[string,any]", props.Base().ID())
	assert.True(t, infer.IsKeyedSequence(props))

	slug := lookup(t, table, "Slug")
	assert.Same(t, typedesc.Text, slug.Base())
	assert.True(t, infer.IsSequence(slug))
}

func TestAnalyzer_GenericInstantiation(t *testing.T) {
	_, table := loadContent(t)
	article := lookup(t, table, "Article")

	page, err := typedesc.Instantiate(lookup(t, table, "Page"), article)
	require.NoError(t, err)
	assert.Equal(t, contentPkg+".Page["+article.ID()+"]", page.ID())
	assert.True(t, infer.IsCastableSequence(page))

	ctors := page.Constructors()
	require.Len(t, ctors, 1)
	assert.Equal(t, "NewPage", ctors[0].Name)
	require.Len(t, ctors[0].Params, 1)
	assert.Equal(t, "items", ctors[0].Params[0].Name)
	assert.Equal(t, "List["+article.ID()+"]", ctors[0].Params[0].Type.ID())

	index, err := table.Resolve("content.Index[string, int]", nil)
	require.NoError(t, err)
	assert.Equal(t, "Mapping[string,int]", index.Interfaces()[0].ID())
	assert.True(t, infer.IsKeyedSequence(index))

	key, ok := infer.ElementType(index, typedesc.Mapping)
	require.True(t, ok)
	assert.Same(t, typedesc.Text, key)
}

func TestAnalyzer_ConcurrentSelfReferencingInstances(t *testing.T) {
	_, table := loadContent(t)
	shelf := contentPkg + ".Shelf[int]"

	errs := make([]error, 16)
	got := make([]typedesc.Type, len(errs))

	var wg sync.WaitGroup
	for i := range got {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got[i], errs[i] = table.Resolve("content.Shelf[int]", nil)
		}()
	}
	wg.Wait()

	for i, typ := range got {
		require.NoError(t, errs[i])
		assert.Equal(t, shelf, typ.ID())
		assert.Equal(t, contentPkg+".Page[int]", typ.Base().ID())
		assert.True(t, infer.IsCollection(typ))

		ctors := typ.Constructors()
		require.Len(t, ctors, 1)
		require.Len(t, ctors[0].Params, 2)
		assert.Equal(t, "*"+shelf, ctors[0].Params[0].Type.ID())
		assert.Equal(t, "List[int]", ctors[0].Params[1].Type.ID())
	}
}

func TestAnalyzer_Constructors(t *testing.T) {
	_, table := loadContent(t)

	node := lookup(t, table, "Node")
	ctors := node.Constructors()
	require.Len(t, ctors, 1)
	assert.Equal(t, []typedesc.Parameter{
		{Name: "id", Type: typedesc.Int64, Position: 0},
		{Name: "name", Type: typedesc.Text, Position: 1},
	}, ctors[0].Params)

	article := lookup(t, table, "Article")
	names := make([]string, 0)
	for _, c := range article.Constructors() {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"NewArticle", "NewArticleWithBody"}, names, "source order")

	params, ok := infer.NewConstructorCache().Parameters(article)
	require.True(t, ok)
	assert.Equal(t, "NewArticle", params.Constructor)

	tree := lookup(t, table, "Tree")
	require.Len(t, tree.Constructors(), 1)
	assert.Equal(t, "*"+contentPkg+".Tree", tree.Constructors()[0].Params[0].Type.ID())

	hidden := lookup(t, table, "Hidden")
	require.Len(t, hidden.Constructors(), 1)
	assert.False(t, hidden.Constructors()[0].Exported)
	_, ok = infer.DefaultConstructor(hidden)
	assert.False(t, ok)

	assert.Empty(t, lookup(t, table, "NewsArticle").Constructors())

	tags := lookup(t, table, "Tags")
	require.Len(t, tags.Constructors(), 1)
	assert.Equal(t, "List[string]", tags.Constructors()[0].Params[0].Type.ID(), "variadic parameters are slices")
}

func TestAnalyzer_Diagnostics(t *testing.T) {
	analyzer, table := loadContent(t)
	diags := analyzer.Diagnostics()

	ties := diags.ByCode(diagnostic.CodeConstructorTie)
	require.Len(t, ties, 1)
	assert.Equal(t, contentPkg+".Tagged", ties[0].Type)
	assert.Contains(t, ties[0].Message, "NewTaggedFromSlug is the default")
	assert.NotEmpty(t, ties[0].Source)

	ctor, ok := infer.DefaultConstructor(lookup(t, table, "Tagged"))
	require.True(t, ok)
	assert.Equal(t, "NewTaggedFromSlug", ctor.Name)

	unsupported := diags.ByCode(diagnostic.CodeUnsupportedType)
	require.NotEmpty(t, unsupported)
	assert.True(t, slices.ContainsFunc(unsupported, func(d diagnostic.Diagnostic) bool {
		return d.Type == "chan *"+contentPkg+".Article"
	}))
	assert.False(t, diags.HasErrors())
}

func TestAnalyzer_TypeOf(t *testing.T) {
	analyzer, _ := loadContent(t)

	typ, err := analyzer.TypeOf(contentPkg, "Article")
	require.NoError(t, err)
	assert.Equal(t, contentPkg+".Article", typ.ID())

	page, err := analyzer.TypeOf(contentPkg, "Page")
	require.NoError(t, err)
	assert.True(t, page.IsGenericDefinition())

	_, err = analyzer.TypeOf(contentPkg, "Missing")
	assert.Error(t, err)
}

func TestAnalyzer_ReloadKeepsFirstRegistration(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	analyzer := NewAnalyzer(WithLogger(zap.New(core)), WithTable(typedesc.NewTable()))

	_, err := analyzer.LoadPackages(contentPkg)
	require.NoError(t, err)

	first := lookup(t, analyzer.Table(), "Article")

	_, err = analyzer.LoadPackages(contentPkg)
	require.NoError(t, err)

	assert.Same(t, first, lookup(t, analyzer.Table(), "Article"))
	assert.NotZero(t, logs.FilterMessage("type already registered").Len())
}

func TestAnalyzer_LoadErrors(t *testing.T) {
	analyzer := NewAnalyzer()

	_, err := analyzer.LoadPackages("typeshape/fixtures/missing")
	assert.Error(t, err)
}

func TestConstructorName(t *testing.T) {
	tests := []struct {
		fn, typ string
		want    bool
	}{
		{"NewNode", "Node", true},
		{"newNode", "Node", true},
		{"NewNodeFromID", "Node", true},
		{"NewNodes", "Node", false},
		{"MakeNode", "Node", false},
		{"NewNod", "Node", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, constructorName(tt.fn, tt.typ), tt.fn)
	}
}
