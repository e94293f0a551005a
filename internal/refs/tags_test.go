package refs

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestAllTags_NamespacedAndTopLevel(t *testing.T) {
	root := NewCollection("")
	declare(t, root, nil, "a/b/c", "src/x.ts", 3)

	ns := root.NamespacedTags()
	require.Equal(t, []Tag{{Anchor: "a/b/c", Path: "src/x.ts", LinkStub: "c", Collection: "a/b"}}, ns)

	top := root.TopLevelTags()
	require.Equal(t, []Tag{{Anchor: "c", Path: "src/x.ts", LinkStub: "c", Collection: "a/b"}}, top)
	require.Equal(t, "a/b/c", top[0].Qualified())
}

func TestAllTags_RootAnchorsHaveNoPrefix(t *testing.T) {
	root := NewCollection("")
	declare(t, root, nil, "readme", "README.md", 0)

	require.Equal(t, "readme", root.NamespacedTags()[0].Anchor)
	require.Equal(t, "", root.NamespacedTags()[0].Collection)
}

func TestAllTags_ParentPathPrefixesNamespacedKeys(t *testing.T) {
	c := NewCollection("b")
	c.AddAnchor(Anchor{ID: "c", File: "f", Line: 0}, nil)
	require.Equal(t, "a/b/c", c.AllTags("a", false)[0].Anchor)
	require.Equal(t, "c", c.AllTags("a", true)[0].Anchor)
}

func TestAllTags_DepthFirstAnchorsBeforeSubcollections(t *testing.T) {
	root := NewCollection("")
	declare(t, root, nil, "a/x", "f", 0)
	declare(t, root, nil, "root1", "f", 1)
	declare(t, root, nil, "a/b/y", "f", 2)
	declare(t, root, nil, "a/z", "f", 3)
	declare(t, root, nil, "c/w", "f", 4)

	var keys []string
	for _, tag := range root.NamespacedTags() {
		keys = append(keys, tag.Anchor)
	}
	require.Equal(t, []string{"root1", "a/x", "a/z", "a/b/y", "c/w"}, keys)
}

func TestAllTags_OneEntryPerDistinctPath(t *testing.T) {
	paths := []string{"p", "q/r", "q/s/t", "u/v/w/x", "q/s/y"}
	root := NewCollection("")
	for i, p := range paths {
		declare(t, root, nil, p, fmt.Sprintf("file%d.ts", i), i)
	}

	ns := root.NamespacedTags()
	require.Len(t, ns, len(paths))
	byKey := map[string]Tag{}
	for _, tag := range ns {
		byKey[tag.Anchor] = tag
	}
	for i, p := range paths {
		tag, ok := byKey[p]
		require.True(t, ok, p)
		require.Equal(t, fmt.Sprintf("file%d.ts", i), tag.Path)
	}
	require.Len(t, root.TopLevelTags(), len(paths))
}

func TestTagIndex_FirstMatchWins(t *testing.T) {
	idx := NewTagIndex([]Tag{
		{Anchor: "c", Path: "first.ts", LinkStub: "c"},
		{Anchor: "c", Path: "second.ts", LinkStub: "c"},
	})
	tag, ok := idx.Lookup("c")
	require.True(t, ok)
	require.Equal(t, "first.ts", tag.Path)
	require.Equal(t, 1, idx.Len())

	_, ok = idx.Lookup("missing")
	require.False(t, ok)

	var nilIdx *TagIndex
	_, ok = nilIdx.Lookup("c")
	require.False(t, ok)
}

func TestTopLevelView_MultiSegmentKeysDoNotResolve(t *testing.T) {
	root := NewCollection("")
	declare(t, root, nil, "a/b/c", "f", 0)
	idx := NewTagIndex(root.TopLevelTags())

	_, ok := idx.Lookup("a/b/c")
	require.False(t, ok)
	_, ok = idx.Lookup("c")
	require.True(t, ok)
}
