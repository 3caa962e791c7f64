package notion

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

func testBlock(kind BlockKind, children ...Block) Block {
	base := BlockBase{ID: uuid.New(), HasChildren: len(children) > 0, Children: children}
	switch kind {
	case KindToggle:
		return &Toggle{BlockBase: base}
	case KindBulletedListItem:
		return &BulletedListItem{BlockBase: base}
	case KindDivider:
		return &Divider{BlockBase: base}
	default:
		return &Paragraph{BlockBase: base}
	}
}

func TestTree(t *testing.T) {
	grandchild := testBlock(KindParagraph)
	child := testBlock(KindBulletedListItem, grandchild)
	sibling := testBlock(KindBulletedListItem)
	toggle := testBlock(KindToggle, child, sibling)
	divider := testBlock(KindDivider)

	tree := NewTree([]Block{toggle, divider})

	if tree.Len() != 5 {
		t.Errorf("Len() = %d, want 5", tree.Len())
	}
	if roots := tree.Roots(); len(roots) != 2 || roots[0] != toggle || roots[1] != divider {
		t.Errorf("Unexpected roots %v", roots)
	}

	if b, ok := tree.Lookup(grandchild.Base().ID); !ok || b != grandchild {
		t.Error("Lookup did not find the grandchild")
	}
	if _, ok := tree.Lookup(uuid.New()); ok {
		t.Error("Lookup found an unknown id")
	}

	if p, ok := tree.Parent(grandchild.Base().ID); !ok || p != child {
		t.Errorf("Parent(grandchild) = %v, want the list item", p)
	}
	if _, ok := tree.Parent(toggle.Base().ID); ok {
		t.Error("Roots should have no parent inside the tree")
	}

	children := tree.Children(toggle.Base().ID)
	if len(children) != 2 || children[0] != child || children[1] != sibling {
		t.Errorf("Unexpected children %v", children)
	}
	if got := tree.Children(uuid.New()); got != nil {
		t.Errorf("Children(unknown) = %v, want nil", got)
	}

	if n := tree.Count(KindBulletedListItem); n != 2 {
		t.Errorf("Count(bulleted) = %d, want 2", n)
	}
}

func TestTreeWalk(t *testing.T) {
	leaf := testBlock(KindParagraph)
	toggle := testBlock(KindToggle, testBlock(KindBulletedListItem, leaf))
	tree := NewTree([]Block{toggle, testBlock(KindDivider)})

	type visit struct {
		Kind  BlockKind
		Depth int
	}
	var got []visit
	tree.Walk(func(b Block, depth int) bool {
		got = append(got, visit{b.Kind(), depth})
		return true
	})

	want := []visit{
		{KindToggle, 0},
		{KindBulletedListItem, 1},
		{KindParagraph, 2},
		{KindDivider, 0},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Walk order mismatch (-want +got):\n%s", diff)
	}

	visited := 0
	tree.Walk(func(b Block, depth int) bool {
		visited++
		return b != leaf
	})
	if visited != 3 {
		t.Errorf("Walk visited %d blocks after stopping, want 3", visited)
	}
}
