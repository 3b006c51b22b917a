// Package synt builds a regex syntax tree from a postfix token stream and
// computes the nullable/firstpos/lastpos/followpos attributes used by the
// direct DFA construction algorithm (Dragon Book algorithm 3.23).
package synt

import (
	"github.com/corvidlab/frontendforge/internal/fferrors"
	"github.com/corvidlab/frontendforge/internal/regex"
	"github.com/corvidlab/frontendforge/internal/util"
)

// Node is one node of a regex syntax tree.
type Node interface {
	Nullable() bool
	FirstPos() util.Set[int]
	LastPos() util.Set[int]
}

// Leaf is a single matchable position in the tree: either a literal
// character or the synthetic end marker. Pos is assigned in left-to-right
// order during tree construction and is the key used in the followpos map.
type Leaf struct {
	Pos       int
	IsEnd     bool
	Char      rune
	nullable  bool
	firstpos  util.Set[int]
	lastpos   util.Set[int]
}

func (n *Leaf) Nullable() bool          { return n.nullable }
func (n *Leaf) FirstPos() util.Set[int] { return n.firstpos }
func (n *Leaf) LastPos() util.Set[int]  { return n.lastpos }

// UnaryNode represents '*', '+', or '?' applied to Child.
type UnaryNode struct {
	Op       rune
	Child    Node
	nullable bool
	firstpos util.Set[int]
	lastpos  util.Set[int]
}

func (n *UnaryNode) Nullable() bool          { return n.nullable }
func (n *UnaryNode) FirstPos() util.Set[int] { return n.firstpos }
func (n *UnaryNode) LastPos() util.Set[int]  { return n.lastpos }

// BinaryNode represents '.' (concatenation) or '|' (alternation) applied
// to Left and Right.
type BinaryNode struct {
	Op       rune
	Left     Node
	Right    Node
	nullable bool
	firstpos util.Set[int]
	lastpos  util.Set[int]
}

func (n *BinaryNode) Nullable() bool          { return n.nullable }
func (n *BinaryNode) FirstPos() util.Set[int] { return n.firstpos }
func (n *BinaryNode) LastPos() util.Set[int]  { return n.lastpos }

// Tree is a built syntax tree along with the leaf lookup table and
// followpos relation computed over it.
type Tree struct {
	Root         Node
	LeafPositions map[int]*Leaf
	Followpos    map[int]util.Set[int]
	// EndPosition is the leaf position of the synthetic end marker, i.e.
	// the position whose presence in a DFA state marks it as accepting.
	EndPosition int
}

// BuildTree builds a syntax tree from a postfix token stream (as produced
// by regex.ToPostfix), assigning leaf positions left to right in postfix
// order of encounter (which, since each leaf is pushed exactly once as
// encountered, is the same as left-to-right order in the original
// pattern).
func BuildTree(postfix []regex.Token) (*Tree, error) {
	var stack util.Stack[Node]
	leaves := map[int]*Leaf{}
	nextPos := 1
	var endPos int

	for _, tok := range postfix {
		switch tok.Kind {
		case regex.KindChar, regex.KindEndMarker:
			leaf := &Leaf{
				Pos:      nextPos,
				IsEnd:    tok.Kind == regex.KindEndMarker,
				Char:     tok.Value,
				nullable: false,
				firstpos: util.SetOf([]int{nextPos}),
				lastpos:  util.SetOf([]int{nextPos}),
			}
			if leaf.IsEnd {
				endPos = nextPos
			}
			leaves[nextPos] = leaf
			nextPos++
			stack.Push(leaf)

		case regex.KindOperator:
			switch tok.Value {
			case '*', '+', '?':
				if stack.Empty() {
					return nil, fferrors.New("malformed postfix: unary operator with no operand", fferrors.ErrSyntax)
				}
				child := stack.Pop()
				n := &UnaryNode{Op: tok.Value, Child: child}
				switch tok.Value {
				case '*':
					n.nullable = true
				case '+':
					n.nullable = child.Nullable()
				case '?':
					n.nullable = true
				}
				n.firstpos = child.FirstPos().Copy()
				n.lastpos = child.LastPos().Copy()
				stack.Push(n)

			case '.', '|':
				if stack.Len() < 2 {
					return nil, fferrors.New("malformed postfix: binary operator with fewer than two operands", fferrors.ErrSyntax)
				}
				right := stack.Pop()
				left := stack.Pop()
				n := &BinaryNode{Op: tok.Value, Left: left, Right: right}
				if tok.Value == '|' {
					n.nullable = left.Nullable() || right.Nullable()
					n.firstpos = left.FirstPos().Union(right.FirstPos())
					n.lastpos = left.LastPos().Union(right.LastPos())
				} else { // '.'
					n.nullable = left.Nullable() && right.Nullable()
					if left.Nullable() {
						n.firstpos = left.FirstPos().Union(right.FirstPos())
					} else {
						n.firstpos = left.FirstPos().Copy()
					}
					if right.Nullable() {
						n.lastpos = left.LastPos().Union(right.LastPos())
					} else {
						n.lastpos = right.LastPos().Copy()
					}
				}
				stack.Push(n)

			default:
				return nil, fferrors.New("unknown postfix operator token", fferrors.ErrSyntax)
			}
		}
	}

	if stack.Len() != 1 {
		return nil, fferrors.New("malformed postfix: leftover operands after reduction", fferrors.ErrSyntax)
	}

	root := stack.Pop()
	tree := &Tree{
		Root:          root,
		LeafPositions: leaves,
		Followpos:     map[int]util.Set[int]{},
		EndPosition:   endPos,
	}
	for pos := range leaves {
		tree.Followpos[pos] = util.Set[int]{}
	}
	computeFollowpos(root, tree.Followpos)
	return tree, nil
}

// computeFollowpos walks the tree computing followpos per the Dragon Book
// rules: for a concatenation node, every position in lastpos(left) gets
// firstpos(right) added to its followpos; for '*'/'+', every position in
// lastpos(child) gets firstpos(child) added to its followpos (the
// self-loop rule).
func computeFollowpos(n Node, followpos map[int]util.Set[int]) {
	switch node := n.(type) {
	case *Leaf:
		// no followpos contribution from a leaf itself
	case *UnaryNode:
		computeFollowpos(node.Child, followpos)
		if node.Op == '*' || node.Op == '+' {
			for pos := range node.Child.LastPos() {
				followpos[pos].AddAll(node.Child.FirstPos())
			}
		}
	case *BinaryNode:
		computeFollowpos(node.Left, followpos)
		computeFollowpos(node.Right, followpos)
		if node.Op == '.' {
			for pos := range node.Left.LastPos() {
				followpos[pos].AddAll(node.Right.FirstPos())
			}
		}
	}
}
