package spatialindex

import (
	"sort"

	"github.com/udisondev/geomatch/internal/geom"
)

// DefaultBPlusOrder is the default branching factor (maximum keys per
// node) for a BPlusTree.
const DefaultBPlusOrder = 16

type bplusEntry struct {
	key    float64
	values []geom.Region
}

type bplusNode struct {
	leaf     bool
	keys     []float64
	children []*bplusNode // internal nodes only
	entries  []bplusEntry // leaf nodes only
	next     *bplusNode   // leaf-to-leaf link for range scans
	parent   *bplusNode
}

// BPlusTree is an ordered key to multi-value index: each key may map to
// several regions (duplicate keys accumulate into the same leaf entry's
// value list). Leaves are linked for sequential range scans. Underflow on
// delete is resolved by borrowing from the left sibling, then the right,
// then merging; when a merge leaves the root with one child, that child
// becomes the root.
type BPlusTree struct {
	root  *bplusNode
	order int
	count int
}

// NewBPlusTree builds an empty tree with the given order (max keys per
// node). order <= 1 selects DefaultBPlusOrder.
func NewBPlusTree(order int) *BPlusTree {
	if order <= 1 {
		order = DefaultBPlusOrder
	}
	return &BPlusTree{root: &bplusNode{leaf: true}, order: order}
}

func (t *BPlusTree) IsEmpty() bool { return t.count == 0 }

// keyOf extracts a BPlusTree key from a region: its centre's x-ordinate,
// ties on the x-axis are handled by the multi-value leaf entry.
func keyOf(r geom.Region) float64 {
	return regionCentre(r).X
}

func (t *BPlusTree) Insert(r geom.Region) error {
	key := keyOf(r)
	leaf := t.findLeaf(key)
	t.insertIntoLeaf(leaf, key, r)
	t.count++
	if len(leaf.keys) > t.order {
		t.splitLeaf(leaf)
	}
	return nil
}

func (t *BPlusTree) findLeaf(key float64) *bplusNode {
	n := t.root
	for !n.leaf {
		i := sort.SearchFloat64s(n.keys, key)
		if i < len(n.keys) && n.keys[i] == key {
			i++
		}
		n = n.children[i]
	}
	return n
}

func (t *BPlusTree) insertIntoLeaf(n *bplusNode, key float64, r geom.Region) {
	i := sort.SearchFloat64s(n.keys, key)
	if i < len(n.keys) && n.keys[i] == key {
		n.entries[i].values = append(n.entries[i].values, r)
		return
	}
	n.keys = append(n.keys, 0)
	copy(n.keys[i+1:], n.keys[i:])
	n.keys[i] = key

	n.entries = append(n.entries, bplusEntry{})
	copy(n.entries[i+1:], n.entries[i:])
	n.entries[i] = bplusEntry{key: key, values: []geom.Region{r}}
}

func (t *BPlusTree) splitLeaf(n *bplusNode) {
	mid := len(n.keys) / 2
	right := &bplusNode{leaf: true, parent: n.parent, next: n.next}
	right.keys = append(right.keys, n.keys[mid:]...)
	right.entries = append(right.entries, n.entries[mid:]...)
	n.keys = n.keys[:mid]
	n.entries = n.entries[:mid]
	n.next = right

	t.insertIntoParent(n, right.keys[0], right)
}

func (t *BPlusTree) insertIntoParent(left *bplusNode, sepKey float64, right *bplusNode) {
	if left.parent == nil {
		newRoot := &bplusNode{leaf: false, keys: []float64{sepKey}, children: []*bplusNode{left, right}}
		left.parent = newRoot
		right.parent = newRoot
		t.root = newRoot
		return
	}
	parent := left.parent
	i := sort.SearchFloat64s(parent.keys, sepKey)
	parent.keys = append(parent.keys, 0)
	copy(parent.keys[i+1:], parent.keys[i:])
	parent.keys[i] = sepKey

	parent.children = append(parent.children, nil)
	copy(parent.children[i+2:], parent.children[i+1:])
	parent.children[i+1] = right
	right.parent = parent

	if len(parent.keys) > t.order {
		t.splitInternal(parent)
	}
}

func (t *BPlusTree) splitInternal(n *bplusNode) {
	mid := len(n.keys) / 2
	sepKey := n.keys[mid]

	right := &bplusNode{leaf: false, parent: n.parent}
	right.keys = append(right.keys, n.keys[mid+1:]...)
	right.children = append(right.children, n.children[mid+1:]...)
	for _, c := range right.children {
		c.parent = right
	}

	n.keys = n.keys[:mid]
	n.children = n.children[:mid+1]

	t.insertIntoParent(n, sepKey, right)
}

// Delete removes one occurrence of r (matched by its key and region
// equality) from the tree.
func (t *BPlusTree) Delete(r geom.Region) bool {
	key := keyOf(r)
	leaf := t.findLeaf(key)
	i := sort.SearchFloat64s(leaf.keys, key)
	if i >= len(leaf.keys) || leaf.keys[i] != key {
		return false
	}
	values := leaf.entries[i].values
	for j, v := range values {
		if v == r {
			leaf.entries[i].values = append(values[:j], values[j+1:]...)
			t.count--
			if len(leaf.entries[i].values) == 0 {
				t.removeKeyFromLeaf(leaf, i)
			}
			return true
		}
	}
	return false
}

func (t *BPlusTree) removeKeyFromLeaf(n *bplusNode, i int) {
	n.keys = append(n.keys[:i], n.keys[i+1:]...)
	n.entries = append(n.entries[:i], n.entries[i+1:]...)
	if n == t.root || len(n.keys) >= minKeys(t.order) {
		return
	}
	t.rebalanceLeaf(n)
}

func minKeys(order int) int {
	m := order / 2
	if m < 1 {
		return 1
	}
	return m
}

// rebalanceLeaf resolves underflow by borrowing a key from the left
// sibling, then the right, then merging with a sibling; a merge may
// propagate underflow to the parent, handled recursively.
func (t *BPlusTree) rebalanceLeaf(n *bplusNode) {
	parent := n.parent
	idx := childIndex(parent, n)

	if idx > 0 {
		left := parent.children[idx-1]
		if len(left.keys) > minKeys(t.order) {
			n.keys = append([]float64{left.keys[len(left.keys)-1]}, n.keys...)
			n.entries = append([]bplusEntry{left.entries[len(left.entries)-1]}, n.entries...)
			left.keys = left.keys[:len(left.keys)-1]
			left.entries = left.entries[:len(left.entries)-1]
			parent.keys[idx-1] = n.keys[0]
			return
		}
	}
	if idx < len(parent.children)-1 {
		right := parent.children[idx+1]
		if len(right.keys) > minKeys(t.order) {
			n.keys = append(n.keys, right.keys[0])
			n.entries = append(n.entries, right.entries[0])
			right.keys = right.keys[1:]
			right.entries = right.entries[1:]
			parent.keys[idx] = right.keys[0]
			return
		}
	}

	if idx > 0 {
		left := parent.children[idx-1]
		left.keys = append(left.keys, n.keys...)
		left.entries = append(left.entries, n.entries...)
		left.next = n.next
		t.removeChild(parent, idx)
	} else {
		right := parent.children[idx+1]
		n.keys = append(n.keys, right.keys...)
		n.entries = append(n.entries, right.entries...)
		n.next = right.next
		t.removeChild(parent, idx+1)
	}
}

func childIndex(parent *bplusNode, n *bplusNode) int {
	for i, c := range parent.children {
		if c == n {
			return i
		}
	}
	return -1
}

func (t *BPlusTree) removeChild(parent *bplusNode, childIdx int) {
	sepIdx := childIdx - 1
	if sepIdx < 0 {
		sepIdx = 0
	}
	if sepIdx < len(parent.keys) {
		parent.keys = append(parent.keys[:sepIdx], parent.keys[sepIdx+1:]...)
	}
	parent.children = append(parent.children[:childIdx], parent.children[childIdx+1:]...)

	if parent == t.root {
		if len(parent.children) == 1 {
			t.root = parent.children[0]
			t.root.parent = nil
		}
		return
	}
	if len(parent.keys) < minKeys(t.order) {
		t.rebalanceInternal(parent)
	}
}

func (t *BPlusTree) rebalanceInternal(n *bplusNode) {
	parent := n.parent
	idx := childIndex(parent, n)

	if idx > 0 {
		left := parent.children[idx-1]
		if len(left.keys) > minKeys(t.order) {
			n.keys = append([]float64{parent.keys[idx-1]}, n.keys...)
			parent.keys[idx-1] = left.keys[len(left.keys)-1]
			moved := left.children[len(left.children)-1]
			moved.parent = n
			n.children = append([]*bplusNode{moved}, n.children...)
			left.keys = left.keys[:len(left.keys)-1]
			left.children = left.children[:len(left.children)-1]
			return
		}
	}
	if idx < len(parent.children)-1 {
		right := parent.children[idx+1]
		if len(right.keys) > minKeys(t.order) {
			n.keys = append(n.keys, parent.keys[idx])
			parent.keys[idx] = right.keys[0]
			moved := right.children[0]
			moved.parent = n
			n.children = append(n.children, moved)
			right.keys = right.keys[1:]
			right.children = right.children[1:]
			return
		}
	}

	if idx > 0 {
		left := parent.children[idx-1]
		left.keys = append(left.keys, parent.keys[idx-1])
		left.keys = append(left.keys, n.keys...)
		for _, c := range n.children {
			c.parent = left
		}
		left.children = append(left.children, n.children...)
		t.removeChild(parent, idx)
	} else {
		right := parent.children[idx+1]
		n.keys = append(n.keys, parent.keys[idx])
		n.keys = append(n.keys, right.keys...)
		for _, c := range right.children {
			c.parent = n
		}
		n.children = append(n.children, right.children...)
		t.removeChild(parent, idx+1)
	}
}

func (t *BPlusTree) Intersects(r geom.Region) bool {
	return len(t.rangeQuery(r)) > 0
}

func (t *BPlusTree) Contains(r geom.Region) bool {
	for _, cand := range t.rangeQuery(r) {
		if cand.Contains(r) {
			return true
		}
	}
	return false
}

func (t *BPlusTree) Query(r geom.Region) []geom.Region {
	return t.rangeQuery(r)
}

// rangeQuery walks every linked leaf from the leftmost one, collecting each
// region that intersects r. Keys are region centres, so a wide region can
// intersect r while its key lies outside [r.X, r.MaxX()]; the scan is
// therefore not limited to that key range.
func (t *BPlusTree) rangeQuery(r geom.Region) []geom.Region {
	var out []geom.Region
	n := t.root
	for !n.leaf {
		n = n.children[0]
	}
	for ; n != nil; n = n.next {
		for i := range n.keys {
			for _, cand := range n.entries[i].values {
				if cand.Intersects(r) {
					out = append(out, cand)
				}
			}
		}
	}
	return out
}
