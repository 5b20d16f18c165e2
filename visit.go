package symbolic

import (
	"encoding/binary"
	"hash/fnv"
)

// Visitor is an analysis over the closed set of node types. Adding a node
// type adds a method here, so every analyzer must handle it to compile.
type Visitor[R any] interface {
	VisitNum(*Num) R
	VisitBool(*Bool) R
	VisitVar(*Var) R
	VisitNeg(*Neg) R
	VisitBinary(*Binary) R
	VisitCall(*Call) R
	VisitUserCall(*UserCall) R
	VisitAssign(*Assign) R
}

// Visit calls the method of v for the concrete type of n.
func Visit[R any](n Node, v Visitor[R]) R {
	switch n := n.(type) {
	case *Num:
		return v.VisitNum(n)
	case *Bool:
		return v.VisitBool(n)
	case *Var:
		return v.VisitVar(n)
	case *Neg:
		return v.VisitNeg(n)
	case *Binary:
		return v.VisitBinary(n)
	case *Call:
		return v.VisitCall(n)
	case *UserCall:
		return v.VisitUserCall(n)
	case *Assign:
		return v.VisitAssign(n)
	default:
		panic("symbolic: unknown node type")
	}
}

// Equal reports whether two trees are structurally equal. Numbers compare by
// value, so 1.50 and 1.5 are equal.
func Equal(a, b Node) bool {
	if a == b {
		return true
	}
	if a == nil || b == nil || a.Kind() != b.Kind() {
		return false
	}
	switch a := a.(type) {
	case *Num:
		return a.r.Cmp(&b.(*Num).r) == 0
	case *Bool:
		return a.Val == b.(*Bool).Val
	case *Var:
		return a.Name == b.(*Var).Name
	case *Call:
		return a.Name == b.(*Call).Name && equalAll(a.Args, b.(*Call).Args)
	case *UserCall:
		return a.Name == b.(*UserCall).Name && equalAll(a.Args, b.(*UserCall).Args)
	}
	return equalAll(a.Children(), b.Children())
}

func equalAll(a, b []Node) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !Equal(a[i], b[i]) {
			return false
		}
	}
	return true
}

// Hash computes a structural hash of a tree. Equal trees have equal hashes.
func Hash(n Node) uint64 {
	return Visit[uint64](n, hasher{})
}

type hasher struct{}

func mix(kind Kind, s string, children ...uint64) uint64 {
	h := fnv.New64a()
	var b [8]byte
	h.Write([]byte{byte(kind)})
	h.Write([]byte(s))
	for _, c := range children {
		binary.LittleEndian.PutUint64(b[:], c)
		h.Write(b[:])
	}
	return h.Sum64()
}

func (hasher) hashAll(nodes []Node) []uint64 {
	r := make([]uint64, len(nodes))
	for i, n := range nodes {
		r[i] = Hash(n)
	}
	return r
}

func (h hasher) VisitNum(n *Num) uint64 {
	// RatString is canonical, unlike the source text.
	return mix(KindNum, n.r.RatString())
}

func (h hasher) VisitBool(n *Bool) uint64 {
	if n.Val {
		return mix(KindBool, "true")
	}
	return mix(KindBool, "false")
}

func (h hasher) VisitVar(n *Var) uint64 {
	return mix(KindVar, n.Name)
}

func (h hasher) VisitNeg(n *Neg) uint64 {
	return mix(KindNeg, "", Hash(n.X))
}

func (h hasher) VisitBinary(n *Binary) uint64 {
	return mix(n.Op, "", Hash(n.Left), Hash(n.Right))
}

func (h hasher) VisitCall(n *Call) uint64 {
	return mix(KindCall, n.Name, h.hashAll(n.Args)...)
}

func (h hasher) VisitUserCall(n *UserCall) uint64 {
	return mix(KindUserCall, n.Name, h.hashAll(n.Args)...)
}

func (h hasher) VisitAssign(n *Assign) uint64 {
	return mix(KindAssign, "", Hash(n.Target), Hash(n.Value))
}

// Walk calls f for n and each of its descendants in depth-first order. If f
// returns false, the children of that node are skipped.
func Walk(n Node, f func(Node) bool) {
	if !f(n) {
		return
	}
	for _, c := range n.Children() {
		Walk(c, f)
	}
}

// Size returns the number of nodes in a tree.
func Size(n Node) int {
	k := 0
	Walk(n, func(Node) bool {
		k++
		return true
	})
	return k
}
