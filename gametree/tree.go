// Package gametree stores explored search states as an arena of nodes keyed by id.
//
// A Tree exclusively owns its nodes. Nodes refer to their parent and children by NodeID rather
// than by pointer, so a subtree can be dropped without dangling references and lookups of a
// missing node fail with ErrNodeNotFound instead of crashing the search.
package gametree

import (
	"sync"

	"connectx/game"
	"connectx/utils"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var (
	ErrNodeNotFound = errors.New("node not found")
	ErrRootExists   = errors.New("root node already exists")
	ErrNoRoot       = errors.New("tree has no root node")
	ErrNoChildren   = errors.New("node has no children")
)

type NodeID string

func NewNodeID() NodeID {
	return NodeID(uuid.NewString())
}

// Properties holds free-form annotations such as scores and playout statistics.
type Properties map[string]any

func (p Properties) clone() Properties {
	c := make(Properties, len(p))
	for k, v := range p {
		c[k] = v
	}
	return c
}

type Edge[A game.Action] struct {
	Action     A
	Properties Properties
}

func (e *Edge[A]) ID() string {
	return e.Action.ID()
}

type Node[S game.State, A game.Action, R game.Result] struct {
	ID         NodeID
	State      S
	Result     R
	Terminal   bool
	Parent     NodeID // Empty for the root
	ParentEdge *Edge[A]
	Properties Properties
	Children   []NodeID
}

type Option func(t *treeOptions)

type treeOptions struct {
	rng   utils.Rand
	newID func() NodeID
}

// WithRand sets the randomness used to break ties between equally scored children.
func WithRand(rng utils.Rand) Option {
	return func(o *treeOptions) {
		if rng != nil {
			o.rng = rng
		}
	}
}

// WithIDGenerator replaces the UUID node id generator.
func WithIDGenerator(newID func() NodeID) Option {
	return func(o *treeOptions) {
		if newID != nil {
			o.newID = newID
		}
	}
}

// Tree is safe for concurrent use. Node values returned by Node are snapshots.
type Tree[S game.State, A game.Action, R game.Result] struct {
	sync.RWMutex
	nodes map[NodeID]*Node[S, A, R]
	root  NodeID
	rng   utils.Rand
	rngMu sync.Mutex // rng may not be safe for concurrent use
	newID func() NodeID
}

func New[S game.State, A game.Action, R game.Result](options ...Option) *Tree[S, A, R] {
	o := &treeOptions{ // Default values
		rng:   utils.DefaultRand(),
		newID: NewNodeID,
	}
	for _, option := range options {
		option(o)
	}
	return &Tree[S, A, R]{
		nodes: make(map[NodeID]*Node[S, A, R]),
		rng:   o.rng,
		newID: o.newID,
	}
}

func (t *Tree[S, A, R]) AddRoot(state S, result R, terminal bool) (NodeID, error) {
	t.Lock()
	defer t.Unlock()

	if t.root != "" {
		return "", errors.Wrapf(ErrRootExists, "root %s", t.root)
	}
	id := t.newID()
	t.nodes[id] = &Node[S, A, R]{
		ID:         id,
		State:      state,
		Result:     result,
		Terminal:   terminal,
		Properties: Properties{},
	}
	t.root = id
	return id, nil
}

// Grow adds a child reached by action under parent and returns its id.
func (t *Tree[S, A, R]) Grow(parent NodeID, action A, state S, result R, terminal bool) (NodeID, error) {
	t.Lock()
	defer t.Unlock()

	p, ok := t.nodes[parent]
	if !ok {
		return "", errors.Wrapf(ErrNodeNotFound, "parent %s", parent)
	}
	id := t.newID()
	t.nodes[id] = &Node[S, A, R]{
		ID:         id,
		State:      state,
		Result:     result,
		Terminal:   terminal,
		Parent:     parent,
		ParentEdge: &Edge[A]{Action: action, Properties: Properties{}},
		Properties: Properties{},
	}
	p.Children = append(p.Children, id)
	return id, nil
}

// Remove drops the node and its whole subtree. Removing the root empties the tree.
func (t *Tree[S, A, R]) Remove(id NodeID) error {
	t.Lock()
	defer t.Unlock()

	n, ok := t.nodes[id]
	if !ok {
		return errors.Wrapf(ErrNodeNotFound, "node %s", id)
	}
	if p, ok := t.nodes[n.Parent]; ok {
		if i := utils.FindIndex(p.Children, id); i >= 0 {
			p.Children = append(p.Children[:i:i], p.Children[i+1:]...)
		}
	}
	t.removeSubtree(id)
	if id == t.root {
		t.root = ""
	}
	return nil
}

func (t *Tree[S, A, R]) removeSubtree(id NodeID) {
	n, ok := t.nodes[id]
	if !ok {
		return
	}
	for _, child := range n.Children {
		t.removeSubtree(child)
	}
	delete(t.nodes, id)
}

func (t *Tree[S, A, R]) Root() (NodeID, error) {
	t.RLock()
	defer t.RUnlock()

	if t.root == "" {
		return "", ErrNoRoot
	}
	return t.root, nil
}

func (t *Tree[S, A, R]) Len() int {
	t.RLock()
	defer t.RUnlock()

	return len(t.nodes)
}

// Node returns a copy of the node; its properties and children can be read without locking.
func (t *Tree[S, A, R]) Node(id NodeID) (Node[S, A, R], error) {
	t.RLock()
	defer t.RUnlock()

	n, ok := t.nodes[id]
	if !ok {
		return Node[S, A, R]{}, errors.Wrapf(ErrNodeNotFound, "node %s", id)
	}
	c := *n
	c.Properties = n.Properties.clone()
	c.Children = append([]NodeID(nil), n.Children...)
	if n.ParentEdge != nil {
		c.ParentEdge = &Edge[A]{Action: n.ParentEdge.Action, Properties: n.ParentEdge.Properties.clone()}
	}
	return c, nil
}

func (t *Tree[S, A, R]) Children(id NodeID) ([]NodeID, error) {
	t.RLock()
	defer t.RUnlock()

	n, ok := t.nodes[id]
	if !ok {
		return nil, errors.Wrapf(ErrNodeNotFound, "node %s", id)
	}
	return append([]NodeID(nil), n.Children...), nil
}

// Parent returns the parent id, or an empty id for the root.
func (t *Tree[S, A, R]) Parent(id NodeID) (NodeID, error) {
	t.RLock()
	defer t.RUnlock()

	n, ok := t.nodes[id]
	if !ok {
		return "", errors.Wrapf(ErrNodeNotFound, "node %s", id)
	}
	return n.Parent, nil
}

func (t *Tree[S, A, R]) StateResult(id NodeID) (S, R, bool, error) {
	t.RLock()
	defer t.RUnlock()

	n, ok := t.nodes[id]
	if !ok {
		var state S
		var result R
		return state, result, false, errors.Wrapf(ErrNodeNotFound, "node %s", id)
	}
	return n.State, n.Result, n.Terminal, nil
}

// Property returns the value stored under key, or nil when the key was never assigned.
func (t *Tree[S, A, R]) Property(id NodeID, key string) (any, error) {
	t.RLock()
	defer t.RUnlock()

	n, ok := t.nodes[id]
	if !ok {
		return nil, errors.Wrapf(ErrNodeNotFound, "node %s", id)
	}
	return n.Properties[key], nil
}

func (t *Tree[S, A, R]) AssignProperty(id NodeID, key string, value any) error {
	t.Lock()
	defer t.Unlock()

	n, ok := t.nodes[id]
	if !ok {
		return errors.Wrapf(ErrNodeNotFound, "node %s", id)
	}
	n.Properties[key] = value
	return nil
}

// AssignEdgeProperty annotates the edge leading into the node.
func (t *Tree[S, A, R]) AssignEdgeProperty(id NodeID, key string, value any) error {
	t.Lock()
	defer t.Unlock()

	n, ok := t.nodes[id]
	if !ok {
		return errors.Wrapf(ErrNodeNotFound, "node %s", id)
	}
	if n.ParentEdge == nil {
		return errors.Errorf("root node %s has no parent edge", id)
	}
	n.ParentEdge.Properties[key] = value
	return nil
}
