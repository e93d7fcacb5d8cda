package ahocorasick

import (
	"errors"
	"sort"
)

// ErrNilPatterns is returned when a nil pattern collection is built.
var ErrNilPatterns = errors.New("nil pattern collection")

// Builder constructs Aho-Corasick automata from patterns.
type Builder struct{}

// NewBuilder creates a new Builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// Build constructs an automaton from words. The build process has two phases:
//  1. Trie construction: insert every distinct non-empty pattern
//  2. Failure link computation: BFS from the root
//
// The result depends only on the set of patterns, not on their order.
// Nothing is returned until both phases have finished.
func (b *Builder) Build(words []string) (*Automaton, error) {
	if words == nil {
		return nil, ErrNilPatterns
	}

	set := NewPatternSet(words)
	ac := &Automaton{
		nodes:    []node{newNode(0)},
		patterns: set.Len(),
	}

	// Phase 1: Build trie
	b.buildTrie(ac, set)

	// Phase 2: Compute failure links using BFS
	b.computeFailureLinks(ac)

	return ac, nil
}

// buildTrie inserts every pattern, creating nodes as needed. Depth grows by
// one per rune so a terminal node's depth equals its pattern's rune length.
func (b *Builder) buildTrie(ac *Automaton, set *PatternSet) {
	for _, word := range set.Words() {
		current := rootNode
		depth := 0
		for _, r := range word {
			depth++
			next, exists := ac.nodes[current].children[r]
			if !exists {
				next = int32(len(ac.nodes))
				ac.nodes = append(ac.nodes, newNode(depth))
				ac.nodes[current].children[r] = next
			}
			current = next
		}
		ac.nodes[current].terminal = true
	}
}

// computeFailureLinks assigns every node the index of the node spelling the
// longest proper suffix of its path that is also a trie path. Nodes are
// processed in strict breadth order so a parent's link is final before its
// children are visited. Siblings are visited in rune order to keep the
// queue, and therefore the arena walk, deterministic.
//
// The output link (nearest terminal on the failure chain) is filled in the
// same pass; it is what lets the scan report a short pattern that ends
// inside a longer partial match.
func (b *Builder) computeFailureLinks(ac *Automaton) {
	queue := make([]int32, 0, len(ac.nodes))

	// Depth-1 nodes fail to the root.
	for _, r := range sortedRunes(ac.nodes[rootNode].children) {
		child := ac.nodes[rootNode].children[r]
		ac.nodes[child].failure = rootNode
		queue = append(queue, child)
	}

	for head := 0; head < len(queue); head++ {
		parent := queue[head]

		for _, r := range sortedRunes(ac.nodes[parent].children) {
			child := ac.nodes[parent].children[r]
			queue = append(queue, child)

			fail := ac.nodes[parent].failure
			for fail != noNode {
				if _, exists := ac.nodes[fail].children[r]; exists {
					break
				}
				fail = ac.nodes[fail].failure
			}

			if fail == noNode {
				ac.nodes[child].failure = rootNode
			} else {
				ac.nodes[child].failure = ac.nodes[fail].children[r]
			}

			target := ac.nodes[child].failure
			if ac.nodes[target].terminal {
				ac.nodes[child].output = target
			} else {
				ac.nodes[child].output = ac.nodes[target].output
			}
		}
	}
}

func sortedRunes(children map[rune]int32) []rune {
	keys := make([]rune, 0, len(children))
	for r := range children {
		keys = append(keys, r)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}
