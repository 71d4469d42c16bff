// Package merkle implements sorted-pair keccak256 merkle trees as used by
// allowlists: leaves are hashed accounts and each parent hashes the smaller
// child first, so proofs carry no left/right flags.
package merkle

import (
	"bytes"
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"
)

// ErrEmptyTree is returned when a tree is built from no leaves.
var ErrEmptyTree = errors.New("merkle tree has no leaves")

// Leaf hashes an account into a leaf.
func Leaf(account common.Address) common.Hash {
	return crypto.Keccak256Hash(account.Bytes())
}

// Verify reports whether proof links leaf to root.
func Verify(proof []common.Hash, leaf, root common.Hash) bool {
	computed := leaf
	for _, sibling := range proof {
		computed = hashPair(computed, sibling)
	}
	return computed == root
}

func hashPair(a, b common.Hash) common.Hash {
	if bytes.Compare(a.Bytes(), b.Bytes()) > 0 {
		a, b = b, a
	}
	return crypto.Keccak256Hash(a.Bytes(), b.Bytes())
}

// Tree keeps every layer of a built tree so proofs can be produced.
type Tree struct {
	layers [][]common.Hash
	index  map[common.Hash]int
}

// Build constructs a tree over leaves in the given order. An odd node at the
// end of a layer is promoted unchanged.
func Build(leaves []common.Hash) (*Tree, error) {
	if len(leaves) == 0 {
		return nil, ErrEmptyTree
	}

	t := &Tree{index: make(map[common.Hash]int, len(leaves))}
	layer := make([]common.Hash, len(leaves))
	copy(layer, leaves)
	for i, leaf := range layer {
		if _, ok := t.index[leaf]; !ok {
			t.index[leaf] = i
		}
	}
	t.layers = append(t.layers, layer)

	for len(layer) > 1 {
		next := make([]common.Hash, 0, (len(layer)+1)/2)
		for i := 0; i < len(layer); i += 2 {
			if i+1 == len(layer) {
				next = append(next, layer[i])
				continue
			}
			next = append(next, hashPair(layer[i], layer[i+1]))
		}
		t.layers = append(t.layers, next)
		layer = next
	}
	return t, nil
}

// BuildAccounts builds a tree over the leaves of accounts.
func BuildAccounts(accounts []common.Address) (*Tree, error) {
	leaves := make([]common.Hash, len(accounts))
	for i, a := range accounts {
		leaves[i] = Leaf(a)
	}
	return Build(leaves)
}

// Root returns the tree root.
func (t *Tree) Root() common.Hash {
	return t.layers[len(t.layers)-1][0]
}

// Proof returns the sibling path of leaf, false when leaf is not in the tree.
func (t *Tree) Proof(leaf common.Hash) ([]common.Hash, bool) {
	pos, ok := t.index[leaf]
	if !ok {
		return nil, false
	}

	var proof []common.Hash
	for _, layer := range t.layers[:len(t.layers)-1] {
		sibling := pos ^ 1
		if sibling < len(layer) {
			proof = append(proof, layer[sibling])
		}
		pos /= 2
	}
	return proof, true
}
