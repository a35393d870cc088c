// Copyright (c) 2025 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package sortlist implements a storage backed doubly linked set over uint64
// keys. The list forms a cycle anchored at the sentinel key 0, so appending
// at the tail, popping the head and hinted sorted insertion are all O(1)
// record updates. Key 0 is reserved for the sentinel.
package sortlist

import (
	"github.com/vechain/auditmarket/store"
)

// Direction of traversal and insertion.
type Direction bool

const (
	// Forward walks towards the next pointers (head to tail).
	Forward Direction = true
	// Backward walks towards the prev pointers (tail to head).
	Backward Direction = false
)

type node struct {
	Prev uint64
	Next uint64
}

// List is a doubly linked set of uint64 keys.
// An entry is present when it has a non-zero neighbor, or when it is the sole
// element referenced by the sentinel.
type List struct {
	nodes *store.Mapping[store.Uint64Key, *node]
	count *store.Uint64
}

// New creates a list rooted at the named slot.
// Lists with distinct names within one context never collide.
func New(ctx *store.Context, name string) *List {
	return &List{
		nodes: store.NewMapping[store.Uint64Key, *node](ctx, name+".nodes"),
		count: store.NewUint64(ctx, name+".count"),
	}
}

// Exists returns whether the key is linked into the list.
func (l *List) Exists(key uint64) (bool, error) {
	if key == 0 {
		return false, nil
	}
	n, err := l.nodes.Get(store.Uint64Key(key))
	if err != nil {
		return false, err
	}
	if n.Prev != 0 || n.Next != 0 {
		return true, nil
	}
	// the sole element has zero neighbors, check the sentinel
	sentinel, err := l.nodes.Get(store.Uint64Key(0))
	if err != nil {
		return false, err
	}
	return sentinel.Next == key, nil
}

// NotEmpty returns whether the list holds at least one element.
func (l *List) NotEmpty() (bool, error) {
	sentinel, err := l.nodes.Get(store.Uint64Key(0))
	if err != nil {
		return false, err
	}
	return sentinel.Next != 0, nil
}

// Len returns the number of elements.
func (l *List) Len() (uint64, error) {
	return l.count.Get()
}

// Adjacent returns the neighbor of the key in the given direction.
// For the sentinel key 0 it returns the first (Forward) or last (Backward)
// element. The returned flag reports whether the key itself exists; a zero
// neighbor means the end of the list.
func (l *List) Adjacent(key uint64, dir Direction) (uint64, bool, error) {
	if key != 0 {
		ok, err := l.Exists(key)
		if err != nil {
			return 0, false, err
		}
		if !ok {
			return 0, false, nil
		}
	}
	n, err := l.nodes.Get(store.Uint64Key(key))
	if err != nil {
		return 0, false, err
	}
	if dir == Forward {
		return n.Next, true, nil
	}
	return n.Prev, true, nil
}

// Insert links the key adjacent to the anchor in the given direction:
// after it for Forward, before it for Backward. A missing anchor falls back
// to the sentinel, so Insert(0, key, Backward) appends at the tail.
// Returns false without touching the list if the key already exists.
func (l *List) Insert(anchor, key uint64, dir Direction) (bool, error) {
	if key == 0 {
		return false, nil
	}
	ok, err := l.Exists(key)
	if err != nil {
		return false, err
	}
	if ok {
		return false, nil
	}
	if anchor != 0 {
		ok, err := l.Exists(anchor)
		if err != nil {
			return false, err
		}
		if !ok {
			anchor = 0
		}
	}

	anchorNode, err := l.nodes.Get(store.Uint64Key(anchor))
	if err != nil {
		return false, err
	}

	var prev, next uint64
	if dir == Forward {
		prev, next = anchor, anchorNode.Next
	} else {
		prev, next = anchorNode.Prev, anchor
	}

	if prev == next {
		// both neighbors are the same record (empty list: the sentinel)
		n, err := l.nodes.Get(store.Uint64Key(prev))
		if err != nil {
			return false, err
		}
		n.Next = key
		n.Prev = key
		if err := l.nodes.Set(store.Uint64Key(prev), n); err != nil {
			return false, err
		}
	} else {
		prevNode, err := l.nodes.Get(store.Uint64Key(prev))
		if err != nil {
			return false, err
		}
		prevNode.Next = key
		if err := l.nodes.Set(store.Uint64Key(prev), prevNode); err != nil {
			return false, err
		}
		nextNode, err := l.nodes.Get(store.Uint64Key(next))
		if err != nil {
			return false, err
		}
		nextNode.Prev = key
		if err := l.nodes.Set(store.Uint64Key(next), nextNode); err != nil {
			return false, err
		}
	}

	if err := l.nodes.Set(store.Uint64Key(key), &node{Prev: prev, Next: next}); err != nil {
		return false, err
	}
	if _, err := l.count.Inc(); err != nil {
		return false, err
	}
	return true, nil
}

// Append links the key at the tail of the list.
func (l *List) Append(key uint64) (bool, error) {
	return l.Insert(0, key, Backward)
}

// Remove unlinks the key. Returns the removed key, or 0 if it was absent.
func (l *List) Remove(key uint64) (uint64, error) {
	ok, err := l.Exists(key)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}

	n, err := l.nodes.Get(store.Uint64Key(key))
	if err != nil {
		return 0, err
	}

	if n.Prev == n.Next {
		// sole element, both pointers rejoin on the sentinel record
		sentinel, err := l.nodes.Get(store.Uint64Key(n.Prev))
		if err != nil {
			return 0, err
		}
		sentinel.Next = n.Next
		sentinel.Prev = n.Prev
		if err := l.nodes.Set(store.Uint64Key(n.Prev), sentinel); err != nil {
			return 0, err
		}
	} else {
		prevNode, err := l.nodes.Get(store.Uint64Key(n.Prev))
		if err != nil {
			return 0, err
		}
		prevNode.Next = n.Next
		if err := l.nodes.Set(store.Uint64Key(n.Prev), prevNode); err != nil {
			return 0, err
		}
		nextNode, err := l.nodes.Get(store.Uint64Key(n.Next))
		if err != nil {
			return 0, err
		}
		nextNode.Prev = n.Prev
		if err := l.nodes.Set(store.Uint64Key(n.Next), nextNode); err != nil {
			return 0, err
		}
	}

	if err := l.nodes.Delete(store.Uint64Key(key)); err != nil {
		return 0, err
	}
	if _, err := l.count.Dec(); err != nil {
		return 0, err
	}
	return key, nil
}

// SortedSpot walks from the hint towards the given direction and returns the
// anchor for inserting the value so the list stays sorted ascending, i.e.
// Insert(anchor, value, dir) places the value between keys smaller and
// greater-or-equal. A missing hint falls back to the sentinel, which makes
// the walk O(n); a nearby hint makes it amortized O(1). Equal keys stop the
// scan.
func (l *List) SortedSpot(hint, value uint64, dir Direction) (uint64, error) {
	cur := hint
	if cur != 0 {
		ok, err := l.Exists(cur)
		if err != nil {
			return 0, err
		}
		if !ok {
			cur = 0
		}
	}

	for {
		n, err := l.nodes.Get(store.Uint64Key(cur))
		if err != nil {
			return 0, err
		}
		if dir == Forward {
			if n.Next == 0 || n.Next >= value {
				return cur, nil
			}
			cur = n.Next
		} else {
			if n.Prev == 0 || n.Prev <= value {
				return cur, nil
			}
			cur = n.Prev
		}
	}
}

// Iter calls the callback for each key from head to tail.
// Iteration stops when the callback returns false.
func (l *List) Iter(callback func(key uint64) (bool, error)) error {
	sentinel, err := l.nodes.Get(store.Uint64Key(0))
	if err != nil {
		return err
	}
	ptr := sentinel.Next
	for ptr != 0 {
		n, err := l.nodes.Get(store.Uint64Key(ptr))
		if err != nil {
			return err
		}
		next := n.Next
		cont, err := callback(ptr)
		if err != nil {
			return err
		}
		if !cont {
			return nil
		}
		ptr = next
	}
	return nil
}

// Keys collects all keys from head to tail.
func (l *List) Keys() ([]uint64, error) {
	var keys []uint64
	err := l.Iter(func(key uint64) (bool, error) {
		keys = append(keys, key)
		return true, nil
	})
	return keys, err
}
