package ident

import (
	crand "crypto/rand"
	"math/rand"
)

// IDLength is the length of host record identifiers.
const IDLength = 16

const idAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// Allocator hands out stable identifiers keyed by a content-position
// string. The first request for a key synthesizes a fresh random
// identifier; later requests in the same run return the cached value, so
// re-synthesizing the same logical sub-record yields the same identifier.
//
// An Allocator is scoped to one synthesis run. Callers create a fresh one
// per run rather than sharing a process-wide instance, so concurrent
// synthesis of unrelated records cannot cross-contaminate identifiers.
type Allocator struct {
	cache map[string]string
}

// NewAllocator creates an empty, run-scoped allocator.
func NewAllocator() *Allocator {
	return &Allocator{cache: make(map[string]string)}
}

// IDFor returns the identifier for a content-position key, generating and
// caching one on first use.
func (a *Allocator) IDFor(key string) string {
	if id, ok := a.cache[key]; ok {
		return id
	}
	id := randomID()
	a.cache[key] = id
	return id
}

// Reset clears the cache so the allocator can be reused for a new run.
func (a *Allocator) Reset() {
	a.cache = make(map[string]string)
}

// Len reports how many identifiers have been allocated.
func (a *Allocator) Len() int {
	return len(a.cache)
}

// NewID generates one identifier outside any allocator cache. The store
// uses it to assign identifiers to newly created records.
func NewID() string {
	return randomID()
}

// randomID builds a host-shaped identifier, cryptographically sourced when
// possible with a pseudo-random fallback.
func randomID() string {
	buf := make([]byte, IDLength)
	if _, err := crand.Read(buf); err != nil {
		for i := range buf {
			buf[i] = byte(rand.Intn(256))
		}
	}
	out := make([]byte, IDLength)
	for i, b := range buf {
		out[i] = idAlphabet[int(b)%len(idAlphabet)]
	}
	return string(out)
}
