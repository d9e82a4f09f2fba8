// Package store persists document graphs in two scopes: the unscoped
// world, backed by MySQL, and named shared content libraries, backed by
// object storage.
//
// Identifier ownership is the load-bearing contract here. The store, not
// the caller, assigns identifiers to created documents and embedded
// records; callers that synthesized provisional identifiers must remap
// references after creation. Resolver decides which scope a slug lookup
// hits: the library copy when a library is named, the world copy
// otherwise.
package store
