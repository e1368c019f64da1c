// Package migrations contains the catalog schema migrations. Each file
// registers its migrations from init(); cmd/catalog imports this package
// for that side effect.
package migrations
