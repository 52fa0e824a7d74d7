// Package search answers natural-language queries against the stored
// chunk/embedding index and formats matches for citation and context
// assembly.
package search
