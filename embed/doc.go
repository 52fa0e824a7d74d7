// Package embed converts chunk texts into embedding vectors via batched,
// rate-limited, retried calls to an ai.Embedder, and computes the token
// cost of each run.
package embed
