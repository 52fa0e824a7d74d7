// Package ai defines the embedding provider abstraction used by the
// pipeline and search layers.
//
// The Embedder interface is implemented by the openai subpackage for
// production use against any OpenAI-compatible embeddings API, and by the
// mock subpackage for testing with deterministic vectors.
package ai
