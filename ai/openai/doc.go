// Package openai implements the ai.Embedder interface against any
// OpenAI-compatible embeddings endpoint via langchaingo.
package openai
