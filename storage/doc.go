// Package storage defines the persistence contracts for the transcript
// pipeline: video records, transcript chunks with embeddings, and the
// per-creator usage ledger.
//
// The interfaces are storage-agnostic; the badger subpackage provides the
// BadgerDB implementation. Values are encoded with MUS binary serialization.
package storage
