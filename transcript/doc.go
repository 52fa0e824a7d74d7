// Package transcript extracts video transcripts from multiple sources.
//
// Three free caption sources (YouTube, Vimeo, Mux) are tried before the
// paid Whisper fallback. Each extractor normalizes its output into a
// Result with plain text plus timestamped segments, and failures carry a
// typed code so the router can tell "try the next source" apart from
// "nothing will ever work".
package transcript
