// Package text provides the tokenizer collaborator for data pipelines: a
// SentencePiece-style subword model loaded from a JSON piece list, a greedy
// longest-match processor over it, and map-stage adapters that plug encoding
// and decoding into a pipeline.
//
// The model loader takes an explicit Options value; there is no global
// registry of special tokens. The legacy "<pad>@0" control token inserts a
// pad piece at the front of the vocabulary so that pad_idx resolves to 0,
// matching models that were trained without a pad token but are consumed by
// code that expects one at index 0.
package text
