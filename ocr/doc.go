// Package ocr defines the abstraction layer for plugging OCR providers
// (for example Tesseract) into structured text extraction. The
// interfaces are intentionally small and transport-agnostic so engines
// can be backed by native libraries, local binaries, or remote APIs
// without leaking provider-specific concerns into callers.
//
// Beyond the engine contracts, the package owns the flat word stream
// model: WordBox carries one recognized word with the ordinals of its
// enclosing block, paragraph and line, and WordCursor turns a slice of
// word boxes into the boundary-annotated stream the nest package folds
// into trees. Engines only have to produce word boxes in reading order;
// grouping into lines, paragraphs and blocks is shared code.
package ocr
