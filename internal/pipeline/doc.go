// Package pipeline orchestrates document discovery, per-document
// conversion, and batch summary reporting.
//
// A [Batch] checks its preconditions (input root present, at least one
// document, renderer available), mirrors every document to an archive path
// under the output root, and hands each [Job] to a [Converter]. Jobs run
// one at a time or on a bounded worker pool; a failed document never stops
// the batch. The Converter owns one scratch area per document: count
// pages, extract each page, archive whatever was extracted, clean up.
//
// [Inspect] reuses discovery and page counting to report on a library
// without converting it.
package pipeline
