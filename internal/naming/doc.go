// Package naming maps source documents to archive paths.
//
// [ArchivePath] mirrors a document's location relative to the input root
// under the output root and swaps the extension for .cbz.
// [CollisionResolver] keeps those paths distinct within one run when two
// documents would otherwise map to the same archive.
package naming
