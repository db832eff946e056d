// Package probe determines how many pages a DjVu document has.
//
// Counting never fails. Strategies are tried in order and the first usable
// answer wins:
//
//  1. Script: djvused evaluates "n" and prints the count.
//  2. Listing: ddjvu -l lists the pages; lines starting with "Page " are
//     counted.
//  3. Default: a configured fallback count (100 by default), logged as a
//     warning. Extraction then attempts that many pages and pages past the
//     real end simply fail.
//
// The resulting [PageCount] records which strategy produced it so callers
// and the inspect report can tell a measured count from a guess.
package probe
