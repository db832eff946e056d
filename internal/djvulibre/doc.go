// Package djvulibre wraps the two DjVuLibre command-line tools the converter
// depends on:
//
//   - djvused, evaluated with the "n" script to report a page count.
//   - ddjvu, used both to list a document's pages (-l) and to render one
//     page to a raster image file.
//
// Argument construction lives in builder.go and output parsing in parse.go
// so both can be tested without the binaries installed. Invocation goes
// through a [tool.Runner].
package djvulibre
