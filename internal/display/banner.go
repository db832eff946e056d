package display

import (
	"fmt"
	"io"

	"github.com/backmassage/djvu2cbz/internal/term"
)

const banner = `     _  _                ____       _
  __| |(_)_   ___   _|___ \  ___| |__ ____
 / _` + "`" + ` || \ \ / / | | | __) |/ __| '_ \_  /
| (_| || |\ V /| |_| |/ __/| (__| |_) / /
 \__,_|/ | \_/  \__,_|_____|\___|_.__/___|
     |__/
`

// PrintBanner writes the ASCII art banner to w, in magenta when colors are
// enabled.
func PrintBanner(w io.Writer) {
	fmt.Fprint(w, term.Magenta.Sprint(banner))
}
