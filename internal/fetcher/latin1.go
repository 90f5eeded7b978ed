package fetcher

import (
	"io"

	"golang.org/x/text/encoding/charmap"
)

// Latin1Reader decodes an ISO 8859-1 stream to UTF-8. Florida DOR NAL
// exports carry accented owner names in latin-1, which breaks the UTF-8
// CSV reader unless decoded first.
func Latin1Reader(r io.Reader) io.Reader {
	return charmap.ISO8859_1.NewDecoder().Reader(r)
}
