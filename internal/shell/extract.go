package shell

import (
	"bytes"
	"errors"
)

// ErrNoInitialData возвращается, если в странице нет снапшота хранилищ.
var ErrNoInitialData = errors.New("page has no embedded initial data")

var (
	dataOpen  = []byte(`<script id="` + DataElementID + `" type="application/json">`)
	dataClose = []byte(`</script>`)
)

// ExtractInitialData находит в HTML-странице встроенный снапшот хранилищ.
func ExtractInitialData(page []byte) ([]byte, error) {
	start := bytes.Index(page, dataOpen)
	if start < 0 {
		return nil, ErrNoInitialData
	}
	rest := page[start+len(dataOpen):]
	end := bytes.Index(rest, dataClose)
	if end < 0 {
		return nil, ErrNoInitialData
	}
	return bytes.TrimSpace(rest[:end]), nil
}
