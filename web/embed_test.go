package web

import (
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatic(t *testing.T) {
	fsys, err := Static()
	require.NoError(t, err)

	for _, name := range []string{"index.html", "js/app.js", "css/style.css"} {
		data, err := fs.ReadFile(fsys, name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, data, name)
	}

	index, err := fs.ReadFile(fsys, "index.html")
	require.NoError(t, err)
	for _, id := range []string{"live-flights-results", "search-flight-results", "airports-results", "airlines-results"} {
		assert.Contains(t, string(index), `id="`+id+`"`)
	}
}
