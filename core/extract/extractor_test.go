package extract

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTMLExtractor_Extract(t *testing.T) {
	t.Run("Should prefer main and drop noise", func(t *testing.T) {
		html := `<html><body>
			<nav>Home | About</nav>
			<main><h1>Title</h1><p>Body text.</p><script>track()</script></main>
			<footer>© 2026</footer>
		</body></html>`

		got, err := New().Extract(html)

		require.NoError(t, err)
		assert.Contains(t, got, "<main>")
		assert.Contains(t, got, "Body text.")
		assert.NotContains(t, got, "track()")
		assert.NotContains(t, got, "Home | About")
		assert.NotContains(t, got, "2026")
	})

	t.Run("Should fall back to body", func(t *testing.T) {
		got, err := New().Extract(`<html><body><p>Only body.</p></body></html>`)
		require.NoError(t, err)
		assert.Contains(t, got, "Only body.")
	})

	t.Run("Should fail when nothing readable remains", func(t *testing.T) {
		_, err := New().Extract(`<html><body><nav>menu</nav><img src="x.png"></body></html>`)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNoContent))
	})
}
