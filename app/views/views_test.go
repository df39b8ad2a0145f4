package views

import (
	"bytes"
	"io/fs"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ParsesEveryPage(t *testing.T) {
	r, err := New()
	require.NoError(t, err)
	for _, page := range Pages {
		assert.Contains(t, r.templates, page)
	}
}

func TestRender(t *testing.T) {
	r, err := New()
	require.NoError(t, err)

	t.Run("about page", func(t *testing.T) {
		var buf bytes.Buffer
		err := r.Render(&buf, "about/tech", map[string]interface{}{
			"title":  "Технологии",
			"header": "Вот что я умею",
			"text":   "Текст",
		})
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "<title>Технологии</title>")
		assert.Contains(t, buf.String(), "Вот что я умею")
		assert.Contains(t, buf.String(), "/static/style.css")
	})

	t.Run("unknown page", func(t *testing.T) {
		var buf bytes.Buffer
		assert.Error(t, r.Render(&buf, "posts/missing", nil))
		assert.Zero(t, buf.Len())
	})
}

func TestFuncs(t *testing.T) {
	funcs := Funcs()

	date := funcs["date"].(func(time.Time) string)
	assert.Equal(t, "2 October 2021", date(time.Date(2021, 10, 2, 11, 0, 0, 0, time.UTC)))

	excerpt := funcs["excerpt"].(func(string, int) string)
	assert.Equal(t, "short", excerpt("short", 10))
	assert.Equal(t, "Привет…", excerpt("Привет, мир", 6))

	assert.Contains(t, funcs, "markdown")
}

func TestStatic(t *testing.T) {
	data, err := fs.ReadFile(Static(), "style.css")
	require.NoError(t, err)
	assert.NotEmpty(t, data)
}
