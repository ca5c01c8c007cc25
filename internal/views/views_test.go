package views

import (
	"html/template"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_RendersEveryPage(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	for _, page := range []string{PageRegister, PageLogin, PageAccount, PageChat, PageCourses} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		require.NoError(t, r.Render(w, req, page, PageData{Title: "t", Username: "alice<script>"}))
		assert.Contains(t, w.Body.String(), "<main>")
		assert.NotContains(t, w.Body.String(), "alice<script>")
	}
}

func TestRenderer_UnknownPage(t *testing.T) {
	r, err := NewRenderer()
	require.NoError(t, err)

	err = r.Render(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil), "nope.html", PageData{})
	assert.Error(t, err)
}

func TestFlashRoundTrip(t *testing.T) {
	w := httptest.NewRecorder()
	SetFlash(w, "Username already exists")
	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)

	req := httptest.NewRequest(http.MethodGet, "/register", nil)
	req.AddCookie(cookies[0])

	r, err := NewRenderer()
	require.NoError(t, err)
	w = httptest.NewRecorder()
	require.NoError(t, r.Render(w, req, PageRegister, PageData{Title: "Register"}))

	assert.Contains(t, w.Body.String(), "Username already exists")
	cleared := w.Result().Cookies()
	require.Len(t, cleared, 1)
	assert.Equal(t, -1, cleared[0].MaxAge)
}

func TestRenderer_FailedTemplateWritesNothing(t *testing.T) {
	broken := template.Must(template.New("layout").Parse(`<p>partial</p>{{index .Events 5}}`))
	r := &Renderer{pages: map[string]*template.Template{"broken.html": broken}}

	w := httptest.NewRecorder()
	err := r.Render(w, httptest.NewRequest(http.MethodGet, "/", nil), "broken.html", PageData{})
	require.Error(t, err)

	assert.Empty(t, w.Body.String())
	assert.Empty(t, w.Header().Get("Content-Type"))
}
