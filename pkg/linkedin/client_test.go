package linkedin

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/lead-qualifier/pkg/sourcehttp"
)

const profileJSON = `{
  "firstName": "Dana",
  "lastName": "Reyes",
  "headline": "VP Engineering at Acme",
  "industryName": "Software",
  "experience": [
    {"companyName": "Globex", "title": "Director", "current": false},
    {"companyName": "Acme Corp", "title": "VP Engineering", "current": true}
  ],
  "skills": [{"name": "Go"}, {"name": "Kubernetes"}],
  "education": [{"schoolName": "State University", "degreeName": "BS"}],
  "connections": 500
}`

func TestProfile_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/identity/profiles/dana-reyes/profileView", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(profileJSON))
	}))
	defer srv.Close()

	client := NewClient("tok", WithBaseURL(srv.URL), WithHTTPClient(srv.Client()))
	got, err := client.Profile(context.Background(), "dana-reyes")

	require.NoError(t, err)
	assert.Equal(t, "Dana Reyes", got.FullName())
	assert.Equal(t, "Software", got.IndustryName)
	assert.Len(t, got.Skills, 2)
	assert.Equal(t, 500, got.Connections)

	pos, ok := got.CurrentPosition()
	require.True(t, ok)
	assert.Equal(t, "Acme Corp", pos.CompanyName)
}

func TestProfile_CurrentPositionFallback(t *testing.T) {
	t.Parallel()

	p := &Profile{Experience: []Position{{CompanyName: "First"}, {CompanyName: "Second"}}}
	pos, ok := p.CurrentPosition()
	require.True(t, ok)
	assert.Equal(t, "First", pos.CompanyName)

	_, ok = (&Profile{}).CurrentPosition()
	assert.False(t, ok)
}

func TestProfile_Unauthorized(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewClient("bad", WithBaseURL(srv.URL))
	_, err := client.Profile(context.Background(), "dana-reyes")

	var se *sourcehttp.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusUnauthorized, se.StatusCode)
}

func TestProfile_NotFound(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewClient("tok", WithBaseURL(srv.URL))
	_, err := client.Profile(context.Background(), "ghost")
	assert.ErrorIs(t, err, sourcehttp.ErrNotFound)
}

func TestProfile_EmptyBodyIsNotFound(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient("tok", WithBaseURL(srv.URL))
	_, err := client.Profile(context.Background(), "ghost")
	assert.ErrorIs(t, err, sourcehttp.ErrNotFound)
}

func TestProfile_Malformed(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	client := NewClient("tok", WithBaseURL(srv.URL))
	_, err := client.Profile(context.Background(), "dana-reyes")
	assert.ErrorIs(t, err, sourcehttp.ErrMalformed)
}

func TestProfile_BlankID(t *testing.T) {
	t.Parallel()

	client := NewClient("tok", WithBaseURL("http://127.0.0.1:0"))
	_, err := client.Profile(context.Background(), "  ")
	assert.ErrorIs(t, err, sourcehttp.ErrNotFound)
}
