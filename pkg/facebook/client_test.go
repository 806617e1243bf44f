package facebook

import (
	"context"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/lead-qualifier/pkg/sourcehttp"
)

const profilePage = `<html><head><title>Dana Reyes | Facebook</title></head>
<body>
  <div id="bio">  Product lead.
     Runner. </div>
  <a href="/dana.reyes/friends">1,234 friends</a>
  <article>first post</article>
  <article>second post</article>
</body></html>`

func TestProfile_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/dana.reyes", r.URL.Path)
		assert.Equal(t, "c_user=1; xs=abc", r.Header.Get("Cookie"))
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(profilePage))
	}))
	defer srv.Close()

	client := NewClient("c_user=1; xs=abc", WithBaseURL(srv.URL), WithUserAgent("test-agent"))
	got, err := client.Profile(context.Background(), "dana.reyes")

	require.NoError(t, err)
	assert.Equal(t, "Dana Reyes", got.Name)
	assert.Equal(t, 1234, got.Friends)
	assert.Equal(t, "Product lead. Runner.", got.About)
	assert.Equal(t, 2, got.Posts)
}

func TestProfile_NumericID(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/profile.php", r.URL.Path)
		assert.Equal(t, "100042", r.URL.Query().Get("id"))
		w.Write([]byte(profilePage))
	}))
	defer srv.Close()

	client := NewClient("", WithBaseURL(srv.URL))
	got, err := client.Profile(context.Background(), "profile.php?id=100042")
	require.NoError(t, err)
	assert.Equal(t, "Dana Reyes", got.Name)
}

func TestParseProfile(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		page    string
		wantErr error
		friends int
		about   string
	}{
		{
			name:    "login wall",
			page:    `<html><title>Log in</title><form id="login_form"><input name="pass"></form></html>`,
			wantErr: sourcehttp.ErrLoginRequired,
		},
		{
			name:    "not available",
			page:    `<html><title>Facebook</title><body>This content isn't available right now</body></html>`,
			wantErr: sourcehttp.ErrNotFound,
		},
		{
			name:    "no title",
			page:    `<html><body><p>hello</p></body></html>`,
			wantErr: sourcehttp.ErrMalformed,
		},
		{
			name:    "abbreviated friends and testid about",
			page:    `<html><title>Sam</title><body><span>2.5K friends</span><div data-testid="profile-about">Chef</div></body></html>`,
			friends: 2500,
			about:   "Chef",
		},
		{
			name:    "oversized friends count is capped",
			page:    `<html><title>Jane</title><body><a href="/jane/friends">99999999999999999999999 friends</a></body></html>`,
			friends: math.MaxInt32,
		},
		{
			name:    "no friends count",
			page:    `<html><title>Sam</title><body></body></html>`,
			friends: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := ParseProfile([]byte(tt.page))
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.friends, got.Friends)
			assert.Equal(t, tt.about, got.About)
		})
	}
}

func TestProfile_BlankRef(t *testing.T) {
	t.Parallel()

	client := NewClient("")
	_, err := client.Profile(context.Background(), " / ")
	assert.ErrorIs(t, err, sourcehttp.ErrNotFound)

	_, err = client.Profile(context.Background(), "profile.php?id=")
	assert.ErrorIs(t, err, sourcehttp.ErrNotFound)
}
