package instagram

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

func TestProfile_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/users/web_profile_info/", r.URL.Path)
		assert.Equal(t, "dana.reyes", r.URL.Query().Get("username"))
		assert.Equal(t, "app-123", r.Header.Get("X-IG-App-ID"))
		if c, err := r.Cookie("sessionid"); assert.NoError(t, err) {
			assert.Equal(t, "sess", c.Value)
		}

		w.Write([]byte(`{"data":{"user":{
			"username":"dana.reyes","full_name":"Dana Reyes","biography":"coffee + code",
			"is_private":false,"is_verified":true,
			"edge_followed_by":{"count":12000},"edge_follow":{"count":300},
			"edge_owner_to_timeline_media":{"count":87}}},"status":"ok"}`))
	}))
	defer srv.Close()

	client := NewClient("app-123", WithBaseURL(srv.URL), WithSessionID("sess"))
	got, err := client.Profile(context.Background(), "@dana.reyes")

	require.NoError(t, err)
	assert.Equal(t, "dana.reyes", got.Username)
	assert.Equal(t, 12000, got.Followers)
	assert.Equal(t, 300, got.Following)
	assert.Equal(t, 87, got.Posts)
	assert.True(t, got.IsVerified)
}

func TestProfile_NullUser(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"user":null},"status":"ok"}`))
	}))
	defer srv.Close()

	client := NewClient("app", WithBaseURL(srv.URL))
	_, err := client.Profile(context.Background(), "ghost")
	assert.ErrorIs(t, err, sourcehttp.ErrNotFound)
}

func TestProfile_RateLimited(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient("app", WithBaseURL(srv.URL))
	_, err := client.Profile(context.Background(), "dana")

	var se *sourcehttp.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusTooManyRequests, se.StatusCode)
}

func TestProfile_Malformed(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>login</html>`))
	}))
	defer srv.Close()

	client := NewClient("app", WithBaseURL(srv.URL))
	_, err := client.Profile(context.Background(), "dana")
	assert.ErrorIs(t, err, sourcehttp.ErrMalformed)
}

func TestProfile_BlankUsername(t *testing.T) {
	t.Parallel()

	client := NewClient("app")
	_, err := client.Profile(context.Background(), "@")
	assert.ErrorIs(t, err, sourcehttp.ErrNotFound)
}
