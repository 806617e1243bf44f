package twitter

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

func TestUser_Success(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/2/users/by/username/dana", r.URL.Path)
		assert.Equal(t, "Bearer bt", r.Header.Get("Authorization"))
		assert.Equal(t, "pinned_tweet_id", r.URL.Query().Get("expansions"))
		assert.Contains(t, r.URL.Query().Get("user.fields"), "public_metrics")

		w.Write([]byte(`{
		  "data": {"id":"42","username":"dana","name":"Dana Reyes","description":"builder",
		    "verified":false,"pinned_tweet_id":"7",
		    "public_metrics":{"followers_count":2500,"following_count":180,"tweet_count":930,"listed_count":12}},
		  "includes": {"tweets":[{"id":"7","text":"Shipping the new release today"}]}
		}`))
	}))
	defer srv.Close()

	client := NewClient("bt", WithBaseURL(srv.URL))
	got, err := client.User(context.Background(), "@dana")

	require.NoError(t, err)
	assert.Equal(t, "dana", got.Username)
	assert.Equal(t, 2500, got.PublicMetrics.FollowersCount)
	assert.Equal(t, 930, got.PublicMetrics.TweetCount)
	assert.Equal(t, "Shipping the new release today", got.PinnedTweet)
}

func TestUser_NoPinnedTweet(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"id":"1","username":"quiet","public_metrics":{"followers_count":3}}}`))
	}))
	defer srv.Close()

	client := NewClient("bt", WithBaseURL(srv.URL))
	got, err := client.User(context.Background(), "quiet")
	require.NoError(t, err)
	assert.Empty(t, got.PinnedTweet)
	assert.Equal(t, 3, got.PublicMetrics.FollowersCount)
}

func TestUser_ErrorsWithoutData(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors":[{"title":"Not Found Error","detail":"Could not find user"}]}`))
	}))
	defer srv.Close()

	client := NewClient("bt", WithBaseURL(srv.URL))
	_, err := client.User(context.Background(), "ghost")
	assert.ErrorIs(t, err, sourcehttp.ErrNotFound)
}

func TestUser_EmptyObjectIsMalformed(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	client := NewClient("bt", WithBaseURL(srv.URL))
	_, err := client.User(context.Background(), "dana")
	assert.ErrorIs(t, err, sourcehttp.ErrMalformed)
}

func TestUser_Forbidden(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	client := NewClient("bt", WithBaseURL(srv.URL))
	_, err := client.User(context.Background(), "dana")

	var se *sourcehttp.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, http.StatusForbidden, se.StatusCode)
}
