package repositories

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/anonto42/socially/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func newSQLiteStore(t *testing.T) *GormStore {
	t.Helper()
	db, err := OpenSQLite(SQLiteInMemory, logger.Default.LogMode(logger.Silent))
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return NewGormStore(db)
}

func inTx(t *testing.T, s Store, fn func(r *Repositories)) {
	t.Helper()
	require.NoError(t, s.WithTx(context.Background(), func(r *Repositories) error {
		fn(r)
		return nil
	}))
}

func seedUser(t *testing.T, r *Repositories, username string) string {
	t.Helper()
	id, err := r.Users.Create(models.NewUser{Email: username + "@example.com", Username: username, PasswordHash: "h", Name: username})
	require.NoError(t, err)
	return id
}

func TestSQLiteStoreName(t *testing.T) {
	assert.Equal(t, "sqlite", newSQLiteStore(t).Name())
}

func TestSQLiteRollsBackOnError(t *testing.T) {
	s := newSQLiteStore(t)
	boom := errors.New("boom")

	err := s.WithTx(context.Background(), func(r *Repositories) error {
		seedUser(t, r, "alice")
		return boom
	})
	assert.Same(t, boom, err)

	inTx(t, s, func(r *Repositories) {
		_, err := r.Users.FindByIdentifier("alice")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestSQLiteRollsBackOnPanic(t *testing.T) {
	s := newSQLiteStore(t)

	assert.Panics(t, func() {
		_ = s.WithTx(context.Background(), func(r *Repositories) error {
			seedUser(t, r, "alice")
			panic("kaboom")
		})
	})

	inTx(t, s, func(r *Repositories) {
		_, err := r.Users.FindByEmail("alice@example.com")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestSQLiteCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := newSQLiteStore(t).WithTx(ctx, func(r *Repositories) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFeedShape(t *testing.T) {
	s := newSQLiteStore(t)
	var alice, bob, first, second string

	inTx(t, s, func(r *Repositories) {
		alice = seedUser(t, r, "alice")
		bob = seedUser(t, r, "bob")

		var err error
		first, err = r.Posts.CreatePost(alice, "first", nil)
		require.NoError(t, err)
		second, err = r.Posts.CreatePost(bob, "second", nil)
		require.NoError(t, err)

		_, err = r.Posts.ToggleLike(bob, first)
		require.NoError(t, err)
		_, err = r.Posts.CreateComment(bob, first, "one")
		require.NoError(t, err)
		_, err = r.Posts.CreateComment(alice, first, "two")
		require.NoError(t, err)
	})

	inTx(t, s, func(r *Repositories) {
		feed, err := r.Posts.GetFeed(bob, 0)
		require.NoError(t, err)
		require.Len(t, feed, 2)

		assert.Equal(t, second, feed[0].ID)
		assert.Equal(t, first, feed[1].ID)

		assert.Equal(t, models.PostCounts{Likes: 1, Comments: 2}, feed[1].Count)
		assert.Equal(t, []models.LikeRef{{UserID: bob}}, feed[1].Likes)
		require.Len(t, feed[1].Comments, 2)
		assert.Equal(t, "one", feed[1].Comments[0].Content)
		assert.Equal(t, "two", feed[1].Comments[1].Content)
		assert.Equal(t, "alice", feed[1].Author.Username)

		anon, err := r.Posts.GetFeed("", 1)
		require.NoError(t, err)
		require.Len(t, anon, 1)
		assert.Empty(t, anon[0].Likes)
	})
}

func TestFeedLimit(t *testing.T) {
	s := newSQLiteStore(t)
	var ids []string

	inTx(t, s, func(r *Repositories) {
		alice := seedUser(t, r, "alice")
		for i := 0; i < DefaultFeedSize+3; i++ {
			id, err := r.Posts.CreatePost(alice, fmt.Sprintf("post %d", i), nil)
			require.NoError(t, err)
			ids = append(ids, id)
		}
	})

	inTx(t, s, func(r *Repositories) {
		feed, err := r.Posts.GetFeed("", 0)
		require.NoError(t, err)
		require.Len(t, feed, DefaultFeedSize)
		assert.Equal(t, ids[len(ids)-1], feed[0].ID)
		assert.Equal(t, ids[3], feed[len(feed)-1].ID)
	})
}

func TestLikedPostsOrderedByLikeTime(t *testing.T) {
	s := newSQLiteStore(t)

	inTx(t, s, func(r *Repositories) {
		alice := seedUser(t, r, "alice")
		p1, _ := r.Posts.CreatePost(alice, "p1", nil)
		p2, _ := r.Posts.CreatePost(alice, "p2", nil)

		_, _ = r.Posts.ToggleLike(alice, p2)
		_, _ = r.Posts.ToggleLike(alice, p1)

		liked, err := r.Posts.GetPostsLikedByUser(alice, "")
		require.NoError(t, err)
		require.Len(t, liked, 2)
		assert.Equal(t, p1, liked[0].ID)
		assert.Equal(t, p2, liked[1].ID)

		mine, err := r.Posts.GetPostsByAuthor(alice, alice)
		require.NoError(t, err)
		assert.Equal(t, p2, mine[0].ID)
		assert.Len(t, mine[0].Likes, 1)
	})
}

func TestToggleLikeRoundTrip(t *testing.T) {
	s := newSQLiteStore(t)

	inTx(t, s, func(r *Repositories) {
		alice := seedUser(t, r, "alice")
		post, _ := r.Posts.CreatePost(alice, "hi", nil)

		liked, err := r.Posts.ToggleLike(alice, post)
		require.NoError(t, err)
		assert.True(t, liked)

		liked, err = r.Posts.ToggleLike(alice, post)
		require.NoError(t, err)
		assert.False(t, liked)

		feed, _ := r.Posts.GetFeed(alice, 0)
		assert.Equal(t, int64(0), feed[0].Count.Likes)
	})
}

func TestDeletePostCascades(t *testing.T) {
	s := newSQLiteStore(t)
	var alice, bob, post string

	inTx(t, s, func(r *Repositories) {
		alice = seedUser(t, r, "alice")
		bob = seedUser(t, r, "bob")
		post, _ = r.Posts.CreatePost(alice, "doomed", nil)
		comment, _ := r.Posts.CreateComment(bob, post, "hey")
		_, _ = r.Posts.ToggleLike(bob, post)
		require.NoError(t, r.Notifications.Create(models.NewNotification{Type: models.NotificationComment, RecipientID: alice, ActorID: bob, PostID: &post, CommentID: &comment}))
		require.NoError(t, r.Notifications.Create(models.NewNotification{Type: models.NotificationFollow, RecipientID: alice, ActorID: bob}))
	})

	inTx(t, s, func(r *Repositories) {
		deleted, err := r.Posts.DeletePost(post, bob)
		require.NoError(t, err)
		assert.False(t, deleted)

		deleted, err = r.Posts.DeletePost(post, alice)
		require.NoError(t, err)
		assert.True(t, deleted)

		_, err = r.Posts.GetPost(post)
		assert.ErrorIs(t, err, ErrNotFound)

		liked, _ := r.Posts.GetPostsLikedByUser(bob, "")
		assert.Empty(t, liked)

		list, _ := r.Notifications.List(alice)
		require.Len(t, list, 1)
		assert.Equal(t, models.NotificationFollow, list[0].Type)
	})
}

func TestProfilesAndFollows(t *testing.T) {
	s := newSQLiteStore(t)

	inTx(t, s, func(r *Repositories) {
		alice := seedUser(t, r, "alice")
		bob := seedUser(t, r, "bob")
		_, _ = r.Posts.CreatePost(alice, "hi", nil)

		following, err := r.Users.ToggleFollow(bob, alice)
		require.NoError(t, err)
		assert.True(t, following)

		ok, _ := r.Users.IsFollowing(bob, alice)
		assert.True(t, ok)

		profile, err := r.Users.GetPublicProfile("alice")
		require.NoError(t, err)
		assert.Equal(t, models.ProfileCounts{Followers: 1, Following: 0, Posts: 1}, profile.Count)
		assert.Equal(t, AvatarURL("alice"), *profile.Image)

		_, err = r.Users.GetPublicProfile("nobody")
		assert.ErrorIs(t, err, ErrNotFound)

		following, _ = r.Users.ToggleFollow(bob, alice)
		assert.False(t, following)
	})
}

func TestSuggestionsExcludeCaller(t *testing.T) {
	s := newSQLiteStore(t)

	inTx(t, s, func(r *Repositories) {
		me := seedUser(t, r, "me")
		for _, name := range []string{"ann", "ben", "cat", "dan"} {
			seedUser(t, r, name)
		}

		users, err := r.Users.GetSuggestions(me, 0)
		require.NoError(t, err)
		assert.Len(t, users, DefaultSuggestionCount)
		for _, u := range users {
			assert.NotEqual(t, me, u.ID)
		}
	})
}

func TestUpdateProfilePartial(t *testing.T) {
	s := newSQLiteStore(t)

	inTx(t, s, func(r *Repositories) {
		alice := seedUser(t, r, "alice")
		bio := "gopher"
		require.NoError(t, r.Users.UpdateProfile(alice, models.ProfileUpdate{Bio: &bio}))
		require.NoError(t, r.Users.UpdateProfile(alice, models.ProfileUpdate{}))

		p, err := r.Users.GetProfile(alice)
		require.NoError(t, err)
		assert.Equal(t, "gopher", *p.Bio)
		assert.Equal(t, "alice", *p.Name)
		assert.Nil(t, p.Location)
	})
}

func TestNotificationLifecycle(t *testing.T) {
	s := newSQLiteStore(t)

	inTx(t, s, func(r *Repositories) {
		alice := seedUser(t, r, "alice")
		bob := seedUser(t, r, "bob")

		require.NoError(t, r.Notifications.Create(models.NewNotification{Type: models.NotificationFollow, RecipientID: alice, ActorID: alice}))
		assert.Error(t, r.Notifications.Create(models.NewNotification{Type: "SHARE", RecipientID: alice, ActorID: bob}))

		require.NoError(t, r.Notifications.Create(models.NewNotification{Type: models.NotificationFollow, RecipientID: alice, ActorID: bob}))
		require.NoError(t, r.Notifications.Create(models.NewNotification{Type: models.NotificationFollow, RecipientID: alice, ActorID: bob}))

		count, _ := r.Notifications.UnreadCount(alice)
		assert.Equal(t, int64(2), count)

		list, err := r.Notifications.List(alice)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "bob", list[0].Creator.Username)
		assert.True(t, list[0].CreatedAt.After(list[1].CreatedAt))

		require.NoError(t, r.Notifications.MarkRead(bob, []string{list[0].ID}))
		count, _ = r.Notifications.UnreadCount(alice)
		assert.Equal(t, int64(2), count)

		require.NoError(t, r.Notifications.MarkRead(alice, []string{list[0].ID, "unknown"}))
		count, _ = r.Notifications.UnreadCount(alice)
		assert.Equal(t, int64(1), count)

		require.NoError(t, r.Notifications.MarkAllRead(alice))
		count, _ = r.Notifications.UnreadCount(alice)
		assert.Equal(t, int64(0), count)
	})
}
