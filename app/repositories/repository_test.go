package repositories

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"yatube/app/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStoreBackupRestore(t *testing.T) {
	src := newTestStore(t)

	user := &models.User{Username: "leo", DateJoined: time.Now()}
	require.NoError(t, src.Users.Create(user))
	group := &models.Group{Title: "Cats", Slug: "cats", Description: "About cats"}
	require.NoError(t, src.Groups.Create(group))
	post := &models.Post{Text: "Backed up", PubDate: time.Now(), AuthorID: user.ID}
	post.SetGroup(group)
	require.NoError(t, src.Posts.Create(post))

	var buf bytes.Buffer
	require.NoError(t, src.Backup(&buf))
	require.NotZero(t, buf.Len())

	dst := newTestStore(t)
	require.NoError(t, dst.Restore(&buf))

	restored, err := dst.Posts.GetByID(post.ID)
	require.NoError(t, err)
	assert.Equal(t, "Backed up", restored.Text)
	assert.True(t, restored.InGroup(group.ID))

	byName, err := dst.Users.GetByUsername("leo")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byName.ID)

	bySlug, err := dst.Groups.GetBySlug("cats")
	require.NoError(t, err)
	assert.Equal(t, group.ID, bySlug.ID)

	next := &models.Post{Text: "After restore", PubDate: time.Now(), AuthorID: user.ID}
	require.NoError(t, dst.Posts.Create(next))
	assert.Equal(t, post.ID+1, next.ID)
}

func TestStoreRestoreGarbage(t *testing.T) {
	store := newTestStore(t)
	assert.Error(t, store.Restore(strings.NewReader("bad")))
}
