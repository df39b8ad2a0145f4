package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPostValidation(t *testing.T) {
	groupID := 2
	badGroupID := 0

	tests := []struct {
		name    string
		post    *Post
		wantErr bool
	}{
		{
			name: "valid post",
			post: &Post{
				ID:       1,
				Text:     "Test post text",
				PubDate:  time.Now(),
				AuthorID: 1,
			},
			wantErr: false,
		},
		{
			name: "valid post with group",
			post: &Post{
				Text:     "Test post text",
				PubDate:  time.Now(),
				AuthorID: 1,
				GroupID:  &groupID,
			},
			wantErr: false,
		},
		{
			name: "empty text",
			post: &Post{
				Text:     "",
				PubDate:  time.Now(),
				AuthorID: 1,
			},
			wantErr: true,
		},
		{
			name: "missing author",
			post: &Post{
				Text:    "Test post text",
				PubDate: time.Now(),
			},
			wantErr: true,
		},
		{
			name: "invalid group id",
			post: &Post{
				Text:     "Test post text",
				PubDate:  time.Now(),
				AuthorID: 1,
				GroupID:  &badGroupID,
			},
			wantErr: true,
		},
		{
			name: "zero publication date",
			post: &Post{
				Text:     "Test post text",
				AuthorID: 1,
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.post.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPostBeforeCreate(t *testing.T) {
	post := &Post{
		Text:     "Test Post",
		AuthorID: 1,
	}

	assert.True(t, post.PubDate.IsZero())
	first := time.Date(2021, 10, 2, 11, 2, 0, 0, time.UTC)
	post.BeforeCreate(first)
	assert.Equal(t, first, post.PubDate)

	post.BeforeCreate(first.Add(time.Hour))
	assert.Equal(t, first, post.PubDate, "publication date is set only once")
}

func TestPostString(t *testing.T) {
	post := &Post{Text: "Тестовый пост Тестовый пост Тест"}
	assert.Equal(t, "Тестовый пост Т", post.String())

	short := &Post{Text: "Short"}
	assert.Equal(t, "Short", short.String())
}

func TestPostGroupAndAuthor(t *testing.T) {
	post := &Post{ID: 7, AuthorID: 3}

	t.Run("set group", func(t *testing.T) {
		group := &Group{ID: 5, Title: "Cats", Slug: "cats"}
		post.SetGroup(group)
		assert.True(t, post.InGroup(5))
		assert.False(t, post.InGroup(6))
		assert.Equal(t, group, post.Group)
	})

	t.Run("clear group", func(t *testing.T) {
		post.SetGroup(nil)
		assert.Nil(t, post.GroupID)
		assert.False(t, post.InGroup(5))
	})

	t.Run("authorship", func(t *testing.T) {
		assert.True(t, post.IsAuthoredBy(&User{ID: 3}))
		assert.False(t, post.IsAuthoredBy(&User{ID: 4}))
		assert.False(t, post.IsAuthoredBy(nil))
	})

	t.Run("urls", func(t *testing.T) {
		assert.Equal(t, "/posts/7/", post.DetailURL())
		assert.Equal(t, "/posts/7/edit/", post.EditURL())
	})
}
