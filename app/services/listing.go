package services

import (
	"errors"
	"fmt"

	"yatube/app/models"
	"yatube/app/pagination"
	"yatube/app/repositories"
)

// PostPage is one page of posts with their authors and groups loaded.
type PostPage = pagination.Page[*models.Post]

// PostDetail is a single post plus how many posts its author has written.
type PostDetail struct {
	Post            *models.Post `json:"post"`
	AuthorPostCount int          `json:"author_post_count"`
}

// ListingService serves the read-only pages: the index, group and profile
// listings and the post detail.
type ListingService struct {
	posts   repositories.PostRepository
	groups  repositories.GroupRepository
	users   repositories.UserRepository
	perPage int
}

// NewListingService creates a new ListingService
func NewListingService(posts repositories.PostRepository, groups repositories.GroupRepository, users repositories.UserRepository, perPage int) *ListingService {
	if perPage < 1 {
		perPage = pagination.DefaultPerPage
	}
	return &ListingService{
		posts:   posts,
		groups:  groups,
		users:   users,
		perPage: perPage,
	}
}

// ListRecentPosts returns the requested page of all posts, newest first.
func (s *ListingService) ListRecentPosts(page string) (*PostPage, error) {
	return s.paginate(repositories.PostFilter{}, page)
}

// ListPostsByGroup returns the group identified by slug and a page of its posts.
func (s *ListingService) ListPostsByGroup(slug, page string) (*models.Group, *PostPage, error) {
	group, err := s.groups.GetBySlug(slug)
	if err != nil {
		return nil, nil, err
	}

	posts, err := s.paginate(repositories.PostFilter{GroupID: &group.ID}, page)
	if err != nil {
		return nil, nil, err
	}
	return group, posts, nil
}

// ListPostsByAuthor returns the user identified by username and a page of their posts.
func (s *ListingService) ListPostsByAuthor(username, page string) (*models.User, *PostPage, error) {
	user, err := s.users.GetByUsername(username)
	if err != nil {
		return nil, nil, err
	}

	posts, err := s.paginate(repositories.PostFilter{AuthorID: &user.ID}, page)
	if err != nil {
		return nil, nil, err
	}
	return user, posts, nil
}

// GetPost loads one post with its relations and the author's post count.
func (s *ListingService) GetPost(id int) (*PostDetail, error) {
	post, err := s.posts.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.loadRelations([]*models.Post{post}); err != nil {
		return nil, err
	}

	count, err := s.posts.Count(repositories.PostFilter{AuthorID: &post.AuthorID})
	if err != nil {
		return nil, fmt.Errorf("count posts of author %d: %w", post.AuthorID, err)
	}
	return &PostDetail{Post: post, AuthorPostCount: count}, nil
}

// ListGroups returns the choices offered by the post form.
func (s *ListingService) ListGroups() ([]*models.Group, error) {
	return s.groups.List()
}

func (s *ListingService) paginate(filter repositories.PostFilter, raw string) (*PostPage, error) {
	count, err := s.posts.Count(filter)
	if err != nil {
		return nil, fmt.Errorf("count posts: %w", err)
	}

	number, _ := pagination.Resolve(count, s.perPage, raw)
	posts, err := s.posts.List(filter, s.perPage, pagination.Offset(number, s.perPage))
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}
	if err := s.loadRelations(posts); err != nil {
		return nil, err
	}
	return pagination.New(posts, number, count, s.perPage), nil
}

// loadRelations fills in Author and Group, fetching each distinct row once.
func (s *ListingService) loadRelations(posts []*models.Post) error {
	users := make(map[int]*models.User)
	groups := make(map[int]*models.Group)

	for _, post := range posts {
		author, ok := users[post.AuthorID]
		if !ok {
			var err error
			author, err = s.users.GetByID(post.AuthorID)
			if err != nil {
				return fmt.Errorf("load author %d of post %d: %w", post.AuthorID, post.ID, err)
			}
			users[post.AuthorID] = author
		}
		post.Author = author

		if post.GroupID == nil {
			continue
		}
		group, ok := groups[*post.GroupID]
		if !ok {
			var err error
			group, err = s.groups.GetByID(*post.GroupID)
			if errors.Is(err, repositories.ErrNotFound) {
				group = nil
			} else if err != nil {
				return fmt.Errorf("load group %d of post %d: %w", *post.GroupID, post.ID, err)
			}
			groups[*post.GroupID] = group
		}
		post.Group = group
	}
	return nil
}
