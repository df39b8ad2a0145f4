package repositories

import "yatube/app/models"

// PostFilter narrows post queries. A zero filter matches every post.
type PostFilter struct {
	GroupID  *int
	AuthorID *int
}

// Matches reports whether post satisfies every set criterion.
func (f PostFilter) Matches(post *models.Post) bool {
	if f.GroupID != nil && !post.InGroup(*f.GroupID) {
		return false
	}
	if f.AuthorID != nil && post.AuthorID != *f.AuthorID {
		return false
	}
	return true
}

// PostRepository defines the interface for post data access.
// List returns posts newest first.
type PostRepository interface {
	Create(post *models.Post) error
	GetByID(id int) (*models.Post, error)
	List(filter PostFilter, limit, offset int) ([]*models.Post, error)
	Count(filter PostFilter) (int, error)
	Update(post *models.Post) error
}

// GroupRepository defines the interface for group data access.
// List returns groups ordered by title, descending.
type GroupRepository interface {
	Create(group *models.Group) error
	GetByID(id int) (*models.Group, error)
	GetBySlug(slug string) (*models.Group, error)
	List() ([]*models.Group, error)
	Delete(id int) error
}

// UserRepository defines the interface for user data access
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id int) (*models.User, error)
	GetByUsername(username string) (*models.User, error)
}
