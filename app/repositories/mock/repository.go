package mock

import (
	"sort"
	"sync"

	"yatube/app/models"
	"yatube/app/repositories"
)

type PostRepository struct {
	posts  map[int]*models.Post
	nextID int
	mutex  sync.RWMutex
}

type GroupRepository struct {
	groups map[int]*models.Group
	nextID int
	mutex  sync.RWMutex

	// Posts, when set, has its references cleared on Delete.
	Posts *PostRepository
}

type UserRepository struct {
	users  map[int]*models.User
	nextID int
	mutex  sync.RWMutex
}

func NewPostRepository() *PostRepository {
	return &PostRepository{
		posts:  make(map[int]*models.Post),
		nextID: 1,
	}
}

func (m *PostRepository) Clear() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.posts = make(map[int]*models.Post)
	m.nextID = 1
}

func NewGroupRepository(posts *PostRepository) *GroupRepository {
	return &GroupRepository{
		groups: make(map[int]*models.Group),
		nextID: 1,
		Posts:  posts,
	}
}

func NewUserRepository() *UserRepository {
	return &UserRepository{
		users:  make(map[int]*models.User),
		nextID: 1,
	}
}

// stored copies keep callers from mutating repository state through shared pointers
func copyPost(post *models.Post) *models.Post {
	c := *post
	c.Author = nil
	c.Group = nil
	if post.GroupID != nil {
		id := *post.GroupID
		c.GroupID = &id
	}
	return &c
}

// PostRepository implementation
func (m *PostRepository) Create(post *models.Post) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	post.ID = m.nextID
	m.nextID++
	m.posts[post.ID] = copyPost(post)
	return nil
}

func (m *PostRepository) GetByID(id int) (*models.Post, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	post, exists := m.posts[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	return copyPost(post), nil
}

func (m *PostRepository) Update(post *models.Post) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	existing, exists := m.posts[post.ID]
	if !exists {
		return repositories.ErrNotFound
	}
	post.PubDate = existing.PubDate
	m.posts[post.ID] = copyPost(post)
	return nil
}

func (m *PostRepository) List(filter repositories.PostFilter, limit, offset int) ([]*models.Post, error) {
	posts := m.matching(filter)
	sort.SliceStable(posts, func(i, j int) bool {
		if posts[i].PubDate.Equal(posts[j].PubDate) {
			return posts[i].ID > posts[j].ID
		}
		return posts[i].PubDate.After(posts[j].PubDate)
	})

	if offset >= len(posts) {
		return []*models.Post{}, nil
	}
	end := len(posts)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return posts[offset:end], nil
}

func (m *PostRepository) Count(filter repositories.PostFilter) (int, error) {
	return len(m.matching(filter)), nil
}

// clearGroup detaches the group's posts, as deleting a group does.
func (m *PostRepository) clearGroup(groupID int) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for _, post := range m.posts {
		if post.InGroup(groupID) {
			post.GroupID = nil
		}
	}
}

func (m *PostRepository) matching(filter repositories.PostFilter) []*models.Post {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	var posts []*models.Post
	for _, post := range m.posts {
		if filter.Matches(post) {
			posts = append(posts, copyPost(post))
		}
	}
	return posts
}

// GroupRepository implementation
func (m *GroupRepository) Create(group *models.Group) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for _, g := range m.groups {
		if g.Slug == group.Slug {
			return repositories.ErrDuplicateSlug
		}
	}
	group.ID = m.nextID
	m.nextID++
	stored := *group
	m.groups[group.ID] = &stored
	return nil
}

func (m *GroupRepository) GetByID(id int) (*models.Group, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	group, exists := m.groups[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	g := *group
	return &g, nil
}

func (m *GroupRepository) GetBySlug(slug string) (*models.Group, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for _, group := range m.groups {
		if group.Slug == slug {
			g := *group
			return &g, nil
		}
	}
	return nil, repositories.ErrNotFound
}

func (m *GroupRepository) List() ([]*models.Group, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	groups := make([]*models.Group, 0, len(m.groups))
	for _, group := range m.groups {
		g := *group
		groups = append(groups, &g)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Title > groups[j].Title
	})
	return groups, nil
}

func (m *GroupRepository) Delete(id int) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	if _, exists := m.groups[id]; !exists {
		return repositories.ErrNotFound
	}
	if m.Posts != nil {
		m.Posts.clearGroup(id)
	}
	delete(m.groups, id)
	return nil
}

// UserRepository implementation
func (m *UserRepository) Create(user *models.User) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	for _, u := range m.users {
		if u.Username == user.Username {
			return repositories.ErrDuplicateUsername
		}
	}
	user.ID = m.nextID
	m.nextID++
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *UserRepository) GetByID(id int) (*models.User, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	user, exists := m.users[id]
	if !exists {
		return nil, repositories.ErrNotFound
	}
	u := *user
	return &u, nil
}

func (m *UserRepository) GetByUsername(username string) (*models.User, error) {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	for _, user := range m.users {
		if user.Username == username {
			u := *user
			return &u, nil
		}
	}
	return nil, repositories.ErrNotFound
}

var (
	_ repositories.PostRepository  = (*PostRepository)(nil)
	_ repositories.GroupRepository = (*GroupRepository)(nil)
	_ repositories.UserRepository  = (*UserRepository)(nil)
)
