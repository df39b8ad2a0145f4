package services

import (
	"errors"
	"fmt"
	"net/url"
	"time"

	"yatube/app/forms"
	"yatube/app/models"
	"yatube/app/repositories"
)

var ErrUnauthenticated = errors.New("authentication required")

// Outcome tells the caller what to do with a Result.
type Outcome int

const (
	// OutcomeForm: show the form, nothing was submitted.
	OutcomeForm Outcome = iota
	// OutcomeSaved: the post was stored, follow Redirect.
	OutcomeSaved
	// OutcomeInvalid: show the form again with Errors.
	OutcomeInvalid
	// OutcomeNotAuthor: the actor may not edit this post, follow Redirect.
	OutcomeNotAuthor
)

func (o Outcome) String() string {
	switch o {
	case OutcomeForm:
		return "form"
	case OutcomeSaved:
		return "saved"
	case OutcomeInvalid:
		return "invalid"
	case OutcomeNotAuthor:
		return "not_author"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Result is what the create and edit operations hand back to the boundary.
type Result struct {
	Outcome  Outcome
	Post     *models.Post
	Form     *forms.PostForm
	Errors   forms.Errors
	Redirect string
}

// PostService handles creating and editing posts
type PostService struct {
	postRepo  repositories.PostRepository
	groupRepo repositories.GroupRepository
	now       func() time.Time
}

// NewPostService creates a new PostService
func NewPostService(postRepo repositories.PostRepository, groupRepo repositories.GroupRepository) *PostService {
	return &PostService{
		postRepo:  postRepo,
		groupRepo: groupRepo,
		now:       time.Now,
	}
}

// NewForm returns an empty create form for an authenticated actor.
func (s *PostService) NewForm(actor *models.User) (*Result, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	return &Result{Outcome: OutcomeForm, Form: &forms.PostForm{}}, nil
}

// CreatePost validates values and stores a new post written by actor.
func (s *PostService) CreatePost(actor *models.User, values url.Values) (*Result, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}

	form := forms.BindPost(values, nil)
	payload, errs, err := form.Validate(s.groupRepo)
	if err != nil {
		return nil, err
	}
	if errs.Any() {
		return &Result{Outcome: OutcomeInvalid, Form: form, Errors: errs}, nil
	}

	post := &models.Post{
		Text:     payload.Text,
		AuthorID: actor.ID,
	}
	post.SetGroup(payload.Group)
	post.BeforeCreate(s.now())
	if err := post.Validate(); err != nil {
		return nil, fmt.Errorf("invalid post: %w", err)
	}

	if err := s.postRepo.Create(post); err != nil {
		return nil, fmt.Errorf("create post: %w", err)
	}
	post.Author = actor

	return &Result{Outcome: OutcomeSaved, Post: post, Redirect: actor.ProfileURL()}, nil
}

// PrepareEdit returns the edit form filled from the stored post.
func (s *PostService) PrepareEdit(actor *models.User, id int) (*Result, error) {
	post, err := s.postRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !post.IsAuthoredBy(actor) {
		return &Result{Outcome: OutcomeNotAuthor, Post: post, Redirect: post.DetailURL()}, nil
	}

	return &Result{Outcome: OutcomeForm, Post: post, Form: forms.BindPost(nil, post)}, nil
}

// EditPost applies values to the post if actor wrote it. Anyone else is sent
// to the detail page and nothing changes.
func (s *PostService) EditPost(actor *models.User, id int, values url.Values) (*Result, error) {
	post, err := s.postRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if !post.IsAuthoredBy(actor) {
		return &Result{Outcome: OutcomeNotAuthor, Post: post, Redirect: post.DetailURL()}, nil
	}

	form := forms.BindPost(values, post)
	payload, errs, err := form.Validate(s.groupRepo)
	if err != nil {
		return nil, err
	}
	if errs.Any() {
		return &Result{Outcome: OutcomeInvalid, Post: post, Form: form, Errors: errs}, nil
	}

	post.Text = payload.Text
	post.SetGroup(payload.Group)
	if err := post.Validate(); err != nil {
		return nil, fmt.Errorf("invalid post: %w", err)
	}
	if err := s.postRepo.Update(post); err != nil {
		return nil, fmt.Errorf("update post %d: %w", id, err)
	}
	post.Author = actor

	return &Result{Outcome: OutcomeSaved, Post: post, Redirect: post.DetailURL()}, nil
}
