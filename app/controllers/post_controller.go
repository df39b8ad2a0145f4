package controllers

import (
	"net/http"
	"strconv"

	"yatube/app/middleware"
	"yatube/app/services"
	"yatube/app/views"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// PostController handles HTTP requests for posts
type PostController struct {
	base
	listing *services.ListingService
	posts   *services.PostService
}

// NewPostController creates a new PostController
func NewPostController(listing *services.ListingService, posts *services.PostService, renderer *views.Renderer, logger *zap.Logger) *PostController {
	return &PostController{
		base:    newBase(renderer, logger),
		listing: listing,
		posts:   posts,
	}
}

// Index lists every post, newest first.
func (pc *PostController) Index(w http.ResponseWriter, r *http.Request) {
	page, err := pc.listing.ListRecentPosts(r.URL.Query().Get("page"))
	if err != nil {
		pc.handleError(w, r, err)
		return
	}
	pc.render(w, r, http.StatusOK, "posts/index", H{"page": page})
}

// GroupList lists the posts of one group.
func (pc *PostController) GroupList(w http.ResponseWriter, r *http.Request) {
	group, page, err := pc.listing.ListPostsByGroup(mux.Vars(r)["slug"], r.URL.Query().Get("page"))
	if err != nil {
		pc.handleError(w, r, err)
		return
	}
	pc.render(w, r, http.StatusOK, "posts/group_list", H{"group": group, "page": page})
}

// Profile lists the posts of one author.
func (pc *PostController) Profile(w http.ResponseWriter, r *http.Request) {
	author, page, err := pc.listing.ListPostsByAuthor(mux.Vars(r)["username"], r.URL.Query().Get("page"))
	if err != nil {
		pc.handleError(w, r, err)
		return
	}
	pc.render(w, r, http.StatusOK, "posts/profile", H{"author": author, "page": page})
}

// Detail shows a single post.
func (pc *PostController) Detail(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(r)
	if !ok {
		pc.notFound(w, r)
		return
	}

	detail, err := pc.listing.GetPost(id)
	if err != nil {
		pc.handleError(w, r, err)
		return
	}
	pc.render(w, r, http.StatusOK, "posts/post_detail", H{
		"post":            detail.Post,
		"authorPostCount": detail.AuthorPostCount,
		"canEdit":         detail.Post.IsAuthoredBy(middleware.CurrentUser(r)),
	})
}

// Create shows the new post form on GET and stores the post on POST.
func (pc *PostController) Create(w http.ResponseWriter, r *http.Request) {
	actor := middleware.CurrentUser(r)

	if r.Method != http.MethodPost {
		result, err := pc.posts.NewForm(actor)
		if err != nil {
			pc.handleError(w, r, err)
			return
		}
		pc.renderForm(w, r, result, false)
		return
	}

	values, err := formValues(r)
	if err != nil {
		pc.sendError(w, r, "Invalid form: "+err.Error(), http.StatusBadRequest)
		return
	}

	result, err := pc.posts.CreatePost(actor, values)
	if err != nil {
		pc.handleError(w, r, err)
		return
	}
	pc.respond(w, r, result, false)
}

// Edit lets the author change a post. Anyone else is redirected to the
// post's detail page without an error.
func (pc *PostController) Edit(w http.ResponseWriter, r *http.Request) {
	id, ok := postID(r)
	if !ok {
		pc.notFound(w, r)
		return
	}
	actor := middleware.CurrentUser(r)

	if r.Method != http.MethodPost {
		result, err := pc.posts.PrepareEdit(actor, id)
		if err != nil {
			pc.handleError(w, r, err)
			return
		}
		pc.respond(w, r, result, true)
		return
	}

	values, err := formValues(r)
	if err != nil {
		pc.sendError(w, r, "Invalid form: "+err.Error(), http.StatusBadRequest)
		return
	}

	result, err := pc.posts.EditPost(actor, id, values)
	if err != nil {
		pc.handleError(w, r, err)
		return
	}
	pc.respond(w, r, result, true)
}

func (pc *PostController) respond(w http.ResponseWriter, r *http.Request, result *services.Result, isEdit bool) {
	switch result.Outcome {
	case services.OutcomeSaved, services.OutcomeNotAuthor:
		if result.Outcome == services.OutcomeSaved {
			pc.logger.Info("post saved",
				zap.Int("post_id", result.Post.ID),
				zap.Int("author_id", result.Post.AuthorID),
				zap.Bool("edit", isEdit),
			)
		}
		http.Redirect(w, r, result.Redirect, http.StatusFound)
	default:
		pc.renderForm(w, r, result, isEdit)
	}
}

func (pc *PostController) renderForm(w http.ResponseWriter, r *http.Request, result *services.Result, isEdit bool) {
	groups, err := pc.listing.ListGroups()
	if err != nil {
		pc.handleError(w, r, err)
		return
	}
	pc.render(w, r, http.StatusOK, "posts/create_post", H{
		"form":   result.Form,
		"errors": errorsOrEmpty(result.Errors),
		"groups": groups,
		"post":   result.Post,
		"isEdit": isEdit,
	})
}

func postID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["post_id"])
	if err != nil || id < 1 {
		return 0, false
	}
	return id, true
}
