package controllers

import (
	"net/http"

	"yatube/app/services"
	"yatube/app/views"

	"go.uber.org/zap"
)

// AboutController serves the static pages.
type AboutController struct {
	base
}

func NewAboutController(renderer *views.Renderer, logger *zap.Logger) *AboutController {
	return &AboutController{base: newBase(renderer, logger)}
}

func (ac *AboutController) Author(w http.ResponseWriter, r *http.Request) {
	ac.renderPage(w, r, "about/author", services.AboutAuthor())
}

func (ac *AboutController) Tech(w http.ResponseWriter, r *http.Request) {
	ac.renderPage(w, r, "about/tech", services.AboutTech())
}

func (ac *AboutController) renderPage(w http.ResponseWriter, r *http.Request, name string, page services.AboutPage) {
	ac.render(w, r, http.StatusOK, name, H{
		"title":  page.Title,
		"header": page.Header,
		"text":   page.Text,
	})
}
