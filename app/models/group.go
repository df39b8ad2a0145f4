package models

import "net/url"

// Validate checks the group's struct tags.
func (g *Group) Validate() error {
	return validate.Struct(g)
}

func (g *Group) String() string {
	return g.Title
}

func (g *Group) URL() string {
	return "/group/" + url.PathEscape(g.Slug) + "/"
}
