package forms

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"yatube/app/models"
	"yatube/app/repositories"
)

// InvalidChoice is reported when the submitted group does not exist.
const InvalidChoice = "Select a valid choice. That choice is not one of the available choices."

// GroupLookup resolves a group by ID. repositories.GroupRepository satisfies it.
type GroupLookup interface {
	GetByID(id int) (*models.Group, error)
}

// PostForm holds the raw fields of the create and edit pages.
type PostForm struct {
	Text  string `form:"text" json:"text" validate:"required"`
	Group string `form:"group" json:"group"`
}

// Payload is a validated post form: only the fields a user may set.
type Payload struct {
	Text  string
	Group *models.Group
}

// BindPost reads the form from values. Fields absent from values keep the
// value they have on base, which is nil when creating.
func BindPost(values url.Values, base *models.Post) *PostForm {
	form := &PostForm{}
	if base != nil {
		form.Text = base.Text
		if base.GroupID != nil {
			form.Group = strconv.Itoa(*base.GroupID)
		}
	}

	if _, ok := values["text"]; ok {
		form.Text = values.Get("text")
	}
	if _, ok := values["group"]; ok {
		form.Group = values.Get("group")
	}
	return form
}

// SelectedGroup returns the chosen group ID, or 0 if none or unparseable.
// Templates use it to mark the selected option.
func (f *PostForm) SelectedGroup() int {
	id, _ := strconv.Atoi(strings.TrimSpace(f.Group))
	return id
}

// Validate checks the form. Only a failure of the group lookup itself is
// returned as an error.
func (f *PostForm) Validate(groups GroupLookup) (*Payload, Errors, error) {
	errs := Errors{}

	trimmed := PostForm{Text: strings.TrimSpace(f.Text), Group: strings.TrimSpace(f.Group)}
	check(&trimmed, errs)

	payload := &Payload{Text: trimmed.Text}
	if trimmed.Group != "" {
		group, err := f.resolveGroup(trimmed.Group, groups)
		if err != nil {
			return nil, nil, err
		}
		if group == nil {
			errs.Add("group", InvalidChoice)
		}
		payload.Group = group
	}

	if errs.Any() {
		return nil, errs, nil
	}
	return payload, nil, nil
}

// resolveGroup returns nil when raw names no existing group.
func (f *PostForm) resolveGroup(raw string, groups GroupLookup) (*models.Group, error) {
	id, err := strconv.Atoi(raw)
	if err != nil || id < 1 {
		return nil, nil
	}
	group, err := groups.GetByID(id)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("look up group %d: %w", id, err)
	}
	return group, nil
}
