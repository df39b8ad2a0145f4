package models

import (
	"errors"
	"fmt"
	"time"
)

// Validate checks if the post meets all validation requirements
func (p *Post) Validate() error {
	if err := validate.Struct(p); err != nil {
		return err
	}

	if p.PubDate.IsZero() {
		return errors.New("pub_date cannot be zero")
	}

	return nil
}

// BeforeCreate stamps the publication date. It is the only place PubDate is set.
func (p *Post) BeforeCreate(now time.Time) {
	if p.PubDate.IsZero() {
		p.PubDate = now
	}
}

// SetGroup assigns the post to group, or clears the assignment when group is nil.
func (p *Post) SetGroup(group *Group) {
	if group == nil {
		p.GroupID = nil
		p.Group = nil
		return
	}
	id := group.ID
	p.GroupID = &id
	p.Group = group
}

// InGroup reports whether the post is filed under the group with the given id.
func (p *Post) InGroup(groupID int) bool {
	return p.GroupID != nil && *p.GroupID == groupID
}

// IsAuthoredBy reports whether user wrote the post. A nil user never matches.
func (p *Post) IsAuthoredBy(user *User) bool {
	return user != nil && user.ID == p.AuthorID
}

// String returns the first fifteen characters of the text.
func (p *Post) String() string {
	runes := []rune(p.Text)
	if len(runes) > 15 {
		return string(runes[:15])
	}
	return p.Text
}

func (p *Post) DetailURL() string {
	return fmt.Sprintf("/posts/%d/", p.ID)
}

func (p *Post) EditURL() string {
	return fmt.Sprintf("/posts/%d/edit/", p.ID)
}
