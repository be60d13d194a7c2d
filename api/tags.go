package api

import (
	"context"
	"fmt"
	"net/url"
)

// DefaultTagNamespace is the tag root listed when no namespace is given
const DefaultTagNamespace = "/content/cq:tags"

// CreatedTag is reported after a successful CreateTag
type CreatedTag struct {
	Path        string `json:"path"`
	Name        string `json:"name"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// ListTags returns every tag directly under namespace. Tag listings are not
// truncated.
func (c *Client) ListTags(ctx context.Context, namespace string) ([]*Node, error) {
	if namespace == "" {
		namespace = DefaultTagNamespace
	}

	node, err := c.GetNode(ctx, namespace+".1.json")
	if err != nil {
		return nil, err
	}
	return ProjectChildren(node, namespace, NoLimit, TagProjection), nil
}

// CreateTag creates a cq:Tag named name under namespace
func (c *Client) CreateTag(ctx context.Context, namespace, name, title, description string) (*CreatedTag, error) {
	if name == "" {
		return nil, fmt.Errorf("tag name is required")
	}
	if namespace == "" {
		namespace = DefaultTagNamespace
	}
	path := childPath(namespace, name)

	form := url.Values{}
	form.Set("jcr:primaryType", "cq:Tag")
	form.Set("jcr:title", title)
	if description != "" {
		form.Set("jcr:description", description)
	}

	if _, err := c.PostForm(ctx, path, form); err != nil {
		return nil, err
	}

	return &CreatedTag{
		Path:        path,
		Name:        name,
		Title:       title,
		Description: description,
	}, nil
}

// DeleteTag removes the tag node at path
func (c *Client) DeleteTag(ctx context.Context, path string) error {
	_, err := c.Delete(ctx, path)
	return err
}
