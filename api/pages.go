package api

import (
	"context"
	"fmt"
	"net/url"
)

const (
	// DefaultPagesPath is the site root listed when no path is given
	DefaultPagesPath = "/content"
	// DefaultTemplate is used by CreatePage when no template is given
	DefaultTemplate = "/libs/wcm/foundation/templates/page"
)

// PageSpec describes a page to create
type PageSpec struct {
	Parent      string
	Name        string
	Title       string
	Template    string
	Description string
	// BodyHTML, when set, is stored as a rich text component on the page.
	BodyHTML string
}

// CreatedPage is reported after a successful CreatePage
type CreatedPage struct {
	Path     string `json:"path"`
	Title    string `json:"title"`
	Template string `json:"template"`
}

// ListPages returns up to limit pages directly under path
func (c *Client) ListPages(ctx context.Context, path string, limit int) ([]*Node, error) {
	if err := checkLimit(limit); err != nil {
		return nil, err
	}
	if path == "" {
		path = DefaultPagesPath
	}

	node, err := c.GetNode(ctx, path+".1.json")
	if err != nil {
		return nil, err
	}
	return ProjectChildren(node, path, limit, PageProjection), nil
}

// GetPage returns the full page tree with its path added
func (c *Client) GetPage(ctx context.Context, path string) (*Node, error) {
	return c.getDocument(ctx, path)
}

// CreatePage creates a cq:Page through the Sling POST servlet. The result is
// built from the request, not read back from the server.
func (c *Client) CreatePage(ctx context.Context, spec PageSpec) (*CreatedPage, error) {
	if spec.Parent == "" || spec.Name == "" {
		return nil, fmt.Errorf("page parent and name are required")
	}
	if spec.Template == "" {
		spec.Template = DefaultTemplate
	}

	form := url.Values{}
	form.Set(":name", spec.Name)
	form.Set("jcr:primaryType", "cq:Page")
	form.Set("jcr:content/jcr:primaryType", "cq:PageContent")
	form.Set("jcr:content/jcr:title", spec.Title)
	form.Set("jcr:content/cq:template", spec.Template)
	if spec.Description != "" {
		form.Set("jcr:content/jcr:description", spec.Description)
	}
	if spec.BodyHTML != "" {
		form.Set("jcr:content/root/text/sling:resourceType", "foundation/components/text")
		form.Set("jcr:content/root/text/text", spec.BodyHTML)
		form.Set("jcr:content/root/text/textIsRich", "true")
	}

	if _, err := c.PostForm(ctx, spec.Parent, form); err != nil {
		return nil, err
	}

	return &CreatedPage{
		Path:     childPath(spec.Parent, spec.Name),
		Title:    spec.Title,
		Template: spec.Template,
	}, nil
}
