package tfc

import (
	"context"
	"iter"

	"github.com/kompox/tfcsync/domain/model"
)

type workspaceListDocument struct {
	Data  []resourceObject `json:"data"`
	Links struct {
		Next *string `json:"next"`
	} `json:"links"`
}

type resourceObject struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Attributes map[string]any `json:"attributes"`
}

func (o resourceObject) toWorkspace() model.Workspace {
	name, _ := o.Attributes["name"].(string)
	return model.Workspace{ID: o.ID, Name: name, Attributes: o.Attributes}
}

// WorkspacePages yields the organization's workspaces page by page, following
// links.next until the server stops supplying one. Every range over the
// returned sequence starts again from the first page. A failed page is yielded
// as the error and ends the sequence.
func (c *Client) WorkspacePages(ctx context.Context, org string) iter.Seq2[[]model.Workspace, error] {
	return func(yield func([]model.Workspace, error) bool) {
		next := c.endpoint("organizations", org, "workspaces")
		for next != "" {
			var doc workspaceListDocument
			if err := c.getJSON(ctx, next, &doc); err != nil {
				yield(nil, err)
				return
			}
			page := make([]model.Workspace, 0, len(doc.Data))
			for _, o := range doc.Data {
				page = append(page, o.toWorkspace())
			}
			if !yield(page, nil) {
				return
			}
			next = ""
			if doc.Links.Next != nil && *doc.Links.Next != "" {
				u, err := c.resolve(*doc.Links.Next)
				if err != nil {
					yield(nil, err)
					return
				}
				next = u
			}
		}
	}
}

// ListWorkspaces returns all workspaces of org in page order.
// No partial result is returned when any page fails.
func (c *Client) ListWorkspaces(ctx context.Context, org string) ([]model.Workspace, error) {
	var out []model.Workspace
	for page, err := range c.WorkspacePages(ctx, org) {
		if err != nil {
			return nil, err
		}
		out = append(out, page...)
	}
	return out, nil
}
