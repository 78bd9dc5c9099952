package model

// Resource keys inspected by the sync. Everything else is opaque payload.
const (
	ResourceKeyName        = "name"
	ResourceKeyWorkspaceID = "workspace_id"
	StateKeyResources      = "resources"
)

// Resource is one managed infrastructure object taken from a state document.
// It is forwarded as-is apart from the workspace_id stamp.
type Resource map[string]any

// Name returns the resource name or "" when absent or not a string.
func (r Resource) Name() string {
	s, _ := r[ResourceKeyName].(string)
	return s
}

// WorkspaceID returns the owning workspace identifier stamped on the resource.
func (r Resource) WorkspaceID() string {
	s, _ := r[ResourceKeyWorkspaceID].(string)
	return s
}

// SetWorkspaceID stamps the owning workspace identifier.
func (r Resource) SetWorkspaceID(id string) {
	r[ResourceKeyWorkspaceID] = id
}

// StateRecord is one decoded state object.
type StateRecord map[string]any

// Resources returns the entries of the record's resources field.
// A missing or non-array field yields nil, and entries that are not objects are dropped.
func (s StateRecord) Resources() []Resource {
	items, ok := s[StateKeyResources].([]any)
	if !ok {
		return nil
	}
	out := make([]Resource, 0, len(items))
	for _, it := range items {
		m, ok := it.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, Resource(m))
	}
	return out
}
