// Package tfstate decodes downloaded state documents and flattens them into
// workspace-tagged resources.
package tfstate
