package models

// NodeKind distinguishes file and folder tree nodes.
type NodeKind string

const (
	NodeKindFile   NodeKind = "file"
	NodeKindFolder NodeKind = "folder"
)

// FileTreeNode is one node of the browsable directory tree. It is rebuilt
// from the filesystem on every request and never persisted.
type FileTreeNode struct {
	Name     string          `json:"name"`
	Path     string          `json:"path"`
	Kind     NodeKind        `json:"type"`
	Children []*FileTreeNode `json:"children"`
	FileInfo *Document       `json:"file_info,omitempty"`
}
