package protocol

import "strings"

// Root is a filesystem root the client exposes to the server. Per the MCP
// roots spec every URI must currently use the file:// scheme.
type Root struct {
	URI  string `json:"uri"`
	Name string `json:"name,omitempty"`
}

// Valid reports whether r carries a file:// URI, the only scheme the roots
// feature accepts today.
func (r Root) Valid() bool {
	return strings.HasPrefix(r.URI, "file://")
}

// RootsResponse is the result object for roots/list.
type RootsResponse struct {
	Roots []Root `json:"roots"`
}
