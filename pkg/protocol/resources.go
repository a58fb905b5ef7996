package protocol

// ResourceAnnotations carries optional hints about a resource's intended
// audience and priority, as defined by the MCP resource annotation object.
type ResourceAnnotations struct {
	Audience []string `json:"audience,omitempty"`
	Priority *float64 `json:"priority,omitempty"`
}

// Resource is a single concrete, URI-addressed entry in the resources/list
// result.
type Resource struct {
	URI         string               `json:"uri"`
	Name        string               `json:"name"`
	Description string               `json:"description,omitempty"`
	MimeType    string               `json:"mimeType,omitempty"`
	Size        int64                `json:"size,omitempty"`
	Annotations *ResourceAnnotations `json:"annotations,omitempty"`

	// Type and Metadata are kept from the teacher's original resource
	// shape for the sample resources in pkg/resources; they ride outside
	// the wire object as local bookkeeping and are not part of the MCP
	// resources/list entry itself.
	Type     string                 `json:"-"`
	Metadata map[string]interface{} `json:"-"`
}

// ResourceTemplate is a single entry in the resources/templates/list
// result: a URI template plus metadata describing the resources it
// expands to match.
type ResourceTemplate struct {
	URITemplate string               `json:"uriTemplate"`
	Name        string               `json:"name"`
	Description string               `json:"description,omitempty"`
	MimeType    string               `json:"mimeType,omitempty"`
	Annotations *ResourceAnnotations `json:"annotations,omitempty"`
}

// ResourcesResponse is the result object for resources/list.
type ResourcesResponse struct {
	Resources  []Resource `json:"resources"`
	NextCursor string     `json:"nextCursor,omitempty"`
}

// ResourceTemplatesResponse is the result object for
// resources/templates/list.
type ResourceTemplatesResponse struct {
	ResourceTemplates []ResourceTemplate `json:"resourceTemplates"`
	NextCursor        string             `json:"nextCursor,omitempty"`
}

// ReadResourceResult is the result object for resources/read.
type ReadResourceResult struct {
	Contents []ResourceContents `json:"contents"`
}

// ResourceResponse is kept from the teacher's original single-resource
// query response shape, used by pkg/resources.HandleResourceQuery.
type ResourceResponse struct {
	Contents interface{} `json:"contents"`
}
