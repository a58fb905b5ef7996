package protocol

// Implementation identifies a client or server for the initialize handshake.
type Implementation struct {
	Name    string `json:"name"`
	Version string `json:"version"`
}

// RootsCapability declares whether the client will emit
// notifications/roots/list_changed when its root set changes.
type RootsCapability struct {
	ListChanged bool `json:"listChanged,omitempty"`
}

// SamplingCapability declares that the client supports sampling/createMessage.
// It carries no fields today; its presence is the signal.
type SamplingCapability struct{}

// ClientCapabilities is advertised by the client in initialize params.
type ClientCapabilities struct {
	Roots        *RootsCapability       `json:"roots,omitempty"`
	Sampling     *SamplingCapability    `json:"sampling,omitempty"`
	Experimental map[string]interface{} `json:"experimental,omitempty"`
}

// ToolsCapability declares whether the server will emit
// notifications/tools/list_changed.
type ToolsCapability struct {
	ListChanged bool `json:"listChanged,omitempty"`
}

// ResourcesCapability declares subscribe support and list-changed notices.
type ResourcesCapability struct {
	Subscribe   bool `json:"subscribe,omitempty"`
	ListChanged bool `json:"listChanged,omitempty"`
}

// PromptsCapability declares whether the server will emit
// notifications/prompts/list_changed.
type PromptsCapability struct {
	ListChanged bool `json:"listChanged,omitempty"`
}

// LoggingCapability signals support for logging/setLevel. No sub-fields.
type LoggingCapability struct{}

// CompletionsCapability signals support for completion/complete.
type CompletionsCapability struct{}

// ServerCapabilities is advertised by the server in the initialize result.
type ServerCapabilities struct {
	Tools        *ToolsCapability        `json:"tools,omitempty"`
	Resources    *ResourcesCapability    `json:"resources,omitempty"`
	Prompts      *PromptsCapability      `json:"prompts,omitempty"`
	Logging      *LoggingCapability      `json:"logging,omitempty"`
	Completions  *CompletionsCapability  `json:"completions,omitempty"`
	Experimental map[string]interface{} `json:"experimental,omitempty"`
}

// MergeClientCapabilities folds extra field-by-field into base, favoring
// base's own non-nil fields. Mirrors the original SDK's MergeCapabilities:
// a fallback handler registered after initialize can only add capabilities,
// never silently remove one the peer already negotiated.
func MergeClientCapabilities(base, extra ClientCapabilities) ClientCapabilities {
	if base.Roots == nil {
		base.Roots = extra.Roots
	}
	if base.Sampling == nil {
		base.Sampling = extra.Sampling
	}
	if base.Experimental == nil {
		base.Experimental = extra.Experimental
	} else {
		for k, v := range extra.Experimental {
			if _, ok := base.Experimental[k]; !ok {
				base.Experimental[k] = v
			}
		}
	}
	return base
}

// MergeServerCapabilities folds extra field-by-field into base, favoring
// base's own non-nil fields.
func MergeServerCapabilities(base, extra ServerCapabilities) ServerCapabilities {
	if base.Tools == nil {
		base.Tools = extra.Tools
	}
	if base.Resources == nil {
		base.Resources = extra.Resources
	}
	if base.Prompts == nil {
		base.Prompts = extra.Prompts
	}
	if base.Logging == nil {
		base.Logging = extra.Logging
	}
	if base.Completions == nil {
		base.Completions = extra.Completions
	}
	if base.Experimental == nil {
		base.Experimental = extra.Experimental
	} else {
		for k, v := range extra.Experimental {
			if _, ok := base.Experimental[k]; !ok {
				base.Experimental[k] = v
			}
		}
	}
	return base
}
