package protocol

// ContentType enumerates the shapes a content item can take.
type ContentType string

const (
	ContentTypeText            ContentType = "text"
	ContentTypeImage           ContentType = "image"
	ContentTypeAudio           ContentType = "audio"
	ContentTypeEmbeddedResource ContentType = "resource"
)

// Content is a single item of tool/prompt/sampling output. Exactly the
// fields matching Type are meaningful; the rest are zero.
type Content struct {
	Type ContentType `json:"type"`

	// Text content.
	Text string `json:"text,omitempty"`

	// Image/audio content: base64-encoded Data plus its MimeType.
	Data     string `json:"data,omitempty"`
	MimeType string `json:"mimeType,omitempty"`

	// Embedded resource content.
	Resource *ResourceContents `json:"resource,omitempty"`
}

// ResourceContents is the inlined body of a resource, as embedded in a
// Content item or returned from resources/read.
type ResourceContents struct {
	URI      string `json:"uri"`
	MimeType string `json:"mimeType,omitempty"`
	Text     string `json:"text,omitempty"`
	Blob     string `json:"blob,omitempty"`
}

// TextContent builds a text Content item.
func TextContent(text string) Content {
	return Content{Type: ContentTypeText, Text: text}
}

// ImageContent builds an image Content item from base64 data.
func ImageContent(data, mimeType string) Content {
	return Content{Type: ContentTypeImage, Data: data, MimeType: mimeType}
}

// AudioContent builds an audio Content item from base64 data.
func AudioContent(data, mimeType string) Content {
	return Content{Type: ContentTypeAudio, Data: data, MimeType: mimeType}
}

// EmbeddedResourceContent builds a resource Content item.
func EmbeddedResourceContent(res ResourceContents) Content {
	return Content{Type: ContentTypeEmbeddedResource, Resource: &res}
}

// PromptContent is kept as an alias of the teacher's original field name
// for prompt message bodies; it carries the same text/image shape as
// Content but is used specifically inside PromptMessage.
type PromptContent = Content
