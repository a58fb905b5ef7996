package protocol

// Method is the JSON-RPC "method" string for a request or notification in
// the MCP method surface.
type Method string

// Lifecycle and utility methods, usable by either role.
const (
	MethodInitialize Method = "initialize"
	MethodPing       Method = "ping"
)

// Client-to-server requests.
const (
	MethodToolsList             Method = "tools/list"
	MethodToolsCall             Method = "tools/call"
	MethodPromptsList           Method = "prompts/list"
	MethodPromptsGet            Method = "prompts/get"
	MethodResourcesList         Method = "resources/list"
	MethodResourcesTemplatesList Method = "resources/templates/list"
	MethodResourcesRead         Method = "resources/read"
	MethodResourcesSubscribe    Method = "resources/subscribe"
	MethodResourcesUnsubscribe  Method = "resources/unsubscribe"
	MethodLoggingSetLevel       Method = "logging/setLevel"
	MethodCompletionComplete    Method = "completion/complete"
)

// Server-to-client requests.
const (
	MethodSamplingCreateMessage Method = "sampling/createMessage"
	MethodRootsList             Method = "roots/list"
)

// Notifications, either direction.
const (
	MethodNotificationsInitialized           Method = "notifications/initialized"
	MethodNotificationsCancelled             Method = "notifications/cancelled"
	MethodNotificationsProgress              Method = "notifications/progress"
	MethodNotificationsMessage               Method = "notifications/message"
	MethodNotificationsToolsListChanged      Method = "notifications/tools/list_changed"
	MethodNotificationsPromptsListChanged    Method = "notifications/prompts/list_changed"
	MethodNotificationsResourcesListChanged  Method = "notifications/resources/list_changed"
	MethodNotificationsResourcesUpdated      Method = "notifications/resources/updated"
	MethodNotificationsRootsListChanged      Method = "notifications/roots/list_changed"
)

// legacy method names kept for the teacher's original LSP-flavored
// dispatch table, still recognized by the server's handler lookup for
// backward compatibility with older clients of this codebase.
const (
	MethodInitialized        = MethodNotificationsInitialized
	MethodCancelRequest      = MethodNotificationsCancelled
	MethodInvokeTool  Method = "invoke_tool"
	MethodDiscoverTools Method = "discover_tools"
)
