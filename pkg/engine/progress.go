package engine

import (
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// progressTokenPath is where a progress token rides inside a request's
// params object, per the MCP _meta convention.
const progressTokenPath = "_meta.progressToken"

// extractProgressToken pulls _meta.progressToken out of raw params without
// a full unmarshal, returning ("", false) if absent.
func extractProgressToken(params []byte) (string, bool) {
	if len(params) == 0 {
		return "", false
	}
	res := gjson.GetBytes(params, progressTokenPath)
	if !res.Exists() {
		return "", false
	}
	return res.String(), true
}

// withProgressToken returns params with _meta.progressToken set to token,
// creating the _meta object if necessary. Used when issuing an outbound
// request that wants progress notifications routed back to it.
func withProgressToken(params []byte, token string) ([]byte, error) {
	if len(params) == 0 {
		params = []byte("{}")
	}
	return sjson.SetBytes(params, progressTokenPath, token)
}

// progressNotificationParams is the payload shape of notifications/progress.
type progressNotificationParams struct {
	ProgressToken string  `json:"progressToken"`
	Progress      float64 `json:"progress"`
	Total         float64 `json:"total,omitempty"`
	Message       string  `json:"message,omitempty"`
}
