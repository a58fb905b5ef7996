package protocol

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMergeServerCapabilitiesBaseWins(t *testing.T) {
	base := ServerCapabilities{Tools: &ToolsCapability{ListChanged: true}}
	extra := ServerCapabilities{Tools: &ToolsCapability{ListChanged: false}, Prompts: &PromptsCapability{}}

	merged := MergeServerCapabilities(base, extra)
	assert.True(t, merged.Tools.ListChanged)
	assert.NotNil(t, merged.Prompts)
}

func TestMergeClientCapabilitiesFillsMissing(t *testing.T) {
	base := ClientCapabilities{}
	extra := ClientCapabilities{Roots: &RootsCapability{ListChanged: true}, Sampling: &SamplingCapability{}}

	merged := MergeClientCapabilities(base, extra)
	assert.NotNil(t, merged.Roots)
	assert.NotNil(t, merged.Sampling)
}
