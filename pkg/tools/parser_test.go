package tools

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseToolCall(t *testing.T) {
	t.Run("extracts tool call and remaining text", func(t *testing.T) {
		text := `Opening the page now.
<tool>
<tool_name>browser_action</tool_name>
<arguments>
<action>goto</action>
<url>https://example.com</url>
</arguments>
</tool>
Done.`

		call, remaining, err := ParseToolCall(text)
		require.NoError(t, err)
		assert.Equal(t, "browser_action", call.ToolName)
		assert.Contains(t, string(call.Arguments.InnerXML), "<action>goto</action>")
		assert.Equal(t, "Opening the page now.\n\nDone.", remaining)
	})

	t.Run("no tool call", func(t *testing.T) {
		_, remaining, err := ParseToolCall("just some prose")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no tool call found")
		assert.Equal(t, "just some prose", remaining)
	})

	t.Run("missing tool_name", func(t *testing.T) {
		_, _, err := ParseToolCall("<tool><arguments><action>goto</action></arguments></tool>")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "tool_name is required")
	})

	t.Run("oversized payload", func(t *testing.T) {
		text := "<tool>" + strings.Repeat("a", maxXMLSize) + "</tool>"
		_, _, err := ParseToolCall(text)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "maximum size")
	})

	t.Run("unescaped ampersand in arguments", func(t *testing.T) {
		text := `<tool>
<tool_name>browser_action</tool_name>
<arguments>
<url>https://example.com/?a=1&b=2</url>
</arguments>
</tool>`

		call, _, err := ParseToolCall(text)
		require.NoError(t, err)
		assert.Equal(t, "browser_action", call.ToolName)
	})
}

func TestHasToolCall(t *testing.T) {
	assert.True(t, HasToolCall("<tool><tool_name>x</tool_name></tool>"))
	assert.False(t, HasToolCall("no call here"))
	assert.False(t, HasToolCall("<tool> unterminated"))
}

func TestGetArgumentsXML(t *testing.T) {
	call, _, err := ParseToolCall(`<tool>
<tool_name>browser_action</tool_name>
<arguments><action>wait</action><duration>1.5</duration></arguments>
</tool>`)
	require.NoError(t, err)

	args := string(call.GetArgumentsXML())
	assert.True(t, strings.HasPrefix(args, "<arguments>"))
	assert.True(t, strings.HasSuffix(args, "</arguments>"))
	assert.Contains(t, args, "<duration>1.5</duration>")
}

func TestUnmarshalXMLWithFallback(t *testing.T) {
	type payload struct {
		URL string `xml:"url"`
	}

	t.Run("well-formed XML parses directly", func(t *testing.T) {
		var p payload
		err := UnmarshalXMLWithFallback([]byte("<payload><url>https://a.test</url></payload>"), &p)
		require.NoError(t, err)
		assert.Equal(t, "https://a.test", p.URL)
	})

	t.Run("bare ampersand is repaired", func(t *testing.T) {
		var p payload
		err := UnmarshalXMLWithFallback([]byte("<payload><url>https://a.test/?x=1&y=2</url></payload>"), &p)
		require.NoError(t, err)
		assert.Equal(t, "https://a.test/?x=1&y=2", p.URL)
	})

	t.Run("existing entities are preserved", func(t *testing.T) {
		var p payload
		err := UnmarshalXMLWithFallback([]byte("<payload><url>a &amp; b &lt; c & d</url></payload>"), &p)
		require.NoError(t, err)
		assert.Equal(t, "a & b < c & d", p.URL)
	})
}

func TestBaseToolSchema(t *testing.T) {
	schema := BaseToolSchema(map[string]interface{}{
		"action": map[string]interface{}{"type": "string"},
	}, []string{"action"})

	assert.Equal(t, "object", schema["type"])
	assert.Equal(t, []string{"action"}, schema["required"])

	noRequired := BaseToolSchema(map[string]interface{}{}, nil)
	_, ok := noRequired["required"]
	assert.False(t, ok)
}
