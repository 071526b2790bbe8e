package util

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestXSSSanitizeStripsScripts(t *testing.T) {
	out := XSSSanitize(`hello <script>alert("x")</script><b>world</b>`)
	require.NotContains(t, out, "script")
	require.Contains(t, out, "hello")
	require.Contains(t, out, "<b>world</b>")
}

func TestXSSSanitizeUnescapesEntities(t *testing.T) {
	require.Equal(t, "a & b", XSSSanitize("a & b"))
}

func TestAvatarIsDeterministic(t *testing.T) {
	require.Equal(t, Avatar("seed"), Avatar("seed"))
	require.NotEqual(t, Avatar("a"), Avatar("b"))
}
