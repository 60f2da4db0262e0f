package commands

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunHashPassword(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		var buf bytes.Buffer

		err := RunHashPassword(&buf, "MyPassword123")
		require.NoError(t, err)

		hash := strings.TrimSpace(buf.String())
		assert.True(t, strings.HasPrefix(hash, "$argon2id$"), "expected Argon2id hash, got %q", hash)
	})

	t.Run("empty-password", func(t *testing.T) {
		var buf bytes.Buffer

		err := RunHashPassword(&buf, "")
		require.Error(t, err)
		assert.Empty(t, buf.String())
	})

	t.Run("weak-password", func(t *testing.T) {
		var buf bytes.Buffer

		err := RunHashPassword(&buf, "alllowercase")
		require.Error(t, err)
		assert.Empty(t, buf.String())
	})
}
