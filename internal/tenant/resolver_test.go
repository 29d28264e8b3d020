package tenant

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveCredential(t *testing.T) {
	resolver := NewResolver(map[string]string{
		"Acme":   "sk-acme",
		"globex": "sk-globex",
		"empty":  "",
	})

	key, err := resolver.ResolveCredential("acme")
	require.NoError(t, err)
	assert.Equal(t, "sk-acme", key)

	// lookup is case and whitespace insensitive
	key, err = resolver.ResolveCredential("  GLOBEX ")
	require.NoError(t, err)
	assert.Equal(t, "sk-globex", key)

	_, err = resolver.ResolveCredential("unknown")
	assert.ErrorIs(t, err, ErrCredentialMissing)

	// an empty key is as good as no key
	_, err = resolver.ResolveCredential("empty")
	assert.ErrorIs(t, err, ErrCredentialMissing)
}
