package tenant

import (
	"errors"
	"fmt"
	"strings"
)

var ErrCredentialMissing = errors.New("no api credential configured for group")

// Resolver maps a client group to the API credential used for every remote
// call on that tenant's behalf. Group names must come from a server-verified
// source: the session record or a join through the owning client. The map is
// read per request, never cached, so a config reload takes effect on restart
// without invalidation logic.
type Resolver struct {
	keys map[string]string
}

func NewResolver(groupKeys map[string]string) *Resolver {
	keys := make(map[string]string, len(groupKeys))
	for group, key := range groupKeys {
		keys[normalize(group)] = key
	}
	return &Resolver{keys: keys}
}

func (r *Resolver) ResolveCredential(group string) (string, error) {
	key, ok := r.keys[normalize(group)]
	if !ok || key == "" {
		return "", fmt.Errorf("%w: %q", ErrCredentialMissing, group)
	}
	return key, nil
}

func normalize(group string) string {
	return strings.ToLower(strings.TrimSpace(group))
}
