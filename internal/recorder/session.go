package recorder

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// TokenProvider supplies the per-tab session token shared by every playback
// surface mounted during one visit. It is injected so tests can use
// deterministic identifiers.
type TokenProvider interface {
	SessionToken() string
}

// TabToken is the default TokenProvider: the token is created on first
// access and stable for the provider's lifetime.
type TabToken struct {
	once  sync.Once
	token string
}

func (t *TabToken) SessionToken() string {
	t.once.Do(func() {
		rnd := strings.ReplaceAll(uuid.NewString(), "-", "")[:9]
		t.token = fmt.Sprintf("vs_%d_%s", time.Now().UnixMilli(), rnd)
	})
	return t.token
}

// SessionID namespaces the tab token per player and play instant, so the
// same tab watching two players, or replaying the same player, always yields
// distinct sessions.
func SessionID(tabToken, playerID string, now time.Time) string {
	return fmt.Sprintf("%s_%s_%d", tabToken, playerID, now.UnixMilli())
}
