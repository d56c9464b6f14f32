package identity

import (
	"context"
	"errors"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/example/room-reservations/internal/persistence"
)

// StoreProvider verifies signed bearer tokens and resolves the user's public
// fields through the user repository. Resolved identities are memoized in a
// bounded LRU cache keyed by user id.
type StoreProvider struct {
	codec *TokenCodec
	users persistence.UserRepository
	cache *lru.Cache[string, Identity]
}

// NewStoreProvider wires a provider over the given codec and repository.
// cacheSize bounds the identity cache; non-positive values fall back to 256.
func NewStoreProvider(codec *TokenCodec, users persistence.UserRepository, cacheSize int) (*StoreProvider, error) {
	if cacheSize <= 0 {
		cacheSize = 256
	}
	cache, err := lru.New[string, Identity](cacheSize)
	if err != nil {
		return nil, err
	}
	return &StoreProvider{codec: codec, users: users, cache: cache}, nil
}

// Resolve verifies the token and returns the identity it names.
func (p *StoreProvider) Resolve(ctx context.Context, token string) (Identity, error) {
	userID, err := p.codec.Verify(token)
	if err != nil {
		return Identity{}, err
	}

	if cached, ok := p.cache.Get(userID); ok {
		return cached, nil
	}

	user, err := p.users.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return Identity{}, ErrUnauthenticated
		}
		return Identity{}, err
	}

	resolved := Identity{ID: user.ID, Name: user.Name, Lab: user.Lab}
	p.cache.Add(userID, resolved)
	return resolved, nil
}
