package identity

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/example/room-reservations/internal/persistence"
)

type userRepositoryStub struct {
	users map[string]persistence.User
	calls int
	err   error
}

func (s *userRepositoryStub) CreateUser(ctx context.Context, user persistence.User) error {
	s.users[user.ID] = user
	return nil
}

func (s *userRepositoryStub) GetUser(ctx context.Context, id string) (persistence.User, error) {
	s.calls++
	if s.err != nil {
		return persistence.User{}, s.err
	}
	user, ok := s.users[id]
	if !ok {
		return persistence.User{}, persistence.ErrNotFound
	}
	return user, nil
}

func (s *userRepositoryStub) ListUsers(ctx context.Context) ([]persistence.User, error) {
	users := make([]persistence.User, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, user)
	}
	return users, nil
}

func TestTokenCodecRoundTrip(t *testing.T) {
	codec := NewTokenCodec("test-secret")

	token := codec.Mint("user-1")
	userID, err := codec.Verify(token)
	require.NoError(t, err)
	require.Equal(t, "user-1", userID)
}

func TestTokenCodecRejectsTampering(t *testing.T) {
	codec := NewTokenCodec("test-secret")
	other := NewTokenCodec("other-secret")

	cases := []struct {
		name  string
		token string
	}{
		{name: "empty", token: ""},
		{name: "missing signature", token: "dXNlci0x"},
		{name: "missing payload", token: ".c2ln"},
		{name: "wrong secret", token: other.Mint("user-1")},
		{name: "forged payload", token: "dXNlci0y." + codec.Mint("user-1")[len("dXNlci0x."):]},
		{name: "payload not base64", token: "not/base64!." + codec.sign("not/base64!")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := codec.Verify(tc.token)
			require.ErrorIs(t, err, ErrUnauthenticated)
		})
	}
}

func TestStoreProviderResolvesAndCaches(t *testing.T) {
	codec := NewTokenCodec("test-secret")
	users := &userRepositoryStub{users: map[string]persistence.User{
		"user-1": {ID: "user-1", Name: "Kim", Lab: "Quantum Security"},
	}}
	provider, err := NewStoreProvider(codec, users, 4)
	require.NoError(t, err)

	token := codec.Mint("user-1")

	resolved, err := provider.Resolve(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, Identity{ID: "user-1", Name: "Kim", Lab: "Quantum Security"}, resolved)

	again, err := provider.Resolve(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, resolved, again)
	require.Equal(t, 1, users.calls, "second resolve should hit the cache")
}

func TestStoreProviderUnknownUser(t *testing.T) {
	codec := NewTokenCodec("test-secret")
	users := &userRepositoryStub{users: map[string]persistence.User{}}
	provider, err := NewStoreProvider(codec, users, 4)
	require.NoError(t, err)

	_, err = provider.Resolve(context.Background(), codec.Mint("ghost"))
	require.ErrorIs(t, err, ErrUnauthenticated)
}

func TestStoreProviderStoreFailure(t *testing.T) {
	codec := NewTokenCodec("test-secret")
	storeErr := errors.New("connection reset")
	users := &userRepositoryStub{users: map[string]persistence.User{}, err: storeErr}
	provider, err := NewStoreProvider(codec, users, 4)
	require.NoError(t, err)

	_, err = provider.Resolve(context.Background(), codec.Mint("user-1"))
	require.ErrorIs(t, err, storeErr)
	require.NotErrorIs(t, err, ErrUnauthenticated)
}
