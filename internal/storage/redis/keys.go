package redis

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/mcoot/webgame/internal/model"
)

// Key prefix for all game-related data
const keyPrefix = "webgame"

// userKey returns the Redis key for a User document
func userKey(id model.UserID) string {
	return fmt.Sprintf("%s:user:%s", keyPrefix, id)
}

// usersByLoginKey returns the Redis key for the sorted set ordering users by login.
// All members share score 0 so Redis orders them lexicographically.
func usersByLoginKey() string {
	return fmt.Sprintf("%s:idx:users_by_login", keyPrefix)
}

// gameKey returns the Redis key for a Game document
func gameKey(id model.GameID) string {
	return fmt.Sprintf("%s:game:%s", keyPrefix, id)
}

// loginMember builds the login index member; logins never contain NUL
func loginMember(user *model.User) string {
	return user.Login + "\x00" + user.ID.String()
}

// parseLoginMember extracts the user id from a login index member
func parseLoginMember(member string) (model.UserID, error) {
	i := strings.LastIndexByte(member, 0)
	if i < 0 {
		return uuid.Nil, fmt.Errorf("malformed login index member %q", member)
	}
	return uuid.Parse(member[i+1:])
}
