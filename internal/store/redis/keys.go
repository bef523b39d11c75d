package redis

const (
	// KeyPrefixPlaylists is the prefix for per-user playlist keys
	KeyPrefixPlaylists = "medley:playlists:"
	// KeyAllUsers is the key for the set of usernames with remote data
	KeyAllUsers = "medley:playlists:users"
)

// PlaylistsKey returns the redis key holding a user's playlist array.
func PlaylistsKey(username string) string {
	return KeyPrefixPlaylists + username
}

// AllUsersKey returns the key for the set of known usernames.
func AllUsersKey() string {
	return KeyAllUsers
}
