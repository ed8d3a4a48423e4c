package store

// Collection keys. Each holds a JSON array and doubles as the broadcast topic.
const (
	KeyUsers          = "users"
	KeyPosts          = "posts"
	KeyClans          = "clans"
	KeyStories        = "stories"
	KeyNotifications  = "notifications"
	KeyClanMessages   = "clan-messages"
	KeyDirectMessages = "direct-messages"
	KeyFriendships    = "friendships"
)

// Scalar preference keys.
const (
	KeyTheme         = "theme"
	KeyLanguage      = "language"
	KeyBreathing     = "breathing"
	KeyBaseConnected = "base-connected"
	KeyCurrentUserID = "current-user-id"
)
