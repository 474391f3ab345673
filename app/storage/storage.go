package storage

// Store is the local snapshot storage the cart and favorites stores persist
// into. Values are opaque JSON strings under fixed keys; implementations
// replace a key's value atomically.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
}

const (
	CartKeyPrefix      = "storefront_cart:"
	FavoritesKeyPrefix = "storefront_favorites:"
)

func CartKey(sessionID string) string      { return CartKeyPrefix + sessionID }
func FavoritesKey(sessionID string) string { return FavoritesKeyPrefix + sessionID }
