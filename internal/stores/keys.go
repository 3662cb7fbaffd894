package stores

// Logical keys in the persistent store. Each holds one complete serialized
// snapshot of its collection (or scalar).
const (
	keyUserToken   = "userToken"
	keyUser        = "user"
	keyCredentials = "users"
	keyAllUsers    = "allUsers"
	keyProducts    = "products"
	keyPurchases   = "purchases"
	keyCart        = "@cart_items"
)
