package domain

// Product carries a one-time snapshot of its seller taken at creation.
// The seller* fields are never refreshed when the profile changes.
type Product struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Price          float64 `json:"price"`
	Description    string  `json:"description"`
	Image          string  `json:"image"`
	SellerID       string  `json:"sellerId"`
	SellerUsername string  `json:"sellerUsername"`
	SellerPhone    string  `json:"sellerPhone,omitempty"`
	SellerCountry  string  `json:"sellerCountry"`
	SellerState    string  `json:"sellerState"`
	CreatedAt      string  `json:"createdAt"`
}

// CartItem.ID equals the source Product's id. Quantity is always >= 1;
// AddedAt is set at first insertion and untouched by later merges.
type CartItem struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Price          float64 `json:"price"`
	Image          string  `json:"image"`
	SellerUsername string  `json:"sellerUsername"`
	SellerCountry  string  `json:"sellerCountry"`
	SellerState    string  `json:"sellerState"`
	Quantity       int     `json:"quantity"`
	AddedAt        string  `json:"addedAt"`
}

const (
	PurchasePending   = "pending"
	PurchaseCompleted = "completed"
	PurchaseCancelled = "cancelled"
)

// Purchase is created pending and never transitioned here; the other two
// status values exist for forward compatibility.
type Purchase struct {
	ID          string  `json:"id"`
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Price       float64 `json:"price"`
	BuyerID     string  `json:"buyerId"`
	SellerID    string  `json:"sellerId"`
	PurchasedAt string  `json:"purchasedAt"`
	Status      string  `json:"status"` // pending | completed | cancelled
}
