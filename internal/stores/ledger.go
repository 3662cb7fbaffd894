package stores

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"minimarket/internal/domain"
	"minimarket/internal/kv"
)

// Ledger owns the purchase collection. Purchases are created pending and
// never transitioned in this system.
type Ledger struct {
	mu        sync.Mutex
	kv        kv.Store
	purchases []domain.Purchase
	err       error
}

func NewLedger(store kv.Store) *Ledger { return &Ledger{kv: store} }

// Load refreshes the snapshot from storage, failing softly like the
// catalog: empty slice plus recorded error flag on a bad read.
func (s *Ledger) Load() []domain.Purchase {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := loadSlice[domain.Purchase](s.kv, keyPurchases)
	if err != nil {
		s.err = fmt.Errorf("load purchases: %w", err)
		s.purchases = []domain.Purchase{}
		return []domain.Purchase{}
	}
	s.err = nil
	s.purchases = items
	return copySlice(items)
}

func (s *Ledger) Purchases() []domain.Purchase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copySlice(s.purchases)
}

func (s *Ledger) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Add records a pending purchase for the given buyer. A nil buyer is a
// no-op, matching the source system.
func (s *Ledger) Add(buyer *domain.User, productID, productName string, price float64, sellerID string) error {
	if buyer == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := loadSlice[domain.Purchase](s.kv, keyPurchases)
	if err != nil {
		s.err = fmt.Errorf("add purchase: %w", err)
		return s.err
	}
	items = append(items, domain.Purchase{
		ID:          uuid.NewString(),
		ProductID:   productID,
		ProductName: productName,
		Price:       price,
		BuyerID:     buyer.ID,
		SellerID:    sellerID,
		PurchasedAt: time.Now().UTC().Format(time.RFC3339),
		Status:      domain.PurchasePending,
	})
	if err := saveSlice(s.kv, keyPurchases, items); err != nil {
		s.err = fmt.Errorf("add purchase: %w", err)
		return s.err
	}
	s.err = nil
	s.purchases = items
	return nil
}

// SellerPurchases filters sales for the given seller, in storage order.
// It drives the seller-facing sale notifications.
func SellerPurchases(purchases []domain.Purchase, sellerID string) []domain.Purchase {
	out := []domain.Purchase{}
	for _, p := range purchases {
		if p.SellerID == sellerID {
			out = append(out, p)
		}
	}
	return out
}

// BuyerPurchases filters the "my purchases" view, in storage order.
func BuyerPurchases(purchases []domain.Purchase, buyerID string) []domain.Purchase {
	out := []domain.Purchase{}
	for _, p := range purchases {
		if p.BuyerID == buyerID {
			out = append(out, p)
		}
	}
	return out
}
