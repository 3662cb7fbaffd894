package stores

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"minimarket/internal/domain"
	"minimarket/internal/kv"
)

// Catalog owns the shared product collection. Every mutation reads the full
// collection, transforms it, and writes it back under the store mutex; the
// in-memory snapshot is only replaced after the write succeeds.
type Catalog struct {
	mu       sync.Mutex
	kv       kv.Store
	products []domain.Product
	err      error
}

func NewCatalog(store kv.Store) *Catalog { return &Catalog{kv: store} }

// Load refreshes the snapshot from storage. It fails softly: on a read or
// parse error the snapshot becomes empty, the error is recorded on the
// store, and an empty slice is returned.
func (s *Catalog) Load() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := loadSlice[domain.Product](s.kv, keyProducts)
	if err != nil {
		s.err = fmt.Errorf("load products: %w", err)
		s.products = []domain.Product{}
		return []domain.Product{}
	}
	s.err = nil
	s.products = items
	return copySlice(items)
}

// Products returns a copy of the current snapshot without touching storage.
func (s *Catalog) Products() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copySlice(s.products)
}

// Err reports the store-local error flag from the last operation.
func (s *Catalog) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Add appends a product stamped with a seller snapshot taken from the
// given session user. A nil seller is a no-op, matching the source system.
func (s *Catalog) Add(seller *domain.User, name string, price float64, description, image string) error {
	if seller == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := loadSlice[domain.Product](s.kv, keyProducts)
	if err != nil {
		s.err = fmt.Errorf("add product: %w", err)
		return s.err
	}
	items = append(items, domain.Product{
		ID:             uuid.NewString(),
		Name:           name,
		Price:          price,
		Description:    description,
		Image:          image,
		SellerID:       seller.ID,
		SellerUsername: seller.Username,
		SellerPhone:    seller.Phone,
		SellerCountry:  seller.Country,
		SellerState:    seller.State,
		CreatedAt:      time.Now().UTC().Format(time.RFC3339),
	})
	return s.persist(items, "add product")
}

// Update replaces the four mutable fields of the matching product. Seller
// fields are immutable after creation. An absent id leaves the collection
// untouched: an explicit no-op, not an error.
func (s *Catalog) Update(productID, name string, price float64, description, image string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := loadSlice[domain.Product](s.kv, keyProducts)
	if err != nil {
		s.err = fmt.Errorf("update product: %w", err)
		return s.err
	}
	idx := -1
	for i := range items {
		if items[i].ID == productID {
			idx = i
			break
		}
	}
	if idx == -1 {
		s.err = nil
		return nil
	}
	items[idx].Name = name
	items[idx].Price = price
	items[idx].Description = description
	items[idx].Image = image
	return s.persist(items, "update product")
}

// Delete removes the matching product; an absent id is a no-op.
func (s *Catalog) Delete(productID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items, err := loadSlice[domain.Product](s.kv, keyProducts)
	if err != nil {
		s.err = fmt.Errorf("delete product: %w", err)
		return s.err
	}
	kept := items[:0]
	for _, p := range items {
		if p.ID != productID {
			kept = append(kept, p)
		}
	}
	return s.persist(kept, "delete product")
}

func (s *Catalog) persist(items []domain.Product, op string) error {
	if err := saveSlice(s.kv, keyProducts, items); err != nil {
		s.err = fmt.Errorf("%s: %w", op, err)
		return s.err
	}
	s.err = nil
	s.products = items
	return nil
}

// FilterProducts is the browse view: case-insensitive substring match on
// the name plus an exact seller-state match when state is non-empty.
func FilterProducts(products []domain.Product, query, state string) []domain.Product {
	q := strings.ToLower(query)
	out := []domain.Product{}
	for _, p := range products {
		if q != "" && !strings.Contains(strings.ToLower(p.Name), q) {
			continue
		}
		if state != "" && p.SellerState != state {
			continue
		}
		out = append(out, p)
	}
	return out
}

// SellerProducts is the "my products" view.
func SellerProducts(products []domain.Product, sellerID string) []domain.Product {
	out := []domain.Product{}
	for _, p := range products {
		if p.SellerID == sellerID {
			out = append(out, p)
		}
	}
	return out
}

// OtherProducts is the buyer-facing view excluding the user's own items.
func OtherProducts(products []domain.Product, sellerID string) []domain.Product {
	out := []domain.Product{}
	for _, p := range products {
		if p.SellerID != sellerID {
			out = append(out, p)
		}
	}
	return out
}
