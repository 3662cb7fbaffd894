package stores_test

import (
	"bytes"
	"sync"
	"testing"

	"minimarket/internal/domain"
	"minimarket/internal/stores"
)

func seller(id, username, state string) *domain.User {
	return &domain.User{
		ID:       id,
		Username: username,
		Phone:    "5551234",
		Country:  "Mexico",
		State:    state,
	}
}

func TestCatalogAddStampsSeller(t *testing.T) {
	store := memkv(t)
	cat := stores.NewCatalog(store)
	u := seller("u1", "ana", "Jalisco")

	if err := cat.Add(u, "Chair", 25.5, "desc", "img"); err != nil {
		t.Fatal(err)
	}

	products := cat.Load()
	if len(products) != 1 {
		t.Fatalf("want one product, got %d", len(products))
	}
	p := products[0]
	if p.ID == "" {
		t.Fatal("product id not allocated")
	}
	if p.SellerID != "u1" || p.SellerUsername != "ana" || p.SellerState != "Jalisco" || p.SellerPhone != "5551234" {
		t.Fatalf("seller snapshot not stamped: %+v", p)
	}
	if p.Price != 25.5 || p.Name != "Chair" {
		t.Fatalf("bad product fields: %+v", p)
	}
}

func TestCatalogAddWithoutSessionIsNoop(t *testing.T) {
	store := memkv(t)
	cat := stores.NewCatalog(store)
	if err := cat.Add(nil, "Chair", 25.5, "desc", "img"); err != nil {
		t.Fatal(err)
	}
	if got := cat.Load(); len(got) != 0 {
		t.Fatalf("nil seller must not append, got %d products", len(got))
	}
}

func TestCatalogUpdate(t *testing.T) {
	store := memkv(t)
	cat := stores.NewCatalog(store)
	u := seller("u1", "ana", "Jalisco")
	if err := cat.Add(u, "Chair", 25.5, "desc", "img"); err != nil {
		t.Fatal(err)
	}
	id := cat.Products()[0].ID

	if err := cat.Update(id, "Stool", 12, "short", "img2"); err != nil {
		t.Fatal(err)
	}
	p := cat.Products()[0]
	if p.Name != "Stool" || p.Price != 12 || p.Description != "short" || p.Image != "img2" {
		t.Fatalf("mutable fields not replaced: %+v", p)
	}
	if p.SellerID != "u1" || p.SellerUsername != "ana" {
		t.Fatal("seller fields must stay immutable on update")
	}
}

func TestCatalogUpdateMissingIDLeavesBytesUntouched(t *testing.T) {
	store := memkv(t)
	cat := stores.NewCatalog(store)
	if err := cat.Add(seller("u1", "ana", "Jalisco"), "Chair", 25.5, "desc", "img"); err != nil {
		t.Fatal(err)
	}
	before, _, err := store.Get("products")
	if err != nil {
		t.Fatal(err)
	}

	if err := cat.Update("no-such-id", "Stool", 12, "x", "y"); err != nil {
		t.Fatal(err)
	}

	after, _, err := store.Get("products")
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(before, after) {
		t.Fatal("update on a missing id must leave the collection byte-for-byte unchanged")
	}
}

func TestCatalogDelete(t *testing.T) {
	store := memkv(t)
	cat := stores.NewCatalog(store)
	u := seller("u1", "ana", "Jalisco")
	if err := cat.Add(u, "Chair", 25.5, "d", "i"); err != nil {
		t.Fatal(err)
	}
	if err := cat.Add(u, "Table", 80, "d", "i"); err != nil {
		t.Fatal(err)
	}
	id := cat.Products()[0].ID

	if err := cat.Delete(id); err != nil {
		t.Fatal(err)
	}
	for _, p := range cat.Load() {
		if p.ID == id {
			t.Fatal("deleted id came back from Load")
		}
	}
	if got := len(cat.Products()); got != 1 {
		t.Fatalf("want one product left, got %d", got)
	}

	// absent id is a no-op
	if err := cat.Delete("no-such-id"); err != nil {
		t.Fatal(err)
	}
	if got := len(cat.Products()); got != 1 {
		t.Fatal("deleting an absent id must not drop anything")
	}
}

func TestCatalogConcurrentAdds(t *testing.T) {
	cat := stores.NewCatalog(memkv(t))
	u := seller("u1", "ana", "Jalisco")

	const n = 16
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			if err := cat.Add(u, "Chair", 25.5, "d", "i"); err != nil {
				t.Error(err)
			}
		}()
	}
	wg.Wait()

	products := cat.Load()
	if len(products) != n {
		t.Fatalf("lost update: want %d products, got %d", n, len(products))
	}
	seen := map[string]bool{}
	for _, p := range products {
		if seen[p.ID] {
			t.Fatalf("duplicate product id %s", p.ID)
		}
		seen[p.ID] = true
	}
}

func TestCatalogLoadSoftFail(t *testing.T) {
	store := memkv(t)
	if err := store.Set("products", []byte("{not json")); err != nil {
		t.Fatal(err)
	}
	cat := stores.NewCatalog(store)

	got := cat.Load()
	if len(got) != 0 {
		t.Fatalf("corrupt blob must load as empty, got %d", len(got))
	}
	if cat.Err() == nil {
		t.Fatal("error flag not recorded on parse failure")
	}
}

func TestCatalogViews(t *testing.T) {
	store := memkv(t)
	cat := stores.NewCatalog(store)
	ana := seller("u1", "ana", "Jalisco")
	ben := seller("u2", "ben", "Sonora")
	if err := cat.Add(ana, "Wooden Chair", 25, "d", "i"); err != nil {
		t.Fatal(err)
	}
	if err := cat.Add(ben, "Steel Table", 90, "d", "i"); err != nil {
		t.Fatal(err)
	}
	if err := cat.Add(ben, "Office chair", 45, "d", "i"); err != nil {
		t.Fatal(err)
	}
	all := cat.Products()

	if got := stores.FilterProducts(all, "chair", ""); len(got) != 2 {
		t.Fatalf("text filter is case-insensitive substring: want 2, got %d", len(got))
	}
	if got := stores.FilterProducts(all, "chair", "Sonora"); len(got) != 1 || got[0].Name != "Office chair" {
		t.Fatalf("combined filter wrong: %+v", got)
	}
	if got := stores.FilterProducts(all, "", "Jalisco"); len(got) != 1 {
		t.Fatalf("state filter wrong: %d", len(got))
	}
	if got := stores.SellerProducts(all, "u2"); len(got) != 2 {
		t.Fatalf("seller view wrong: %d", len(got))
	}
	if got := stores.OtherProducts(all, "u2"); len(got) != 1 || got[0].SellerID != "u1" {
		t.Fatalf("others view wrong: %+v", got)
	}
	// views never mutate the snapshot
	if len(cat.Products()) != 3 {
		t.Fatal("derived views must not mutate the collection")
	}
}
