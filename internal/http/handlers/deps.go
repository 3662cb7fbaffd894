package handlers

import (
	"minimarket/internal/kv"
	"minimarket/internal/stores"
)

type Deps struct {
	AuthHandler    *AuthHandler
	CatalogHandler *CatalogHandler
	CartHandler    *CartHandler
	LedgerHandler  *LedgerHandler
}

func NewDeps(store kv.Store, identity *stores.Identity) *Deps {
	catalog := stores.NewCatalog(store)
	cart := stores.NewCart(store)
	ledger := stores.NewLedger(store)

	return &Deps{
		AuthHandler:    &AuthHandler{Identity: identity},
		CatalogHandler: &CatalogHandler{Catalog: catalog, Identity: identity},
		CartHandler:    &CartHandler{Cart: cart, Identity: identity},
		LedgerHandler:  &LedgerHandler{Ledger: ledger, Identity: identity},
	}
}
