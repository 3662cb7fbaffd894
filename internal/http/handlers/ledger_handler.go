package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "minimarket/internal/log"
	"minimarket/internal/stores"
	"minimarket/internal/validate"
)

type LedgerHandler struct {
	Ledger   *stores.Ledger
	Identity *stores.Identity
}

// List returns the purchase collection; seller=1 narrows to the session
// user's sales (the sale-notification feed), buyer=1 to their purchases.
func (h *LedgerHandler) List(c *fiber.Ctx) error {
	purchases := h.Ledger.Load()

	if c.QueryBool("seller") || c.QueryBool("buyer") {
		u, ok := h.Identity.Current()
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "sign in first"})
		}
		if c.QueryBool("seller") {
			purchases = stores.SellerPurchases(purchases, u.ID)
		} else {
			purchases = stores.BuyerPurchases(purchases, u.ID)
		}
	}

	resp := fiber.Map{"purchases": purchases}
	if err := h.Ledger.Err(); err != nil {
		applog.Error(c, "ledger.load", err, nil)
		resp["error"] = "could not load purchases"
	}
	return c.JSON(resp)
}

type purchaseReq struct {
	ProductID   string  `json:"productId"`
	ProductName string  `json:"productName"`
	Price       float64 `json:"price"`
	SellerID    string  `json:"sellerId"`
}

func (h *LedgerHandler) Create(c *fiber.Ctx) error {
	u, ok := h.Identity.Current()
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "sign in first"})
	}
	var req purchaseReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed body"})
	}
	productID, okID := validate.ID(req.ProductID)
	if !okID {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid product id"})
	}
	if err := h.Ledger.Add(u, productID, req.ProductName, req.Price, req.SellerID); err != nil {
		applog.Error(c, "ledger.create", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not record purchase"})
	}
	applog.Audit(c, "ledger.create", map[string]any{"buyer_id": u.ID, "product_id": productID})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"purchases": h.Ledger.Purchases()})
}
