package handlers

import (
	"github.com/gofiber/fiber/v2"

	"minimarket/internal/domain"
	applog "minimarket/internal/log"
	"minimarket/internal/stores"
	"minimarket/internal/validate"
)

type CartHandler struct {
	Cart     *stores.Cart
	Identity *stores.Identity
}

// View is also the response shape of every cart mutation: the UI state is
// always the full cart plus its two aggregates.
func (h *CartHandler) View(c *fiber.Ctx) error {
	resp := fiber.Map{
		"cartItems":  h.Cart.Items(),
		"totalPrice": h.Cart.TotalPrice(),
		"totalItems": h.Cart.TotalItems(),
	}
	if err := h.Cart.Err(); err != nil {
		resp["error"] = "cart storage error"
	}
	return c.JSON(resp)
}

type cartAddReq struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Price          float64 `json:"price"`
	Image          string  `json:"image"`
	SellerUsername string  `json:"sellerUsername"`
	SellerCountry  string  `json:"sellerCountry"`
	SellerState    string  `json:"sellerState"`
}

// Add takes a product snapshot from the UI. A repeated id merges into the
// existing line instead of inserting a duplicate.
func (h *CartHandler) Add(c *fiber.Ctx) error {
	var req cartAddReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed body"})
	}
	id, ok := validate.ID(req.ID)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid product id"})
	}
	err := h.Cart.Add(domain.Product{
		ID:             id,
		Name:           req.Name,
		Price:          req.Price,
		Image:          req.Image,
		SellerUsername: req.SellerUsername,
		SellerCountry:  req.SellerCountry,
		SellerState:    req.SellerState,
	})
	if err != nil {
		applog.Error(c, "cart.add", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not add to cart"})
	}
	return h.View(c)
}

type quantityReq struct {
	Quantity int `json:"quantity"`
}

func (h *CartHandler) SetQuantity(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid product id"})
	}
	var req quantityReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed body"})
	}
	// Zero or negative removes the line outright.
	if err := h.Cart.SetQuantity(id, req.Quantity); err != nil {
		applog.Error(c, "cart.quantity", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not update quantity"})
	}
	return h.View(c)
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid product id"})
	}
	if err := h.Cart.Remove(id); err != nil {
		applog.Error(c, "cart.remove", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not remove from cart"})
	}
	return h.View(c)
}

func (h *CartHandler) Clear(c *fiber.Ctx) error {
	if err := h.Cart.Clear(); err != nil {
		applog.Error(c, "cart.clear", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not clear cart"})
	}
	return h.View(c)
}

// Checkout simulates the payment flow: no money moves, the cart totals are
// reported back and the cart is emptied.
func (h *CartHandler) Checkout(c *fiber.Ctx) error {
	u, ok := h.Identity.Current()
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "sign in first"})
	}
	total, items, err := h.Cart.Drain()
	if err != nil {
		applog.Error(c, "cart.checkout", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not complete checkout"})
	}
	applog.Audit(c, "cart.checkout", map[string]any{"buyer_id": u.ID, "total": total, "items": items})
	return c.JSON(fiber.Map{"paid": total, "items": items, "cartItems": h.Cart.Items()})
}
