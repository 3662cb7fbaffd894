package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "minimarket/internal/log"
	"minimarket/internal/stores"
	"minimarket/internal/validate"
)

type CatalogHandler struct {
	Catalog  *stores.Catalog
	Identity *stores.Identity
}

// List reloads the product collection and applies the requested derived
// view. The views are pure filters; nothing here mutates or caches.
func (h *CatalogHandler) List(c *fiber.Ctx) error {
	products := h.Catalog.Load()

	if q, state := c.Query("q"), c.Query("state"); q != "" || state != "" {
		products = stores.FilterProducts(products, q, state)
	}
	if c.QueryBool("mine") || c.QueryBool("others") {
		u, ok := h.Identity.Current()
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "sign in first"})
		}
		if c.QueryBool("mine") {
			products = stores.SellerProducts(products, u.ID)
		} else {
			products = stores.OtherProducts(products, u.ID)
		}
	}

	resp := fiber.Map{"products": products}
	if err := h.Catalog.Err(); err != nil {
		applog.Error(c, "catalog.load", err, nil)
		resp["error"] = "could not load products"
	}
	return c.JSON(resp)
}

type productReq struct {
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Image       string  `json:"image"`
}

func (h *CatalogHandler) Create(c *fiber.Ctx) error {
	u, ok := h.Identity.Current()
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "sign in first"})
	}
	var req productReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed body"})
	}
	name, okName := validate.Name(req.Name)
	if !okName {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid product name"})
	}
	if !validate.Price(req.Price) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "price must be positive"})
	}
	if err := h.Catalog.Add(u, name, req.Price, req.Description, req.Image); err != nil {
		applog.Error(c, "catalog.create", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not create product"})
	}
	applog.Audit(c, "catalog.create", map[string]any{"seller_id": u.ID})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"products": h.Catalog.Products()})
}

func (h *CatalogHandler) Update(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid product id"})
	}
	var req productReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed body"})
	}
	name, okName := validate.Name(req.Name)
	if !okName {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid product name"})
	}
	if !validate.Price(req.Price) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "price must be positive"})
	}
	// An unknown id is deliberately a quiet no-op, same as the source system.
	if err := h.Catalog.Update(id, name, req.Price, req.Description, req.Image); err != nil {
		applog.Error(c, "catalog.update", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not update product"})
	}
	return c.JSON(fiber.Map{"products": h.Catalog.Products()})
}

func (h *CatalogHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid product id"})
	}
	if err := h.Catalog.Delete(id); err != nil {
		applog.Error(c, "catalog.delete", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not delete product"})
	}
	applog.Audit(c, "catalog.delete", map[string]any{"product_id": id})
	return c.JSON(fiber.Map{"products": h.Catalog.Products()})
}
