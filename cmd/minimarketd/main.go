package main

import (
	"io"
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"

	"minimarket/internal/config"
	"minimarket/internal/http/handlers"
	applog "minimarket/internal/log"
	"minimarket/internal/kv"
	"minimarket/internal/stores"
)

func main() {
	cfg := config.Load()

	// Optional file logging
	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			log.Printf("[warn] could not open log file %s: %v", cfg.LogFile, err)
		} else {
			mw := io.MultiWriter(os.Stdout, f)
			log.SetOutput(mw)
		}
	}

	store, err := kv.Open(cfg.DBDSN)
	if err != nil {
		log.Fatal(err)
	}

	identity := stores.NewIdentity(store)
	if u, err := identity.Bootstrap(); err != nil {
		log.Printf("[warn] session bootstrap failed: %v", err)
	} else if u != nil {
		log.Printf("[session] restored user %s", u.Username)
	}

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			applog.Error(c, "server.error", err, nil)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "something went wrong, please try again",
			})
		},
	})
	app.Server().MaxRequestBodySize = 1 << 20 // 1 MiB

	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())

	deps := handlers.NewDeps(store, identity)

	// Identity
	auth := app.Group("/auth")
	auth.Post("/register", deps.AuthHandler.Register)
	auth.Post("/login", limiter.New(limiter.Config{
		Max:        10,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"error": "too many attempts, try again later"})
		},
	}), deps.AuthHandler.Login)
	auth.Post("/logout", deps.AuthHandler.Logout)
	auth.Put("/profile", deps.AuthHandler.UpdateProfile)
	auth.Get("/session", deps.AuthHandler.Session)

	// Catalog
	app.Get("/products", deps.CatalogHandler.List)
	app.Post("/products", deps.CatalogHandler.Create)
	app.Put("/products/:id", deps.CatalogHandler.Update)
	app.Delete("/products/:id", deps.CatalogHandler.Delete)

	// Cart
	app.Get("/cart", deps.CartHandler.View)
	app.Post("/cart", deps.CartHandler.Add)
	app.Put("/cart/:id", deps.CartHandler.SetQuantity)
	app.Delete("/cart/:id", deps.CartHandler.Remove)
	app.Post("/cart/clear", deps.CartHandler.Clear)
	app.Post("/checkout", deps.CartHandler.Checkout)

	// Purchases
	app.Get("/purchases", deps.LedgerHandler.List)
	app.Post("/purchases", deps.LedgerHandler.Create)

	// Health & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "not found"})
	})

	log.Fatal(app.Listen(":" + cfg.Port))
}
