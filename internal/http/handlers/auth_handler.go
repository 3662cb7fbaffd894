package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "minimarket/internal/log"
	"minimarket/internal/stores"
	"minimarket/internal/validate"
)

type AuthHandler struct {
	Identity *stores.Identity
}

type registerReq struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	Country  string `json:"country"`
	State    string `json:"state"`
	City     string `json:"city"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req registerReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed body"})
	}
	username, ok := validate.Username(req.Username)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "username must be at least 3 characters"})
	}
	email, ok := validate.Email(req.Email)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid email"})
	}
	if !validate.Password(req.Password) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "password must be at least 6 characters"})
	}

	u, err := h.Identity.Register(stores.RegisterParams{
		Username: username,
		Email:    email,
		Password: req.Password,
		Phone:    req.Phone,
		Address:  req.Address,
		Country:  req.Country,
		State:    req.State,
		City:     req.City,
	})
	if errors.Is(err, stores.ErrDuplicateIdentity) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		applog.Error(c, "auth.register", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not register"})
	}
	applog.Audit(c, "auth.register", map[string]any{"user_id": u.ID})
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"user": u, "isSignedIn": true})
}

type loginReq struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed body"})
	}
	u, err := h.Identity.Login(req.Username, req.Password)
	if errors.Is(err, stores.ErrInvalidCredentials) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		applog.Error(c, "auth.login", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not sign in"})
	}
	applog.Audit(c, "auth.login", map[string]any{"user_id": u.ID})
	return c.JSON(fiber.Map{"user": u, "isSignedIn": true})
}

type profileReq struct {
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	Country string `json:"country"`
	State   string `json:"state"`
	City    string `json:"city"`
}

func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	var req profileReq
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "malformed body"})
	}
	if req.Email != "" {
		if _, ok := validate.Email(req.Email); !ok {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid email"})
		}
	}
	u, err := h.Identity.UpdateProfile(stores.ProfileUpdate{
		Email:   req.Email,
		Phone:   req.Phone,
		Address: req.Address,
		Country: req.Country,
		State:   req.State,
		City:    req.City,
	})
	if errors.Is(err, stores.ErrNoSession) {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": err.Error()})
	}
	if err != nil {
		applog.Error(c, "auth.profile", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not update profile"})
	}
	return c.JSON(fiber.Map{"user": u, "isSignedIn": true})
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.Identity.Logout(); err != nil {
		applog.Error(c, "auth.logout", err, nil)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "could not sign out"})
	}
	applog.Audit(c, "auth.logout", nil)
	return c.JSON(fiber.Map{"user": nil, "isSignedIn": false})
}

func (h *AuthHandler) Session(c *fiber.Ctx) error {
	if u, ok := h.Identity.Current(); ok {
		return c.JSON(fiber.Map{"user": u, "isSignedIn": true})
	}
	return c.JSON(fiber.Map{"user": nil, "isSignedIn": false})
}
