package handlers

import (
	"errors"
	"fmt"
	"log"

	"userhub/internal/middleware"
	"userhub/internal/models"
	"userhub/internal/repositories"
	"userhub/internal/services"
	"userhub/pkg/imagestore"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// UserHandler handles HTTP requests for the user record lifecycle.
type UserHandler struct {
	service  *services.UserService
	images   *imagestore.Store
	validate *validator.Validate
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service *services.UserService, images *imagestore.Store) *UserHandler {
	return &UserHandler{
		service:  service,
		images:   images,
		validate: validator.New(),
	}
}

// RegisterRoutes registers the user routes with the Fiber app. The
// router passed in must already require authentication; update and
// delete additionally require the admin role.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	userRoutes := router.Group("/users")
	userRoutes.Get("/", h.HandleGetUsers)
	userRoutes.Get("/:id", h.HandleGetUserByID)
	userRoutes.Put("/:id", middleware.AdminOnly(), h.HandleUpdateUser)
	userRoutes.Delete("/:id", middleware.AdminOnly(), h.HandleDeleteUser)
}

// HandleGetUsers retrieves all users. Any authenticated caller may list.
func (h *UserHandler) HandleGetUsers(c *fiber.Ctx) error {
	users, err := h.service.GetAllUsers()
	if err != nil {
		log.Printf("Error getting all users: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve users",
		})
	}
	return c.JSON(users)
}

// HandleGetUserByID retrieves a single user. Non-admin callers may only
// view their own record; the existence check runs first.
func (h *UserHandler) HandleGetUserByID(c *fiber.Ctx) error {
	userID := c.Params("id")
	user, err := h.service.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "User not found",
			})
		}
		log.Printf("Error getting user by ID %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not retrieve user",
		})
	}

	callerID, _ := c.Locals("user_id").(string)
	callerRole, _ := c.Locals("role").(string)
	if callerRole != models.RoleAdmin && callerID != user.ID {
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"message": "Access denied. You can only view your own profile.",
		})
	}

	return c.JSON(user)
}

// UpdateUserRequest represents the multipart form body for an update.
// All fields are optional; absent fields keep their stored values.
type UpdateUserRequest struct {
	Name     string `form:"name"`
	Email    string `form:"email" validate:"omitempty,email"`
	Password string `form:"password" validate:"omitempty,min=6"`
	Phone    string `form:"phone"`
	City     string `form:"city"`
	State    string `form:"state"`
	Country  string `form:"country"`
	Pincode  string `form:"pincode"`
	Address  string `form:"address"`
	Role     string `form:"role" validate:"omitempty,oneof=user admin"`
}

// HandleUpdateUser applies a partial update to a user record, with an
// optional replacement profile image. Admin only (enforced by
// middleware before any upload is persisted).
func (h *UserHandler) HandleUpdateUser(c *fiber.Ctx) error {
	userID := c.Params("id")

	var req UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing update request body: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Invalid request body",
			"error":   err.Error(),
		})
	}

	if err := h.validate.Struct(req); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		errorMessages := make(map[string]string)
		for _, e := range validationErrors {
			errorMessages[e.Field()] = fmt.Sprintf("Field '%s' failed on the '%s' tag", e.Field(), e.Tag())
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"message": "Validation failed",
			"errors":  errorMessages,
		})
	}

	newImage := ""
	if fileHeader, err := c.FormFile("profile_image"); err == nil {
		newImage, err = h.images.Save(fileHeader)
		if err != nil {
			log.Printf("Error saving profile image: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"message": "Could not store profile image",
			})
		}
	}

	updated, err := h.service.UpdateUser(userID, services.UpdateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Phone:    req.Phone,
		City:     req.City,
		State:    req.State,
		Country:  req.Country,
		Pincode:  req.Pincode,
		Address:  req.Address,
		Role:     req.Role,
	}, newImage)
	if err != nil {
		// A failed update must not leave the fresh upload orphaned
		if newImage != "" {
			h.images.Delete(newImage)
		}
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "User not found",
			})
		}
		log.Printf("Error updating user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not update user",
		})
	}

	return c.JSON(fiber.Map{
		"message": "User updated successfully",
		"user":    updated,
	})
}

// HandleDeleteUser removes a user record and its profile image. Admin only.
func (h *UserHandler) HandleDeleteUser(c *fiber.Ctx) error {
	userID := c.Params("id")
	if err := h.service.DeleteUser(userID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"message": "User not found",
			})
		}
		log.Printf("Error deleting user %s: %v", userID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"message": "Could not delete user",
		})
	}

	return c.JSON(fiber.Map{
		"message": "User deleted successfully",
	})
}
