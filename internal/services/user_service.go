package services

import (
	"fmt"
	"log"

	"userhub/internal/models"
	"userhub/internal/repositories"
	"userhub/pkg/imagestore"
	"userhub/pkg/rabbitmq"

	"golang.org/x/crypto/bcrypt"
)

// UserService handles business logic for the user record lifecycle.
type UserService struct {
	userRepo repositories.UserRepository
	images   *imagestore.Store
	mqClient *rabbitmq.Client
}

// NewUserService creates a new UserService. The RabbitMQ client may be
// nil, in which case no lifecycle events are published.
func NewUserService(userRepo repositories.UserRepository, images *imagestore.Store, mqClient *rabbitmq.Client) *UserService {
	return &UserService{
		userRepo: userRepo,
		images:   images,
		mqClient: mqClient,
	}
}

// UpdateUserInput carries the updatable fields of a user record.
// Empty strings mean "not supplied"; only supplied fields are written.
type UpdateUserInput struct {
	Name     string
	Email    string
	Password string
	Phone    string
	City     string
	State    string
	Country  string
	Pincode  string
	Address  string
	Role     string
}

// GetAllUsers retrieves all user records.
func (s *UserService) GetAllUsers() ([]models.User, error) {
	return s.userRepo.GetAll()
}

// GetUserByID retrieves a single user record.
func (s *UserService) GetUserByID(id string) (*models.User, error) {
	return s.userRepo.GetByID(id)
}

// UpdateUser applies a partial update to an existing user. A supplied
// password is hashed before storage. newImage, if non-empty, is the
// name of an already stored upload that replaces the current profile
// image; the previous file is removed best-effort in the background.
func (s *UserService) UpdateUser(id string, input UpdateUserInput, newImage string) (*models.User, error) {
	existing, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if input.Name != "" {
		fields["name"] = input.Name
	}
	if input.Email != "" {
		fields["email"] = input.Email
	}
	if input.Phone != "" {
		fields["phone"] = input.Phone
	}
	if input.City != "" {
		fields["city"] = input.City
	}
	if input.State != "" {
		fields["state"] = input.State
	}
	if input.Country != "" {
		fields["country"] = input.Country
	}
	if input.Pincode != "" {
		fields["pincode"] = input.Pincode
	}
	if input.Address != "" {
		fields["address"] = input.Address
	}
	if input.Role != "" {
		fields["role"] = input.Role
	}

	if input.Password != "" {
		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		fields["password"] = string(hashedPassword)
	}

	if newImage != "" {
		fields["profile_image"] = newImage
	}

	if len(fields) > 0 {
		if err := s.userRepo.UpdateFields(id, fields); err != nil {
			return nil, err
		}
	}

	// The old file is an orphan once the reference has moved. Removal
	// is best-effort and must never fail the update.
	if newImage != "" && existing.ProfileImage != "" && existing.ProfileImage != newImage {
		go s.images.Delete(existing.ProfileImage)
	}

	updated, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	if s.mqClient != nil {
		if err := s.mqClient.PublishUserEvent("user.updated", map[string]interface{}{
			"id": updated.ID,
		}); err != nil {
			log.Printf("Failed to publish user.updated event: %v", err)
		}
	}
	return updated, nil
}

// DeleteUser removes a user record and, best-effort, the profile image
// file it referenced.
func (s *UserService) DeleteUser(id string) error {
	removed, err := s.userRepo.Delete(id)
	if err != nil {
		return err
	}

	if removed.ProfileImage != "" {
		go s.images.Delete(removed.ProfileImage)
	}

	if s.mqClient != nil {
		if err := s.mqClient.PublishUserEvent("user.deleted", map[string]interface{}{
			"id": removed.ID,
		}); err != nil {
			log.Printf("Failed to publish user.deleted event: %v", err)
		}
	}
	return nil
}
