package service

import (
	"context"

	"campuslink/internal/models"
	"campuslink/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// Bookmark-toggle outcomes reported to the client.
const (
	BookmarkOutcomeAdded   = "bookmarked"
	BookmarkOutcomeRemoved = "removed"
)

// UserService owns registration, login credential checks, profile updates,
// and the bookmark toggle.
type UserService struct {
	users repository.UserRepository
}

// RegisterInput carries the registration payload.
type RegisterInput struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Year       string `json:"year"`
	Branch     string `json:"branch"`
	Division   string `json:"div"`
	RollNumber string `json:"rollNumber"`
	MoodleID   string `json:"moodleId"`
	Email      string `json:"email"`
	Password   string `json:"password"`
}

// NewUserService creates a UserService over the credential store.
func NewUserService(users repository.UserRepository) *UserService {
	return &UserService{users: users}
}

// Register creates a new account. MoodleID and email collisions are checked
// independently; either one blocks creation with a conflict.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if in.FirstName == "" || in.LastName == "" || in.MoodleID == "" || in.Email == "" || in.Password == "" {
		return nil, models.NewValidationError("firstName, lastName, moodleId, email, and password are required")
	}

	byMoodle, err := s.users.GetByMoodleID(ctx, in.MoodleID)
	if err != nil {
		return nil, err
	}
	byEmail, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if byMoodle != nil || byEmail != nil {
		return nil, models.NewConflictError("User already exists")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		DisplayName: in.FirstName + " " + in.LastName,
		Year:        in.Year,
		Branch:      in.Branch,
		Division:    in.Division,
		RollNumber:  in.RollNumber,
		MoodleID:    in.MoodleID,
		Email:       in.Email,
		Password:    string(hashed),
		Bookmarks:   []string{},
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// Authenticate looks up the user by moodle ID and checks the password hash.
func (s *UserService) Authenticate(ctx context.Context, moodleID, password string) (*models.User, error) {
	if moodleID == "" || password == "" {
		return nil, models.NewValidationError("moodleId and password are required")
	}

	user, err := s.users.GetByMoodleID(ctx, moodleID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewNotFoundError("User", moodleID)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, models.NewInvalidCredentialsError()
	}
	return user, nil
}

// UpdateProfile applies the editable profile fields to the user's record.
func (s *UserService) UpdateProfile(ctx context.Context, moodleID string, upd models.ProfileUpdate) error {
	return s.users.UpdateProfile(ctx, moodleID, upd)
}

// Delete removes the user record.
func (s *UserService) Delete(ctx context.Context, moodleID string) error {
	return s.users.Delete(ctx, moodleID)
}

// ToggleBookmark flips the post ID's membership in the user's bookmark list.
// The post store is never consulted; bookmarking an unknown ID is accepted.
func (s *UserService) ToggleBookmark(ctx context.Context, moodleID, postID string) (string, error) {
	if postID == "" {
		return "", models.NewValidationError("postId is required")
	}

	user, err := s.users.GetByMoodleID(ctx, moodleID)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", models.NewNotFoundError("User", moodleID)
	}

	for _, id := range user.Bookmarks {
		if id == postID {
			if err := s.users.RemoveBookmark(ctx, moodleID, postID); err != nil {
				return "", err
			}
			return BookmarkOutcomeRemoved, nil
		}
	}

	if err := s.users.AddBookmark(ctx, moodleID, postID); err != nil {
		return "", err
	}
	return BookmarkOutcomeAdded, nil
}
