package service

import (
	"context"
	"strings"

	"socialfeed/internal/models"
	"socialfeed/internal/pagination"
	"socialfeed/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

type UserService struct {
	userRepo   repository.UserRepository
	followRepo repository.FollowRepository
}

type RegisterInput struct {
	Username string
	Email    string
	FullName string
	Password string
}

// UserSearchResult is a page of users with the total match count.
type UserSearchResult struct {
	Items      []*models.User  `json:"items"`
	Pagination pagination.Meta `json:"pagination"`
	Total      int64           `json:"total"`
	TotalPages int             `json:"totalPages"`
}

func NewUserService(userRepo repository.UserRepository, followRepo repository.FollowRepository) *UserService {
	return &UserService{userRepo: userRepo, followRepo: followRepo}
}

// Register creates an account with a bcrypt password hash.
func (s *UserService) Register(ctx context.Context, in RegisterInput) (user *models.User, err error) {
	ctx, end := startSpan(ctx, "UserService.Register")
	defer end(&err)

	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))

	if taken, err := s.userRepo.ExistsByUsername(ctx, in.Username, 0); err != nil {
		return nil, err
	} else if taken {
		return nil, models.NewConflictError("Username is already taken").WithReason(models.ReasonDuplicate)
	}
	if taken, err := s.userRepo.ExistsByEmail(ctx, in.Email, 0); err != nil {
		return nil, err
	} else if taken {
		return nil, models.NewConflictError("Email is already registered").WithReason(models.ReasonDuplicate)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user = &models.User{
		Username:     in.Username,
		Email:        in.Email,
		FullName:     strings.TrimSpace(in.FullName),
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetProfile returns a visible user with live follow counts.
func (s *UserService) GetProfile(ctx context.Context, userID uint) (profile *models.UserProfile, err error) {
	ctx, end := startSpan(ctx, "UserService.GetProfile", idAttr("user.id", userID))
	defer end(&err)

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	counts, err := s.followRepo.Counts(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &models.UserProfile{User: *user, FollowCounts: counts}, nil
}

// UpdateProfile applies a partial update to the caller's own profile.
func (s *UserService) UpdateProfile(ctx context.Context, userID uint, changes models.ProfileChanges) (user *models.User, err error) {
	ctx, end := startSpan(ctx, "UserService.UpdateProfile", idAttr("user.id", userID))
	defer end(&err)

	if changes.Empty() {
		return nil, models.NewValidationError("No changes were made").WithReason(models.ReasonNoChanges)
	}
	if changes.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*changes.Email))
		changes.Email = &email
		taken, err := s.userRepo.ExistsByEmail(ctx, email, userID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, models.NewConflictError("Email is already in use").WithReason(models.ReasonDuplicate)
		}
	}
	if changes.Username != nil {
		username := strings.TrimSpace(*changes.Username)
		changes.Username = &username
		taken, err := s.userRepo.ExistsByUsername(ctx, username, userID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, models.NewConflictError("Username is already taken").WithReason(models.ReasonDuplicate)
		}
	}

	if err := s.userRepo.UpdateProfile(ctx, userID, changes); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, userID)
}

// SearchUsers matches username or full name case-insensitively.
func (s *UserService) SearchUsers(ctx context.Context, query string, params pagination.Params) (result *UserSearchResult, err error) {
	ctx, end := startSpan(ctx, "UserService.SearchUsers")
	defer end(&err)

	query = strings.TrimSpace(query)
	if query == "" {
		return nil, models.NewValidationError("Search query is required")
	}
	users, total, err := s.userRepo.Search(ctx, query, params.Limit, params.Offset)
	if err != nil {
		return nil, err
	}
	page := pagination.NewPage(users, params)
	return &UserSearchResult{
		Items:      page.Items,
		Pagination: page.Pagination,
		Total:      total,
		TotalPages: pagination.TotalPages(total, params.Limit),
	}, nil
}
