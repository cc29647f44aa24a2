package user

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"socialapp/internal/common"
	"socialapp/internal/dbmysql"
)

const searchLimit = 10

// SearchMode selects which columns a user search matches against.
type SearchMode string

const (
	SearchByName    SearchMode = "name"
	SearchByContact SearchMode = "contact"
)

func (m SearchMode) columns() []string {
	if m == SearchByContact {
		return []string{"username", "email"}
	}
	return []string{"username", "first_name", "last_name"}
}

type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Username  string
	Password  string
}

// UpdateProfileInput fields left blank keep their current value.
type UpdateProfileInput struct {
	Username       string
	Email          string
	Bio            string
	Password       string
	ProfilePicture *common.Upload
}

// Profile is the private projection returned to the account owner.
type Profile struct {
	ID             uint64    `json:"id"`
	FirstName      string    `json:"firstName"`
	LastName       string    `json:"lastName"`
	Email          string    `json:"email"`
	Username       string    `json:"username"`
	Phone          string    `json:"phone"`
	Bio            *string   `json:"bio"`
	ProfilePicture *string   `json:"profilePicture"`
	CreatedAt      time.Time `json:"createdAt"`
}

func NewProfile(u *dbmysql.User) *Profile {
	return &Profile{
		ID:             u.ID,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		Email:          u.Email,
		Username:       u.Username,
		Phone:          u.Phone,
		Bio:            u.Bio,
		ProfilePicture: u.ProfilePicture,
		CreatedAt:      u.CreatedAt,
	}
}

type PublicProfile struct {
	ID             uint64  `json:"id"`
	Username       string  `json:"username"`
	FirstName      string  `json:"firstName"`
	LastName       string  `json:"lastName"`
	Bio            *string `json:"bio"`
	ProfilePicture *string `json:"profilePicture"`
	IsFollowing    bool    `json:"isFollowing"`
}

type UserService interface {
	Register(ctx context.Context, in RegisterInput) (*dbmysql.User, error)
	// Login reports NotFound for an unknown email and Auth for a wrong password.
	Login(ctx context.Context, email, password string) (*dbmysql.User, string, error)
	GetProfile(ctx context.Context, userID uint64) (*dbmysql.User, error)
	UpdateProfile(ctx context.Context, userID uint64, in UpdateProfileInput) (*dbmysql.User, error)
	DeleteAccount(ctx context.Context, userID uint64) error
	GetStats(ctx context.Context, userID uint64) (*Stats, error)
	GetPublicProfile(ctx context.Context, viewerID, userID uint64) (*PublicProfile, error)
	SearchUsers(ctx context.Context, query string, mode SearchMode) ([]common.UserSummary, error)
}

type userService struct {
	userRepo   UserRepository
	followRepo FollowRepository
	tx         common.Transactor
	tokens     *common.TokenManager
	media      common.MediaStore
	log        *zap.Logger
}

// NewUserService accepts a nil media store; uploads are then rejected.
func NewUserService(userRepo UserRepository, followRepo FollowRepository, tx common.Transactor,
	tokens *common.TokenManager, media common.MediaStore, log *zap.Logger) UserService {
	return &userService{
		userRepo:   userRepo,
		followRepo: followRepo,
		tx:         tx,
		tokens:     tokens,
		media:      media,
		log:        log.Named("user"),
	}
}

func (s *userService) Register(ctx context.Context, in RegisterInput) (*dbmysql.User, error) {
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Username = strings.TrimSpace(in.Username)
	in.Email = common.NormalizeEmail(in.Email)

	if in.FirstName == "" || in.LastName == "" {
		return nil, common.NewValidationError("first and last name are required")
	}
	if err := common.ValidateEmail(in.Email); err != nil {
		return nil, err
	}
	if err := common.ValidateUsername(in.Username); err != nil {
		return nil, err
	}
	if err := common.ValidatePassword(in.Password); err != nil {
		return nil, err
	}

	//duplicates check
	if err := s.ensureAvailable(ctx, in.Username, in.Email, 0); err != nil {
		return nil, err
	}

	hashed, err := common.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &dbmysql.User{
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Email:        in.Email,
		Username:     in.Username,
		Phone:        strings.TrimSpace(in.Phone),
		PasswordHash: hashed,
	}
	if err := s.userRepo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	s.log.Info("user registered", zap.Uint64("user_id", user.ID))
	return user, nil
}

func (s *userService) ensureAvailable(ctx context.Context, username, email string, excludeID uint64) error {
	if username != "" {
		taken, err := s.userRepo.UsernameExists(ctx, username, excludeID)
		if err != nil {
			return err
		}
		if taken {
			return common.NewConflictError("username already taken")
		}
	}
	if email != "" {
		taken, err := s.userRepo.EmailExists(ctx, email, excludeID)
		if err != nil {
			return err
		}
		if taken {
			return common.NewConflictError("email already registered")
		}
	}
	return nil
}

func (s *userService) Login(ctx context.Context, email, password string) (*dbmysql.User, string, error) {
	email = common.NormalizeEmail(email)
	if email == "" || password == "" {
		return nil, "", common.NewValidationError("email and password required")
	}

	user, err := s.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}

	if err := common.CheckPassword(password, user.PasswordHash); err != nil {
		return nil, "", common.NewAuthError("invalid password")
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Email)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

func (s *userService) GetProfile(ctx context.Context, userID uint64) (*dbmysql.User, error) {
	return s.userRepo.GetUserByID(ctx, userID)
}

func (s *userService) UpdateProfile(ctx context.Context, userID uint64, in UpdateProfileInput) (*dbmysql.User, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	username := strings.TrimSpace(in.Username)
	if username != "" && username != user.Username {
		if err := common.ValidateUsername(username); err != nil {
			return nil, err
		}
		if err := s.ensureAvailable(ctx, username, "", userID); err != nil {
			return nil, err
		}
		user.Username = username
	}

	email := common.NormalizeEmail(in.Email)
	if email != "" && email != user.Email {
		if err := common.ValidateEmail(email); err != nil {
			return nil, err
		}
		if err := s.ensureAvailable(ctx, "", email, userID); err != nil {
			return nil, err
		}
		user.Email = email
	}

	if bio := strings.TrimSpace(in.Bio); bio != "" {
		user.Bio = &bio
	}

	if strings.TrimSpace(in.Password) != "" {
		if err := common.ValidatePassword(in.Password); err != nil {
			return nil, err
		}
		hashed, err := common.HashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = hashed
	}

	var oldPicture, newPicture string
	if in.ProfilePicture != nil {
		if s.media == nil {
			return nil, common.NewValidationError("media uploads are disabled")
		}
		ref, err := s.media.Save(ctx, userID, in.ProfilePicture)
		if err != nil {
			return nil, err
		}
		newPicture = ref
		if user.ProfilePicture != nil {
			oldPicture = *user.ProfilePicture
		}
		user.ProfilePicture = &ref
	}

	if err := s.userRepo.UpdateUser(ctx, user); err != nil {
		s.discardMedia(ctx, newPicture)
		return nil, err
	}
	s.discardMedia(ctx, oldPicture)

	return user, nil
}

func (s *userService) DeleteAccount(ctx context.Context, userID uint64) error {
	var refs []string
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		refs, err = s.userRepo.DeleteUserCascade(ctx, userID)
		return err
	})
	if err != nil {
		return err
	}

	for _, ref := range refs {
		s.discardMedia(ctx, ref)
	}
	s.log.Info("account deleted", zap.Uint64("user_id", userID), zap.Int("media_refs", len(refs)))
	return nil
}

// discardMedia removes a stored file best-effort.
func (s *userService) discardMedia(ctx context.Context, ref string) {
	if ref == "" || s.media == nil {
		return
	}
	if err := s.media.Remove(ctx, ref); err != nil {
		s.log.Warn("failed to remove media", zap.String("ref", ref), zap.Error(err))
	}
}

func (s *userService) GetStats(ctx context.Context, userID uint64) (*Stats, error) {
	if _, err := s.userRepo.GetUserByID(ctx, userID); err != nil {
		return nil, err
	}
	return s.userRepo.CountStats(ctx, userID)
}

func (s *userService) GetPublicProfile(ctx context.Context, viewerID, userID uint64) (*PublicProfile, error) {
	user, err := s.userRepo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	following := false
	if viewerID != 0 && viewerID != userID {
		if following, err = s.followRepo.Exists(ctx, viewerID, userID); err != nil {
			return nil, err
		}
	}

	return &PublicProfile{
		ID:             user.ID,
		Username:       user.Username,
		FirstName:      user.FirstName,
		LastName:       user.LastName,
		Bio:            user.Bio,
		ProfilePicture: user.ProfilePicture,
		IsFollowing:    following,
	}, nil
}

func (s *userService) SearchUsers(ctx context.Context, query string, mode SearchMode) ([]common.UserSummary, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, common.NewValidationError("search query is required")
	}

	users, err := s.userRepo.SearchUsers(ctx, query, mode.columns(), searchLimit)
	if err != nil {
		return nil, err
	}
	return summaries(users), nil
}

func summaries(users []*dbmysql.User) []common.UserSummary {
	out := make([]common.UserSummary, 0, len(users))
	for _, u := range users {
		out = append(out, u.Summary())
	}
	return out
}
