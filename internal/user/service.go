package user

import (
	"database/sql"

	"github.com/sirupsen/logrus"

	"user_manager/internal/apperror"
	"user_manager/internal/auth"
	"user_manager/internal/utils"
)

type UserService struct {
	repo UserRepositoryInterface
	db   *sql.DB
}

type UserServiceInterface interface {
	Create(user *AppUser) (*AppUser, error)
	FindByID(id int) (*AppUser, error)
	FindByUsername(username string) (*AppUser, error)
	FindByEmail(email string) (*AppUser, error)
	FindAll() ([]*AppUser, error)
	Filter(example *FilterRequest) ([]*AppUser, error)
	Update(id int, user *AppUser) (*AppUser, error)
	DeleteByID(id int) error
	Login(username, password, jwtSecret string) (*auth.TokenPair, error)
}

func NewUserService(repo UserRepositoryInterface, db *sql.DB) UserServiceInterface {
	return &UserService{
		repo: repo,
		db:   db,
	}
}

// Create hashes the password and persists the user in a transaction.
// The caller has already applied defaults and business validation; the
// database unique constraints remain the final word on username/email.
func (s *UserService) Create(user *AppUser) (*AppUser, error) {
	hashedPassword, err := auth.GeneratePasswordHash(user.Password)
	if err != nil {
		return nil, apperror.NewInternalError("failed to hash password", err)
	}
	user.Password = hashedPassword

	err = utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		id, err := s.repo.Create(tx, user)
		if err != nil {
			return err
		}
		user.ID = id
		return nil
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// FindByID retrieves a user by id
func (s *UserService) FindByID(id int) (*AppUser, error) {
	return s.repo.GetByID(s.db, id)
}

// FindByUsername retrieves a user by username
func (s *UserService) FindByUsername(username string) (*AppUser, error) {
	return s.repo.GetByUsername(s.db, username)
}

// FindByEmail retrieves a user by email
func (s *UserService) FindByEmail(email string) (*AppUser, error) {
	return s.repo.GetByEmail(s.db, email)
}

// FindAll retrieves every user
func (s *UserService) FindAll() ([]*AppUser, error) {
	return s.repo.GetAll(s.db)
}

// Filter retrieves users matching the partial example
func (s *UserService) Filter(example *FilterRequest) ([]*AppUser, error) {
	return s.repo.Filter(s.db, example)
}

// Update persists the merged record. The password on the incoming record is
// already hashed (either freshly, or carried over from the stored record).
func (s *UserService) Update(id int, user *AppUser) (*AppUser, error) {
	err := utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		return s.repo.Update(tx, id, user)
	})
	if err != nil {
		return nil, err
	}

	user.ID = id
	return user, nil
}

// DeleteByID removes the user; a nonexistent id reports not-found
func (s *UserService) DeleteByID(id int) error {
	return utils.WithTransaction(s.db, func(tx *sql.Tx) error {
		return s.repo.Delete(tx, id)
	})
}

// Login verifies credentials and issues a token pair. Unknown usernames and
// wrong passwords are indistinguishable to the caller; disabled accounts
// surface as an account-status failure.
func (s *UserService) Login(username, password, jwtSecret string) (*auth.TokenPair, error) {
	user, err := s.repo.GetByUsername(s.db, username)
	if err != nil {
		if apperror.IsNotFound(err) {
			return nil, apperror.NewBadCredentialsError("unknown username", nil)
		}
		return nil, err
	}

	if err := auth.ComparePasswordHash([]byte(user.Password), password); err != nil {
		logrus.WithField("username", username).Warn("Login failed: password mismatch")
		return nil, apperror.NewBadCredentialsError("password mismatch", nil)
	}

	if !user.Enabled {
		return nil, apperror.NewAccountStatusError("account is disabled", nil)
	}

	tokens, err := auth.GenerateTokenPair(user.ID, user.Username, jwtSecret)
	if err != nil {
		return nil, apperror.NewInternalError("failed to generate tokens", err)
	}

	return tokens, nil
}
