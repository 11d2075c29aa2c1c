package user

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sirupsen/logrus"

	"user_manager/internal/apperror"
	"user_manager/internal/observability"
)

type UserRepository struct{}

type UserRepositoryInterface interface {
	Create(tx *sql.Tx, user *AppUser) (int, error)
	GetByID(db *sql.DB, id int) (*AppUser, error)
	GetByUsername(db *sql.DB, username string) (*AppUser, error)
	GetByEmail(db *sql.DB, email string) (*AppUser, error)
	GetAll(db *sql.DB) ([]*AppUser, error)
	Filter(db *sql.DB, example *FilterRequest) ([]*AppUser, error)
	Update(tx *sql.Tx, id int, user *AppUser) error
	Delete(tx *sql.Tx, id int) error
}

func NewUserRepository() UserRepositoryInterface {
	return &UserRepository{}
}

const userColumns = "id, username, nickname, password, email, roles, enabled"

// uniqueViolation is the Postgres error code for a unique constraint breach.
// The constraints on username/email are the authoritative uniqueness guard;
// the service's pre-checks are a best-effort optimization.
const uniqueViolation = "23505"

func translateUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		if strings.Contains(pgErr.ConstraintName, "email") {
			return apperror.NewIllegalArgumentError("email already exists", err)
		}
		return apperror.NewIllegalArgumentError("username already exists", err)
	}
	return err
}

func observeQuery(queryType string, start time.Time) {
	if observability.GlobalMetrics != nil {
		observability.GlobalMetrics.DBQueryDuration.WithLabelValues(queryType).Observe(time.Since(start).Seconds())
	}
}

// Create inserts a new user and returns the generated id
func (r *UserRepository) Create(tx *sql.Tx, user *AppUser) (int, error) {
	defer observeQuery("INSERT", time.Now())

	query := `
		INSERT INTO users (username, nickname, password, email, roles, enabled)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	var id int
	err := tx.QueryRow(
		query,
		user.Username,
		user.Nickname,
		user.Password,
		user.Email,
		user.Roles,
		user.Enabled,
	).Scan(&id)

	if err != nil {
		logrus.WithError(err).Error("Failed to create user")
		return 0, translateUniqueViolation(err)
	}

	logrus.WithFields(logrus.Fields{
		"user_id":  id,
		"username": user.Username,
	}).Info("User created successfully")

	return id, nil
}

func (r *UserRepository) getOne(db *sql.DB, field string, value any, notFoundMsg string) (*AppUser, error) {
	defer observeQuery("SELECT", time.Now())

	query := fmt.Sprintf(`SELECT %s FROM users WHERE %s = $1`, userColumns, field)

	user := &AppUser{}
	err := db.QueryRow(query, value).Scan(
		&user.ID,
		&user.Username,
		&user.Nickname,
		&user.Password,
		&user.Email,
		&user.Roles,
		&user.Enabled,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NewNotFoundError(notFoundMsg, nil)
		}
		logrus.WithError(err).WithField(field, value).Error("Failed to get user")
		return nil, err
	}

	return user, nil
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(db *sql.DB, id int) (*AppUser, error) {
	return r.getOne(db, "id", id, fmt.Sprintf("Not found user with ID: %d", id))
}

// GetByUsername retrieves a user by username
func (r *UserRepository) GetByUsername(db *sql.DB, username string) (*AppUser, error) {
	return r.getOne(db, "username", username, fmt.Sprintf("Not found user with username: %s", username))
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(db *sql.DB, email string) (*AppUser, error) {
	return r.getOne(db, "email", email, fmt.Sprintf("Not found user with email: %s", email))
}

// GetAll retrieves every user, unfiltered and unpaginated
func (r *UserRepository) GetAll(db *sql.DB) ([]*AppUser, error) {
	defer observeQuery("SELECT", time.Now())

	query := fmt.Sprintf(`SELECT %s FROM users ORDER BY id`, userColumns)

	rows, err := db.Query(query)
	if err != nil {
		logrus.WithError(err).Error("Failed to list users")
		return nil, err
	}
	defer rows.Close()

	return scanUsers(rows)
}

// Filter retrieves users matching the example's set fields by equality
func (r *UserRepository) Filter(db *sql.DB, example *FilterRequest) ([]*AppUser, error) {
	defer observeQuery("SELECT", time.Now())

	var clauses []string
	var args []any
	argID := 1

	addClause := func(field string, value any) {
		clauses = append(clauses, fmt.Sprintf("%s = $%d", field, argID))
		args = append(args, value)
		argID++
	}

	if example.Username != nil {
		addClause("username", *example.Username)
	}
	if example.Nickname != nil {
		addClause("nickname", *example.Nickname)
	}
	if example.Email != nil {
		addClause("email", *example.Email)
	}
	if example.Roles != nil {
		addClause("roles", *example.Roles)
	}
	if example.Enabled != nil {
		addClause("enabled", *example.Enabled)
	}

	query := fmt.Sprintf(`SELECT %s FROM users`, userColumns)
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY id"

	rows, err := db.Query(query, args...)
	if err != nil {
		logrus.WithError(err).Error("Failed to filter users")
		return nil, err
	}
	defer rows.Close()

	return scanUsers(rows)
}

func scanUsers(rows *sql.Rows) ([]*AppUser, error) {
	var users []*AppUser
	for rows.Next() {
		user := &AppUser{}
		if err := rows.Scan(
			&user.ID,
			&user.Username,
			&user.Nickname,
			&user.Password,
			&user.Email,
			&user.Roles,
			&user.Enabled,
		); err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// Update overwrites the mutable fields of an existing user
func (r *UserRepository) Update(tx *sql.Tx, id int, user *AppUser) error {
	defer observeQuery("UPDATE", time.Now())

	query := `
		UPDATE users
		SET username = $1, nickname = $2, password = $3, email = $4, roles = $5, enabled = $6
		WHERE id = $7
	`

	result, err := tx.Exec(
		query,
		user.Username,
		user.Nickname,
		user.Password,
		user.Email,
		user.Roles,
		user.Enabled,
		id,
	)
	if err != nil {
		logrus.WithError(err).Error("Failed to update user")
		return translateUniqueViolation(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("Not found user with ID: %d", id), nil)
	}

	logrus.WithField("user_id", id).Info("User updated successfully")
	return nil
}

// Delete removes a user by id; deleting a nonexistent id reports not-found
func (r *UserRepository) Delete(tx *sql.Tx, id int) error {
	defer observeQuery("DELETE", time.Now())

	result, err := tx.Exec(`DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		logrus.WithError(err).Error("Failed to delete user")
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("Not found user with ID: %d", id), nil)
	}

	logrus.WithField("user_id", id).Info("User deleted successfully")
	return nil
}
