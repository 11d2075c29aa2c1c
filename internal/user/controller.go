package user

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"user_manager/internal/apperror"
	"user_manager/internal/auth"
	"user_manager/internal/common"
	"user_manager/internal/observability"
)

type UserController struct {
	service   UserServiceInterface
	jwtSecret string
}

func NewUserController(service UserServiceInterface, jwtSecret string) *UserController {
	return &UserController{
		service:   service,
		jwtSecret: jwtSecret,
	}
}

func recordOperation(operation string, err error) {
	if observability.GlobalMetrics == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "failed"
	}
	observability.GlobalMetrics.UserOperationsTotal.WithLabelValues(operation, status).Inc()
}

func recordAuthFailure(reason string) {
	if observability.GlobalMetrics != nil {
		observability.GlobalMetrics.AuthFailuresTotal.WithLabelValues(reason).Inc()
	}
}

// CreateUser handles POST /users.
// Order matters: declarative validation, password strength, uniqueness
// pre-checks, defaults. Roles and enabled ignore any client-supplied values.
func (uc *UserController) CreateUser(c *gin.Context) {
	var req CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, translateBindingError(err))
		return
	}

	if err := auth.ValidatePasswordStrength(req.Password); err != nil {
		common.RespondError(c, err)
		return
	}

	if err := uc.validateUsernameNotPresent(req.Username); err != nil {
		common.RespondError(c, err)
		return
	}
	if err := uc.validateEmailNotPresent(req.Email); err != nil {
		common.RespondError(c, err)
		return
	}

	appUser := &AppUser{
		Username: req.Username,
		Nickname: defaultNickname(req.Nickname, req.Username),
		Password: req.Password,
		Email:    req.Email,
		Roles:    RoleUser,
		Enabled:  true,
	}

	saved, err := uc.service.Create(appUser)
	recordOperation("create", err)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	common.Respond(c, "Create user success", ToDTO(saved))
}

// FindUserByID handles GET /users/:id
func (uc *UserController) FindUserByID(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	appUser, err := uc.service.FindByID(id)
	recordOperation("find", err)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	common.Respond(c, "Find user success", ToDTO(appUser))
}

// FindUsers handles GET /users
func (uc *UserController) FindUsers(c *gin.Context) {
	users, err := uc.service.FindAll()
	recordOperation("find", err)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	common.Respond(c, "Find all users success", ToDTOs(users))
}

// FilterUsers handles POST /users/filter. The example record is not
// validated; any subset of fields is a legal filter.
func (uc *UserController) FilterUsers(c *gin.Context) {
	var example FilterRequest
	if err := c.ShouldBindJSON(&example); err != nil {
		common.RespondError(c, apperror.NewIllegalArgumentError("invalid request body", err))
		return
	}

	users, err := uc.service.Filter(&example)
	recordOperation("filter", err)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	common.Respond(c, "Find user(s) success", ToDTOs(users))
}

// UpdateUser handles PUT /users/:id.
// An absent password keeps the stored hash; a present one is strength-checked
// and rehashed. Roles and enabled always carry over from the stored record.
func (uc *UserController) UpdateUser(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	var req UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, translateBindingError(err))
		return
	}

	existing, err := uc.service.FindByID(id)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	password := existing.Password
	if req.Password != "" {
		if err := auth.ValidatePasswordStrength(req.Password); err != nil {
			common.RespondError(c, err)
			return
		}
		password, err = auth.GeneratePasswordHash(req.Password)
		if err != nil {
			common.RespondError(c, apperror.NewInternalError("failed to hash password", err))
			return
		}
	}

	merged := &AppUser{
		ID:       id,
		Username: req.Username,
		Nickname: defaultNickname(req.Nickname, req.Username),
		Password: password,
		Email:    req.Email,
		Roles:    existing.Roles,
		Enabled:  existing.Enabled,
	}

	updated, err := uc.service.Update(id, merged)
	recordOperation("update", err)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	common.Respond(c, "Update user success", ToDTO(updated))
}

// DeleteUserByID handles DELETE /users/:id; a nonexistent id is a 404
func (uc *UserController) DeleteUserByID(c *gin.Context) {
	id, err := parseID(c)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	err = uc.service.DeleteByID(id)
	recordOperation("delete", err)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	common.Respond(c, "Delete user success", nil)
}

// GetCurrentUser handles GET /users/current_user, resolving the record of
// the authenticated principal.
func (uc *UserController) GetCurrentUser(c *gin.Context) {
	username, err := auth.GetUsernameFromContext(c)
	if err != nil {
		common.RespondError(c, apperror.NewInsufficientAuthError("no authenticated identity", err))
		return
	}

	appUser, err := uc.service.FindByUsername(username)
	if err != nil {
		common.RespondError(c, err)
		return
	}

	common.Respond(c, "Retrieve current user success", ToDTO(appUser))
}

// Login handles POST /auth/login and returns a JWT token pair
func (uc *UserController) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, apperror.NewInsufficientAuthError("username and password are required", err))
		return
	}

	tokens, err := uc.service.Login(req.Username, req.Password, uc.jwtSecret)
	if err != nil {
		if appErr, ok := apperror.FromError(err); ok {
			switch appErr.Type {
			case apperror.BadCredentialsError:
				recordAuthFailure("bad_credentials")
			case apperror.AccountStatusError:
				recordAuthFailure("account_disabled")
			}
		}
		common.RespondError(c, err)
		return
	}

	common.Respond(c, "Login success", tokens)
}

// RefreshToken handles POST /auth/refresh with token rotation
func (uc *UserController) RefreshToken(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondError(c, apperror.NewInsufficientAuthError("refresh token is required", err))
		return
	}

	tokens, err := auth.RefreshTokenPair(req.RefreshToken, uc.jwtSecret)
	if err != nil {
		recordAuthFailure("invalid_token")
		common.RespondError(c, apperror.NewInvalidTokenError("refresh token rejected", err))
		return
	}

	common.Respond(c, "Refresh token success", tokens)
}

func (uc *UserController) validateUsernameNotPresent(username string) error {
	_, err := uc.service.FindByUsername(username)
	if err == nil {
		return apperror.NewIllegalArgumentError("username already exists", nil)
	}
	if apperror.IsNotFound(err) {
		return nil
	}
	return err
}

func (uc *UserController) validateEmailNotPresent(email string) error {
	_, err := uc.service.FindByEmail(email)
	if err == nil {
		return apperror.NewIllegalArgumentError("email already exists", nil)
	}
	if apperror.IsNotFound(err) {
		return nil
	}
	return err
}

func defaultNickname(nickname, username string) string {
	if nickname == "" {
		return username
	}
	return nickname
}

func parseID(c *gin.Context) (int, error) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return 0, apperror.NewIllegalArgumentError("invalid user ID", err)
	}
	return id, nil
}
