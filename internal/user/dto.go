package user

// UserDTO is the client-facing projection of an AppUser. The id is included
// on every response so records stay addressable; the password never is.
type UserDTO struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Nickname string `json:"nickname"`
	Email    string `json:"email"`
	Roles    string `json:"roles"`
	Enabled  bool   `json:"enabled"`
}

// ToDTO converts a record to its outbound projection.
func ToDTO(u *AppUser) UserDTO {
	return UserDTO{
		ID:       u.ID,
		Username: u.Username,
		Nickname: u.Nickname,
		Email:    u.Email,
		Roles:    u.Roles,
		Enabled:  u.Enabled,
	}
}

// ToDTOs converts a list of records. Always returns a non-nil slice so an
// empty result serializes as [] rather than null.
func ToDTOs(users []*AppUser) []UserDTO {
	dtos := make([]UserDTO, 0, len(users))
	for _, u := range users {
		dtos = append(dtos, ToDTO(u))
	}
	return dtos
}

// CreateUserRequest carries the declaratively validated create payload.
// The password is deliberately unbound here: it has its own strength rule
// with a fixed message, checked before anything touches the store.
type CreateUserRequest struct {
	Username string `json:"username" binding:"required,min=3,max=16"`
	Nickname string `json:"nickname" binding:"omitempty,max=16"`
	Password string `json:"password"`
	Email    string `json:"email" binding:"required,email"`
}

// UpdateUserRequest is the update payload. An absent password keeps the
// stored hash; roles and enabled are never client-settable.
type UpdateUserRequest struct {
	Username string `json:"username" binding:"required,min=3,max=16"`
	Nickname string `json:"nickname" binding:"omitempty,max=16"`
	Password string `json:"password"`
	Email    string `json:"email" binding:"required,email"`
}

// FilterRequest is a partial example record; only set fields participate in
// the match.
type FilterRequest struct {
	Username *string `json:"username"`
	Nickname *string `json:"nickname"`
	Email    *string `json:"email"`
	Roles    *string `json:"roles"`
	Enabled  *bool   `json:"enabled"`
}

// LoginRequest carries credentials for token issuance.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest rotates a refresh token into a new pair.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}
