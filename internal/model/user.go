package model

// UserBase holds the fields every user view shares.
type UserBase struct {
	Username string  `json:"username" example:"johndoe"`
	Email    string  `json:"email" validate:"email" format:"email"`
	FullName *string `json:"full_name"`
}

// UserIn is the registration payload. It is the only view with a password.
type UserIn struct {
	UserBase
	Password string `json:"password" minLength:"1"`
}

// UserOut is what the API returns for a user. It never carries the
// password or its hash.
type UserOut struct {
	UserBase
}

// UserInDB is the stored form of a user.
type UserInDB struct {
	UserBase
	HashedPassword string `json:"hashed_password"`
}

// Out drops the hash.
func (u UserInDB) Out() UserOut {
	return UserOut{UserBase: u.UserBase}
}

// User is the lightweight user embedded in bounded item updates. Clients
// send its full name under the camelCase key.
type User struct {
	Username string  `json:"username"`
	FullName *string `json:"fullName"`
}
