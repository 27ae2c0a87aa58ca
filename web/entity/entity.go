// Package entity defines the request and response bodies of the API.
package entity

// Token is the response of a successful password grant.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// UserCreateInfo is the registration request body.
type UserCreateInfo struct {
	Name     string `json:"name" binding:"required,max=64"`
	Email    string `json:"email" binding:"required,max=127"`
	Password string `json:"password" binding:"required"`
}

// UserUpdateInfo is the partial update request body. Empty fields are left
// untouched.
type UserUpdateInfo struct {
	Name     string `json:"name" binding:"omitempty,max=64"`
	Email    string `json:"email" binding:"omitempty,max=127"`
	Password string `json:"password"`
}

// UserInList is the reduced shape used by the listing endpoint.
type UserInList struct {
	Id   int    `json:"id"`
	Name string `json:"name"`
}

// ErrorMsg is the error response body.
type ErrorMsg struct {
	Detail string `json:"detail"`
}
