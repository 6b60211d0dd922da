// Package model defines the data structures shared by the services,
// the resolver, and the HTTP layer.
//
// Each resource has three shapes: the Request used to create it, the
// Model read back from storage, and the Update whose nil fields mean
// "leave unchanged" (partial patch).
package model

// User is a person featured on the portfolio.
type User struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Pronouns *string `json:"pronouns"`
	Bio      *string `json:"bio"`
	Discord  *string `json:"discord"`
	GitHub   *string `json:"github"`
}

type UserRequest struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Pronouns *string `json:"pronouns"`
	Bio      *string `json:"bio"`
	Discord  *string `json:"discord"`
	GitHub   *string `json:"github"`
}

type UserUpdate struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Pronouns *string `json:"pronouns"`
	Bio      *string `json:"bio"`
	Discord  *string `json:"discord"`
	GitHub   *string `json:"github"`
}
