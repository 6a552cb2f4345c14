package identitysvc

import (
	"context"
)

// Service is a facade over the identity provider admin API. It owns the
// quirks of that API (service accounts listed as members, clients counted
// as members) so callers only see cleaned-up answers.
type Service interface {
	ListUsers(ctx context.Context, input InputListUsers) (out OutListUsers, err error)
	GetDefaultClient(ctx context.Context) (out OutGetDefaultClient, err error)
	CountUsers(ctx context.Context, input InputCountUsers) (out OutCountUsers, err error)
}

// User is one organization member. Name is the joined first and last name,
// empty when the provider has neither.
type User struct {
	ID        string
	Username  string
	Email     string
	FirstName string
	LastName  string
	Name      string
	AvatarURL string
}

// Client is one OAuth client registered on the realm.
type Client struct {
	ID       string
	ClientID string
	Name     string
	Enabled  bool
}

type InputListUsers struct {
	Tenant string `validate:"required"`
}

type OutListUsers struct {
	Users []User
}

type OutGetDefaultClient struct {
	Client Client
}

type InputCountUsers struct {
	Tenant string `validate:"required"`
}

type OutCountUsers struct {
	Total int
}
