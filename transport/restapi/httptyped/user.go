package httptyped

import (
	"github.com/vantagecompute/vantage-api/internal/svc/identitysvc"
)

type UserEntity struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

type ClientEntity struct {
	ID       string `json:"id"`
	ClientID string `json:"client_id"`
	Name     string `json:"name"`
	Enabled  bool   `json:"enabled"`
}

func UserEntityFromSvc(user identitysvc.User) UserEntity {
	return UserEntity{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Name:      user.Name,
		AvatarURL: user.AvatarURL,
	}
}

func ClientEntityFromSvc(client identitysvc.Client) ClientEntity {
	return ClientEntity{
		ID:       client.ID,
		ClientID: client.ClientID,
		Name:     client.Name,
		Enabled:  client.Enabled,
	}
}
