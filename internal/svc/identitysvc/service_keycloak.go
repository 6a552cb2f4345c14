package identitysvc

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-resty/resty/v2"
	"github.com/vantagecompute/vantage-api/pkg/validator"
)

const defaultRealm = "vantage"

// serviceAccountPrefix marks the synthetic user Keycloak creates per client.
// Those never count as organization members.
const serviceAccountPrefix = "service-account-"

type KeycloakServiceConfig struct {
	HTTP  *resty.Client `validate:"required"` // base URL must point at the Keycloak admin host
	Realm string        `validate:"-"`        // defaults to vantage
}

type KeycloakService struct {
	Config KeycloakServiceConfig
	realm  string
}

var _ Service = (*KeycloakService)(nil)

func NewKeycloak(cfg KeycloakServiceConfig) (*KeycloakService, error) {
	if err := validator.Validate(cfg); err != nil {
		return nil, err
	}

	realm := cfg.Realm
	if realm == "" {
		realm = defaultRealm
	}

	return &KeycloakService{
		Config: cfg,
		realm:  realm,
	}, nil
}

// keycloakUser is the wire shape of a realm member.
type keycloakUser struct {
	ID         string              `json:"id"`
	Username   string              `json:"username"`
	Email      string              `json:"email"`
	FirstName  string              `json:"firstName"`
	LastName   string              `json:"lastName"`
	Picture    string              `json:"picture"`
	Attributes map[string][]string `json:"attributes"`
}

// keycloakClient is the wire shape of a realm client.
type keycloakClient struct {
	ID       string `json:"id"`
	ClientID string `json:"clientId"`
	Name     string `json:"name"`
	Enabled  bool   `json:"enabled"`
}

func (k *KeycloakService) ListUsers(ctx context.Context, input InputListUsers) (out OutListUsers, err error) {
	err = validator.Validate(input)
	if err != nil {
		err = fmt.Errorf("validation error, missing required field: %w", err)
		return
	}

	members := make([]keycloakUser, 0)
	resp, err := k.Config.HTTP.R().
		SetContext(ctx).
		SetResult(&members).
		Get(fmt.Sprintf("/admin/realms/%s/organizations/%s/members", k.realm, input.Tenant))
	if err != nil {
		err = fmt.Errorf("fetch organization members error: %w", err)
		return
	}

	if resp.StatusCode() != http.StatusOK {
		err = fmt.Errorf("fetch organization members got status %d: %s", resp.StatusCode(), resp.String())
		return
	}

	out = OutListUsers{
		Users: mountUsersList(members),
	}
	return
}

// GetDefaultClient fetches the realm client whose clientId is 'default'.
// Anything but exactly one match is an upstream fault.
func (k *KeycloakService) GetDefaultClient(ctx context.Context) (out OutGetDefaultClient, err error) {
	clients := make([]keycloakClient, 0)
	resp, err := k.Config.HTTP.R().
		SetContext(ctx).
		SetQueryParam("clientId", "default").
		SetResult(&clients).
		Get(fmt.Sprintf("/admin/realms/%s/clients", k.realm))
	if err != nil {
		err = fmt.Errorf("fetch default client error: %w", err)
		return
	}

	if resp.StatusCode() != http.StatusOK || len(clients) != 1 {
		err = fmt.Errorf("fetch default client got status %d with %d clients", resp.StatusCode(), len(clients))
		return
	}

	out = OutGetDefaultClient{
		Client: Client{
			ID:       clients[0].ID,
			ClientID: clients[0].ClientID,
			Name:     clients[0].Name,
			Enabled:  clients[0].Enabled,
		},
	}
	return
}

// CountUsers subtracts the tenant's clients from the member count, because
// every client's service account shows up as an organization member.
func (k *KeycloakService) CountUsers(ctx context.Context, input InputCountUsers) (out OutCountUsers, err error) {
	err = validator.Validate(input)
	if err != nil {
		err = fmt.Errorf("validation error, missing required field: %w", err)
		return
	}

	resp, err := k.Config.HTTP.R().
		SetContext(ctx).
		Get(fmt.Sprintf("/admin/realms/%s/organizations/%s/members/count", k.realm, input.Tenant))
	if err != nil {
		err = fmt.Errorf("fetch members count error: %w", err)
		return
	}

	if resp.StatusCode() != http.StatusOK {
		err = fmt.Errorf("fetch members count got status %d: %s", resp.StatusCode(), resp.String())
		return
	}

	totalMembers, err := strconv.Atoi(strings.TrimSpace(resp.String()))
	if err != nil {
		err = fmt.Errorf("members count is not a number: %w", err)
		return
	}

	clients := make([]keycloakClient, 0)
	resp, err = k.Config.HTTP.R().
		SetContext(ctx).
		SetQueryParam("clientId", input.Tenant).
		SetQueryParam("search", "true").
		SetResult(&clients).
		Get(fmt.Sprintf("/admin/realms/%s/clients", k.realm))
	if err != nil {
		err = fmt.Errorf("fetch tenant clients error: %w", err)
		return
	}

	if resp.StatusCode() != http.StatusOK {
		err = fmt.Errorf("fetch tenant clients got status %d: %s", resp.StatusCode(), resp.String())
		return
	}

	out = OutCountUsers{
		Total: totalMembers - len(clients),
	}
	return
}

// mountUsersList drops service accounts and fills the derived fields. The
// picture attribute takes precedence over the picture claim because the
// attribute is the one users can change through the API.
func mountUsersList(members []keycloakUser) []User {
	users := make([]User, 0, len(members))
	for _, m := range members {
		if strings.HasPrefix(m.Username, serviceAccountPrefix) {
			continue
		}

		fullName := strings.TrimSpace(
			strings.TrimSpace(m.FirstName) + " " + strings.TrimSpace(m.LastName),
		)

		avatarURL := m.Picture
		if pics, ok := m.Attributes["picture"]; ok && len(pics) > 0 && pics[0] != "" {
			avatarURL = pics[0]
		}

		users = append(users, User{
			ID:        m.ID,
			Username:  m.Username,
			Email:     m.Email,
			FirstName: m.FirstName,
			LastName:  m.LastName,
			Name:      fullName,
			AvatarURL: avatarURL,
		})
	}

	return users
}
