package mailclient

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCredential() *EmailCredential {
	return &EmailCredential{
		Protocol:   "smtp",
		ServerHost: "smtp.example.com",
		ServerPort: 465,
		Username:   "noreply@example.com",
		Password:   "---",
	}
}

func TestNewSmtp(t *testing.T) {
	t.Run("missing credential", func(t *testing.T) {
		client, err := NewSmtp(&SmtpMailerConfig{})
		assert.Nil(t, client)
		assert.Error(t, err)
	})

	t.Run("ok without dialing", func(t *testing.T) {
		client, err := NewSmtp(&SmtpMailerConfig{EmailCredential: validCredential()})
		assert.NotNil(t, client)
		assert.NoError(t, err)
	})
}

func TestClientSmtpManager_Get(t *testing.T) {
	t.Run("same credential reuses client", func(t *testing.T) {
		mng, err := NewClientSmtpManager()
		require.NoError(t, err)

		cfg := &SmtpMailerConfig{EmailCredential: validCredential()}

		c1, err := mng.Get(context.Background(), cfg)
		require.NoError(t, err)
		require.NotNil(t, c1)

		c2, err := mng.Get(context.Background(), cfg)
		require.NoError(t, err)
		assert.Same(t, c1, c2)
	})

	t.Run("different credential gets different client", func(t *testing.T) {
		mng, err := NewClientSmtpManager()
		require.NoError(t, err)

		cfg1 := &SmtpMailerConfig{EmailCredential: validCredential()}

		cred2 := validCredential()
		cred2.Username = "alerts@example.com"
		cfg2 := &SmtpMailerConfig{EmailCredential: cred2}

		c1, err := mng.Get(context.Background(), cfg1)
		require.NoError(t, err)

		c2, err := mng.Get(context.Background(), cfg2)
		require.NoError(t, err)
		assert.NotSame(t, c1, c2)
	})
}

func TestCacheKey(t *testing.T) {
	cred := validCredential()
	assert.Equal(t, cacheKey(cred), cacheKey(validCredential()))

	other := validCredential()
	other.AuthIdentity = "cluster-owner"
	assert.NotEqual(t, cacheKey(cred), cacheKey(other))
}
