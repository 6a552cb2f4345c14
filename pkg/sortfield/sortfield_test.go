package sortfield_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vantagecompute/vantage-api/pkg/sortfield"
)

type clusterModel struct {
	Name               string                 `json:"name"`
	ClientID           string                 `json:"client_id"`
	Status             string                 `json:"status"`
	CreationParameters map[string]interface{} `json:"creation_parameters"`
	internalNote       string                 //nolint:unused // untagged, must never be sortable
	Hidden             string                 `json:"-"`
}

func TestNew(t *testing.T) {
	t.Run("nil model", func(t *testing.T) {
		_, err := sortfield.New(nil)
		assert.Error(t, err)
	})

	t.Run("non struct", func(t *testing.T) {
		_, err := sortfield.New("cluster")
		assert.Error(t, err)
	})

	t.Run("pointer to struct", func(t *testing.T) {
		checker, err := sortfield.New(&clusterModel{})
		require.NoError(t, err)
		assert.Contains(t, checker.AvailableFields(), "name")
	})
}

func TestAvailableFields(t *testing.T) {
	checker, err := sortfield.New(clusterModel{}, "creation_parameters")
	require.NoError(t, err)

	// declared fields minus the excluded set, untagged fields never counted
	assert.Equal(t, []string{"client_id", "name", "status"}, checker.AvailableFields())
	assert.Equal(t, []string{"creation_parameters"}, checker.ExcludedFields())
}

func TestCheck(t *testing.T) {
	checker, err := sortfield.New(clusterModel{}, "creation_parameters")
	require.NoError(t, err)

	t.Run("no sort requested", func(t *testing.T) {
		field, err := checker.Check("")
		assert.NoError(t, err)
		assert.Equal(t, "", field)
	})

	t.Run("every allowed field passes through unchanged", func(t *testing.T) {
		for _, name := range checker.AvailableFields() {
			field, err := checker.Check(name)
			assert.NoError(t, err)
			assert.Equal(t, name, field)
		}
	})

	t.Run("excluded field rejected", func(t *testing.T) {
		_, err := checker.Check("creation_parameters")
		assert.True(t, errors.Is(err, sortfield.ErrNotSortable))
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		_, err := checker.Check("owner_email")
		assert.True(t, errors.Is(err, sortfield.ErrNotSortable))
	})

	t.Run("untagged field rejected", func(t *testing.T) {
		_, err := checker.Check("internalNote")
		assert.True(t, errors.Is(err, sortfield.ErrNotSortable))
	})
}
