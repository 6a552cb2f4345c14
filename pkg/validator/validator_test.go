package validator_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/vantagecompute/vantage-api/pkg/validator"
)

func TestValidate(t *testing.T) {
	testCases := []struct {
		Name  string
		Email string `validate:"required,email"`
		Err   bool
	}{
		{Name: "empty", Email: "", Err: true},
		{Name: "not an email", Email: "cluster-owner", Err: true},
		{Name: "ok", Email: "owner@vantagecompute.ai", Err: false},
	}

	for _, testCase := range testCases {
		testCase := testCase
		t.Run(testCase.Name, func(t *testing.T) {
			err := validator.Validate(testCase)
			if testCase.Err {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
		})
	}

	t.Run("nil input", func(t *testing.T) {
		assert.Error(t, validator.Validate(nil))
	})
}
