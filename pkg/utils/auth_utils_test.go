package utils

import (
	"strings"
	"testing"

	apperrors "assetflow/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword("1111")
	require.NoError(t, err)
	assert.NoError(t, ComparePasswords(hash, "1111"))
	assert.Error(t, ComparePasswords(hash, "2222"))

	_, err = HashPassword(strings.Repeat("a", 73))
	assert.True(t, apperrors.IsValidation(err))
}
