package db

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpen_NoDriver(t *testing.T) {
	t.Parallel()

	d, err := Open("", "")
	require.NoError(t, err)
	require.Nil(t, d)
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	t.Parallel()

	_, err := Open("sqlite", "file.db")
	require.Error(t, err)
	require.Contains(t, err.Error(), "sqlite")
}

// Без трансляции ошибок нарушение уникальности пришло бы драйверной
// ошибкой, а не gorm.ErrDuplicatedKey, и дубликат отвечал бы 500 вместо 400.
func TestGormConfig_TranslatesDriverErrors(t *testing.T) {
	t.Parallel()

	require.True(t, gormConfig().TranslateError)
}
