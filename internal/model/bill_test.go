package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusLabel(t *testing.T) {
	assert.Equal(t, "En attente", StatusLabel(StatusPending))
	assert.Equal(t, "Accepté", StatusLabel(StatusAccepted))
	assert.Equal(t, "Refusé", StatusLabel(StatusRefused))
}

func TestStatusLabelUnknownFallsBackToRaw(t *testing.T) {
	assert.Equal(t, "archived", StatusLabel("archived"))
	assert.Equal(t, "", StatusLabel(""))
}

func TestFormatDate(t *testing.T) {
	got, err := FormatDate("2023-12-17")
	require.NoError(t, err)
	assert.Equal(t, "17 Déc. 23", got)

	got, err = FormatDate("2004-04-04")
	require.NoError(t, err)
	assert.Equal(t, "4 Avr. 04", got)
}

func TestFormatDateMalformed(t *testing.T) {
	_, err := FormatDate("not-a-date")
	require.Error(t, err)

	_, err = FormatDate("17/12/2023")
	require.Error(t, err)
}

func TestValidDate(t *testing.T) {
	assert.True(t, ValidDate("2023-02-25"))
	assert.False(t, ValidDate("2023-13-40"))
	assert.False(t, ValidDate(""))
}
