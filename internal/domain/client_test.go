package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("valid client", func(t *testing.T) {
		client, err := NewClient("11987098390", "Ana Souza", "11999990000", "ana@example.com", now)
		require.NoError(t, err)

		assert.Equal(t, "11987098390", client.CPF)
		assert.Equal(t, "Ana Souza", client.Name)
		assert.Equal(t, 0, client.Points, "new clients start with zero points")
		assert.Equal(t, now, client.CreatedAt)
		assert.Equal(t, now, client.UpdatedAt)
	})

	t.Run("empty CPF", func(t *testing.T) {
		_, err := NewClient("", "Ana Souza", "11999990000", "ana@example.com", now)
		assert.ErrorIs(t, err, ErrEmptyCPF)
	})

	t.Run("non-numeric CPF", func(t *testing.T) {
		_, err := NewClient("1198709839a", "Ana Souza", "11999990000", "ana@example.com", now)
		assert.ErrorIs(t, err, ErrCPFNotNumeric)
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := NewClient("11987098390", "", "11999990000", "ana@example.com", now)
		assert.ErrorIs(t, err, ErrEmptyName)
	})

	t.Run("empty phone", func(t *testing.T) {
		_, err := NewClient("11987098390", "Ana Souza", "", "ana@example.com", now)
		assert.ErrorIs(t, err, ErrEmptyPhone)
	})

	t.Run("empty email", func(t *testing.T) {
		_, err := NewClient("11987098390", "Ana Souza", "11999990000", "", now)
		assert.ErrorIs(t, err, ErrEmptyEmail)
	})

	t.Run("malformed email", func(t *testing.T) {
		_, err := NewClient("11987098390", "Ana Souza", "11999990000", "not-an-email", now)
		assert.ErrorIs(t, err, ErrInvalidEmail)
	})
}

func TestClientValidate_NegativePoints(t *testing.T) {
	client := &Client{
		CPF:    "11987098390",
		Name:   "Ana Souza",
		Phone:  "11999990000",
		Email:  "ana@example.com",
		Points: -1,
	}

	err := client.Validate()
	assert.ErrorIs(t, err, ErrValidation)
}

func TestClientApplyProfile(t *testing.T) {
	created := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	updated := created.Add(48 * time.Hour)

	t.Run("overwrites mutable fields only", func(t *testing.T) {
		client, err := NewClient("11987098390", "Ana Souza", "11999990000", "ana@example.com", created)
		require.NoError(t, err)
		client.Points = 20

		err = client.ApplyProfile("Ana S. Lima", "11888880000", "ana.lima@example.com", updated)
		require.NoError(t, err)

		assert.Equal(t, "Ana S. Lima", client.Name)
		assert.Equal(t, "11888880000", client.Phone)
		assert.Equal(t, "ana.lima@example.com", client.Email)
		assert.Equal(t, "11987098390", client.CPF, "CPF must not change")
		assert.Equal(t, 20, client.Points, "points must not change")
		assert.Equal(t, created, client.CreatedAt)
		assert.Equal(t, updated, client.UpdatedAt)
	})

	t.Run("invalid update leaves client untouched", func(t *testing.T) {
		client, err := NewClient("11987098390", "Ana Souza", "11999990000", "ana@example.com", created)
		require.NoError(t, err)

		err = client.ApplyProfile("Ana S. Lima", "11888880000", "broken", updated)
		assert.ErrorIs(t, err, ErrInvalidEmail)

		assert.Equal(t, "Ana Souza", client.Name)
		assert.Equal(t, "11999990000", client.Phone)
		assert.Equal(t, "ana@example.com", client.Email)
		assert.Equal(t, created, client.UpdatedAt)
	})
}

func TestIsNumeric(t *testing.T) {
	assert.True(t, IsNumeric("11987098390"))
	assert.True(t, IsNumeric("0"))
	assert.False(t, IsNumeric(""))
	assert.False(t, IsNumeric("119.870.983-90"))
	assert.False(t, IsNumeric("abc"))
	assert.False(t, IsNumeric("1198709839 "))
}
