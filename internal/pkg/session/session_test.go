//go:build unit

package session_test

import (
	"testing"
	"time"

	"salon-booking/internal/pkg/clock"
	"salon-booking/internal/pkg/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestService(t *testing.T) {
	start := time.Date(2025, 10, 20, 8, 0, 0, 0, time.UTC)

	t.Run("issued tokens validate until they expire", func(t *testing.T) {
		clk := clock.NewMockClock(start)
		svc := session.NewService("secret", 30*time.Minute, clk)

		tok, err := svc.Issue()
		require.NoError(t, err)
		assert.NotEmpty(t, tok.SessionID)
		assert.Equal(t, start.Add(30*time.Minute), tok.ExpiresAt)

		claims, err := svc.Validate(tok.Value)
		require.NoError(t, err)
		assert.Equal(t, tok.SessionID, claims.SessionID)
		assert.Equal(t, tok.SessionID, claims.Subject)

		clk.Add(31 * time.Minute)
		_, err = svc.Validate(tok.Value)
		assert.ErrorIs(t, err, session.ErrExpiredToken)
	})

	t.Run("IssueFor keeps the session id", func(t *testing.T) {
		clk := clock.NewMockClock(start)
		svc := session.NewService("secret", time.Hour, clk)

		first, err := svc.Issue()
		require.NoError(t, err)
		clk.Add(50 * time.Minute)
		renewed, err := svc.IssueFor(first.SessionID)
		require.NoError(t, err)

		assert.Equal(t, first.SessionID, renewed.SessionID)
		assert.True(t, renewed.ExpiresAt.After(first.ExpiresAt))
	})

	t.Run("tokens signed with another secret are invalid", func(t *testing.T) {
		clk := clock.NewMockClock(start)
		tok, err := session.NewService("other", time.Hour, clk).Issue()
		require.NoError(t, err)

		_, err = session.NewService("secret", time.Hour, clk).Validate(tok.Value)
		assert.ErrorIs(t, err, session.ErrInvalidToken)
	})

	t.Run("garbage is invalid", func(t *testing.T) {
		svc := session.NewService("secret", time.Hour, clock.NewMockClock(start))

		_, err := svc.Validate("a.b.c")
		assert.ErrorIs(t, err, session.ErrInvalidToken)
	})
}
