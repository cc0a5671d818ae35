// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yekta/folio/internal/auth"
	"github.com/yekta/folio/internal/config"
)

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestHashPasswordCmd(t *testing.T) {
	out, err := execute(t, "", "hash-password", "s3cret")
	require.NoError(t, err)

	hash := strings.TrimSpace(out)
	ok, err := auth.CheckPassword("s3cret", hash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHashPasswordCmd_Stdin(t *testing.T) {
	out, err := execute(t, "from-stdin\n", "hash-password")
	require.NoError(t, err)

	ok, err := auth.CheckPassword("from-stdin", strings.TrimSpace(out))
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestHashPasswordCmd_Empty(t *testing.T) {
	_, err := execute(t, "\n", "hash-password")
	assert.Error(t, err)
}

func TestVersionCmd(t *testing.T) {
	out, err := execute(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "folio dev"), "got %q", out)
}

func TestNewVerifier(t *testing.T) {
	t.Run("plain password", func(t *testing.T) {
		v, err := newVerifier(&config.Config{AdminPassword: auth.DefaultSecret})
		require.NoError(t, err)
		assert.True(t, v.Verify(auth.DefaultSecret))
		assert.False(t, v.Verify("other"))
	})

	t.Run("hash wins", func(t *testing.T) {
		hash, err := auth.HashPassword("hashed-pass")
		require.NoError(t, err)

		v, err := newVerifier(&config.Config{AdminPassword: auth.DefaultSecret, AdminPasswordHash: hash})
		require.NoError(t, err)
		assert.True(t, v.Verify("hashed-pass"))
		assert.False(t, v.Verify(auth.DefaultSecret))
	})

	t.Run("malformed hash", func(t *testing.T) {
		_, err := newVerifier(&config.Config{AdminPasswordHash: "nope"})
		assert.Error(t, err)
	})
}
