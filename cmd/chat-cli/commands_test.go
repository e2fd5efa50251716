package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseID(t *testing.T) {
	id, err := parseID("42")
	require.NoError(t, err)
	assert.Equal(t, uint64(42), id)

	for _, bad := range []string{"0", "-1", "bob", ""} {
		_, err := parseID(bad)
		assert.Error(t, err, bad)
	}
}

func TestDataURI(t *testing.T) {
	dir := t.TempDir()
	png := filepath.Join(dir, "a.png")
	require.NoError(t, os.WriteFile(png, []byte("\x89PNG\r\n\x1a\n0000"), 0o600))

	uri, err := dataURI(png)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))

	empty := filepath.Join(dir, "empty")
	require.NoError(t, os.WriteFile(empty, nil, 0o600))
	_, err = dataURI(empty)
	assert.Error(t, err)
}

func TestProfileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")

	p, err := loadProfile(path)
	require.NoError(t, err)
	assert.Empty(t, p.Token)

	require.NoError(t, saveProfile(path, &profile{Server: "http://x/api/v1", Token: "tok", UserID: 7, Handle: "alice"}))
	p, err = loadProfile(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(7), p.UserID)
	assert.Equal(t, "tok", p.Token)
}

func TestRootCmd_ValidatesArgs(t *testing.T) {
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs([]string{"--profile", filepath.Join(t.TempDir(), "p.yaml"), "history", "nope"})

	err := root.Execute()
	assert.ErrorContains(t, err, "invalid user id")
}
