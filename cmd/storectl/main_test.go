package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, dir string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(&out, &errOut)
	cmd.SetArgs(append([]string{"--dir", dir}, args...))
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestProducts(t *testing.T) {
	dir := t.TempDir()

	out, _, err := run(t, dir, "products", "list", "--category", "portrait", "--min", "100", "--max", "300")
	require.NoError(t, err)
	assert.Contains(t, out, "portrait-1")
	assert.Contains(t, out, "portrait-2")
	assert.Contains(t, out, "portrait-3")
	assert.NotContains(t, out, "portrait-4")
	assert.NotContains(t, out, "handicraft")

	out, _, err = run(t, dir, "products", "get", "portrait-1")
	require.NoError(t, err)
	assert.Contains(t, out, "₹22499.25")

	_, _, err = run(t, dir, "products", "get", "nope")
	assert.Error(t, err)
}

func TestCartPersistsAcrossInvocations(t *testing.T) {
	for _, driver := range []string{"file", "sqlite"} {
		t.Run(driver, func(t *testing.T) {
			dir := t.TempDir()

			_, notices, err := run(t, dir, "--driver", driver, "cart", "add", "handicraft-1", "--qty", "2")
			require.NoError(t, err)
			assert.Contains(t, notices, "Added")

			out, _, err := run(t, dir, "--driver", driver, "cart", "show")
			require.NoError(t, err)
			assert.Contains(t, out, "handicraft-1")
			assert.Contains(t, out, "Items: 2")

			_, _, err = run(t, dir, "--driver", driver, "cart", "add", "handicraft-1", "--qty", "6")
			require.Error(t, err)

			out, _, err = run(t, dir, "--driver", driver, "cart", "update", "handicraft-1", "0")
			require.NoError(t, err)
			assert.Contains(t, out, "Your cart is empty")
		})
	}
}

func TestCartSessionsAreSeparate(t *testing.T) {
	dir := t.TempDir()

	_, _, err := run(t, dir, "--session", "a", "cart", "add", "portrait-2")
	require.NoError(t, err)

	out, _, err := run(t, dir, "--session", "b", "cart", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "Your cart is empty")

	out, _, err = run(t, dir, "--session", "a", "cart", "clear")
	require.NoError(t, err)
	assert.Contains(t, out, "Your cart is empty")
}
