package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/storeauth/internal/model"
	"github.com/dtroode/storeauth/internal/password"
	"github.com/dtroode/storeauth/internal/token"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func useSQLite(t *testing.T) {
	t.Helper()
	t.Setenv("STORE_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", filepath.Join(t.TempDir(), "auth.db"))
	t.Setenv("PASSWORD_TIME", "1")
	t.Setenv("PASSWORD_MEM", "8192")
}

func TestKeygen_Out(t *testing.T) {
	dir := t.TempDir()

	out, err := run(t, "", "keygen", "--out", dir)
	require.NoError(t, err)
	assert.Contains(t, out, dir)

	read := func(name string) []byte {
		data, err := os.ReadFile(filepath.Join(dir, name+".pem"))
		require.NoError(t, err)
		return data
	}
	access, err := token.ParseKeyPair(read("access_private"), read("access_public"))
	require.NoError(t, err)
	refresh, err := token.ParseKeyPair(read("refresh_private"), read("refresh_public"))
	require.NoError(t, err)
	_, err = token.NewKeySet(access, refresh)
	require.NoError(t, err)

	info, err := os.Stat(filepath.Join(dir, "access_private.pem"))
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	_, err = run(t, "", "keygen", "--out", dir)
	assert.Error(t, err, "existing keys are kept without --force")

	_, err = run(t, "", "keygen", "--out", dir, "--force")
	assert.NoError(t, err)
}

func TestKeygen_Env(t *testing.T) {
	out, err := run(t, "", "keygen", "--env")
	require.NoError(t, err)

	for _, name := range []string{"ACCESS_TOKEN_SECRET_PRIVATE=", "ACCESS_TOKEN_SECRET_PUBLIC=", "REFRESH_TOKEN_SECRET_PRIVATE=", "REFRESH_TOKEN_SECRET_PUBLIC="} {
		assert.Contains(t, out, name)
	}
	assert.Len(t, strings.Split(strings.TrimSpace(out), "\n"), 4)
}

func TestKeygen_RequiresTarget(t *testing.T) {
	_, err := run(t, "", "keygen")
	assert.Error(t, err)
}

func TestHashPassword(t *testing.T) {
	useSQLite(t)

	out, err := run(t, "", "hash-password", "hunter2")
	require.NoError(t, err)
	assert.True(t, password.New(password.Params{Time: 1, MemKiB: 8192}).Matches("hunter2", strings.TrimSpace(out)))

	out, err = run(t, "from-stdin\n", "hash-password")
	require.NoError(t, err)
	assert.True(t, password.New(password.Params{Time: 1, MemKiB: 8192}).Matches("from-stdin", strings.TrimSpace(out)))

	_, err = run(t, "", "hash-password")
	assert.Error(t, err)
}

func TestCreateAndDeleteUser(t *testing.T) {
	useSQLite(t)

	out, err := run(t, "", "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "sqlite schema is up to date")

	out, err = run(t, "", "create-user", "--email", "admin@example.com", "--password", "secret", "--role", "ADMIN", "--owned", "unit-1,unit-2")
	require.NoError(t, err)
	assert.Contains(t, out, "admin@example.com (ADMIN)")
	id := strings.Fields(out)[1]

	_, err = run(t, "", "create-user", "--email", "admin@example.com", "--password", "secret")
	assert.ErrorIs(t, err, model.ErrEmailTaken)

	_, err = run(t, "", "create-user", "--email", "x@example.com", "--password", "secret", "--role", "ROOT")
	assert.Error(t, err)

	out, err = run(t, "", "delete-user", id)
	require.NoError(t, err)
	assert.Contains(t, out, id)

	_, err = run(t, "", "delete-user", id)
	assert.Error(t, err)

	out, err = run(t, "", "create-user", "--email", "admin@example.com", "--password", "secret")
	require.NoError(t, err, "a deleted account's email can be reused")
	assert.NotEqual(t, id, strings.Fields(out)[1])
}

func TestMigrate_Memory(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")

	_, err := run(t, "", "migrate")
	assert.Error(t, err)
}
