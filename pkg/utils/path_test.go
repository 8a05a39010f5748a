package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetAbsPath_Absolute(t *testing.T) {
	assert.Equal(t, "/etc/app.yaml", GetAbsPath("/etc/app.yaml"))
}

func TestGetAbsPath_EnvRoot(t *testing.T) {
	t.Setenv(RootEnv, "/srv/app")
	assert.Equal(t, filepath.Join("/srv/app", "conf/config.yaml"), GetAbsPath("conf/config.yaml"))
}

func TestGetAbsPath_FindsModuleRoot(t *testing.T) {
	t.Setenv(RootEnv, "")
	got := GetAbsPath("go.mod")
	_, err := os.Stat(got)
	require.NoError(t, err)
	assert.Equal(t, "go.mod", filepath.Base(got))
}
