package app_setting

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseServerAppSettingEmptyPath(t *testing.T) {
	require.Equal(t, DefaultServerAppSetting(), ParseServerAppSetting(""))
}

func TestParseServerAppSettingPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.Nil(t, ioutil.WriteFile(path, []byte("VIEW_FLUSH_INTERVAL_SECOND: 30\n"), 0644))

	c := ParseServerAppSetting(path)
	require.Equal(t, int64(30), c.VIEW_FLUSH_INTERVAL_SECOND)
	// Omitted keys keep their defaults.
	require.Equal(t, 8000, c.SERVER_PORT)
	require.Equal(t, int64(3600), c.TOTAL_VIEWS_RECOMPUTE_INTERVAL_SECOND)
}
