package utils

import (
	"path/filepath"
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestGetPathInfo(t *testing.T) {
	fullPath, name, err := GetPathInfo(filepath.Join("roms", "..", "roms", "maze.ch8"))
	assert.NoError(t, err)
	assert.True(t, filepath.IsAbs(fullPath))
	assert.Equal(t, "roms", filepath.Base(filepath.Dir(fullPath)))
	assert.Equal(t, "maze", name)
}

func TestReplaceExt(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"game.asm", "game.ch8"},
		{"dir/game.s", "dir/game.ch8"},
		{"game", "game.ch8"},
		{"my.game.asm", "my.game.ch8"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, ReplaceExt(tc.path, ".ch8"), tc.path)
	}
}
