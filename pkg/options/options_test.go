package options

import (
	"errors"
	"testing"

	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"

	"gochip8/pkg/cpu"
)

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want Program
	}{
		{
			name: "defaults",
			args: []string{"game.ch8"},
			want: Program{ROM: "game.ch8", Model: "chip8", Speed: DefaultSpeed, Scale: DefaultScale},
		},
		{
			name: "super-chip with options",
			args: []string{"-m", "SCHIP", "-speed", "30", "-scale", "4", "-seed", "7", "-increment-index", "-debug", "-trace", "game.ch8"},
			want: Program{
				ROM: "game.ch8", Model: "schip", Speed: 30, Scale: 4, Seed: 7,
				IncrementIndex: true, Debug: true, Trace: true,
			},
		},
		{
			name: "quiet with statsview",
			args: []string{"-q", "-statsview", "game.ch8"},
			want: Program{ROM: "game.ch8", Model: "chip8", Speed: DefaultSpeed, Scale: DefaultScale, Quiet: true, StatsView: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseFlags("chip8", tt.args)
			assert.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseFlagsErrors(t *testing.T) {
	tests := []struct {
		name      string
		args      []string
		wantUsage bool
		contains  string
	}{
		{"missing ROM", []string{}, true, "missing ROM file"},
		{"unknown flag", []string{"-nope", "game.ch8"}, true, "nope"},
		{"argument after ROM", []string{"game.ch8", "-q"}, true, "after ROM file"},
		{"unknown model", []string{"-m", "xochip", "game.ch8"}, false, "unsupported model"},
		{"zero speed", []string{"-speed", "0", "game.ch8"}, false, "invalid speed"},
		{"zero scale", []string{"-scale", "0", "game.ch8"}, false, "invalid scale"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFlags("chip8", tt.args)
			assert.ErrorContains(t, err, tt.contains)

			var usage *UsageError
			assert.Equal(t, tt.wantUsage, errors.As(err, &usage))
		})
	}
}

func TestCPUConfig(t *testing.T) {
	logger := log.NewTestLogger(t)
	opts := Program{Model: "schip", Seed: 42, IncrementIndex: true, Trace: true}

	cfg, err := opts.CPUConfig(logger)
	assert.NoError(t, err)
	assert.Equal(t, cpu.ModelSuperChip, cfg.Model)
	assert.True(t, cfg.IncrementIndex)
	assert.True(t, cfg.Trace)
	assert.NotNil(t, cfg.Random)
	assert.True(t, cfg.Logger == logger)

	cfg, err = Program{}.CPUConfig(nil)
	assert.NoError(t, err)
	assert.Equal(t, cpu.ModelChip8, cfg.Model)
	assert.True(t, cfg.Random == nil)

	_, err = Program{Model: "nes"}.CPUConfig(nil)
	assert.Error(t, err)
}
