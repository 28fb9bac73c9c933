// Package rom loads program images for the emulator from disk.
package rom

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gochip8/pkg/asm"
	"gochip8/pkg/cpu"
	"gochip8/pkg/utils"
)

var ErrEmpty = errors.New("program is empty")

// sourceExtensions are assembled instead of being loaded as binary images.
var sourceExtensions = map[string]bool{
	".asm": true,
	".s":   true,
}

// Load reads a program image. Files with an assembler source extension are
// assembled first. The image is validated against the memory size.
func Load(path string) ([]byte, error) {
	fullPath, _, err := utils.GetPathInfo(path)
	if err != nil {
		return nil, fmt.Errorf("resolving path %s: %w", path, err)
	}

	data, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, fmt.Errorf("reading file %s: %w", fullPath, err)
	}

	if IsSource(fullPath) {
		data, _, err = asm.Assemble(string(data))
		if err != nil {
			return nil, fmt.Errorf("assembling %s: %w", fullPath, err)
		}
	}

	if err := Validate(data); err != nil {
		return nil, fmt.Errorf("loading %s: %w", fullPath, err)
	}
	return data, nil
}

// IsSource reports whether path names an assembler source file.
func IsSource(path string) bool {
	return sourceExtensions[strings.ToLower(filepath.Ext(path))]
}

// Validate checks that the image can be loaded at the program start address.
func Validate(data []byte) error {
	if len(data) == 0 {
		return ErrEmpty
	}
	if len(data) > cpu.MaxProgramSize {
		return fmt.Errorf("%w: %d bytes > %d bytes", cpu.ErrProgramTooLarge, len(data), cpu.MaxProgramSize)
	}
	return nil
}
