// Package grid converts between framebuffer indices and x/y coordinates.
package grid

// GetGridCoords returns the column and row of a row-major index.
func GetGridCoords(index, cols int) (x, y int) {
	return index % cols, index / cols
}

// GetIndex is the inverse of GetGridCoords.
func GetIndex(x, y, cols int) int {
	return y*cols + x
}
