//go:build !sourcefielddebug

package sourcefield

// Out of range coordinates are a caller bug. Build with the sourcefielddebug
// tag to have them panic instead of aliasing another cell.
const checkBounds = false
