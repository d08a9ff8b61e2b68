//go:build sourcefielddebug

package sourcefield

const checkBounds = true
