package sourcefield

import "fmt"

func mustBeInside(x, y, width, height int) {
	if x < 0 || x >= width || y < 0 || y >= height {
		panic(fmt.Sprintf("sourcefield: (%d, %d) outside %dx%d", x, y, width, height))
	}
}
