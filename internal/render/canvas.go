package render

// canvas is a grid of braille cells. Each cell holds 2x4 dots; every series
// draws into its own layer and the topmost layer touching a cell picks its colour.
type canvas struct {
	width  int
	height int
	layers []*layer
}

type layer struct {
	color int
	cells [][]uint8
}

// dotBits maps a dot position (column, row) inside a cell to its braille bit.
var dotBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

func newCanvas(width, height int) *canvas {
	return &canvas{width: width, height: height}
}

func (c *canvas) addLayer(color int) *layer {
	l := &layer{color: color, cells: make([][]uint8, c.height)}
	for y := range l.cells {
		l.cells[y] = make([]uint8, c.width)
	}
	c.layers = append(c.layers, l)
	return l
}

// cell merges all layers at (x, y). Later layers are drawn on top, so the
// colour comes from the last layer with a dot in the cell.
func (c *canvas) cell(x, y int) (uint8, int) {
	var mask uint8
	color := -1
	for _, l := range c.layers {
		bits := l.cells[y][x]
		if bits == 0 {
			continue
		}
		mask |= bits
		color = l.color
	}
	return mask, color
}

func (l *layer) dot(x, y int) {
	cy, cx := y/4, x/2
	if x < 0 || y < 0 || cy >= len(l.cells) || cx >= len(l.cells[cy]) {
		return
	}
	l.cells[cy][cx] |= dotBits[x%2][y%4]
}

// line draws from (x0, y0) to (x1, y1) in dot coordinates with Bresenham's
// algorithm, skipping dots the style leaves blank.
func (l *layer) line(x0, y0, x1, y1 int, style lineStyle) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	for {
		if style.on >= style.period || x0%style.period < style.on {
			l.dot(x0, y0)
		}
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func brailleRune(mask uint8) rune {
	return rune(0x2800 + int(mask))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
