package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/1broseidon/floatdesk/internal/platform"
)

// paint names one of the compositor's styles.
type paint int

const (
	paintDesk paint = iota
	paintBorderActive
	paintBorderInactive
	paintHeaderActive
	paintHeaderInactive
	paintContent
	paintSnap
	paintCount
)

type cell struct {
	r rune // 0 marks the trailing half of a wide rune
	p paint
}

// canvas is a grid of styled cells that surfaces are painted into back to
// front.
type canvas struct {
	width  int
	height int
	cells  [][]cell
}

func newCanvas(width, height int) *canvas {
	width = max(width, 0)
	height = max(height, 0)
	c := &canvas{width: width, height: height, cells: make([][]cell, height)}
	for y := range c.cells {
		row := make([]cell, width)
		for x := range row {
			row[x] = cell{r: ' ', p: paintDesk}
		}
		c.cells[y] = row
	}
	return c
}

func (c *canvas) inside(x, y int) bool {
	return x >= 0 && x < c.width && y >= 0 && y < c.height
}

func (c *canvas) set(x, y int, r rune, p paint) {
	if !c.inside(x, y) {
		return
	}
	row := c.cells[y]
	// Overwriting half of a wide rune blanks the other half.
	if row[x].r == 0 && x > 0 {
		row[x-1] = cell{r: ' ', p: row[x-1].p}
	}
	if runewidth.RuneWidth(r) == 2 {
		if x+1 >= c.width {
			r = ' '
		} else {
			if x+2 < c.width && row[x+2].r == 0 {
				row[x+2] = cell{r: ' ', p: row[x+2].p}
			}
			row[x+1] = cell{r: 0, p: p}
		}
	} else if x+1 < c.width && row[x+1].r == 0 {
		row[x+1] = cell{r: ' ', p: row[x+1].p}
	}
	row[x] = cell{r: r, p: p}
}

func (c *canvas) fill(r platform.Rect, ch rune, p paint) {
	for y := r.Y; y < r.Bottom(); y++ {
		for x := r.X; x < r.Right(); x++ {
			c.set(x, y, ch, p)
		}
	}
}

// text writes s from (x, y), clipped to maxWidth cells. It returns the
// number of cells used.
func (c *canvas) text(x, y, maxWidth int, s string, p paint) int {
	used := 0
	for _, r := range s {
		if r == '\t' {
			r = ' '
		}
		if r < ' ' {
			continue
		}
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if used+w > maxWidth {
			break
		}
		c.set(x+used, y, r, p)
		used += w
	}
	return used
}

// box draws a single-line border around r.
func (c *canvas) box(r platform.Rect, p paint) {
	if r.Width < 2 || r.Height < 2 {
		return
	}
	x1, y1 := r.Right()-1, r.Bottom()-1
	for x := r.X + 1; x < x1; x++ {
		c.set(x, r.Y, '─', p)
		c.set(x, y1, '─', p)
	}
	for y := r.Y + 1; y < y1; y++ {
		c.set(r.X, y, '│', p)
		c.set(x1, y, '│', p)
	}
	c.set(r.X, r.Y, '┌', p)
	c.set(x1, r.Y, '┐', p)
	c.set(r.X, y1, '└', p)
	c.set(x1, y1, '┘', p)
}

// lines returns the canvas without styling.
func (c *canvas) lines() []string {
	out := make([]string, c.height)
	var sb strings.Builder
	for y, row := range c.cells {
		sb.Reset()
		for _, cl := range row {
			if cl.r != 0 {
				sb.WriteRune(cl.r)
			}
		}
		out[y] = sb.String()
	}
	return out
}

// render styles each run of same-paint cells once.
func (c *canvas) render(styles [paintCount]lipgloss.Style) string {
	rows := make([]string, c.height)
	var run strings.Builder
	var sb strings.Builder
	for y, row := range c.cells {
		sb.Reset()
		x := 0
		for x < len(row) {
			p := row[x].p
			run.Reset()
			for x < len(row) && row[x].p == p {
				if row[x].r != 0 {
					run.WriteRune(row[x].r)
				}
				x++
			}
			sb.WriteString(styles[p].Render(run.String()))
		}
		rows[y] = sb.String()
	}
	return strings.Join(rows, "\n")
}
