package tiling

import (
	"fmt"
	"math"

	"github.com/1broseidon/floatdesk/internal/config"
	"github.com/1broseidon/floatdesk/internal/platform"
)

// CalculateGrid returns near-square grid dimensions for n windows.
func CalculateGrid(n int) (rows, cols int) {
	if n <= 0 {
		return 0, 0
	}
	cols = int(math.Ceil(math.Sqrt(float64(n))))
	rows = int(math.Ceil(float64(n) / float64(cols)))
	return rows, cols
}

// CalculatePositions places n windows inside area according to a. It may
// return fewer than n rects when the arrangement has a fixed capacity.
func CalculatePositions(n int, area platform.Rect, a config.Arrangement, gap int) ([]platform.Rect, error) {
	if n <= 0 {
		return nil, nil
	}

	var rows, cols int
	flexibleLastRow := a.FlexibleLastRow

	switch a.Mode {
	case config.ModeGrid:
		rows, cols = CalculateGrid(n)
	case config.ModeFixed:
		rows, cols = a.FixedGrid.Rows, a.FixedGrid.Cols
		n = min(n, rows*cols)
		flexibleLastRow = false
	case config.ModeColumns:
		rows, cols = 1, n
		flexibleLastRow = false
	case config.ModeRows:
		rows, cols = n, 1
		flexibleLastRow = false
	case config.ModeMasterStack:
		return masterStack(n, area, a.MasterStack, gap)
	case config.ModeCascade:
		return cascade(n, area, a, gap)
	default:
		return nil, fmt.Errorf("unsupported arrangement mode: %q", a.Mode)
	}

	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("invalid grid dimensions: rows=%d cols=%d", rows, cols)
	}

	slotWidth := (area.Width - (cols+1)*gap) / cols
	slotHeight := (area.Height - (rows+1)*gap) / rows
	if slotWidth <= 0 || slotHeight <= 0 {
		return nil, fmt.Errorf(
			"insufficient space: area=%dx%d rows=%d cols=%d gap=%d (slot=%dx%d)",
			area.Width, area.Height, rows, cols, gap, slotWidth, slotHeight,
		)
	}

	winWidth := capDim(slotWidth, a.MaxWidth)
	winHeight := capDim(slotHeight, a.MaxHeight)

	lastRow := rows - 1
	inLastRow := n - lastRow*cols
	if inLastRow <= 0 {
		inLastRow = cols
	}
	stretchLast := flexibleLastRow && inLastRow < cols
	lastSlotWidth := slotWidth
	if stretchLast {
		lastSlotWidth = (area.Width - (inLastRow+1)*gap) / inLastRow
	}

	out := make([]platform.Rect, n)
	for i := range n {
		row, col := i/cols, i%cols
		sw, ww := slotWidth, winWidth
		if stretchLast && row == lastRow {
			col = i - lastRow*cols
			sw, ww = lastSlotWidth, capDim(lastSlotWidth, a.MaxWidth)
		}

		x := area.X + gap + col*(sw+gap) + (sw-ww)/2
		y := area.Y + gap + row*(slotHeight+gap) + (slotHeight-winHeight)/2
		out[i] = platform.Rect{X: x, Y: y, Width: ww, Height: winHeight}
	}
	return out, nil
}

func capDim(v, limit int) int {
	if limit > 0 && v > limit {
		return limit
	}
	return v
}

// masterStack gives the first window a fixed-percentage pane on the left and
// grids the rest on the right.
func masterStack(n int, area platform.Rect, ms config.MasterStack, gap int) ([]platform.Rect, error) {
	masterWidth := area.Width*ms.MasterWidthPercent/100 - gap
	height := area.Height - 2*gap

	if n == 1 {
		return []platform.Rect{{X: area.X + gap, Y: area.Y + gap, Width: masterWidth, Height: height}}, nil
	}

	stackX := area.X + masterWidth + 2*gap
	stackWidth := area.Width - masterWidth - 3*gap

	stack := n - 1
	cols := int(math.Ceil(float64(stack) / float64(ms.MaxStackRows)))
	cols = max(1, min(cols, ms.MaxStackCols))
	rows := min(int(math.Ceil(float64(stack)/float64(cols))), ms.MaxStackRows)
	stack = min(stack, rows*cols)

	cellWidth := (stackWidth - (cols-1)*gap) / cols
	cellHeight := (height - (rows-1)*gap) / rows
	if masterWidth <= 0 || cellWidth <= 0 || cellHeight <= 0 {
		return nil, fmt.Errorf(
			"insufficient space for master-stack: area=%dx%d master=%d cell=%dx%d gap=%d",
			area.Width, area.Height, masterWidth, cellWidth, cellHeight, gap,
		)
	}

	out := make([]platform.Rect, stack+1)
	out[0] = platform.Rect{X: area.X + gap, Y: area.Y + gap, Width: masterWidth, Height: height}
	for i := range stack {
		row, col := i/cols, i%cols
		out[i+1] = platform.Rect{
			X:      stackX + col*(cellWidth+gap),
			Y:      area.Y + gap + row*(cellHeight+gap),
			Width:  cellWidth,
			Height: cellHeight,
		}
	}
	return out, nil
}

// cascade offsets each window by CascadeStep from the previous one. Windows
// take two thirds of the area unless capped, and the offsets wrap back to
// the corner when the next window would leave the area.
func cascade(n int, area platform.Rect, a config.Arrangement, gap int) ([]platform.Rect, error) {
	step := a.CascadeStep
	if step <= 0 {
		return nil, fmt.Errorf("cascade_step must be > 0")
	}
	w := capDim(area.Width*2/3, a.MaxWidth)
	h := capDim(area.Height*2/3, a.MaxHeight)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("insufficient space for cascade: area=%dx%d", area.Width, area.Height)
	}

	span := min(area.Width-w-2*gap, area.Height-h-2*gap)
	per := 1
	if span > 0 {
		per = span/step + 1
	}

	out := make([]platform.Rect, n)
	for i := range n {
		k := i % per
		out[i] = platform.Rect{
			X:      area.X + gap + k*step,
			Y:      area.Y + gap + k*step,
			Width:  w,
			Height: h,
		}
	}
	return out, nil
}

// ApplyRegion narrows area to the arrangement's tile region.
func ApplyRegion(area platform.Rect, region config.TileRegion) platform.Rect {
	out := area

	switch region.Type {
	case config.RegionLeftHalf:
		out.Width = area.Width / 2
	case config.RegionRightHalf:
		out.X = area.X + area.Width/2
		out.Width = area.Width - area.Width/2
	case config.RegionTopHalf:
		out.Height = area.Height / 2
	case config.RegionBottomHalf:
		out.Y = area.Y + area.Height/2
		out.Height = area.Height - area.Height/2
	case config.RegionCustom:
		out.X = area.X + area.Width*region.XPercent/100
		out.Y = area.Y + area.Height*region.YPercent/100
		out.Width = area.Width * region.WidthPercent / 100
		out.Height = area.Height * region.HeightPercent / 100
	}

	out.Width = max(out.Width, 1)
	out.Height = max(out.Height, 1)
	return out
}
