package tui

import (
	"fmt"
	"strconv"

	"github.com/1broseidon/floatdesk/internal/config"
	"github.com/1broseidon/floatdesk/internal/platform"
	"github.com/1broseidon/floatdesk/internal/tiling"
)

// previewViewport is the desk size arrangement previews are computed for.
var previewViewport = platform.Rect{Width: 1920, Height: 1080}

// SummarizeArrangement describes the tile sizes an arrangement produces for
// count windows on a 1920x1080 desk.
func SummarizeArrangement(a config.Arrangement, count, gap int) string {
	rects, err := tiling.CalculatePositions(max(count, 1), tiling.ApplyRegion(previewViewport, a.TileRegion), a, max(gap, 0))
	if err != nil {
		return err.Error()
	}
	if len(rects) == 0 {
		return "no tiles"
	}

	minW, minH := rects[0].Width, rects[0].Height
	maxW, maxH := minW, minH
	for _, r := range rects[1:] {
		minW, maxW = min(minW, r.Width), max(maxW, r.Width)
		minH, maxH = min(minH, r.Height), max(maxH, r.Height)
	}
	if minW == maxW && minH == maxH {
		return fmt.Sprintf("%d tiles • %d×%d px each", len(rects), minW, minH)
	}
	return fmt.Sprintf("%d tiles • min %d×%d • max %d×%d", len(rects), minW, minH, maxW, maxH)
}

// PreviewArrangement draws an arrangement as numbered boxes on a width x
// height character grid, scaled from a 1920x1080 desk.
func PreviewArrangement(a config.Arrangement, count, width, height int) []string {
	cv := newCanvas(width, height)
	if width < 5 || height < 3 {
		return cv.lines()
	}

	outer := platform.Rect{Width: width, Height: height}
	rects, err := tiling.CalculatePositions(max(count, 1), tiling.ApplyRegion(previewViewport, a.TileRegion), a, 0)
	if err == nil {
		for i, r := range rects {
			tile := platform.Rect{
				X:      r.X * width / previewViewport.Width,
				Y:      r.Y * height / previewViewport.Height,
				Width:  max(r.Width*width/previewViewport.Width, 2),
				Height: max(r.Height*height/previewViewport.Height, 2),
			}
			cv.box(tile, paintContent)
			label := strconv.Itoa(i + 1)
			cx := tile.X + (tile.Width-len(label))/2
			cy := tile.Y + tile.Height/2
			if cy > tile.Y && cy < tile.Bottom()-1 {
				cv.text(cx, cy, tile.Right()-1-cx, label, paintContent)
			}
		}
	}
	cv.box(outer, paintDesk)
	return cv.lines()
}
