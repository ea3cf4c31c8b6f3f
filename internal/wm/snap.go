package wm

import "github.com/1broseidon/floatdesk/internal/platform"

// zoneAt classifies a pointer position against the viewport edges. Top wins
// over the sides so dragging into a corner maximizes.
func zoneAt(p platform.Point, vp platform.Size, threshold int) SnapZone {
	if vp.Width <= 0 || vp.Height <= 0 {
		return ZoneNone
	}
	switch {
	case p.Y < threshold:
		return ZoneTop
	case p.X < threshold:
		return ZoneLeft
	case p.X > vp.Width-threshold:
		return ZoneRight
	default:
		return ZoneNone
	}
}

// maximizedGeometry covers the viewport, never smaller than the minimum.
func maximizedGeometry(vp platform.Size, m Metrics) Geometry {
	return Geometry{Width: vp.Width, Height: vp.Height}.clamp(m)
}

// snappedGeometry returns the left or right half of the viewport at full
// height. With an odd viewport width the right half takes the extra pixel.
func snappedGeometry(side Side, vp platform.Size, m Metrics) Geometry {
	left := vp.Width / 2
	g := Geometry{Width: left, Height: vp.Height}
	if side == SideRight {
		g.Width = vp.Width - left
	}
	g = g.clamp(m)
	if side == SideRight {
		g.X = vp.Width - g.Width
	}
	return g
}

// zoneGeometry is the geometry a drag released in zone z commits to.
func zoneGeometry(z SnapZone, vp platform.Size, m Metrics) (Geometry, bool) {
	switch z {
	case ZoneTop:
		return maximizedGeometry(vp, m), true
	case ZoneLeft:
		return snappedGeometry(SideLeft, vp, m), true
	case ZoneRight:
		return snappedGeometry(SideRight, vp, m), true
	default:
		return Geometry{}, false
	}
}
