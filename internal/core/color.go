package core

// Color is a semantic palette slot for a screen cell.
// The platform maps slots to terminal styles so games never import a
// styling library.
type Color uint8

const (
	ColorDefault  Color = iota
	ColorRoad           // Road surface and horizon
	ColorLane           // Lane separators
	ColorObstacle       // Obstacle bodies
	ColorNear           // Obstacles inside the collision window
	ColorPlayer         // Player vehicle
	ColorHUD            // Score and status text
	ColorAlert          // Collision and game over banners
)

// String returns the palette slot name.
func (c Color) String() string {
	switch c {
	case ColorDefault:
		return "default"
	case ColorRoad:
		return "road"
	case ColorLane:
		return "lane"
	case ColorObstacle:
		return "obstacle"
	case ColorNear:
		return "near"
	case ColorPlayer:
		return "player"
	case ColorHUD:
		return "hud"
	case ColorAlert:
		return "alert"
	default:
		return "unknown"
	}
}
