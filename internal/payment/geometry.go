package payment

import (
	"fmt"
	"math"
)

// Screen describes the parent window and the display it sits on, in CSS
// pixels as the browser reports them.
type Screen struct {
	ViewportWidth  float64 `json:"viewport_width"`
	ViewportHeight float64 `json:"viewport_height"`
	AvailWidth     float64 `json:"avail_width"`
	Left           float64 `json:"left"`
	Top            float64 `json:"top"`
}

type Placement struct {
	Left   float64 `json:"left"`
	Top    float64 `json:"top"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Zoom is the browser zoom factor inferred from viewport and screen width.
// It is 1 when either is unknown.
func (s Screen) Zoom() float64 {
	if s.ViewportWidth == 0 || s.AvailWidth == 0 {
		return 1
	}
	return s.ViewportWidth / s.AvailWidth
}

// CenterPopup centers a w x h popup over the parent viewport, compensating
// for zoom.
func CenterPopup(s Screen, w, h float64) Placement {
	zoom := s.Zoom()
	return Placement{
		Left:   (s.ViewportWidth-w)/2/zoom + s.Left,
		Top:    (s.ViewportHeight-h)/2/zoom + s.Top,
		Width:  w / zoom,
		Height: h / zoom,
	}
}

// Features renders the window.open feature string.
func (p Placement) Features() string {
	return fmt.Sprintf("scrollbars=yes,width=%d,height=%d,top=%d,left=%d",
		round(p.Width), round(p.Height), round(p.Top), round(p.Left))
}

func round(f float64) int {
	return int(math.Round(f))
}
