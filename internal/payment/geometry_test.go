package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCenterPopupNoZoom(t *testing.T) {
	s := Screen{ViewportWidth: 1200, ViewportHeight: 800, AvailWidth: 1200, Left: 100, Top: 50}
	p := CenterPopup(s, 600, 400)

	assert.Equal(t, Placement{Left: 400, Top: 250, Width: 600, Height: 400}, p)
	assert.Equal(t, "scrollbars=yes,width=600,height=400,top=250,left=400", p.Features())
}

func TestCenterPopupZoomed(t *testing.T) {
	// 125% zoom: the viewport reports fewer CSS pixels than the screen
	s := Screen{ViewportWidth: 1600, ViewportHeight: 900, AvailWidth: 1280}
	p := CenterPopup(s, 500, 500)

	assert.InDelta(t, 1.25, s.Zoom(), 1e-9)
	assert.InDelta(t, 440, p.Left, 1e-9)
	assert.InDelta(t, 160, p.Top, 1e-9)
	assert.InDelta(t, 400, p.Width, 1e-9)
	assert.InDelta(t, 400, p.Height, 1e-9)
}

func TestZoomFallsBackToOne(t *testing.T) {
	assert.Equal(t, 1.0, Screen{ViewportWidth: 1000}.Zoom())
	assert.Equal(t, 1.0, Screen{AvailWidth: 1000}.Zoom())
}
