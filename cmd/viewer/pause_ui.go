package main

import (
	"fmt"
	"image/color"
	"strings"

	"golang.org/x/image/font/basicfont"

	"github.com/ebitenui/ebitenui"
	imageui "github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	ebtext "github.com/hajimehoshi/ebiten/v2/text/v2"
)

// maxListedSlopes keeps the panel inside the window on large stages.
const maxListedSlopes = 12

// inspectorLines describes the loaded stage for the pause panel.
func inspectorLines(stage string, slopes []string, hazards, cells int, debug, watching bool) []string {
	lines := []string{
		fmt.Sprintf("stage: %s", stage),
		fmt.Sprintf("cells: %d  hazards: %d  slopes: %d", cells, hazards, len(slopes)),
		fmt.Sprintf("debug overlay: %s  hot reload: %s", onOff(debug), onOff(watching)),
	}
	shown := slopes
	if len(shown) > maxListedSlopes {
		shown = shown[:maxListedSlopes]
	}
	for _, name := range shown {
		lines = append(lines, "  "+name)
	}
	if n := len(slopes) - len(shown); n > 0 {
		lines = append(lines, fmt.Sprintf("  ... and %d more", n))
	}
	return lines
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}

// NewPauseUI builds the centered pause panel: a stage summary with Resume,
// Debug and Respawn buttons. It is rebuilt each time the game pauses so the
// summary is current.
func NewPauseUI(g *Game) *ebitenui.UI {
	panelImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x00, G: 0x00, B: 0x00, A: 200})
	btnImg := imageui.NewNineSliceColor(color.NRGBA{R: 0x33, G: 0x33, B: 0x33, A: 255})

	goFace := ebtext.NewGoXFace(basicfont.Face7x13)
	var face ebtext.Face = goFace

	white := color.NRGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	btnTextColor := &widget.ButtonTextColor{Idle: white}
	center := widget.WidgetOpts.LayoutData(widget.RowLayoutData{Position: widget.RowLayoutPositionCenter})

	title := widget.NewText(
		widget.TextOpts.Text("Paused", &face, white),
		widget.TextOpts.WidgetOpts(center),
	)

	summary := widget.NewText(
		widget.TextOpts.Text(strings.Join(inspectorLines(
			g.stage.Descriptor().Name,
			g.stage.SlopeNames(),
			len(g.stage.Hazards()),
			g.stage.Store().Len(),
			g.debug,
			g.watching,
		), "\n"), &face, white),
	)

	button := func(label string, onClick func()) *widget.Button {
		return widget.NewButton(
			widget.ButtonOpts.Image(&widget.ButtonImage{Idle: btnImg, Pressed: btnImg}),
			widget.ButtonOpts.Text(label, &face, btnTextColor),
			widget.ButtonOpts.WidgetOpts(center),
			widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
				onClick()
			}),
		)
	}
	resumeBtn := button("Resume", func() { g.paused = false })
	debugBtn := button("Toggle debug", func() {
		g.debug = !g.debug
		g.pauseUI = NewPauseUI(g)
	})
	respawnBtn := button("Respawn", func() {
		g.respawn()
		g.paused = false
	})

	panel := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(panelImg),
		widget.ContainerOpts.Layout(widget.NewRowLayout(
			widget.RowLayoutOpts.Direction(widget.DirectionVertical),
			widget.RowLayoutOpts.Spacing(10),
			widget.RowLayoutOpts.Padding(&widget.Insets{Top: 20, Bottom: 20, Left: 30, Right: 30}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.MinSize(baseWidth/2, baseHeight/2),
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{HorizontalPosition: widget.AnchorLayoutPositionCenter, VerticalPosition: widget.AnchorLayoutPositionCenter}),
		),
	)
	panel.AddChild(title)
	panel.AddChild(summary)
	panel.AddChild(resumeBtn)
	panel.AddChild(debugBtn)
	panel.AddChild(respawnBtn)

	root := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)
	root.AddChild(panel)

	return &ebitenui.UI{Container: root}
}
