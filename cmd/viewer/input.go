package main

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Input holds this frame's keyboard and gamepad state.
type Input struct {
	// MoveX is -1 for left, 0 for none, +1 for right.
	MoveX       float64
	JumpPressed bool
	ToggleDebug bool
	TogglePause bool
	Respawn     bool
}

func NewInput() *Input {
	return &Input{}
}

func (i *Input) Update() {
	var moveX float64
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyLeft) {
		moveX -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyRight) {
		moveX += 1
	}

	var gpJump bool
	if ids := ebiten.GamepadIDs(); len(ids) > 0 {
		gid := ids[0]
		leftX := ebiten.StandardGamepadAxisValue(gid, ebiten.StandardGamepadAxisLeftStickHorizontal)
		if leftX < -0.3 {
			moveX = -1
		} else if leftX > 0.3 {
			moveX = 1
		}
		gpJump = inpututil.IsStandardGamepadButtonJustPressed(gid, ebiten.StandardGamepadButtonRightBottom)
	}

	i.MoveX = moveX
	i.JumpPressed = inpututil.IsKeyJustPressed(ebiten.KeySpace) || gpJump
	i.ToggleDebug = inpututil.IsKeyJustPressed(ebiten.KeyF3)
	i.TogglePause = inpututil.IsKeyJustPressed(ebiten.KeyEscape) || inpututil.IsKeyJustPressed(ebiten.KeyP)
	i.Respawn = inpututil.IsKeyJustPressed(ebiten.KeyR)
}
