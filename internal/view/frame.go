// Package view rasterizes game snapshots into still frames for debugging
// and the HTTP frame endpoint.
package view

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	"wallbreaker/internal/game"

	"github.com/fogleman/gg"
	"golang.org/x/image/font/basicfont"
)

// MaxScale bounds the upscale factor accepted by Render.
const MaxScale = 8

var (
	colorBackground = color.RGBA{12, 12, 28, 255}
	colorSolid      = color.RGBA{110, 72, 48, 255}
	colorWall       = color.RGBA{70, 70, 90, 255}
	colorDecor      = color.RGBA{60, 140, 70, 255}
	colorPlayer     = color.RGBA{0, 212, 255, 255}
	colorRemote     = color.RGBA{180, 180, 255, 200}
	colorLostCoins  = color.RGBA{255, 215, 0, 255}
	colorEnemy      = color.RGBA{255, 62, 62, 255}
	colorSpawner    = color.RGBA{200, 80, 255, 255}
	colorRing       = color.RGBA{255, 149, 0, 255}
	colorSign       = color.RGBA{240, 240, 200, 255}
	colorShotPlayer = color.RGBA{255, 255, 255, 255}
	colorShotEnemy  = color.RGBA{255, 100, 100, 255}
	colorHUD        = color.RGBA{230, 230, 230, 255}
)

// Particle sprite palette, indexed by sprite number modulo its length
var particlePalette = []color.RGBA{
	{255, 200, 80, 255},
	{255, 255, 160, 255},
	{255, 90, 90, 255},
	{150, 150, 150, 255},
	{0, 212, 255, 255},
}

// Render draws a snapshot at the given scale. A scale below 1 is treated
// as 1 and anything above MaxScale is clamped.
func Render(snap *game.GameSnapshot, scale int) (image.Image, error) {
	dc, err := renderContext(snap, scale)
	if err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

// EncodePNG renders a snapshot and writes it as PNG.
func EncodePNG(w io.Writer, snap *game.GameSnapshot, scale int) error {
	dc, err := renderContext(snap, scale)
	if err != nil {
		return err
	}
	return dc.EncodePNG(w)
}

func renderContext(snap *game.GameSnapshot, scale int) (*gg.Context, error) {
	if snap == nil {
		return nil, fmt.Errorf("no snapshot to render")
	}
	if snap.GridWidth <= 0 || snap.GridHeight <= 0 || snap.TileSize <= 0 {
		return nil, fmt.Errorf("snapshot has no grid (%dx%d, tile %.1f)", snap.GridWidth, snap.GridHeight, snap.TileSize)
	}
	if scale < 1 {
		scale = 1
	}
	if scale > MaxScale {
		scale = MaxScale
	}

	width := int(math.Ceil(float64(snap.GridWidth) * snap.TileSize * float64(scale)))
	height := int(math.Ceil(float64(snap.GridHeight) * snap.TileSize * float64(scale)))

	dc := gg.NewContext(width, height)
	drawBackground(dc, width, height)

	dc.Push()
	dc.Scale(float64(scale), float64(scale))
	drawTiles(dc, snap)
	drawParticles(dc, snap.Particles)
	drawShots(dc, snap.Shots)
	drawEntities(dc, snap.Entities)
	drawRemotes(dc, snap.Remotes)
	drawPlayer(dc, &snap.Player)
	dc.Pop()

	drawHUD(dc, snap)
	return dc, nil
}

func drawBackground(dc *gg.Context, width, height int) {
	dc.SetColor(colorBackground)
	dc.DrawRectangle(0, 0, float64(width), float64(height))
	dc.Fill()
}

func drawTiles(dc *gg.Context, snap *game.GameSnapshot) {
	ts := snap.TileSize
	for i, code := range snap.Tiles {
		if code == 0 {
			continue
		}
		col := i % snap.GridWidth
		row := i / snap.GridWidth

		switch {
		case game.IsDecorative(code):
			// Decorations are drawn as a thin strip so walls stay readable
			dc.SetColor(colorDecor)
			dc.DrawRectangle(float64(col)*ts, float64(row)*ts+ts*0.6, ts, ts*0.4)
		case code == 1:
			dc.SetColor(colorWall)
			dc.DrawRectangle(float64(col)*ts, float64(row)*ts, ts, ts)
		default:
			dc.SetColor(colorSolid)
			dc.DrawRectangle(float64(col)*ts, float64(row)*ts, ts, ts)
		}
		dc.Fill()
	}
}

func drawParticles(dc *gg.Context, particles []game.ParticleSnapshot) {
	for _, p := range particles {
		c := particlePalette[spriteSlot(p.Sprite)]
		c.A = uint8(math.Max(0, math.Min(1, p.Life)) * 255)
		dc.SetColor(c)
		dc.DrawCircle(p.X, p.Y, 1.5)
		dc.Fill()
	}
}

func spriteSlot(sprite int) int {
	if sprite < 0 {
		sprite = -sprite
	}
	return sprite % len(particlePalette)
}

func drawShots(dc *gg.Context, shots []game.ShotSnapshot) {
	for _, s := range shots {
		if s.HurtsPlayer {
			dc.SetColor(colorShotEnemy)
		} else {
			dc.SetColor(colorShotPlayer)
		}
		dc.DrawCircle(s.X, s.Y, 1.5)
		dc.Fill()
	}
}

func drawEntities(dc *gg.Context, entities []game.EntitySnapshot) {
	for _, e := range entities {
		r := e.Radius
		if r <= 0 {
			r = 4
		}
		switch e.Kind {
		case game.KindSpawner.String():
			dc.SetColor(colorSpawner)
			dc.DrawRectangle(e.X-r, e.Y-r, r*2, r*2)
		case game.KindRing.String():
			dc.SetColor(colorRing)
			dc.SetLineWidth(1.5)
			dc.DrawCircle(e.X, e.Y, r)
			dc.Stroke()
			continue
		default:
			dc.SetColor(colorEnemy)
			dc.DrawCircle(e.X, e.Y, r)
		}
		dc.Fill()

		if e.IsSign {
			dc.SetColor(colorSign)
			dc.DrawRectangle(e.X-r/2, e.Y-r-3, r, 2)
			dc.Fill()
		}
		drawHealthBar(dc, e.X, e.Y-r-1, r*2, e.HP, e.MaxHP)
	}
}

func drawRemotes(dc *gg.Context, remotes []game.RemoteSnapshot) {
	for _, rp := range remotes {
		if rp.LostCoins {
			dc.SetColor(colorLostCoins)
		} else {
			dc.SetColor(colorRemote)
		}
		dc.DrawCircle(rp.X, rp.Y, 4)
		dc.Fill()
	}
}

func drawPlayer(dc *gg.Context, p *game.PlayerSnapshot) {
	if p.IsDead {
		return
	}
	c := colorPlayer
	if p.Immune {
		c.A = 128
	}
	dc.SetColor(c)
	dc.DrawCircle(p.X, p.Y, 4)
	dc.Fill()

	// Aim line
	dc.SetColor(colorHUD)
	dc.SetLineWidth(1)
	dc.DrawLine(p.X, p.Y, p.X+math.Cos(p.Rot)*7, p.Y+math.Sin(p.Rot)*7)
	dc.Stroke()

	if p.HealthBarFlash > 0 {
		drawHealthBar(dc, p.X, p.Y-6, 10, p.HP, p.MaxHP)
	}
}

func drawHealthBar(dc *gg.Context, x, y, width float64, hp, maxHP int) {
	if maxHP <= 0 {
		return
	}
	pct := float64(hp) / float64(maxHP)
	if pct < 0 {
		pct = 0
	}

	dc.SetColor(color.RGBA{51, 51, 51, 255})
	dc.DrawRectangle(x-width/2, y-1, width, 1)
	dc.Fill()

	if pct > 0.5 {
		dc.SetColor(color.RGBA{83, 255, 69, 255})
	} else if pct > 0.25 {
		dc.SetColor(color.RGBA{255, 149, 0, 255})
	} else {
		dc.SetColor(color.RGBA{255, 62, 62, 255})
	}
	dc.DrawRectangle(x-width/2, y-1, width*pct, 1)
	dc.Fill()
}

func drawHUD(dc *gg.Context, snap *game.GameSnapshot) {
	dc.SetFontFace(basicfont.Face7x13)
	dc.SetColor(colorHUD)

	line := fmt.Sprintf("tick %d  hp %d/%d  wisdom %d", snap.TickNumber, snap.Player.HP, snap.Player.MaxHP, snap.Wisdom)
	if snap.Player.CheatMode {
		line += "  [noclip]"
	}
	dc.DrawString(line, 4, 13)

	if snap.Player.IsDead {
		dc.SetColor(colorEnemy)
		dc.DrawStringAnchored("DEAD", float64(dc.Width())/2, float64(dc.Height())/2, 0.5, 0.5)
	}
}
