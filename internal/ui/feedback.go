package ui

import (
	"image/color"
	"math"
	"time"

	"github.com/hailam/chessmate/internal/board"
	"github.com/hailam/chessmate/internal/game"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// ToastType selects the toast colors.
type ToastType int

const (
	ToastInfo ToastType = iota
	ToastWarning
	ToastSuccess
)

type toast struct {
	message string
	kind    ToastType
	start   time.Time
	life    time.Duration
}

// alpha fades the toast in and out.
func (t *toast) alpha(now time.Time) float64 {
	const fade = 0.2
	elapsed := now.Sub(t.start).Seconds()
	life := t.life.Seconds()
	switch {
	case elapsed < fade:
		return elapsed / fade
	case elapsed > life-fade:
		return math.Max(0, (life-elapsed)/fade)
	}
	return 1
}

type effect struct {
	square board.Square
	start  time.Time
	life   time.Duration
}

func (e *effect) progress(now time.Time) float64 {
	return now.Sub(e.start).Seconds() / e.life.Seconds()
}

// FeedbackManager shows toasts, shakes and flashes squares and plays sounds
// in response to game events.
type FeedbackManager struct {
	toasts  []*toast
	shakes  []*effect
	flashes []*effect
	audio   *AudioManager
	now     func() time.Time
}

// NewFeedbackManager creates a new feedback manager.
func NewFeedbackManager() *FeedbackManager {
	return &FeedbackManager{
		audio: NewAudioManager(),
		now:   time.Now,
	}
}

// Update drops expired toasts and animations.
func (fm *FeedbackManager) Update() {
	now := fm.now()
	fm.toasts = filter(fm.toasts, func(t *toast) bool { return now.Sub(t.start) < t.life })
	alive := func(e *effect) bool { return e.progress(now) < 1 }
	fm.shakes = filter(fm.shakes, alive)
	fm.flashes = filter(fm.flashes, alive)
}

func filter[T any](items []T, keep func(T) bool) []T {
	out := items[:0]
	for _, it := range items {
		if keep(it) {
			out = append(out, it)
		}
	}
	return out
}

// Show displays a toast; at most three are stacked.
func (fm *FeedbackManager) Show(message string, kind ToastType, life time.Duration) {
	fm.toasts = append(fm.toasts, &toast{message: message, kind: kind, start: fm.now(), life: life})
	if len(fm.toasts) > 3 {
		fm.toasts = fm.toasts[1:]
	}
}

// ShakeOffset returns the horizontal offset of the piece on sq.
func (fm *FeedbackManager) ShakeOffset(sq board.Square) float64 {
	now := fm.now()
	for _, s := range fm.shakes {
		if s.square != sq {
			continue
		}
		p := s.progress(now)
		if p >= 1 {
			return 0
		}
		// damped sine
		return 8 * math.Exp(-5*p) * math.Sin(40*p)
	}
	return 0
}

// Draw renders flashes over the board and the toast stack.
func (fm *FeedbackManager) Draw(screen *ebiten.Image, r *Renderer) {
	now := fm.now()
	for _, f := range fm.flashes {
		p := f.progress(now)
		if p >= 1 {
			continue
		}
		c := r.Theme().InvalidColor
		c.A = uint8(float64(c.A) * (1 - p))
		r.fillSquare(screen, f.square, c)
	}

	face := GetRegularFace()
	if face == nil {
		return
	}
	scale := r.scale
	y := 50.0
	for _, t := range fm.toasts {
		a := t.alpha(now)
		bg := color.RGBA{50, 100, 150, uint8(220 * a)}
		fg := color.RGBA{255, 255, 255, uint8(255 * a)}
		switch t.kind {
		case ToastWarning:
			bg = color.RGBA{180, 140, 20, uint8(220 * a)}
			fg = color.RGBA{40, 30, 0, uint8(255 * a)}
		case ToastSuccess:
			bg = color.RGBA{50, 150, 50, uint8(220 * a)}
		}

		w, h := MeasureText(t.message, face)
		const pad = 12.0
		boxW, boxH := w+pad*2, h+pad*2
		x := float64(BoardSize)/2 - boxW/2

		vector.DrawFilledRect(screen, float32(x*scale), float32(y*scale), float32(boxW*scale), float32(boxH*scale), bg, false)
		op := &text.DrawOptions{}
		op.GeoM.Scale(scale, scale)
		op.GeoM.Translate((x+pad)*scale, (y+pad)*scale)
		op.ColorScale.ScaleWithColor(fg)
		text.Draw(screen, t.message, face, op)

		y += boxH + 8
	}
}

// OnIllegalMove shakes the piece, flashes the target and buzzes.
func (fm *FeedbackManager) OnIllegalMove(from, to board.Square, reason string) {
	now := fm.now()
	fm.Show(reason, ToastWarning, 2*time.Second)
	fm.shakes = append(fm.shakes, &effect{square: from, start: now, life: 300 * time.Millisecond})
	fm.flashes = append(fm.flashes, &effect{square: to, start: now, life: 400 * time.Millisecond})
	fm.audio.Play(SoundInvalid)
}

// OnMove plays the sound for a move that was just made.
func (fm *FeedbackManager) OnMove(ply game.Ply) {
	switch {
	case ply.Check:
		fm.audio.Play(SoundCheck)
	case ply.Castle:
		fm.audio.Play(SoundCastle)
	case ply.Captured != board.NoPiece:
		fm.audio.Play(SoundCapture)
	default:
		fm.audio.Play(SoundMove)
	}
}

// OnGameOver announces the result.
func (fm *FeedbackManager) OnGameOver(message string, humanWon bool) {
	kind := ToastInfo
	if humanWon {
		kind = ToastSuccess
	}
	fm.Show(message, kind, 5*time.Second)
	fm.audio.Play(SoundGameEnd)
}

// Audio returns the audio manager.
func (fm *FeedbackManager) Audio() *AudioManager {
	return fm.audio
}
