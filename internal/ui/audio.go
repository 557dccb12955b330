package ui

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2/audio"
)

// SoundType represents different sound effects.
type SoundType int

const (
	SoundMove SoundType = iota
	SoundCapture
	SoundCheck
	SoundCastle
	SoundInvalid
	SoundGameEnd
)

const sampleRate = 44100

// AudioManager plays short procedurally generated effects.
type AudioManager struct {
	context *audio.Context
	sounds  map[SoundType][]byte
	enabled bool
	volume  float64
}

// NewAudioManager creates the audio context and synthesises every effect.
func NewAudioManager() *AudioManager {
	am := &AudioManager{
		context: audio.NewContext(sampleRate),
		sounds:  make(map[SoundType][]byte),
		enabled: true,
		volume:  0.5,
	}
	am.sounds[SoundMove] = click(440, 0.08, 0.3)
	am.sounds[SoundCapture] = click(330, 0.12, 0.5)
	am.sounds[SoundCheck] = synth(0.15, 0.4, attackDecay(0.1), sine(880))
	am.sounds[SoundCastle] = concat(click(400, 0.06, 0.3), silence(0.05), click(440, 0.06, 0.24))
	am.sounds[SoundInvalid] = synth(0.1, 0.15, linearDecay, buzz(150))
	am.sounds[SoundGameEnd] = synth(0.4, 0.5, plateau(0.1, 0.7), chord(261.63, 329.63, 392.00))
	return am
}

type (
	wave     func(t float64) float64
	envelope func(progress float64) float64
)

// synth renders duration seconds of w shaped by env as 16-bit stereo PCM.
func synth(duration, amplitude float64, env envelope, w wave) []byte {
	n := int(sampleRate * duration)
	data := make([]byte, n*4)
	for i := 0; i < n; i++ {
		t := float64(i) / sampleRate
		v := int16(w(t) * env(t/duration) * amplitude * 32767)
		data[i*4] = byte(v)
		data[i*4+1] = byte(v >> 8)
		data[i*4+2] = byte(v)
		data[i*4+3] = byte(v >> 8)
	}
	return data
}

// click is a percussive tone with some noise, like wood on wood.
func click(freq, duration, amplitude float64) []byte {
	w := func(t float64) float64 {
		i := t * sampleRate
		noise := (math.Sin(i*0.3) + math.Sin(i*0.7)) * 0.3
		return math.Sin(2*math.Pi*freq*t) + noise
	}
	env := func(p float64) float64 { return math.Exp(-p * duration * 30) }
	return synth(duration, amplitude, env, w)
}

func sine(freq float64) wave {
	return func(t float64) float64 { return math.Sin(2 * math.Pi * freq * t) }
}

func buzz(freq float64) wave {
	return func(t float64) float64 {
		return math.Sin(2*math.Pi*freq*t) + 0.3*math.Sin(4*math.Pi*freq*t)
	}
}

func chord(freqs ...float64) wave {
	return func(t float64) float64 {
		sum := 0.0
		for _, f := range freqs {
			sum += math.Sin(2 * math.Pi * f * t)
		}
		return sum / float64(len(freqs))
	}
}

func linearDecay(p float64) float64 { return 1 - p }

func attackDecay(attack float64) envelope {
	return func(p float64) float64 {
		if p < attack {
			return p / attack
		}
		return 1 - (p-attack)/(1-attack)
	}
}

// plateau fades in until rise, holds, and fades out after fall.
func plateau(rise, fall float64) envelope {
	return func(p float64) float64 {
		switch {
		case p < rise:
			return p / rise
		case p > fall:
			return (1 - p) / (1 - fall)
		}
		return 1
	}
}

func silence(duration float64) []byte {
	return make([]byte, int(sampleRate*duration)*4)
}

func concat(parts ...[]byte) []byte {
	var out []byte
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

// Play plays a sound effect.
func (am *AudioManager) Play(sound SoundType) {
	if !am.enabled {
		return
	}
	data, ok := am.sounds[sound]
	if !ok {
		return
	}
	// A player per call lets effects overlap.
	player := am.context.NewPlayerFromBytes(data)
	player.SetVolume(am.volume)
	player.Play()
}

// SetEnabled enables or disables audio.
func (am *AudioManager) SetEnabled(enabled bool) {
	am.enabled = enabled
}

// IsEnabled returns whether audio is enabled.
func (am *AudioManager) IsEnabled() bool {
	return am.enabled
}
