/*
 * Copyright (c) 2025 Hardiyanto Y -Ebiet.
 * This software is part of the HDX (Hardix Audio) project.
 * This code is provided "as is", without warranty of any kind.
 */

package spec

import "time"

const (
	// === IDENTITY & VERSIONING ===
	AppName       = "hdx-scribe"
	VersionMajor  = 1
	VersionMinor  = 0
	WelcomeLine   = "Welcome to hdx-scribe!"
	DefaultMode   = "Happy transcribing!"
	GeneralUsage  = "Usage: hdx-scribe [flags] <audio file>"
	DeveloperLine = "Developer Hardiyanto - Build 27/12/2025 Ebiet Version"

	// === TRANSPORT DEFAULTS ===
	TickInterval  = 100 * time.Millisecond
	SeekStep      = 2 * time.Second
	LongSeekStep  = 10 * time.Second
	TempoStep     = 0.1
	DefaultTempo  = 1.0
	VolumeStep    = 0.5
	MinVolume     = -10.0
	MaxVolume     = 4.0
	MarkCapacity  = 50
	ChordWindow   = 500 * time.Millisecond
	NoActiveMark  = -1
	SpeakerBuffer = 100 * time.Millisecond

	// === ENGINE SPECS ===
	// ResampleQuality is passed to beep.ResampleRatio (1..64).
	ResampleQuality = 4
	OpusSampleRate  = 48000
	EnvelopeBins    = 512

	// === GLYPHS ===
	BarOpen    = '['
	BarClose   = ']'
	BarFill    = '='
	BarEmpty   = ' '
	MarkGlyph  = '|'
	EnergyRamp = " ▁▂▃▄▅▆▇█"
)
