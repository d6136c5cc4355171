package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownMode is returned for an unrecognized mode or skipSupport value.
var ErrUnknownMode = errors.New("unknown mode")

// Mode chooses the base rule set before per-rule overrides.
type Mode uint8

const (
	ModeOn Mode = iota
	ModeOff
	ModeAll
	ModeOnly
	ModeExcept
)

var modeNames = [...]string{
	ModeOn:     "on",
	ModeOff:    "off",
	ModeAll:    "all",
	ModeOnly:   "only",
	ModeExcept: "except",
}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "on"
}

// ParseMode accepts any case; empty input means ModeOn.
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ModeOn, nil
	}
	for i, name := range modeNames {
		if name == s {
			return Mode(i), nil
		}
	}
	return ModeOn, fmt.Errorf("%w %q", ErrUnknownMode, s)
}

// SkipSupport controls rule execution on modules under vendor support.
type SkipSupport uint8

const (
	// SkipNever: правила работают независимо от поддержки.
	SkipNever SkipSupport = iota
	// SkipWithSupportLocked: пропускать модули «на замке» (не редактируется).
	SkipWithSupportLocked
	// SkipWithSupport: пропускать любые модули на поддержке.
	SkipWithSupport
)

var skipNames = [...]string{
	SkipNever:             "never",
	SkipWithSupportLocked: "withSupportLocked",
	SkipWithSupport:       "withSupport",
}

func (s SkipSupport) String() string {
	if int(s) < len(skipNames) {
		return skipNames[s]
	}
	return "never"
}

// ParseSkipSupport accepts camelCase and UPPER_SNAKE forms.
func ParseSkipSupport(s string) (SkipSupport, error) {
	key := strings.ReplaceAll(strings.TrimSpace(s), "_", "")
	if key == "" {
		return SkipNever, nil
	}
	for i, name := range skipNames {
		if strings.EqualFold(name, key) {
			return SkipSupport(i), nil
		}
	}
	return SkipNever, fmt.Errorf("%w: skipSupport %q", ErrUnknownMode, s)
}
