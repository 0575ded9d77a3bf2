package quiz

import (
	"fmt"
	"strings"

	"github.com/abhisek/adaptquiz/internal/store"
)

// Mode is either a fixed difficulty or ModeProgressive.
type Mode string

// ModeProgressive lets recent answers drive the difficulty.
const ModeProgressive Mode = "Progressive"

const (
	// progressiveWarmup is how many answers are needed before the level
	// can move away from easy.
	progressiveWarmup = 6
	// streak is the run of equal answers needed to change level.
	streak = 3
)

// ParseMode accepts "Progressive" or a difficulty label, case-insensitively.
func ParseMode(s string) (Mode, error) {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, string(ModeProgressive)) {
		return ModeProgressive, nil
	}
	if d, ok := store.ParseDifficulty(s); ok {
		return Mode(d), nil
	}
	return "", fmt.Errorf("unknown difficulty %q", s)
}

// NextDifficulty picks the difficulty of the next question. A fixed mode
// is returned as is. In progressive mode the level stays easy until
// progressiveWarmup answers are recorded, then moves up after three
// correct answers in a row and down after three wrong ones. The returned
// level index is the one to store for the next call.
func NextDifficulty(mode Mode, track []bool, levelIndex int) (store.Difficulty, int) {
	if mode != ModeProgressive {
		if d, ok := store.ParseDifficulty(string(mode)); ok {
			return d, levelIndex
		}
		// An unknown stored mode behaves like progressive.
	}

	levelIndex = min(max(levelIndex, 0), len(store.Difficulties)-1)
	if len(track) < progressiveWarmup {
		return store.DifficultyEasy, levelIndex
	}

	last := track[len(track)-streak:]
	allCorrect, noneCorrect := true, true
	for _, ok := range last {
		if ok {
			noneCorrect = false
		} else {
			allCorrect = false
		}
	}

	switch {
	case allCorrect && levelIndex < len(store.Difficulties)-1:
		levelIndex++
	case noneCorrect && levelIndex > 0:
		levelIndex--
	}
	return store.Difficulties[levelIndex], levelIndex
}
