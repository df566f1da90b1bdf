package grading

import "math/rand/v2"

var encouragements = []string{
	"🎉 Awesome!",
	"👍 Great job!",
	"🚀 You're on fire!",
	"✅ That's it!",
	"🎯 Bullseye!",
}

// Encouragement picks a short cheer for a correct answer. A nil rng uses
// the global source.
func Encouragement(rng *rand.Rand) string {
	if rng == nil {
		return encouragements[rand.IntN(len(encouragements))]
	}
	return encouragements[rng.IntN(len(encouragements))]
}
