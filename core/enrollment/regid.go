package enrollment

import (
	"fmt"
	"math/rand"
	"time"
)

var (
	// NowFunc returns the current time; mockable in tests.
	NowFunc = time.Now

	rng = rand.New(rand.NewSource(time.Now().UnixNano()))
)

// GenerateRegistrationID produces a human-readable registration code: a
// "STU" label, a six-digit date prefix (yymmdd) and a three-digit random
// suffix, e.g. STU250417042. Collisions are not cryptographically prevented;
// uniqueness is a store-level invariant, and a manually supplied register
// number always wins over the generator.
func GenerateRegistrationID() string {
	return fmt.Sprintf("STU%s%03d", NowFunc().Format("060102"), rng.Intn(1000))
}
