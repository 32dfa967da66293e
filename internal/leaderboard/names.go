package leaderboard

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

var names = []string{
	"Quacker", "Waddler", "Pondmaster", "Featherduke", "Billsworth",
	"Drake", "Puddlejumper", "Mallard", "Downy", "Webfoot",
	"Splasher", "Preener", "Dabbler", "Duckling", "Tailfeather",
	"Paddler", "Honker", "Floater", "Diver", "Wingman",
}

// GenerateUsername produces a pseudonymous handle like "Quacker#042". The
// 3-digit suffix keeps collisions rare without any uniqueness bookkeeping.
func GenerateUsername() (string, error) {
	ni, err := rand.Int(rand.Reader, big.NewInt(int64(len(names))))
	if err != nil {
		return "", err
	}
	si, err := rand.Int(rand.Reader, big.NewInt(1000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s#%03d", names[ni.Int64()], si.Int64()), nil
}
