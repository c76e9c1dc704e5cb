package booking

import (
	"crypto/rand"
	"math/big"
	"time"
)

const (
	DefaultTicketPrefix = "PKG"
	ticketSuffixLength  = 4
	ticketAlphabet      = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// GenerateTicket returns prefix + YYYYMMDDHHMMSS (UTC) + a random suffix.
func GenerateTicket(prefix string, now time.Time) string {
	if prefix == "" {
		prefix = DefaultTicketPrefix
	}
	return prefix + now.UTC().Format("20060102150405") + randomSuffix(ticketSuffixLength)
}

func randomSuffix(n int) string {
	out := make([]byte, n)
	limit := big.NewInt(int64(len(ticketAlphabet)))
	for i := range out {
		idx, err := rand.Int(rand.Reader, limit)
		if err != nil {
			// crypto/rand does not fail on supported platforms
			panic(err)
		}
		out[i] = ticketAlphabet[idx.Int64()]
	}
	return string(out)
}
