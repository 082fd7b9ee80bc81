package service

import (
	"crypto/rand"
	"math/big"
	"strconv"
	"strings"
	"time"
)

const referenceAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewReference returns a booking reference of the form
// TB<unix-millis><4 uppercase base36 chars>.
func NewReference(now time.Time) (string, error) {
	var b strings.Builder
	b.WriteString("TB")
	b.WriteString(strconv.FormatInt(now.UnixMilli(), 10))
	max := big.NewInt(int64(len(referenceAlphabet)))
	for i := 0; i < 4; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b.WriteByte(referenceAlphabet[n.Int64()])
	}
	return b.String(), nil
}
