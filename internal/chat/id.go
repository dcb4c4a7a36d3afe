package chat

import (
	"crypto/rand"
	"fmt"
	"time"
)

const sessionIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewSessionID returns "session_<unixMillis>_<9 base-36 chars>". The random
// suffix keeps two sessions created in the same millisecond distinct.
func NewSessionID() (string, error) {
	buf := make([]byte, 9)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	for i, b := range buf {
		buf[i] = sessionIDAlphabet[int(b)%len(sessionIDAlphabet)]
	}
	return fmt.Sprintf("session_%d_%s", time.Now().UnixMilli(), buf), nil
}
