package rooms

import (
	"crypto/rand"
	"math/big"
)

// Room codes are drawn from the uppercase alphabet only.
const codeChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// CodeLength is the fixed length of room codes.
const CodeLength = 6

// CodeGenerator produces candidate room codes. The store redraws on
// collision, so a generator only has to return a random code of the
// requested length.
type CodeGenerator func(length int) (string, error)

// GenerateRoomCode generates a random room code of the specified length
// using crypto/rand.
func GenerateRoomCode(length int) (string, error) {
	if length <= 0 {
		length = CodeLength
	}

	code := make([]byte, length)
	max := big.NewInt(int64(len(codeChars)))

	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		code[i] = codeChars[n.Int64()]
	}

	return string(code), nil
}

// IsValidRoomCode checks whether a code has the expected shape: exactly
// CodeLength uppercase letters.
func IsValidRoomCode(code string) bool {
	if len(code) != CodeLength {
		return false
	}
	for _, c := range code {
		if c < 'A' || c > 'Z' {
			return false
		}
	}
	return true
}
