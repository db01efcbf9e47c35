package links

import (
	"math/rand"
	"strings"
)

const (
	shortCodeChars  = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	shortCodeLength = 6

	// Bound on random allocation attempts. At 62^6 combinations a collision
	// streak this long means something is wrong with the store, not the RNG.
	maxAllocationAttempts = 20
)

// Path words the router dispatches under /links; they can never be codes.
var reservedCodes = []string{"register", "login", "shorten", "search", "my_links", "stats", "qr"}

type CodeChecker interface {
	// ExistsByShortCode reports whether any link holds the code, regardless
	// of owner.
	ExistsByShortCode(code string) (bool, error)
	// ExistsForOwnerOrAnonymous reports whether a link with the code exists
	// owned by the given user or by nobody.
	ExistsForOwnerOrAnonymous(code, userID string) (bool, error)
}

// AllocateCode resolves a requested custom alias or generates a fresh random
// code. It only checks availability; the caller's insert is the real
// reservation, and a duplicate-key failure there means "allocate again".
func AllocateCode(requested, userID string, checker CodeChecker) (string, error) {
	if requested != "" {
		if !isValidShortCode(requested) {
			return "", &ValidationError{Reason: "invalid short code format"}
		}

		exists, err := checker.ExistsForOwnerOrAnonymous(requested, userID)
		if err != nil {
			return "", err
		}
		if exists {
			return "", ErrAliasTaken
		}

		return requested, nil
	}

	for i := 0; i < maxAllocationAttempts; i++ {
		code := generateRandomCode(shortCodeLength)

		exists, err := checker.ExistsByShortCode(code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}

	return "", ErrAllocationExhausted
}

func generateRandomCode(length int) string {
	b := make([]byte, length)
	for i := range b {
		b[i] = shortCodeChars[rand.Intn(len(shortCodeChars))]
	}
	return string(b)
}

func isValidShortCode(code string) bool {
	if len(code) < 3 || len(code) > 12 {
		return false
	}

	for _, c := range code {
		if !strings.ContainsRune(shortCodeChars, c) {
			return false
		}
	}

	for _, r := range reservedCodes {
		if strings.EqualFold(code, r) {
			return false
		}
	}

	return true
}
