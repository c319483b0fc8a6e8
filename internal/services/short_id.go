package services

import (
	"fmt"
	"math/rand"
)

const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewShortID returns a customer-facing order id such as "QKD-481".
func NewShortID() string {
	b := make([]byte, 3)
	for i := range b {
		b[i] = letters[rand.Intn(len(letters))]
	}
	return fmt.Sprintf("%s-%d", b, 100+rand.Intn(900))
}
