package utils

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const idAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

// GenerateID returns a short random identifier used for import batches and blob keys.
func GenerateID() string {
	return GenerateIDN(12)
}

func GenerateIDN(length int) string {
	id, err := gonanoid.Generate(idAlphabet, length)
	if err != nil {
		return ""
	}
	return id
}
