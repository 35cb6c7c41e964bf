package models

import (
	"math/rand"
	"regexp"
	"strings"
)

const (
	DefaultOperationIdentifierLength = 16
	operationIdentifierCharset       = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-"
)

// The accepted length is fixed at 16 whatever length was used to generate.
var operationIdentifierPattern = regexp.MustCompile(`^[A-Za-z0-9-]{16}$`)

// GenerateOperationIdentifier draws length characters uniformly from [A-Za-z0-9-].
// It does not check uniqueness; see DebtStore.AddDebt.
func GenerateOperationIdentifier(length int) string {
	if length <= 0 {
		return ""
	}
	var sb strings.Builder
	sb.Grow(length)
	for i := 0; i < length; i++ {
		sb.WriteByte(operationIdentifierCharset[rand.Intn(len(operationIdentifierCharset))])
	}
	return sb.String()
}

func ValidateOperationIdentifier(id string) bool {
	return operationIdentifierPattern.MatchString(id)
}
