package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GenerateBillNo generates a unique human-facing bill number
func GenerateBillNo() string {
	return "BILL-" + strings.ToUpper(uuid.New().String()[:8])
}
