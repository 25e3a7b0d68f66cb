package utils

import (
	"strings"

	"github.com/google/uuid"
)

// refNoMaxLen is the gateway's limit for the tran_id field.
const refNoMaxLen = 20

// NewMerchantRef mints a merchant reference number for the gateway's
// tran_id field: uuid-derived, uppercase hex, trimmed to the field limit.
func NewMerchantRef() string {
	ref := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return ref[:refNoMaxLen]
}
