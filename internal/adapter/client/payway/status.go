package payway

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kimsann/payway-checkout/internal/core/domain"
)

// The gateway's status code set is closed; these are the documented codes.
// Deployments can extend the table through config for codes the gateway
// adds later, but the built-ins cannot be overridden to remap success.
var builtinStatusCodes = map[int]domain.PaymentOutcome{
	0: domain.OutcomeSuccess,
	1: domain.OutcomePending,
	2: domain.OutcomeFailed,
	3: domain.OutcomeCancelled,
}

var outcomeNames = map[string]domain.PaymentOutcome{
	"SUCCESS":   domain.OutcomeSuccess,
	"PENDING":   domain.OutcomePending,
	"FAILED":    domain.OutcomeFailed,
	"CANCELLED": domain.OutcomeCancelled,
}

// parseStatusCodes reads the "code:OUTCOME,code:OUTCOME" config extension.
func parseStatusCodes(raw string) (map[int]domain.PaymentOutcome, error) {
	table := make(map[int]domain.PaymentOutcome, len(builtinStatusCodes))
	for code, outcome := range builtinStatusCodes {
		table[code] = outcome
	}

	if raw == "" {
		return table, nil
	}

	for _, pair := range strings.Split(raw, ",") {
		parts := strings.SplitN(strings.TrimSpace(pair), ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("bad status code entry %q", pair)
		}
		code, err := strconv.Atoi(parts[0])
		if err != nil {
			return nil, fmt.Errorf("bad status code %q: %w", parts[0], err)
		}
		outcome, ok := outcomeNames[strings.ToUpper(parts[1])]
		if !ok {
			return nil, fmt.Errorf("unknown outcome %q", parts[1])
		}
		if _, builtin := builtinStatusCodes[code]; builtin {
			return nil, fmt.Errorf("status code %d is built-in and cannot be remapped", code)
		}
		table[code] = outcome
	}

	return table, nil
}
