package factory

import (
	"encoding/json"
	"fmt"

	"github.com/warp/daybook/generic"
	"github.com/warp/daybook/leave"
)

// LeavePolicyJSON is the stored form of the leave policy setting:
//
//	{"leaves_per_month": "1.5", "standard_working_days": 22, "tracking_start": "2025-01"}
type LeavePolicyJSON = leave.Policy

// ParseLeavePolicy parses and validates a leave policy document.
func ParseLeavePolicy(data []byte) (leave.Policy, error) {
	var p LeavePolicyJSON
	if err := json.Unmarshal(data, &p); err != nil {
		return leave.Policy{}, fmt.Errorf("%w: failed to parse leave policy JSON: %v", generic.ErrInvalidInput, err)
	}
	if err := p.Validate(); err != nil {
		return leave.Policy{}, err
	}
	return p, nil
}

// MarshalLeavePolicy is the inverse of ParseLeavePolicy.
func MarshalLeavePolicy(p leave.Policy) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(p)
}
