package domain

import (
	"time"
)

// FlowType identifies which OTP-gated flow a challenge belongs to. A session
// holds at most one pending challenge per flow type.
type FlowType string

const (
	FlowLogin      FlowType = "login"
	FlowFaceUpdate FlowType = "face_update"
	FlowDeletion   FlowType = "deletion"
)

// Challenge is the ephemeral server-side record of one pending OTP
// verification. It is never persisted; it lives in the challenge manager
// keyed by (session id, flow type) and is erased on consumption or expiry.
type Challenge struct {
	FlowType  FlowType
	OTPHash   string
	ExpiresAt time.Time
	Payload   ChallengePayload
}

func (c *Challenge) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}

// ChallengePayload carries the flow-specific state that must survive between
// the request step and the confirm step.
type ChallengePayload struct {
	// AccountID is set for every flow.
	AccountID int64
	// Similarity is the face-match score carried by login challenges.
	Similarity float64
	// Image holds the pending face bytes for a face-update challenge.
	Image []byte
}
