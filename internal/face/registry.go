package face

import (
	"context"
	"fmt"

	"github.com/saturnino-fabrica-de-software/facegate/internal/domain"
)

// EnrolledLister supplies the candidate set for the uniqueness scan. The
// repository returns verified accounts carrying embeddings in ascending id
// order; an embedding index can replace this later without touching callers.
type EnrolledLister interface {
	ListVerifiedWithEmbedding(ctx context.Context) ([]domain.Account, error)
}

// Registry enforces the one-person-one-account policy at enrollment time:
// no two verified accounts may hold embeddings the scorer judges to be the
// same person. Logins are not re-checked.
type Registry struct {
	accounts EnrolledLister
	scorer   *Scorer
}

func NewRegistry(accounts EnrolledLister, scorer *Scorer) *Registry {
	return &Registry{accounts: accounts, scorer: scorer}
}

// IsUnique scans every verified account with a stored embedding, in
// ascending id order, and short-circuits on the first match. When the face
// is already enrolled it returns false plus the conflicting account id; ties
// beyond the first match are not resolved. Cost is O(n) in verified
// accounts, accepted because registration is rare relative to login.
func (r *Registry) IsUnique(ctx context.Context, embedding []float64) (bool, int64, error) {
	if len(embedding) == 0 {
		return false, 0, domain.ErrNoFaceData
	}

	enrolled, err := r.accounts.ListVerifiedWithEmbedding(ctx)
	if err != nil {
		return false, 0, fmt.Errorf("list enrolled accounts: %w", err)
	}

	for _, acct := range enrolled {
		if match, _ := r.scorer.IsMatch(embedding, acct.Embedding); match {
			return false, acct.ID, nil
		}
	}

	return true, 0, nil
}
