package entity

// LifecyclePhase is the furthest confirmed phase a trustline removal workflow
// reached. A failure after a successful sell still reports PhaseSold together
// with the sell hash, so completed on-chain work is never hidden.
type LifecyclePhase string

const (
	PhaseNone    LifecyclePhase = "none"
	PhaseSold    LifecyclePhase = "sold"
	PhaseRemoved LifecyclePhase = "removed"
)

// TrustlineLifecycleResult reports the outcome of the two-phase
// sell-entire-balance-then-remove-trustline workflow.
//
// Invariant: RemoveTxHash is only ever populated when SellTxHash is populated
// or the pre-check confirmed the balance was already zero (no sell issued).
type TrustlineLifecycleResult struct {
	Phase        LifecyclePhase `json:"phase"`
	SellTxHash   string         `json:"sellTxHash,omitempty"`
	RemoveTxHash string         `json:"removeTxHash,omitempty"`
	Err          string         `json:"error,omitempty"`
}

// Failed reports whether the workflow stopped before full removal.
func (r TrustlineLifecycleResult) Failed() bool {
	return r.Err != ""
}
