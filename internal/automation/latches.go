package automation

import "sync/atomic"

// Latches are the one-shot flags of a single champion select session.
// picked, banned and skinPicked only ever go from unset to set. The
// pick-completed latch can be released by an accepted pick-order swap; it
// holds a claim token so a sleeping holder can tell its claim was revoked.
type Latches struct {
	picked        atomic.Bool
	banned        atomic.Bool
	skinPicked    atomic.Bool
	pickCompleted atomic.Int64 // 0 unset, otherwise the holder's token
	tokens        atomic.Int64
}

func (l *Latches) ClaimPick() bool { return l.picked.CompareAndSwap(false, true) }
func (l *Latches) Picked() bool    { return l.picked.Load() }

func (l *Latches) ClaimBan() bool { return l.banned.CompareAndSwap(false, true) }
func (l *Latches) Banned() bool   { return l.banned.Load() }

func (l *Latches) ClaimSkin() bool  { return l.skinPicked.CompareAndSwap(false, true) }
func (l *Latches) SkinPicked() bool { return l.skinPicked.Load() }

// ClaimPickCompleted sets the latch and returns the claim token.
func (l *Latches) ClaimPickCompleted() (int64, bool) {
	token := l.tokens.Add(1)
	if l.pickCompleted.CompareAndSwap(0, token) {
		return token, true
	}
	return 0, false
}

// HoldsPickCompleted reports whether token is still the active claim.
func (l *Latches) HoldsPickCompleted(token int64) bool {
	return token != 0 && l.pickCompleted.Load() == token
}

func (l *Latches) PickCompleted() bool { return l.pickCompleted.Load() != 0 }

// ReleasePickCompleted revokes any outstanding claim.
func (l *Latches) ReleasePickCompleted() { l.pickCompleted.Store(0) }
