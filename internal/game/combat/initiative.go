package combat

// step is one queued unit of work: a swap, or one sub-move of a move.
type step struct {
	side   Side
	actor  Handle
	action Action
	// index is the sub-move index; always 0 for swaps.
	index int
}

// firstSide decides which side acts first this round.
//
// Precedence: a swap precedes a move; a barrier move precedes a non-barrier
// move; otherwise the higher base agility acts first; exact ties are broken
// by an unweighted coin flip.
//
// Precondition: both sides have a pending action.
func (b *Battle) firstSide() Side {
	pa, pb := b.pending[SideA], b.pending[SideB]
	swapA, swapB := pa.action.Kind == ActionSwap, pb.action.Kind == ActionSwap
	if swapA != swapB {
		if swapA {
			return SideA
		}
		return SideB
	}
	if !swapA {
		barrierA, barrierB := b.isBarrier(pa), b.isBarrier(pb)
		if barrierA != barrierB {
			if barrierA {
				return SideA
			}
			return SideB
		}
	}
	agiA := b.arena[pa.actor].base.Agility
	agiB := b.arena[pb.actor].base.Agility
	switch {
	case agiA > agiB:
		return SideA
	case agiB > agiA:
		return SideB
	}
	if b.roller.CoinFlip("initiative") == 0 {
		return SideA
	}
	return SideB
}

func (b *Battle) isBarrier(p *pending) bool {
	if p.action.Kind != ActionMove {
		return false
	}
	return b.arena[p.actor].moves[p.action.Index].Move.IsBarrier()
}

// stepCount returns how many queue entries p expands into.
func (b *Battle) stepCount(p *pending) int {
	if p.action.Kind == ActionSwap {
		return 1
	}
	return len(b.arena[p.actor].moves[p.action.Index].Move.Steps)
}

// buildQueue interleaves both sides' steps: first[0], second[0], first[1], ...
func (b *Battle) buildQueue(first Side) []step {
	second := first.Opponent()
	pf, ps := b.pending[first], b.pending[second]
	nf, ns := b.stepCount(pf), b.stepCount(ps)
	queue := make([]step, 0, nf+ns)
	for i := 0; i < max(nf, ns); i++ {
		if i < nf {
			queue = append(queue, step{side: first, actor: pf.actor, action: pf.action, index: i})
		}
		if i < ns {
			queue = append(queue, step{side: second, actor: ps.actor, action: ps.action, index: i})
		}
	}
	return queue
}
