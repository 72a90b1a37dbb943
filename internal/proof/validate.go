package proof

import (
	"errors"
	"fmt"
)

// ErrInvalidTree is wrapped by every error Validate returns.
var ErrInvalidTree = errors.New("invalid proof tree")

// Validate checks the structural invariants: the root has a premise,
// every node is reachable exactly once with a matching parent, and every
// dependency resolves to something visible from the step citing it.
func (p *Proof) Validate() error {
	root, ok := p.sub(p.root)
	if !ok {
		return fmt.Errorf("%w: missing root", ErrInvalidTree)
	}
	if len(root.premises) == 0 {
		return fmt.Errorf("%w: root has no premise", ErrInvalidTree)
	}

	seen := make(map[Ref]struct{})
	if err := p.validateSub(p.root, seen); err != nil {
		return err
	}
	if n := p.premises.len() + p.steps.len() + p.subproofs.len(); n != len(seen) {
		return fmt.Errorf("%w: %d nodes stored but %d reachable", ErrInvalidTree, n, len(seen))
	}

	var err error
	p.steps.each(func(h handle, st *step) {
		if err != nil {
			return
		}
		ref := JustificationRef{h}
		for _, d := range st.just.LineDeps {
			if !p.CanReferenceDep(ref, d) {
				err = fmt.Errorf("%w: %s cites %s, which it cannot see", ErrInvalidTree, ref, d)
				return
			}
		}
		for _, d := range st.just.SubproofDeps {
			if !p.CanReferenceDep(ref, d) {
				err = fmt.Errorf("%w: %s cites %s, which it cannot see", ErrInvalidTree, ref, d)
				return
			}
		}
	})
	return err
}

func (p *Proof) validateSub(ref SubproofRef, seen map[Ref]struct{}) error {
	if _, dup := seen[ref]; dup {
		return fmt.Errorf("%w: %s reachable twice", ErrInvalidTree, ref)
	}
	seen[ref] = struct{}{}
	s, ok := p.sub(ref)
	if !ok {
		return fmt.Errorf("%w: dangling %s", ErrInvalidTree, ref)
	}

	for _, pr := range s.premises {
		v, ok := p.premises.get(pr.h)
		if !ok {
			return fmt.Errorf("%w: dangling %s", ErrInvalidTree, pr)
		}
		if v.parent != ref {
			return fmt.Errorf("%w: %s has the wrong parent", ErrInvalidTree, pr)
		}
		if _, dup := seen[pr]; dup {
			return fmt.Errorf("%w: %s reachable twice", ErrInvalidTree, pr)
		}
		seen[pr] = struct{}{}
	}

	for _, line := range s.lines {
		switch r := line.(type) {
		case JustificationRef:
			v, ok := p.steps.get(r.h)
			if !ok {
				return fmt.Errorf("%w: dangling %s", ErrInvalidTree, r)
			}
			if v.parent != ref {
				return fmt.Errorf("%w: %s has the wrong parent", ErrInvalidTree, r)
			}
			if _, dup := seen[r]; dup {
				return fmt.Errorf("%w: %s reachable twice", ErrInvalidTree, r)
			}
			seen[r] = struct{}{}
		case SubproofRef:
			child, ok := p.sub(r)
			if !ok {
				return fmt.Errorf("%w: dangling %s", ErrInvalidTree, r)
			}
			if child.parent != ref {
				return fmt.Errorf("%w: %s has the wrong parent", ErrInvalidTree, r)
			}
			if len(child.premises) == 0 {
				return fmt.Errorf("%w: %s has no premise", ErrInvalidTree, r)
			}
			if err := p.validateSub(r, seen); err != nil {
				return err
			}
		}
	}
	return nil
}
