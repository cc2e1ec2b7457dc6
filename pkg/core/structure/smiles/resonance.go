package smiles

import (
	"fmt"
	"sort"

	"github.com/scienceol/solvation/pkg/common/code"
)

// MaxKekuleForms bounds the enumeration for large polycyclic systems.
const MaxKekuleForms = 16

// Kekulize expands every aromatic bond into an alternating single/double
// assignment and returns all distinct assignments up to MaxKekuleForms.
// A molecule without aromatic bonds is returned as its only form.
func Kekulize(m *Molecule) ([]*Molecule, error) {
	var aromatic bool
	for _, b := range m.Bonds {
		if b.Order == Aromatic {
			aromatic = true
			break
		}
	}
	if !aromatic {
		for _, a := range m.Atoms {
			if a.Aromatic {
				return nil, code.InvalidStructure.WithMsg("aromatic atom outside an aromatic bond")
			}
		}
		return []*Molecule{m}, nil
	}

	need := make([]bool, len(m.Atoms))
	for i, a := range m.Atoms {
		if !a.Aromatic {
			continue
		}
		v, ok := chargedValence(a.Symbol, a.Charge)
		if !ok {
			return nil, code.InvalidStructure.WithMsgf("aromatic %s is not supported", a.Symbol)
		}
		free := v - m.bondValence(i) - a.HCount
		switch {
		case free == 1:
			need[i] = true
		case free < 0 && !a.bracket:
			return nil, code.InvalidStructure.WithMsgf("aromatic %s over valence", a.Symbol)
		}
	}

	k := &kekulizer{mol: m, need: need, mate: make([]int, len(m.Atoms))}
	for i := range k.mate {
		k.mate[i] = -1
	}
	k.search(0)
	if len(k.forms) == 0 {
		return nil, code.InvalidStructure.WithMsg("no valid kekule structure")
	}
	return k.forms, nil
}

type kekulizer struct {
	mol   *Molecule
	need  []bool
	mate  []int
	forms []*Molecule
}

func (k *kekulizer) search(from int) {
	if len(k.forms) >= MaxKekuleForms {
		return
	}
	i := from
	for i < len(k.need) && (!k.need[i] || k.mate[i] >= 0) {
		i++
	}
	if i == len(k.need) {
		k.forms = append(k.forms, k.emit())
		return
	}
	for _, bi := range k.mol.adj[i] {
		b := k.mol.Bonds[bi]
		if b.Order != Aromatic {
			continue
		}
		j := b.other(i)
		if !k.need[j] || k.mate[j] >= 0 {
			continue
		}
		k.mate[i], k.mate[j] = j, i
		k.search(i + 1)
		k.mate[i], k.mate[j] = -1, -1
	}
}

func (k *kekulizer) emit() *Molecule {
	out := k.mol.clone()
	for i := range out.Atoms {
		out.Atoms[i].Aromatic = false
	}
	for bi := range out.Bonds {
		b := &out.Bonds[bi]
		if b.Order != Aromatic {
			continue
		}
		if k.mate[b.A] == b.B {
			b.Order = Double
		} else {
			b.Order = Single
		}
	}
	return out
}

// Aromatize marks rings whose pi electron count satisfies 4n+2 as aromatic.
// Fused systems are resolved by repeating until no further ring qualifies.
func Aromatize(m *Molecule) *Molecule {
	out := m.clone()
	rings := smallestRings(out)
	done := make([]bool, len(rings))
	for changed := true; changed; {
		changed = false
		for ri, ring := range rings {
			if done[ri] || !isAromaticRing(out, ring) {
				continue
			}
			done[ri], changed = true, true
			for idx, a := range ring {
				out.Atoms[a].Aromatic = true
				nb := ring[(idx+1)%len(ring)]
				out.Bonds[out.bondBetween(a, nb)].Order = Aromatic
			}
		}
	}
	return out
}

func isAromaticRing(m *Molecule, ring []int) bool {
	inRing := make(map[int]bool, len(ring))
	for _, a := range ring {
		inRing[a] = true
	}
	electrons := 0
	for _, a := range ring {
		atom := m.Atoms[a]
		e := -1
		var doubles int
		for _, bi := range m.adj[a] {
			b := m.Bonds[bi]
			nb := b.other(a)
			switch {
			case b.Order == Double && inRing[nb]:
				e = 1
				doubles++
			case b.Order == Double:
				doubles++
			case b.Order == Aromatic:
				// a bond already shared with an aromatic neighbour ring
				if !inRing[nb] && e < 0 {
					e = 1
				}
			case b.Order == Triple:
				return false
			}
		}
		if e < 0 && atom.Aromatic {
			e = 1
		}
		if e < 0 && doubles == 0 {
			switch {
			case atom.Charge == 0 && (atom.Symbol == "N" || atom.Symbol == "O" || atom.Symbol == "S" || atom.Symbol == "P" || atom.Symbol == "Se"):
				if atom.Symbol == "N" && m.bondValence(a)+atom.HCount > 3 {
					return false
				}
				e = 2
			case atom.Charge == -1 && atom.Symbol == "C":
				e = 2
			case atom.Charge == 1 && atom.Symbol == "C":
				e = 0
			case atom.Symbol == "B" && atom.Charge == 0:
				e = 0
			}
		}
		if e < 0 {
			return false
		}
		electrons += e
	}
	return electrons%4 == 2
}

// smallestRings returns, for every ring bond, the smallest ring through
// it. Duplicates are dropped so each ring appears once.
func smallestRings(m *Molecule) [][]int {
	var rings [][]int
	seen := map[string]bool{}
	for bi, b := range m.Bonds {
		path := shortestPath(m, b.A, b.B, bi)
		if path == nil {
			continue
		}
		key := ringKey(path)
		if seen[key] {
			continue
		}
		seen[key] = true
		rings = append(rings, path)
	}
	return rings
}

func ringKey(ring []int) string {
	sorted := append([]int(nil), ring...)
	sort.Ints(sorted)
	return fmt.Sprint(sorted)
}

func shortestPath(m *Molecule, from, to, skip int) []int {
	prev := make([]int, len(m.Atoms))
	for i := range prev {
		prev[i] = -2
	}
	prev[from] = -1
	queue := []int{from}
	for len(queue) > 0 {
		a := queue[0]
		queue = queue[1:]
		if a == to {
			break
		}
		for _, bi := range m.adj[a] {
			if bi == skip {
				continue
			}
			nb := m.Bonds[bi].other(a)
			if prev[nb] != -2 {
				continue
			}
			prev[nb] = a
			queue = append(queue, nb)
		}
	}
	if prev[to] == -2 {
		return nil
	}
	var path []int
	for a := to; a >= 0; a = prev[a] {
		path = append(path, a)
	}
	return path
}
