package smiles

import (
	"encoding/binary"
	"fmt"
	"hash/fnv"
	"sort"
	"strconv"
	"strings"
)

// Formula renders the molecular formula in Hill order with the net charge
// appended, e.g. C3H8O or C2H3O2-.
func Formula(m *Molecule) string {
	counts := map[string]int{}
	charge := 0
	for _, a := range m.Atoms {
		counts[a.Symbol]++
		counts["H"] += a.HCount
		charge += a.Charge
	}
	if counts["H"] == 0 {
		delete(counts, "H")
	}

	var order []string
	if _, ok := counts["C"]; ok {
		order = append(order, "C")
		if _, ok := counts["H"]; ok {
			order = append(order, "H")
		}
	}
	var rest []string
	for sym := range counts {
		if len(order) > 0 && (sym == "C" || sym == "H") {
			continue
		}
		rest = append(rest, sym)
	}
	sort.Strings(rest)
	order = append(order, rest...)

	var sb strings.Builder
	for _, sym := range order {
		sb.WriteString(sym)
		if n := counts[sym]; n > 1 {
			sb.WriteString(strconv.Itoa(n))
		}
	}
	switch {
	case charge == 1:
		sb.WriteByte('+')
	case charge == -1:
		sb.WriteByte('-')
	case charge > 1:
		fmt.Fprintf(&sb, "%d+", charge)
	case charge < -1:
		fmt.Fprintf(&sb, "%d-", -charge)
	}
	return sb.String()
}

// Key is an order-independent identifier of the molecular graph. Atoms are
// given a canonical numbering by colour refinement plus individualization,
// and the adjacency written in that numbering is hashed. Two molecules share
// a key only if their graphs, including atom and bond labels, are isomorphic.
func Key(m *Molecule) string {
	labels := make([]string, len(m.Atoms))
	for i, a := range m.Atoms {
		labels[i] = fmt.Sprintf("%s|%t|%d|%d|%d", a.Symbol, a.Aromatic, a.Charge, a.HCount, a.Isotope)
	}
	table := append([]string(nil), labels...)
	sort.Strings(table)
	table = compactStrings(table)

	colors := make([]int, len(m.Atoms))
	for i, l := range labels {
		colors[i] = sort.SearchStrings(table, l)
	}

	c := &canonizer{mol: m, atomLabel: colors}
	c.search(c.refine(colors))

	h := fnv.New128a()
	for _, l := range table {
		h.Write([]byte(l))
		h.Write([]byte{0})
	}
	var buf [8]byte
	for _, v := range c.best {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		h.Write(buf[:])
	}
	return fmt.Sprintf("%s/%x", Formula(m), h.Sum(nil))
}

type canonizer struct {
	mol *Molecule
	// atomLabel ranks each atom's invariant among the distinct invariants.
	atomLabel []int
	best      []int
}

type signature struct {
	atom int
	key  []int
}

// refine splits colour classes by neighbourhood until the partition is
// equitable. Colours are ranks of sorted signatures, so they do not depend on
// the input atom order.
func (c *canonizer) refine(colors []int) []int {
	m := c.mol
	classes := countDistinct(colors)
	for {
		sigs := make([]signature, len(colors))
		for i := range colors {
			nbs := make([]int, 0, 2*len(m.adj[i]))
			pairs := make([][2]int, 0, len(m.adj[i]))
			for _, bi := range m.adj[i] {
				b := m.Bonds[bi]
				pairs = append(pairs, [2]int{colors[b.other(i)], int(b.Order)})
			}
			sort.Slice(pairs, func(x, y int) bool {
				if pairs[x][0] != pairs[y][0] {
					return pairs[x][0] < pairs[y][0]
				}
				return pairs[x][1] < pairs[y][1]
			})
			for _, p := range pairs {
				nbs = append(nbs, p[0], p[1])
			}
			sigs[i] = signature{atom: i, key: append([]int{colors[i]}, nbs...)}
		}
		sort.SliceStable(sigs, func(x, y int) bool { return compareInts(sigs[x].key, sigs[y].key) < 0 })

		next := make([]int, len(colors))
		rank := 0
		for k, sg := range sigs {
			if k > 0 && compareInts(sigs[k-1].key, sg.key) != 0 {
				rank = k
			}
			next[sg.atom] = rank
		}
		n := countDistinct(next)
		colors = next
		if n == classes {
			return colors
		}
		classes = n
	}
}

// search individualizes each atom of the first smallest non-singleton class
// in turn and keeps the smallest certificate over all leaves.
func (c *canonizer) search(colors []int) {
	cell := targetCell(colors)
	if cell < 0 {
		cert := c.certificate(colors)
		if c.best == nil || compareInts(cert, c.best) < 0 {
			c.best = cert
		}
		return
	}
	for v, col := range colors {
		if col != cell {
			continue
		}
		split := make([]int, len(colors))
		for i, x := range colors {
			split[i] = 2*x + 1
		}
		split[v] = 2 * col
		c.search(c.refine(split))
	}
}

// targetCell returns the colour of the smallest class with more than one
// atom, the lowest such colour on ties, or -1 when every class is a singleton.
func targetCell(colors []int) int {
	size := map[int]int{}
	for _, x := range colors {
		size[x]++
	}
	cell, best := -1, 0
	for col, n := range size {
		if n < 2 {
			continue
		}
		if cell < 0 || n < best || (n == best && col < cell) {
			cell, best = col, n
		}
	}
	return cell
}

// certificate writes the graph in the numbering given by a discrete colouring:
// atom count, atom labels by position, then sorted (i, j, order) bond triples.
func (c *canonizer) certificate(colors []int) []int {
	m := c.mol
	n := len(m.Atoms)
	pos := make([]int, n)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(x, y int) bool { return colors[order[x]] < colors[order[y]] })
	for p, a := range order {
		pos[a] = p
	}

	cert := make([]int, 0, 1+n+3*len(m.Bonds))
	cert = append(cert, n)
	for _, a := range order {
		cert = append(cert, c.atomLabel[a])
	}
	bonds := make([][3]int, 0, len(m.Bonds))
	for _, b := range m.Bonds {
		i, j := pos[b.A], pos[b.B]
		if i > j {
			i, j = j, i
		}
		bonds = append(bonds, [3]int{i, j, int(b.Order)})
	}
	sort.Slice(bonds, func(x, y int) bool {
		return compareInts(bonds[x][:], bonds[y][:]) < 0
	})
	for _, b := range bonds {
		cert = append(cert, b[0], b[1], b[2])
	}
	return cert
}

func compareInts(a, b []int) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	return len(a) - len(b)
}

func countDistinct(vs []int) int {
	set := make(map[int]struct{}, len(vs))
	for _, v := range vs {
		set[v] = struct{}{}
	}
	return len(set)
}

func compactStrings(ss []string) []string {
	out := ss[:0]
	for i, s := range ss {
		if i == 0 || s != ss[i-1] {
			out = append(out, s)
		}
	}
	return out
}
