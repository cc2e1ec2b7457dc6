package smiles

type BondOrder int

const (
	Single    BondOrder = 1
	Double    BondOrder = 2
	Triple    BondOrder = 3
	Quadruple BondOrder = 4
	Aromatic  BondOrder = 5
)

// valence contributes aromatic bonds as one; the shared pi electron is
// accounted for separately.
func (o BondOrder) valence() int {
	if o == Aromatic {
		return 1
	}
	return int(o)
}

type Atom struct {
	Symbol   string
	Aromatic bool
	Charge   int
	Isotope  int
	// HCount is the total number of attached hydrogens.
	HCount  int
	bracket bool
}

type Bond struct {
	A, B  int
	Order BondOrder
}

func (b Bond) other(i int) int {
	if b.A == i {
		return b.B
	}
	return b.A
}

type Molecule struct {
	Atoms []Atom
	Bonds []Bond
	// adj[i] lists indices into Bonds.
	adj [][]int
}

func (m *Molecule) addAtom(a Atom) int {
	m.Atoms = append(m.Atoms, a)
	m.adj = append(m.adj, nil)
	return len(m.Atoms) - 1
}

func (m *Molecule) addBond(a, b int, order BondOrder) {
	m.Bonds = append(m.Bonds, Bond{A: a, B: b, Order: order})
	idx := len(m.Bonds) - 1
	m.adj[a] = append(m.adj[a], idx)
	m.adj[b] = append(m.adj[b], idx)
}

func (m *Molecule) bondBetween(a, b int) int {
	for _, bi := range m.adj[a] {
		if m.Bonds[bi].other(a) == b {
			return bi
		}
	}
	return -1
}

func (m *Molecule) bondValence(i int) int {
	var v int
	for _, bi := range m.adj[i] {
		v += m.Bonds[bi].Order.valence()
	}
	return v
}

func (m *Molecule) clone() *Molecule {
	out := &Molecule{
		Atoms: make([]Atom, len(m.Atoms)),
		Bonds: make([]Bond, len(m.Bonds)),
		adj:   make([][]int, len(m.adj)),
	}
	copy(out.Atoms, m.Atoms)
	copy(out.Bonds, m.Bonds)
	for i, a := range m.adj {
		out.adj[i] = append([]int(nil), a...)
	}
	return out
}

func (m *Molecule) rebuildAdjacency() {
	m.adj = make([][]int, len(m.Atoms))
	for i, b := range m.Bonds {
		m.adj[b.A] = append(m.adj[b.A], i)
		m.adj[b.B] = append(m.adj[b.B], i)
	}
}

var normalValences = map[string][]int{
	"B":  {3},
	"C":  {4},
	"N":  {3, 5},
	"O":  {2},
	"P":  {3, 5},
	"S":  {2, 4, 6},
	"F":  {1},
	"Cl": {1},
	"Br": {1},
	"I":  {1},
}

// chargedValence is the valence of a charged atom: N+ behaves like C, O- like F.
func chargedValence(symbol string, charge int) (int, bool) {
	vals, ok := normalValences[symbol]
	if !ok {
		return 0, false
	}
	v := vals[0]
	switch symbol {
	case "B", "C":
		v -= abs(charge)
	default:
		v += charge
	}
	if v < 0 {
		v = 0
	}
	return v, true
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
