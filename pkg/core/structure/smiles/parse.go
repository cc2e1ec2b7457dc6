package smiles

import (
	"strings"

	"github.com/scienceol/solvation/pkg/common/code"
)

type ringBond struct {
	atom  int
	order BondOrder
	set   bool
}

type parser struct {
	src   string
	pos   int
	mol   *Molecule
	prev  int
	stack []int
	rings map[int]ringBond
	// pending bond symbol, zero when none was written
	order BondOrder
}

// Parse reads a SMILES string into a hydrogen-suppressed molecular graph
// with implicit hydrogens assigned. Stereo marks are accepted and dropped.
func Parse(s string) (*Molecule, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, code.InvalidStructure.WithMsg("empty smiles")
	}
	p := &parser{
		src:   s,
		mol:   &Molecule{},
		prev:  -1,
		rings: map[int]ringBond{},
	}
	if err := p.run(); err != nil {
		return nil, err
	}
	m := foldHydrogens(p.mol)
	assignImplicitHydrogens(m)
	return m, nil
}

func (p *parser) errorf(format string, args ...any) error {
	return code.InvalidStructure.WithMsgf("smiles %q at %d: "+format, append([]any{p.src, p.pos}, args...)...)
}

func (p *parser) run() error {
	for p.pos < len(p.src) {
		c := p.src[p.pos]
		switch {
		case c == '(':
			if p.prev < 0 {
				return p.errorf("branch without atom")
			}
			p.stack = append(p.stack, p.prev)
			p.pos++
		case c == ')':
			if len(p.stack) == 0 {
				return p.errorf("unbalanced ')'")
			}
			if p.order != 0 {
				return p.errorf("bond before ')'")
			}
			p.prev = p.stack[len(p.stack)-1]
			p.stack = p.stack[:len(p.stack)-1]
			p.pos++
		case c == '.':
			if p.order != 0 || p.prev < 0 {
				return p.errorf("misplaced '.'")
			}
			p.prev = -1
			p.pos++
		case strings.IndexByte("-=#$:/\\", c) >= 0:
			if p.order != 0 {
				return p.errorf("consecutive bonds")
			}
			p.order = bondSymbol(c)
			p.pos++
		case c >= '0' && c <= '9' || c == '%':
			if err := p.ringClosure(); err != nil {
				return err
			}
		case c == '[':
			a, err := p.bracketAtom()
			if err != nil {
				return err
			}
			p.attach(a)
		default:
			a, err := p.organicAtom()
			if err != nil {
				return err
			}
			p.attach(a)
		}
	}
	if len(p.stack) > 0 {
		return p.errorf("unclosed branch")
	}
	if len(p.rings) > 0 {
		return p.errorf("unclosed ring")
	}
	if p.order != 0 {
		return p.errorf("dangling bond")
	}
	if p.prev < 0 {
		return p.errorf("misplaced '.'")
	}
	return nil
}

func bondSymbol(c byte) BondOrder {
	switch c {
	case '=':
		return Double
	case '#':
		return Triple
	case '$':
		return Quadruple
	case ':':
		return Aromatic
	default:
		// '-', '/' and '\' are all single bonds once stereo is dropped
		return Single
	}
}

func (p *parser) defaultOrder(a, b int) BondOrder {
	if p.mol.Atoms[a].Aromatic && p.mol.Atoms[b].Aromatic {
		return Aromatic
	}
	return Single
}

func (p *parser) attach(a Atom) {
	idx := p.mol.addAtom(a)
	if p.prev >= 0 {
		order := p.order
		if order == 0 {
			order = p.defaultOrder(p.prev, idx)
		}
		p.mol.addBond(p.prev, idx, order)
	}
	p.order = 0
	p.prev = idx
}

func (p *parser) ringClosure() error {
	if p.prev < 0 {
		return p.errorf("ring closure without atom")
	}
	var num int
	if p.src[p.pos] == '%' {
		if p.pos+2 >= len(p.src) || !isDigit(p.src[p.pos+1]) || !isDigit(p.src[p.pos+2]) {
			return p.errorf("bad ring number")
		}
		num = int(p.src[p.pos+1]-'0')*10 + int(p.src[p.pos+2]-'0')
		p.pos += 3
	} else {
		num = int(p.src[p.pos] - '0')
		p.pos++
	}

	open, ok := p.rings[num]
	if !ok {
		p.rings[num] = ringBond{atom: p.prev, order: p.order, set: p.order != 0}
		p.order = 0
		return nil
	}
	delete(p.rings, num)
	if open.atom == p.prev {
		return p.errorf("ring %d closes on itself", num)
	}
	order := p.order
	switch {
	case order != 0 && open.set && order != open.order:
		return p.errorf("conflicting bonds on ring %d", num)
	case order == 0 && open.set:
		order = open.order
	case order == 0:
		order = p.defaultOrder(open.atom, p.prev)
	}
	if p.mol.bondBetween(open.atom, p.prev) >= 0 {
		return p.errorf("ring %d duplicates a bond", num)
	}
	p.mol.addBond(open.atom, p.prev, order)
	p.order = 0
	return nil
}

var organic = map[string]bool{
	"B": true, "C": true, "N": true, "O": true, "P": true, "S": true,
	"F": true, "Cl": true, "Br": true, "I": true,
}

var aromaticOrganic = map[string]bool{
	"b": true, "c": true, "n": true, "o": true, "p": true, "s": true,
}

func (p *parser) organicAtom() (Atom, error) {
	rest := p.src[p.pos:]
	for _, two := range []string{"Cl", "Br"} {
		if strings.HasPrefix(rest, two) {
			p.pos += 2
			return Atom{Symbol: two}, nil
		}
	}
	one := rest[:1]
	switch {
	case organic[one]:
		p.pos++
		return Atom{Symbol: one}, nil
	case aromaticOrganic[one]:
		p.pos++
		return Atom{Symbol: strings.ToUpper(one), Aromatic: true}, nil
	case one == "*":
		return Atom{}, p.errorf("wildcard atoms are not supported")
	}
	return Atom{}, p.errorf("unexpected %q", one)
}

// elements accepted inside brackets beyond the organic subset
var bracketElements = map[string]bool{
	"H": true, "He": true, "Li": true, "Be": true, "Na": true, "Mg": true,
	"Al": true, "Si": true, "K": true, "Ca": true, "Fe": true, "Cu": true,
	"Zn": true, "Ge": true, "As": true, "Se": true, "Sn": true, "Te": true,
	"Xe": true, "Ar": true, "Ne": true, "Kr": true, "Hg": true, "Pt": true,
}

var bracketAromatic = map[string]string{
	"b": "B", "c": "C", "n": "N", "o": "O", "p": "P", "s": "S",
	"se": "Se", "as": "As", "te": "Te",
}

func (p *parser) bracketAtom() (Atom, error) {
	end := strings.IndexByte(p.src[p.pos:], ']')
	if end < 0 {
		return Atom{}, p.errorf("unclosed '['")
	}
	body := p.src[p.pos+1 : p.pos+end]
	start := p.pos
	p.pos += end + 1

	a := Atom{bracket: true}
	i, ok := 0, true
	bad := func(what string) (Atom, error) {
		p.pos = start
		return Atom{}, p.errorf("%s out of range in [%s]", what, body)
	}
	if a.Isotope, i, ok = number(body, i); !ok {
		return bad("isotope")
	}

	sym, aromatic, n := bracketSymbol(body[i:])
	if n == 0 {
		p.pos = start
		return Atom{}, p.errorf("bad bracket atom [%s]", body)
	}
	a.Symbol, a.Aromatic = sym, aromatic
	i += n

	for i < len(body) && body[i] == '@' {
		i++
	}

	if i < len(body) && body[i] == 'H' {
		i++
		a.HCount = 1
		if i < len(body) && isDigit(body[i]) {
			if a.HCount, i, ok = number(body, i); !ok {
				return bad("hydrogen count")
			}
		}
	}

	if i < len(body) && (body[i] == '+' || body[i] == '-') {
		sign := 1
		if body[i] == '-' {
			sign = -1
		}
		ch := body[i]
		i++
		mag := 1
		if i < len(body) && isDigit(body[i]) {
			if mag, i, ok = number(body, i); !ok {
				return bad("charge")
			}
		} else {
			for i < len(body) && body[i] == ch {
				mag++
				i++
			}
		}
		if mag > maxCharge {
			return bad("charge")
		}
		a.Charge = sign * mag
	}

	// atom class
	if i < len(body) && body[i] == ':' {
		i++
		for i < len(body) && isDigit(body[i]) {
			i++
		}
	}
	if i != len(body) {
		p.pos = start
		return Atom{}, p.errorf("bad bracket atom [%s]", body)
	}
	return a, nil
}

func bracketSymbol(s string) (string, bool, int) {
	if len(s) >= 2 {
		if sym, ok := bracketAromatic[s[:2]]; ok {
			return sym, true, 2
		}
		if organic[s[:2]] || bracketElements[s[:2]] {
			return s[:2], false, 2
		}
	}
	if len(s) >= 1 {
		if sym, ok := bracketAromatic[s[:1]]; ok {
			return sym, true, 1
		}
		if organic[s[:1]] || bracketElements[s[:1]] {
			return s[:1], false, 1
		}
	}
	return "", false, 0
}

const (
	maxBracketDigits = 3
	maxCharge        = 15
)

// number reads a run of at most maxBracketDigits decimal digits at i.
func number(s string, i int) (int, int, bool) {
	v, n := 0, 0
	for i < len(s) && isDigit(s[i]) {
		if n == maxBracketDigits {
			return 0, i, false
		}
		v = v*10 + int(s[i]-'0')
		i++
		n++
	}
	return v, i, true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// foldHydrogens turns explicit neutral [H] atoms bonded to one heavy atom
// into hydrogen counts on that atom.
func foldHydrogens(m *Molecule) *Molecule {
	remove := make([]bool, len(m.Atoms))
	var folded bool
	for i, a := range m.Atoms {
		if a.Symbol != "H" || a.Charge != 0 || a.Isotope != 0 || a.HCount != 0 || len(m.adj[i]) != 1 {
			continue
		}
		b := m.Bonds[m.adj[i][0]]
		if b.Order != Single {
			continue
		}
		nb := b.other(i)
		if m.Atoms[nb].Symbol == "H" {
			// H2 keeps both atoms
			continue
		}
		remove[i] = true
		m.Atoms[nb].HCount++
		folded = true
	}
	if !folded {
		return m
	}

	index := make([]int, len(m.Atoms))
	out := &Molecule{}
	for i, a := range m.Atoms {
		if remove[i] {
			index[i] = -1
			continue
		}
		index[i] = len(out.Atoms)
		out.Atoms = append(out.Atoms, a)
	}
	for _, b := range m.Bonds {
		if index[b.A] < 0 || index[b.B] < 0 {
			continue
		}
		out.Bonds = append(out.Bonds, Bond{A: index[b.A], B: index[b.B], Order: b.Order})
	}
	out.rebuildAdjacency()
	return out
}

// assignImplicitHydrogens fills HCount for atoms written without brackets
// from the lowest normal valence that accommodates their bonds.
func assignImplicitHydrogens(m *Molecule) {
	for i := range m.Atoms {
		a := &m.Atoms[i]
		if a.bracket {
			continue
		}
		used := m.bondValence(i) + a.HCount
		if a.Aromatic {
			used++
		}
		for _, v := range normalValences[a.Symbol] {
			if v >= used {
				a.HCount += v - used
				break
			}
		}
	}
}
