package database

import (
	"context"
	"strings"

	"github.com/scienceol/solvation/pkg/common/code"
	"github.com/scienceol/solvation/pkg/core/solvation"
	"github.com/scienceol/solvation/pkg/core/structure"
	"github.com/scienceol/solvation/pkg/middleware/logger"
	"github.com/scienceol/solvation/pkg/repo"
	"github.com/scienceol/solvation/pkg/repo/model"
)

type databaseImpl struct {
	resolver structure.Resolver

	// structure key -> solute
	byKey map[string]*solvation.SoluteData
	// lowercase name or alias -> solute
	soluteNames map[string]*solvation.SoluteData
	// lowercase name or alias -> solvent
	solventNames map[string]*solvation.SolventData
	solvents     []*solvation.SolventData
}

// New loads every solute and solvent from src once. Each solute is indexed
// under all resonance keys of its SMILES.
func New(ctx context.Context, src repo.ParameterRepo, resolver structure.Resolver) (solvation.Database, error) {
	solutes, err := src.GetSolutes(ctx)
	if err != nil {
		return nil, err
	}
	solvents, err := src.GetSolvents(ctx)
	if err != nil {
		return nil, err
	}

	d := &databaseImpl{
		resolver:     resolver,
		byKey:        make(map[string]*solvation.SoluteData, len(solutes)),
		soluteNames:  make(map[string]*solvation.SoluteData, len(solutes)),
		solventNames: make(map[string]*solvation.SolventData, len(solvents)),
	}
	for _, s := range solutes {
		if err := d.addSolute(ctx, s); err != nil {
			return nil, err
		}
	}
	for _, s := range solvents {
		if err := d.addSolvent(s); err != nil {
			return nil, err
		}
	}
	logger.Infof(ctx, "parameter store loaded %d solutes %d solvents", len(solutes), len(d.solvents))
	return d, nil
}

func (d *databaseImpl) addSolute(ctx context.Context, s *model.Solute) error {
	st, err := d.resolver.Resolve(ctx, s.SMILES)
	if err != nil {
		return code.LoadDatasetErr.WithMsgf("solute %s: %v", s.Name, err)
	}
	data := &solvation.SoluteData{
		Name:    s.Name,
		SMILES:  s.SMILES,
		Aliases: append([]string(nil), s.Aliases...),
		E:       s.E,
		S:       s.S,
		A:       s.A,
		B:       s.B,
		L:       s.L,
		V:       s.V,
	}
	for _, k := range st.Keys {
		if prev, ok := d.byKey[k]; ok {
			logger.Warnf(ctx, "solute %s shares structure key %s with %s, keeping %s", s.Name, k, prev.Name, prev.Name)
			continue
		}
		d.byKey[k] = data
	}
	for _, n := range append([]string{s.Name}, s.Aliases...) {
		n = normalize(n)
		if n == "" {
			continue
		}
		if _, ok := d.soluteNames[n]; !ok {
			d.soluteNames[n] = data
		}
	}
	return nil
}

func (d *databaseImpl) addSolvent(s *model.Solvent) error {
	data := &solvation.SolventData{
		Name:     s.Name,
		Aliases:  append([]string(nil), s.Aliases...),
		Gibbs:    coefficients(s.Gibbs),
		Enthalpy: coefficients(s.Enthalpy),
		Tc:       s.Tc,
		Fluid:    s.Fluid,
	}
	for _, n := range append([]string{s.Name}, s.Aliases...) {
		n = normalize(n)
		if n == "" {
			continue
		}
		if prev, ok := d.solventNames[n]; ok {
			return code.LoadDatasetErr.WithMsgf("solvent name %q used by %s and %s", n, prev.Name, s.Name)
		}
		d.solventNames[n] = data
	}
	d.solvents = append(d.solvents, data)
	return nil
}

func coefficients(a *model.Abraham) *solvation.Coefficients {
	if a == nil {
		return nil
	}
	return &solvation.Coefficients{C: a.C, E: a.E, S: a.S, A: a.A, B: a.B, L: a.L}
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// LookupSolute matches a stored name or alias first, then the resonance
// keys of the descriptor.
func (d *databaseImpl) LookupSolute(ctx context.Context, descriptor string) (*solvation.SoluteData, error) {
	if s, ok := d.soluteNames[normalize(descriptor)]; ok {
		return cloneSolute(s), nil
	}
	st, err := d.resolver.Resolve(ctx, descriptor)
	if err != nil {
		return nil, err
	}
	for _, k := range st.Keys {
		if s, ok := d.byKey[k]; ok {
			return cloneSolute(s), nil
		}
	}
	return nil, code.UnknownSolute.WithMsgf("%q (%s)", descriptor, st.Formula)
}

func (d *databaseImpl) LookupSolvent(_ context.Context, name string) (*solvation.SolventData, error) {
	s, ok := d.solventNames[normalize(name)]
	if !ok {
		return nil, code.UnknownSolvent.WithMsgf("%q", name)
	}
	return cloneSolvent(s), nil
}

func (d *databaseImpl) Solvents(_ context.Context) []*solvation.SolventData {
	out := make([]*solvation.SolventData, 0, len(d.solvents))
	for _, s := range d.solvents {
		out = append(out, cloneSolvent(s))
	}
	return out
}

func cloneSolute(s *solvation.SoluteData) *solvation.SoluteData {
	c := *s
	c.Aliases = append([]string(nil), s.Aliases...)
	return &c
}

func cloneSolvent(s *solvation.SolventData) *solvation.SolventData {
	c := *s
	c.Aliases = append([]string(nil), s.Aliases...)
	if s.Gibbs != nil {
		g := *s.Gibbs
		c.Gibbs = &g
	}
	if s.Enthalpy != nil {
		h := *s.Enthalpy
		c.Enthalpy = &h
	}
	return &c
}
