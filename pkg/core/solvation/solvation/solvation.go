package solvation

import (
	"context"
	"math"

	"github.com/scienceol/solvation/pkg/common/code"
	"github.com/scienceol/solvation/pkg/core/solvation"
	"github.com/scienceol/solvation/pkg/core/thermo"
	"github.com/scienceol/solvation/pkg/middleware/logger"
	"go.opentelemetry.io/otel/attribute"
	"gonum.org/v1/gonum/floats"
)

type solvationImpl struct {
	db       solvation.Database
	provider thermo.Provider
	tel      *telemetry
}

func New(db solvation.Database, provider thermo.Provider) solvation.Service {
	return &solvationImpl{
		db:       db,
		provider: provider,
		tel:      newTelemetry(),
	}
}

// usable reports why a solvent record cannot be evaluated.
func usable(solvent *solvation.SolventData) error {
	switch {
	case solvent.Gibbs == nil:
		return code.MissingData.WithMsgf("solvent %s has no free energy coefficients", solvent.Name)
	case solvent.Enthalpy == nil:
		return code.MissingData.WithMsgf("solvent %s has no enthalpy coefficients", solvent.Name)
	case !(solvent.Tc > 0):
		return code.MissingData.WithMsgf("solvent %s has no critical temperature", solvent.Name)
	case solvent.Fluid == "":
		return code.MissingData.WithMsgf("solvent %s has no property fluid", solvent.Name)
	}
	return nil
}

func checkTemperature(solvent *solvation.SolventData, T float64) error {
	if math.IsNaN(T) || T < solvation.MinTemperature || T >= solvent.Tc {
		return code.OutOfRange.WithMsgf("%g K outside [%g, %g) for %s", T, solvation.MinTemperature, solvent.Tc, solvent.Name)
	}
	return nil
}

// prepare validates the pair and temperatures before any property call.
func (s *solvationImpl) prepare(solute *solvation.SoluteData, solvent *solvation.SolventData, temps ...float64) (*correlation, error) {
	if solute == nil || solvent == nil {
		return nil, code.ParamErr.WithMsg("solute and solvent are required")
	}
	if err := usable(solvent); err != nil {
		return nil, err
	}
	for _, T := range temps {
		if err := checkTemperature(solvent, T); err != nil {
			return nil, err
		}
	}
	return fit(s.provider, solute, solvent)
}

func (s *solvationImpl) KFactor(ctx context.Context, solute *solvation.SoluteData, solvent *solvation.SolventData, T float64) (float64, error) {
	c, err := s.prepare(solute, solvent, T)
	if err != nil {
		return 0, err
	}
	lnK, err := c.lnK(T)
	if err != nil {
		return 0, err
	}
	return math.Exp(lnK), nil
}

func (s *solvationImpl) SolvationFreeEnergy(ctx context.Context, solute *solvation.SoluteData, solvent *solvation.SolventData, T float64) (float64, error) {
	c, err := s.prepare(solute, solvent, T)
	if err != nil {
		return 0, err
	}
	return c.freeEnergy(T)
}

// freeEnergy is R*T*ln(K*rho_g/rho_l).
func (c *correlation) freeEnergy(T float64) (float64, error) {
	lnK, err := c.lnK(T)
	if err != nil {
		return 0, err
	}
	ratio, err := c.lnDensityRatio(T)
	if err != nil {
		return 0, err
	}
	return thermo.R * T * (lnK - ratio), nil
}

func (c *correlation) result(T float64) (*solvation.Result, error) {
	lnK, err := c.lnK(T)
	if err != nil {
		return nil, err
	}
	ratio, err := c.lnDensityRatio(T)
	if err != nil {
		return nil, err
	}
	psat, err := c.provider.SaturationPressure(T, c.fluid)
	if err != nil {
		return nil, err
	}
	if !(psat > 0) {
		return nil, code.PropertyErr.WithMsgf("%s saturation pressure %g at %g K", c.fluid, psat, T)
	}
	return &solvation.Result{
		T:          T,
		KFactor:    math.Exp(lnK),
		LnK:        lnK,
		FreeEnergy: thermo.R * T * (lnK - ratio),
		Psat:       psat,
		LnKPsat:    lnK + math.Log(psat),
	}, nil
}

func (s *solvationImpl) lookup(ctx context.Context, solute, solvent string) (*solvation.SoluteData, *solvation.SolventData, error) {
	su, err := s.db.LookupSolute(ctx, solute)
	if err != nil {
		logger.Errorf(ctx, "lookup solute %q err: %+v", solute, err)
		return nil, nil, err
	}
	sv, err := s.db.LookupSolvent(ctx, solvent)
	if err != nil {
		logger.Errorf(ctx, "lookup solvent %q err: %+v", solvent, err)
		return nil, nil, err
	}
	return su, sv, nil
}

func (s *solvationImpl) Evaluate(ctx context.Context, req *solvation.EvaluateReq) (*solvation.EvaluateResp, error) {
	if req == nil || len(req.Temperatures) == 0 {
		return nil, code.ParamErr.WithMsg("at least one temperature is required")
	}
	ctx, done := s.tel.start(ctx, "evaluate", pairAttrs(req.Solute, req.Solvent)...)
	resp, err := s.evaluate(ctx, req)
	done(len(req.Temperatures), err)
	return resp, err
}

func pairAttrs(solute, solvent string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("solute", solute),
		attribute.String("solvent", solvent),
	}
}

func (s *solvationImpl) evaluate(ctx context.Context, req *solvation.EvaluateReq) (*solvation.EvaluateResp, error) {
	solute, solvent, err := s.lookup(ctx, req.Solute, req.Solvent)
	if err != nil {
		return nil, err
	}
	c, err := s.prepare(solute, solvent, req.Temperatures...)
	if err != nil {
		return nil, err
	}

	results := make([]*solvation.Result, 0, len(req.Temperatures))
	for _, T := range req.Temperatures {
		r, err := c.result(T)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	logger.Debugf(ctx, "evaluated %s in %s at %d temperatures", solute.Name, solvent.Name, len(results))
	return &solvation.EvaluateResp{
		Solute:  solute,
		Solvent: solvent,
		Results: results,
	}, nil
}

func (s *solvationImpl) Sweep(ctx context.Context, req *solvation.SweepReq) (*solvation.SweepResp, error) {
	if req == nil {
		return nil, code.ParamErr.WithMsg("empty sweep request")
	}
	points, margin := req.Points, req.Margin
	if points == 0 {
		points = solvation.DefaultSweepPoints
	}
	if margin == 0 {
		margin = solvation.DefaultSweepMargin
	}
	if points < 2 || margin < 0 {
		return nil, code.ParamErr.WithMsgf("sweep needs at least 2 points and a positive margin, got %d and %g", points, margin)
	}
	ctx, done := s.tel.start(ctx, "sweep", pairAttrs(req.Solute, req.Solvent)...)
	resp, err := s.sweep(ctx, req.Solute, req.Solvent, points, margin)
	done(points, err)
	return resp, err
}

func (s *solvationImpl) sweep(ctx context.Context, soluteName, solventName string, points int, margin float64) (*solvation.SweepResp, error) {
	solute, solvent, err := s.lookup(ctx, soluteName, solventName)
	if err != nil {
		return nil, err
	}
	if err := usable(solvent); err != nil {
		return nil, err
	}
	hi := solvent.Tc - margin
	if hi <= solvation.MinTemperature {
		return nil, code.OutOfRange.WithMsgf("%s has no temperature window above %g K", solvent.Name, solvation.MinTemperature)
	}
	grid := floats.Span(make([]float64, points), solvation.MinTemperature, hi)

	c, err := s.prepare(solute, solvent, grid...)
	if err != nil {
		return nil, err
	}
	resp := &solvation.SweepResp{
		Solute:     solute,
		Solvent:    solvent,
		T:          grid,
		LnK:        make([]float64, points),
		LnKPsat:    make([]float64, points),
		FreeEnergy: make([]float64, points),
	}
	for i, T := range grid {
		r, err := c.result(T)
		if err != nil {
			return nil, err
		}
		resp.LnK[i], resp.LnKPsat[i], resp.FreeEnergy[i] = r.LnK, r.LnKPsat, r.FreeEnergy
	}
	logger.Infof(ctx, "swept %s in %s over %d points %.2f-%.2f K", solute.Name, solvent.Name, points, grid[0], grid[points-1])
	return resp, nil
}

func (s *solvationImpl) Catalog(ctx context.Context) []*solvation.SolventInfo {
	solvents := s.db.Solvents(ctx)
	out := make([]*solvation.SolventInfo, 0, len(solvents))
	for _, sv := range solvents {
		info := &solvation.SolventInfo{
			Name:    sv.Name,
			Aliases: sv.Aliases,
			Fluid:   sv.Fluid,
			Tc:      sv.Tc,
			Usable:  true,
		}
		if err := s.check(sv); err != nil {
			info.Usable, info.Reason = false, err.Error()
		} else {
			info.MinT, info.MaxT = solvation.MinTemperature, sv.Tc
		}
		out = append(out, info)
	}
	return out
}

// check confirms the record is complete and the property fluid exists.
func (s *solvationImpl) check(solvent *solvation.SolventData) error {
	if err := usable(solvent); err != nil {
		return err
	}
	if _, err := s.provider.CriticalPoint(solvent.Fluid); err != nil {
		return err
	}
	return nil
}
