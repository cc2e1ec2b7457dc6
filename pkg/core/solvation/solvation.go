package solvation

import "context"

// Database is the read-only parameter store. Returned records are copies.
type Database interface {
	LookupSolute(ctx context.Context, descriptor string) (*SoluteData, error)
	LookupSolvent(ctx context.Context, name string) (*SolventData, error)
	Solvents(ctx context.Context) []*SolventData
}

type Service interface {
	KFactor(ctx context.Context, solute *SoluteData, solvent *SolventData, T float64) (float64, error)
	// SolvationFreeEnergy is in J/mol.
	SolvationFreeEnergy(ctx context.Context, solute *SoluteData, solvent *SolventData, T float64) (float64, error)

	Evaluate(ctx context.Context, req *EvaluateReq) (*EvaluateResp, error)
	Sweep(ctx context.Context, req *SweepReq) (*SweepResp, error)
	Catalog(ctx context.Context) []*SolventInfo
}
