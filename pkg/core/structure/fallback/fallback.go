package fallback

import (
	"context"
	"errors"

	"github.com/scienceol/solvation/pkg/common/code"
	"github.com/scienceol/solvation/pkg/core/structure"
	"github.com/scienceol/solvation/pkg/middleware/logger"
	"github.com/scienceol/solvation/pkg/repo"
)

type resolverImpl struct {
	primary structure.Resolver
	pubchem repo.PubChemRepo
}

// New resolves descriptors with primary and, when primary cannot parse one,
// treats it as a compound name or CAS number and asks PubChem for a SMILES.
func New(primary structure.Resolver, pubchem repo.PubChemRepo) structure.Resolver {
	return &resolverImpl{
		primary: primary,
		pubchem: pubchem,
	}
}

func (r *resolverImpl) Resolve(ctx context.Context, descriptor string) (*structure.Structure, error) {
	s, err := r.primary.Resolve(ctx, descriptor)
	if err == nil || !errors.Is(err, code.InvalidStructure) {
		return s, err
	}

	info, lookupErr := r.pubchem.LookupCompound(ctx, descriptor)
	if lookupErr != nil {
		if errors.Is(lookupErr, code.UnknownSolute) {
			return nil, lookupErr
		}
		logger.Warnf(ctx, "pubchem lookup for %q failed: %+v", descriptor, lookupErr)
		return nil, err
	}

	s, err = r.primary.Resolve(ctx, info.SMILES)
	if err != nil {
		logger.Errorf(ctx, "pubchem smiles %q for %q unusable: %+v", info.SMILES, descriptor, err)
		return nil, err
	}
	logger.Debugf(ctx, "resolved %q to pubchem cid %d %s", descriptor, info.CID, info.SMILES)
	s.Input = descriptor
	return s, nil
}
