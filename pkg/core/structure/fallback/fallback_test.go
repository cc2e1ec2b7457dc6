package fallback

import (
	"context"
	"errors"
	"testing"

	"github.com/scienceol/solvation/pkg/common/code"
	"github.com/scienceol/solvation/pkg/core/structure/smiles"
	"github.com/scienceol/solvation/pkg/repo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPubChem struct {
	compounds map[string]string
	err       error
	calls     int
}

func (s *stubPubChem) LookupCompound(_ context.Context, name string) (*repo.Compound, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	smi, ok := s.compounds[name]
	if !ok {
		return nil, code.UnknownSolute.WithMsgf("no compound %q", name)
	}
	return &repo.Compound{Title: name, SMILES: smi}, nil
}

func TestResolveByName(t *testing.T) {
	ctx := context.Background()
	stub := &stubPubChem{compounds: map[string]string{
		"67-63-0": "CC(C)O",
		"broken":  "C(C",
	}}
	r := New(smiles.New(), stub)

	direct, err := r.Resolve(ctx, "OC(C)C")
	require.NoError(t, err)
	assert.Equal(t, 0, stub.calls)

	byCAS, err := r.Resolve(ctx, "67-63-0")
	require.NoError(t, err)
	assert.Equal(t, 1, stub.calls)
	assert.Equal(t, "67-63-0", byCAS.Input)
	assert.Equal(t, "C3H8O", byCAS.Formula)
	assert.Equal(t, direct.Keys, byCAS.Keys)

	_, err = r.Resolve(ctx, "unobtainium")
	assert.True(t, errors.Is(err, code.UnknownSolute))

	_, err = r.Resolve(ctx, "broken")
	assert.True(t, errors.Is(err, code.InvalidStructure))
}

func TestResolveKeepsParseErrorWhenLookupFails(t *testing.T) {
	stub := &stubPubChem{err: code.RPCHttpErr.WithMsg("connection refused")}
	r := New(smiles.New(), stub)

	_, err := r.Resolve(context.Background(), "isopropanol")
	assert.True(t, errors.Is(err, code.InvalidStructure))
	assert.Equal(t, 1, stub.calls)
}
