package smiles

import (
	"context"
	"strings"

	"github.com/scienceol/solvation/pkg/core/structure"
)

type resolverImpl struct{}

// New returns a resolver that accepts SMILES descriptors only.
func New() structure.Resolver {
	return &resolverImpl{}
}

func (r *resolverImpl) Resolve(_ context.Context, descriptor string) (*structure.Structure, error) {
	m, err := Parse(descriptor)
	if err != nil {
		return nil, err
	}
	keys, err := ResonanceKeys(m)
	if err != nil {
		return nil, err
	}
	return &structure.Structure{
		Input:   descriptor,
		SMILES:  strings.TrimSpace(descriptor),
		Formula: Formula(m),
		Keys:    keys,
	}, nil
}

// ResonanceKeys returns the key of the aromatic hybrid first, followed by
// the keys of each distinct Kekule form. Aromatic and Kekule spellings of
// the same ring system therefore share their first key.
func ResonanceKeys(m *Molecule) ([]string, error) {
	forms, err := Kekulize(m)
	if err != nil {
		return nil, err
	}
	hybrid := Aromatize(forms[0])
	forms, err = Kekulize(hybrid)
	if err != nil {
		return nil, err
	}

	keys := []string{Key(hybrid)}
	seen := map[string]bool{keys[0]: true}
	for _, f := range forms {
		k := Key(f)
		if seen[k] {
			continue
		}
		seen[k] = true
		keys = append(keys, k)
	}
	return keys, nil
}
