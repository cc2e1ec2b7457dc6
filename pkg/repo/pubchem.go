package repo

import "context"

// Compound is the subset of a PubChem record needed to resolve a solute.
type Compound struct {
	CID       int64  `json:"cid"`
	Title     string `json:"title"`
	IUPACName string `json:"iupac_name"`
	Formula   string `json:"formula"`
	SMILES    string `json:"smiles"`
}

// PubChemRepo turns a compound name or CAS registry number into a structure.
type PubChemRepo interface {
	LookupCompound(ctx context.Context, query string) (*Compound, error)
}
