package structure

import "context"

// Structure is a parsed structure descriptor together with the canonical
// keys of all its resonance representations. Two descriptors name the same
// species when their key sets intersect.
type Structure struct {
	Input   string   `json:"input"`
	SMILES  string   `json:"smiles"`
	Formula string   `json:"formula"`
	Keys    []string `json:"keys"`
}

type Resolver interface {
	Resolve(ctx context.Context, descriptor string) (*Structure, error)
}
