package solvation

const (
	// ReferenceTemperature is where the Abraham and Mintz lines are fitted.
	ReferenceTemperature = 298.15
	// MinTemperature is the lower end of the correlation's validity.
	MinTemperature = 280.0
	// TransitionRatio places the switch between the Harvey and
	// Japas-Levelt Sengers forms at this fraction of Tc.
	TransitionRatio = 0.75

	DefaultSweepPoints = 100
	DefaultSweepMargin = 0.01
)

type SoluteData struct {
	Name    string   `json:"name"`
	SMILES  string   `json:"smiles"`
	Aliases []string `json:"aliases,omitempty"`
	E       float64  `json:"e"`
	S       float64  `json:"s"`
	A       float64  `json:"a"`
	B       float64  `json:"b"`
	L       float64  `json:"l"`
	V       float64  `json:"v"`
}

// Coefficients are the c, e, s, a, b, l of one solvent line.
type Coefficients struct {
	C float64 `json:"c"`
	E float64 `json:"e"`
	S float64 `json:"s"`
	A float64 `json:"a"`
	B float64 `json:"b"`
	L float64 `json:"l"`
}

// Apply evaluates the line for the solute's descriptors.
func (c *Coefficients) Apply(s *SoluteData) float64 {
	return c.C + c.E*s.E + c.S*s.S + c.A*s.A + c.B*s.B + c.L*s.L
}

type SolventData struct {
	Name    string   `json:"name"`
	Aliases []string `json:"aliases,omitempty"`
	// Gibbs gives log10 of the gas to solvent partition coefficient.
	Gibbs *Coefficients `json:"gibbs,omitempty"`
	// Enthalpy gives the solvation enthalpy in kJ/mol.
	Enthalpy *Coefficients `json:"enthalpy,omitempty"`
	Tc       float64       `json:"tc"`
	Fluid    string        `json:"fluid,omitempty"`
}

// Result is one evaluated temperature point.
type Result struct {
	T          float64 `json:"t"`
	KFactor    float64 `json:"k_factor"`
	LnK        float64 `json:"ln_k"`
	FreeEnergy float64 `json:"free_energy"`
	Psat       float64 `json:"psat"`
	// LnKPsat is ln of the Henry-type constant K*Psat.
	LnKPsat float64 `json:"ln_k_psat"`
}

type EvaluateReq struct {
	Solute       string    `json:"solute"`
	Solvent      string    `json:"solvent"`
	Temperatures []float64 `json:"temperatures"`
}

type EvaluateResp struct {
	Solute  *SoluteData  `json:"solute"`
	Solvent *SolventData `json:"solvent"`
	Results []*Result    `json:"results"`
}

type SweepReq struct {
	Solute  string `json:"solute"`
	Solvent string `json:"solvent"`
	// Points and Margin default to DefaultSweepPoints and DefaultSweepMargin.
	Points int     `json:"points"`
	Margin float64 `json:"margin"`
}

// SweepResp holds aligned sequences over the temperature grid.
type SweepResp struct {
	Solute     *SoluteData  `json:"solute"`
	Solvent    *SolventData `json:"solvent"`
	T          []float64    `json:"t"`
	LnK        []float64    `json:"ln_k"`
	LnKPsat    []float64    `json:"ln_k_psat"`
	FreeEnergy []float64    `json:"free_energy"`
}

type SolventInfo struct {
	Name    string   `json:"name"`
	Aliases []string `json:"aliases,omitempty"`
	Fluid   string   `json:"fluid,omitempty"`
	Tc      float64  `json:"tc"`
	Usable  bool     `json:"usable"`
	Reason  string   `json:"reason,omitempty"`
	MinT    float64  `json:"min_t"`
	MaxT    float64  `json:"max_t"`
}
