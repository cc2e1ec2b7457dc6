package thermo

// R is the molar gas constant in J/(mol K).
const R = 8.314462618

type CriticalPoint struct {
	T        float64 // K
	P        float64 // Pa
	RhoMolar float64 // mol/m^3
}

// Provider returns pure-solvent saturation properties. Temperatures are in K,
// pressures in Pa and densities are molar, mol/m^3. Temperatures at or above
// the fluid's critical point fail with code.OutOfRange and unknown fluids with
// code.MissingData.
type Provider interface {
	CriticalPoint(fluid string) (CriticalPoint, error)
	SaturationPressure(T float64, fluid string) (float64, error)
	SaturatedLiquidDensity(T float64, fluid string) (float64, error)
	SaturatedVaporDensity(T float64, fluid string) (float64, error)
}
