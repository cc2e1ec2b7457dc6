package model

import (
	"gorm.io/datatypes"
)

// Solute holds the Abraham descriptors of one species.
type Solute struct {
	BaseModel
	Name    string                      `gorm:"not null;index" json:"name" yaml:"name"`
	SMILES  string                      `gorm:"not null;uniqueIndex" json:"smiles" yaml:"smiles"`
	Aliases datatypes.JSONSlice[string] `json:"aliases" yaml:"aliases,omitempty"`
	E       float64                     `json:"e" yaml:"E"`
	S       float64                     `json:"s" yaml:"S"`
	A       float64                     `json:"a" yaml:"A"`
	B       float64                     `json:"b" yaml:"B"`
	L       float64                     `json:"l" yaml:"L"`
	V       float64                     `json:"v" yaml:"V"`
}

// Abraham is one set of solvent line coefficients. A nil pointer in the
// solvent record means the set was never fitted.
type Abraham struct {
	C float64 `json:"c" yaml:"c"`
	E float64 `json:"e" yaml:"e"`
	S float64 `json:"s" yaml:"s"`
	A float64 `json:"a" yaml:"a"`
	B float64 `json:"b" yaml:"b"`
	L float64 `json:"l" yaml:"l"`
}

type Solvent struct {
	BaseModel
	Name     string                      `gorm:"not null;uniqueIndex" json:"name" yaml:"name"`
	Aliases  datatypes.JSONSlice[string] `json:"aliases" yaml:"aliases,omitempty"`
	Gibbs    *Abraham                    `gorm:"serializer:json" json:"gibbs" yaml:"gibbs,omitempty"`
	Enthalpy *Abraham                    `gorm:"serializer:json" json:"enthalpy" yaml:"enthalpy,omitempty"`
	// Tc in K; zero when unknown.
	Tc    float64 `json:"tc" yaml:"tc"`
	Fluid string  `json:"fluid" yaml:"fluid,omitempty"`
}

// Term is c*tau^exp in an ancillary sum.
type Term struct {
	Coef float64 `json:"coef" yaml:"coef"`
	Exp  float64 `json:"exp" yaml:"exp"`
}

type FluidModel string

const (
	FluidAncillary           FluidModel = "ancillary"
	FluidCorrespondingStates FluidModel = "corresponding-states"
	FluidTabulated           FluidModel = "tabulated"
)

// SaturationPoint is one row of a tabulated saturation curve.
type SaturationPoint struct {
	T         float64 `json:"t" yaml:"t"`
	P         float64 `json:"p" yaml:"p"`
	RhoLiquid float64 `json:"rho_l" yaml:"rho_l"`
	RhoVapor  float64 `json:"rho_v" yaml:"rho_v"`
}

// Fluid describes the saturation curve of a pure solvent. Densities are
// molar (mol/m^3), pressures in Pa.
type Fluid struct {
	BaseModel
	Name       string     `gorm:"not null;uniqueIndex" json:"name" yaml:"name"`
	Model      FluidModel `gorm:"not null" json:"model" yaml:"model"`
	MolarMass  float64    `json:"molar_mass" yaml:"molar_mass"`
	Tc         float64    `json:"tc" yaml:"tc"`
	Pc         float64    `json:"pc" yaml:"pc"`
	RhoC       float64    `json:"rho_c" yaml:"rho_c,omitempty"`
	Acentric   float64    `json:"acentric" yaml:"acentric,omitempty"`
	RackettZRA float64    `json:"rackett_zra" yaml:"rackett_zra,omitempty"`

	Pressure      datatypes.JSONSlice[Term]            `json:"pressure" yaml:"pressure,omitempty"`
	LiquidDensity datatypes.JSONSlice[Term]            `json:"liquid_density" yaml:"liquid_density,omitempty"`
	VaporDensity  datatypes.JSONSlice[Term]            `json:"vapor_density" yaml:"vapor_density,omitempty"`
	Table         datatypes.JSONSlice[SaturationPoint] `gorm:"column:saturation_table" json:"table" yaml:"table,omitempty"`
}
