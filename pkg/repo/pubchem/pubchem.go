package pubchem

import (
	"context"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/scienceol/solvation/pkg/common/code"
	"github.com/scienceol/solvation/pkg/middleware/logger"
	"github.com/scienceol/solvation/pkg/repo"
)

type property struct {
	CID              int64  `json:"CID"`
	Title            string `json:"Title"`
	MolecularFormula string `json:"MolecularFormula"`
	IUPACName        string `json:"IUPACName"`
	IsomericSMILES   string `json:"IsomericSMILES"`
	CanonicalSMILES  string `json:"CanonicalSMILES"`
	SMILES           string `json:"SMILES"`
}

type PropertyResponse struct {
	PropertyTable struct {
		Properties []property `json:"Properties"`
	} `json:"PropertyTable"`
}

type Config struct {
	Addr    string
	Timeout time.Duration
}

type pubchemImpl struct {
	client *resty.Client
}

func NewPubChemRepo(conf *Config) repo.PubChemRepo {
	timeout := conf.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &pubchemImpl{
		client: resty.New().
			SetTimeout(timeout).
			SetBaseURL(conf.Addr).
			SetHeader("Accept", "application/json"),
	}
}

// LookupCompound accepts anything PubChem's name endpoint understands,
// including CAS registry numbers.
func (p *pubchemImpl) LookupCompound(ctx context.Context, name string) (*repo.Compound, error) {
	properties := "Title,MolecularFormula,IUPACName,IsomericSMILES,CanonicalSMILES,SMILES"
	urlPath := "/rest/pug/compound/name/{name}/property/{props}/JSON"

	propResp := &PropertyResponse{}
	res, err := p.client.R().
		SetContext(ctx).
		SetPathParams(map[string]string{
			"props": properties,
			"name":  name,
		}).
		SetResult(propResp).
		Get(urlPath)
	if err != nil {
		logger.Errorf(ctx, "Failed to request properties from PubChem: %v", err)
		return nil, code.RPCHttpErr.WithErr(err)
	}

	if res.StatusCode() == http.StatusNotFound {
		return nil, code.UnknownSolute.WithMsgf("PubChem has no compound named %q", name)
	}
	if res.StatusCode() != http.StatusOK {
		return nil, code.RPCHttpCodeErr.WithMsgf("PubChem property query failed: status %d", res.StatusCode())
	}

	if len(propResp.PropertyTable.Properties) == 0 {
		return nil, code.UnDefineErr.WithMsg("Failed to parse PubChem property response")
	}

	propData := propResp.PropertyTable.Properties[0]

	smiles := propData.IsomericSMILES
	if smiles == "" {
		smiles = propData.CanonicalSMILES
	}
	if smiles == "" {
		smiles = propData.SMILES
	}
	if smiles == "" {
		return nil, code.InvalidStructure.WithMsgf("PubChem returned no SMILES for %q", name)
	}

	return &repo.Compound{
		CID:       propData.CID,
		Title:     propData.Title,
		IUPACName: propData.IUPACName,
		Formula:   propData.MolecularFormula,
		SMILES:    smiles,
	}, nil
}
