package client

import (
	"context"
	"net/url"
)

// ExpandRequest asks the server to expand Template.  A zero Limit uses the
// server's cap.
type ExpandRequest struct {
	Template string `json:"template"`
	Limit    int64  `json:"limit,omitempty"`
}

// Expansion is the result of an expand call.
type Expansion struct {
	Template    string   `json:"template"`
	Pattern     string   `json:"pattern"`
	Count       int      `json:"count"`
	Derivatives []string `json:"derivatives"`
	TableDigest string   `json:"table_digest"`
	Cached      bool     `json:"cached"`
}

// CountResult is the derivative count of a template.
type CountResult struct {
	Template    string `json:"template"`
	Pattern     string `json:"pattern"`
	Count       int64  `json:"count"`
	TableDigest string `json:"table_digest"`
}

// Classification describes the placeholder layout of a template.
type Classification struct {
	Template      string   `json:"template"`
	Pattern       string   `json:"pattern"`
	Occurrences   int      `json:"occurrences"`
	InteriorSites int      `json:"interior_sites"`
	Segments      []string `json:"segments"`
}

// Substituent is one row of the substituent table.
type Substituent struct {
	Label    string `json:"label"`
	Interior string `json:"interior"`
	Leading  string `json:"leading"`
}

// SubstituentTable is the server's current table.
type SubstituentTable struct {
	Digest  string        `json:"digest"`
	Entries []Substituent `json:"entries"`
}

// Forms lists the substitution forms of one position.
type Forms struct {
	Digest   string   `json:"digest"`
	Position string   `json:"position"`
	Forms    []string `json:"forms"`
}

// DerivativesClient covers the /v1 derivative endpoints.
type DerivativesClient struct {
	client *Client
}

type templateBody struct {
	Template string `json:"template"`
}

// Expand returns every derivative of req.Template.
func (d *DerivativesClient) Expand(ctx context.Context, req ExpandRequest) (*Expansion, error) {
	var out Expansion
	if err := d.client.post(ctx, "/v1/derivatives/expand", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Count returns how many derivatives template would produce.
func (d *DerivativesClient) Count(ctx context.Context, template string) (*CountResult, error) {
	var out CountResult
	if err := d.client.post(ctx, "/v1/derivatives/count", templateBody{template}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Classify returns the placeholder pattern of template.
func (d *DerivativesClient) Classify(ctx context.Context, template string) (*Classification, error) {
	var out Classification
	if err := d.client.post(ctx, "/v1/templates/classify", templateBody{template}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Substituents returns the full substituent table.
func (d *DerivativesClient) Substituents(ctx context.Context) (*SubstituentTable, error) {
	var out SubstituentTable
	if err := d.client.get(ctx, "/v1/substituents", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Forms returns the forms for position ("interior" or "leading").
func (d *DerivativesClient) Forms(ctx context.Context, position string) (*Forms, error) {
	var out Forms
	path := "/v1/substituents?position=" + url.QueryEscape(position)
	if err := d.client.get(ctx, path, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

//Personal.AI order the ending
