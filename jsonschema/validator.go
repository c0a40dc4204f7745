// Package jsonschema checks canonical schemas against the structural contract
// using github.com/santhosh-tekuri/jsonschema.
package jsonschema

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/Traves-Theberge/webform-cli"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed contract.json
var contract []byte

const contractURL = "contract.json"

var _ webform.SchemaValidator = (*Validator)(nil)

// Validator implements webform.SchemaValidator. The contract is compiled on
// first use and shared by all validators.
type Validator struct{}

// NewValidator creates a new Validator.
func NewValidator() *Validator {
	return &Validator{}
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func compiledContract() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.Draft = jsonschema.Draft2020
		if err := compiler.AddResource(contractURL, bytes.NewReader(contract)); err != nil {
			compileErr = fmt.Errorf("failed to load schema contract: %w", err)
			return
		}
		compiled, compileErr = compiler.Compile(contractURL)
		if compileErr != nil {
			compileErr = fmt.Errorf("failed to compile schema contract: %w", compileErr)
		}
	})
	return compiled, compileErr
}

// Validate checks s against the contract.
func (v *Validator) Validate(s *webform.Schema) *webform.ValidationReport {
	doc, err := instance(s)
	if err != nil {
		return failed(err)
	}
	return check(doc)
}

// ValidateJSON validates raw schema JSON. Canonical input is checked as
// written, so a key of the wrong JSON type is reported rather than dropped.
// Other shapes are normalized first and any entry the normalizer had to drop
// or could not decode is reported alongside the contract violations.
func (v *Validator) ValidateJSON(data []byte) *webform.ValidationReport {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return failed(webform.Errorf(webform.EINVALID, "%v", err))
	}

	s, issues := webform.NormalizeReport(raw)
	if s.Shape == webform.ShapeCanonical {
		doc, err := decodeNumbers(data)
		if err != nil {
			return failed(err)
		}
		return check(doc)
	}

	report := v.Validate(s)
	if len(issues) == 0 {
		return report
	}
	errs := append(issues, report.Errors...)
	sort.SliceStable(errs, func(i, j int) bool { return errs[i].Path < errs[j].Path })
	return &webform.ValidationReport{Errors: errs}
}

func check(doc any) *webform.ValidationReport {
	schema, err := compiledContract()
	if err != nil {
		return failed(err)
	}

	if err := schema.Validate(doc); err != nil {
		var verr *jsonschema.ValidationError
		if !errors.As(err, &verr) {
			return failed(err)
		}
		return &webform.ValidationReport{Errors: diagnostics(verr)}
	}
	return &webform.ValidationReport{Valid: true}
}

// decodeNumbers decodes data keeping numbers as json.Number so integer
// keywords see the exact literal.
func decodeNumbers(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, webform.Errorf(webform.EINVALID, "%v", err)
	}
	return doc, nil
}

// instance converts s into the generic JSON value the validator expects.
// Nil maps are validated as empty objects.
func instance(s *webform.Schema) (any, error) {
	c := webform.Schema{Selectors: map[string]string{}, Structure: map[string]*webform.TypeDescriptor{}}
	if s != nil {
		if s.Selectors != nil {
			c.Selectors = s.Selectors
		}
		if s.Structure != nil {
			c.Structure = s.Structure
		}
	}

	data, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func failed(err error) *webform.ValidationReport {
	return &webform.ValidationReport{
		Errors: []webform.Diagnostic{{Message: webform.ErrorMessage(err)}},
	}
}

// diagnostics flattens a validation error tree into its leaf causes,
// sorted by instance location.
func diagnostics(verr *jsonschema.ValidationError) []webform.Diagnostic {
	var out []webform.Diagnostic
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			out = append(out, webform.Diagnostic{Path: e.InstanceLocation, Message: e.Message})
			return
		}
		for _, c := range e.Causes {
			walk(c)
		}
	}
	walk(verr)

	sort.SliceStable(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}
