// Copyright 2025 Sonic Labs
// This file is part of Distat
//
// Distat is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Distat is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with Distat. If not, see <http://www.gnu.org/licenses/>.

// Package serializer stores roll definitions and distributions as JSON.
// Every node is written as {"type": <name>, "attributes": {...}} holding the
// constructor arguments of the node only; decoding goes through the
// validating constructors of package dice.
package serializer

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/0xsoniclabs/distat/dice"
	"github.com/cockroachdb/errors"
	"github.com/klauspost/compress/gzip"
)

var (
	ErrUnknownType    = errors.New("unknown type")
	ErrUnexpectedType = errors.New("unexpected type")
)

type node struct {
	Type       string          `json:"type"`
	Attributes json.RawMessage `json:"attributes,omitempty"`
}

type (
	dieJSON struct {
		Sides int `json:"sides"`
	}
	faceDieJSON struct {
		Faces []int `json:"faces"`
	}
	poolJSON struct {
		Sources []*node `json:"sources"`
	}
	empiricalJSON struct {
		Bins   []int     `json:"bins"`
		Values []float64 `json:"values"`
	}
	rollDefJSON struct {
		Name       string  `json:"name,omitempty"`
		Desc       string  `json:"desc,omitempty"`
		Source     *node   `json:"source"`
		Operations []*node `json:"operations"`
	}
	equalToJSON struct {
		Values []int `json:"values"`
	}
	thresholdJSON struct {
		Threshold int `json:"threshold"`
	}
	positionJSON struct {
		Index int `json:"index"`
	}
	sliceJSON struct {
		Start *int `json:"start"`
		Stop  *int `json:"stop"`
		Step  int  `json:"step"`
	}
	countJSON struct {
		N int `json:"n"`
	}
	aggregatorJSON struct {
		Reduction string  `json:"reduction"`
		Operands  []*node `json:"operands"`
	}
	reRollJSON struct {
		Selectors []*node `json:"selectors"`
		Allowed   int     `json:"allowed"`
	}
	modifierJSON struct {
		Value int `json:"value"`
	}
	distJSON struct {
		RollDef *node     `json:"rolldef,omitempty"`
		N       int       `json:"n"`
		Bins    []int     `json:"bins"`
		Values  []float64 `json:"values"`
	}
)

func newNode(typ string, attributes any) (*node, error) {
	n := &node{Type: typ}
	if attributes == nil {
		return n, nil
	}
	raw, err := json.Marshal(attributes)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot marshal %s", typ)
	}
	n.Attributes = raw
	return n, nil
}

func encodeAll[T any](items []T) ([]*node, error) {
	res := make([]*node, len(items))
	for i, item := range items {
		n, err := encode(item)
		if err != nil {
			return nil, err
		}
		res[i] = n
	}
	return res, nil
}

func encode(v any) (*node, error) {
	switch x := v.(type) {
	case dice.Die:
		return newNode("Die", dieJSON{Sides: x.Sides})
	case dice.FaceDie:
		return newNode("FaceDie", faceDieJSON{Faces: x.Faces})
	case dice.Pool:
		sources, err := encodeAll([]dice.Source(x))
		if err != nil {
			return nil, err
		}
		return newNode("Pool", poolJSON{Sources: sources})
	case dice.Empirical:
		return newNode("Empirical", empiricalJSON{Bins: x.Bins, Values: x.Values})
	case *dice.RollDef:
		source, err := encode(x.Source())
		if err != nil {
			return nil, err
		}
		ops, err := encodeAll(x.Operations())
		if err != nil {
			return nil, err
		}
		return newNode("RollDef", rollDefJSON{Name: x.Name, Desc: x.Desc, Source: source, Operations: ops})
	case dice.EqualTo:
		return newNode("EqualTo", equalToJSON{Values: x.Values})
	case dice.LessThan:
		return newNode("LessThan", thresholdJSON{Threshold: x.Threshold})
	case dice.GreaterThan:
		return newNode("GreaterThan", thresholdJSON{Threshold: x.Threshold})
	case dice.All:
		return newNode("All", nil)
	case dice.Position:
		return newNode("Position", positionJSON{Index: x.Index})
	case dice.Slice:
		return newNode("Slice", sliceJSON{Start: x.Start, Stop: x.Stop, Step: x.Step})
	case dice.Highest:
		return newNode("Highest", countJSON{N: x.N})
	case dice.Lowest:
		return newNode("Lowest", countJSON{N: x.N})
	case *dice.Aggregator:
		operands, err := encodeAll(x.Operands)
		if err != nil {
			return nil, err
		}
		return newNode("Aggregator", aggregatorJSON{Reduction: x.Reduction.String(), Operands: operands})
	case dice.ReRoll:
		sels, err := encodeAll(x.Selectors)
		if err != nil {
			return nil, err
		}
		return newNode("ReRoll", reRollJSON{Selectors: sels, Allowed: x.Allowed})
	case dice.Modifier:
		return newNode("Modifier", modifierJSON{Value: x.Value})
	case *dice.Dist:
		attrs := distJSON{N: x.N, Bins: x.Bins, Values: x.Values}
		if x.RollDef != nil {
			rd, err := encode(x.RollDef)
			if err != nil {
				return nil, err
			}
			attrs.RollDef = rd
		}
		return newNode("Dist", attrs)
	default:
		return nil, errors.Wrapf(ErrUnknownType, "%T", v)
	}
}

func attributes[T any](n *node) (T, error) {
	var res T
	if len(n.Attributes) == 0 {
		return res, nil
	}
	if err := json.Unmarshal(n.Attributes, &res); err != nil {
		return res, errors.Wrapf(err, "cannot unmarshal attributes of %s", n.Type)
	}
	return res, nil
}

func decodeAs[T any](n *node) (T, error) {
	var zero T
	v, err := decode(n)
	if err != nil {
		return zero, err
	}
	res, ok := v.(T)
	if !ok {
		return zero, errors.Wrapf(ErrUnexpectedType, "%s is a %T", n.Type, v)
	}
	return res, nil
}

func decodeAll[T any](nodes []*node) ([]T, error) {
	res := make([]T, len(nodes))
	for i, n := range nodes {
		v, err := decodeAs[T](n)
		if err != nil {
			return nil, errors.Wrapf(err, "element %d", i)
		}
		res[i] = v
	}
	return res, nil
}

func decode(n *node) (any, error) {
	if n == nil {
		return nil, errors.Wrap(ErrUnknownType, "missing node")
	}
	switch n.Type {
	case "Die":
		a, err := attributes[dieJSON](n)
		if err != nil {
			return nil, err
		}
		return dice.NewDie(a.Sides)
	case "FaceDie":
		a, err := attributes[faceDieJSON](n)
		if err != nil {
			return nil, err
		}
		return dice.NewFaceDie(a.Faces...)
	case "Pool":
		a, err := attributes[poolJSON](n)
		if err != nil {
			return nil, err
		}
		sources, err := decodeAll[dice.Source](a.Sources)
		if err != nil {
			return nil, err
		}
		return dice.Pool(sources), nil
	case "Empirical":
		a, err := attributes[empiricalJSON](n)
		if err != nil {
			return nil, err
		}
		d, err := dice.RestoreDist(nil, 1, a.Bins, a.Values)
		if err != nil {
			return nil, err
		}
		return dice.NewEmpirical(d)
	case "RollDef":
		a, err := attributes[rollDefJSON](n)
		if err != nil {
			return nil, err
		}
		src, err := decodeAs[dice.Source](a.Source)
		if err != nil {
			return nil, errors.Wrap(err, "source")
		}
		ops, err := decodeAll[dice.Operation](a.Operations)
		if err != nil {
			return nil, err
		}
		rd, err := dice.NewRollDef(src, ops...)
		if err != nil {
			return nil, err
		}
		return rd.WithName(a.Name).WithDesc(a.Desc), nil
	case "EqualTo":
		a, err := attributes[equalToJSON](n)
		if err != nil {
			return nil, err
		}
		return dice.Equal(a.Values...), nil
	case "LessThan":
		a, err := attributes[thresholdJSON](n)
		if err != nil {
			return nil, err
		}
		return dice.LessThan{Threshold: a.Threshold}, nil
	case "GreaterThan":
		a, err := attributes[thresholdJSON](n)
		if err != nil {
			return nil, err
		}
		return dice.GreaterThan{Threshold: a.Threshold}, nil
	case "All":
		return dice.All{}, nil
	case "Position":
		a, err := attributes[positionJSON](n)
		if err != nil {
			return nil, err
		}
		return dice.Position{Index: a.Index}, nil
	case "Slice":
		a, err := attributes[sliceJSON](n)
		if err != nil {
			return nil, err
		}
		return dice.Slice{Start: a.Start, Stop: a.Stop, Step: a.Step}, nil
	case "Highest":
		a, err := attributes[countJSON](n)
		if err != nil {
			return nil, err
		}
		return dice.Highest{N: a.N}, nil
	case "Lowest":
		a, err := attributes[countJSON](n)
		if err != nil {
			return nil, err
		}
		return dice.Lowest{N: a.N}, nil
	case "Aggregator":
		a, err := attributes[aggregatorJSON](n)
		if err != nil {
			return nil, err
		}
		reduction, err := dice.ParseReduction(a.Reduction)
		if err != nil {
			return nil, err
		}
		operands, err := decodeAll[dice.Operation](a.Operands)
		if err != nil {
			return nil, err
		}
		return dice.NewAggregator(reduction, operands...)
	case "ReRoll":
		a, err := attributes[reRollJSON](n)
		if err != nil {
			return nil, err
		}
		sels, err := decodeAll[dice.Selector](a.Selectors)
		if err != nil {
			return nil, err
		}
		return dice.NewReRoll(a.Allowed, sels...)
	case "Modifier":
		a, err := attributes[modifierJSON](n)
		if err != nil {
			return nil, err
		}
		return dice.Modifier{Value: a.Value}, nil
	case "Dist":
		a, err := attributes[distJSON](n)
		if err != nil {
			return nil, err
		}
		var rd *dice.RollDef
		if a.RollDef != nil {
			if rd, err = decodeAs[*dice.RollDef](a.RollDef); err != nil {
				return nil, errors.Wrap(err, "rolldef")
			}
		}
		return dice.RestoreDist(rd, a.N, a.Bins, a.Values)
	default:
		return nil, errors.Wrapf(ErrUnknownType, "%q", n.Type)
	}
}

// Marshal encodes a roll definition, one of its parts or a distribution.
func Marshal(v any) ([]byte, error) {
	n, err := encode(v)
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(n, "", "    ")
}

// Unmarshal decodes a value written by Marshal.
func Unmarshal(data []byte) (any, error) {
	var n node
	if err := json.Unmarshal(data, &n); err != nil {
		return nil, errors.Wrap(err, "cannot unmarshal node")
	}
	return decode(&n)
}

// UnmarshalRollDef decodes a roll definition.
func UnmarshalRollDef(data []byte) (*dice.RollDef, error) {
	return unmarshalAs[*dice.RollDef](data)
}

// UnmarshalDist decodes a distribution.
func UnmarshalDist(data []byte) (*dice.Dist, error) {
	return unmarshalAs[*dice.Dist](data)
}

func unmarshalAs[T any](data []byte) (T, error) {
	var zero T
	v, err := Unmarshal(data)
	if err != nil {
		return zero, err
	}
	res, ok := v.(T)
	if !ok {
		return zero, errors.Wrapf(ErrUnexpectedType, "want %T, got %T", zero, v)
	}
	return res, nil
}

// isCompressed reports whether a file is stored gzip compressed.
func isCompressed(filename string) bool {
	return strings.HasSuffix(filename, ".gz")
}

// Write a value in JSON format. Files ending in .gz are compressed.
func Write(filename string, v any) (err error) {
	data, err := Marshal(v)
	if err != nil {
		return err
	}
	f, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "cannot create %v", filename)
	}
	defer func(f *os.File) {
		err = errors.Join(err, f.Close())
	}(f)
	var w io.Writer = f
	if isCompressed(filename) {
		zw := gzip.NewWriter(f)
		defer func() {
			err = errors.Join(err, zw.Close())
		}()
		w = zw
	}
	if _, err = fmt.Fprintln(w, string(data)); err != nil {
		return errors.Wrapf(err, "cannot write %v", filename)
	}
	return nil
}

// Read a value from a file in JSON format.
func Read(filename string) (v any, err error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot open %v", filename)
	}
	defer func(f *os.File) {
		err = errors.Join(err, f.Close())
	}(f)
	var r io.Reader = f
	if isCompressed(filename) {
		var zr *gzip.Reader
		if zr, err = gzip.NewReader(f); err != nil {
			return nil, errors.Wrapf(err, "cannot decompress %v", filename)
		}
		defer func() {
			err = errors.Join(err, zr.Close())
		}()
		r = zr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrapf(err, "cannot read %v", filename)
	}
	return Unmarshal(data)
}

// ReadRollDef reads a roll definition from a file.
func ReadRollDef(filename string) (*dice.RollDef, error) {
	v, err := Read(filename)
	if err != nil {
		return nil, err
	}
	rd, ok := v.(*dice.RollDef)
	if !ok {
		return nil, errors.Wrapf(ErrUnexpectedType, "%v holds a %T", filename, v)
	}
	return rd, nil
}
