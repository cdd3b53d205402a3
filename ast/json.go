// Copyright (C) 2017 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ast

import (
	"encoding/json"
	"fmt"
)

// LengthPrefixed is the `{ size: N, elements: [...] }` vector encoding
// spec.md §6 mandates for integer-typed sequences in the on-disk module
// form.
type LengthPrefixed[T any] struct {
	Elements []T
}

func (l LengthPrefixed[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Size     int `json:"size"`
		Elements []T `json:"elements"`
	}{Size: len(l.Elements), Elements: l.Elements})
}

func (l *LengthPrefixed[T]) UnmarshalJSON(data []byte) error {
	var wire struct {
		Size     int `json:"size"`
		Elements []T `json:"elements"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	if wire.Size != len(wire.Elements) {
		return fmt.Errorf("ast: length-prefixed vector declares size %d but has %d elements", wire.Size, len(wire.Elements))
	}
	l.Elements = wire.Elements
	return nil
}

// typeReferenceWire is the `{ type: "<Variant>", value: <payload> }`
// tagged-variant envelope spec.md §6 mandates.
type typeReferenceWire struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

func (t TypeReference) MarshalJSON() ([]byte, error) {
	var value interface{}
	switch t.Kind {
	case BuiltinReference:
		value = t.Builtin
	case FundamentalReference:
		value = t.Fundamental
	case IntegerReference:
		value = t.Integer
	case PointerReference:
		value = t.Pointer
	case ConstantArrayReference:
		value = t.ConstantArray
	case FunctionReference:
		value = t.Function
	case FunctionPointerReference:
		value = t.FunctionPointer
	case CustomReference:
		value = t.Custom
	case TypeInstanceReference:
		value = t.Instance
	case ParameterReference:
		value = t.Parameter
	case NullPointerReference:
		value = struct{}{}
	default:
		return nil, fmt.Errorf("ast: cannot marshal type reference of kind %v", t.Kind)
	}
	payload, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}
	return json.Marshal(typeReferenceWire{Type: t.Kind.String(), Value: payload})
}

func (t *TypeReference) UnmarshalJSON(data []byte) error {
	var wire typeReferenceWire
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	kind, err := parseTypeReferenceKind(wire.Type)
	if err != nil {
		return err
	}
	t.Kind = kind
	switch kind {
	case BuiltinReference:
		return json.Unmarshal(wire.Value, &t.Builtin)
	case FundamentalReference:
		return json.Unmarshal(wire.Value, &t.Fundamental)
	case IntegerReference:
		return json.Unmarshal(wire.Value, &t.Integer)
	case PointerReference:
		t.Pointer = &PointerData{}
		return json.Unmarshal(wire.Value, t.Pointer)
	case ConstantArrayReference:
		t.ConstantArray = &ConstantArrayData{}
		return json.Unmarshal(wire.Value, t.ConstantArray)
	case FunctionReference:
		t.Function = &FunctionData{}
		return json.Unmarshal(wire.Value, t.Function)
	case FunctionPointerReference:
		t.FunctionPointer = &FunctionPointerData{}
		return json.Unmarshal(wire.Value, t.FunctionPointer)
	case CustomReference:
		t.Custom = &CustomData{}
		return json.Unmarshal(wire.Value, t.Custom)
	case TypeInstanceReference:
		t.Instance = &TypeInstanceData{}
		return json.Unmarshal(wire.Value, t.Instance)
	case ParameterReference:
		t.Parameter = &ParameterData{}
		return json.Unmarshal(wire.Value, t.Parameter)
	case NullPointerReference:
		return nil
	default:
		return fmt.Errorf("ast: cannot unmarshal type reference of kind %v", kind)
	}
}

func parseTypeReferenceKind(name string) (TypeReferenceKind, error) {
	for k := BuiltinReference; k <= NullPointerReference; k++ {
		if k.String() == name {
			return k, nil
		}
	}
	return 0, fmt.Errorf("ast: unknown type reference variant %q", name)
}
