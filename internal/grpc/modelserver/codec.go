package modelserver

import (
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"
)

// Payload fields
const (
	fieldRequestID = "request_id"
	fieldStates    = "states"
	fieldTargets   = "targets"
	fieldEpochs    = "epochs"
	fieldValues    = "values"
	fieldLoss      = "loss"
)

func matrixToValue(m [][]float64) *structpb.Value {
	rows := make([]*structpb.Value, len(m))
	for i, r := range m {
		cells := make([]*structpb.Value, len(r))
		for j, v := range r {
			cells[j] = structpb.NewNumberValue(v)
		}
		rows[i] = structpb.NewListValue(&structpb.ListValue{Values: cells})
	}
	return structpb.NewListValue(&structpb.ListValue{Values: rows})
}

func matrixField(s *structpb.Struct, name string) ([][]float64, error) {
	v, ok := s.GetFields()[name]
	if !ok {
		return nil, fmt.Errorf("missing field %q", name)
	}
	list := v.GetListValue()
	if list == nil {
		return nil, fmt.Errorf("field %q is not a list", name)
	}

	out := make([][]float64, len(list.GetValues()))
	for i, row := range list.GetValues() {
		cells := row.GetListValue()
		if cells == nil {
			return nil, fmt.Errorf("%s[%d] is not a list", name, i)
		}
		out[i] = make([]float64, len(cells.GetValues()))
		for j, c := range cells.GetValues() {
			n, ok := c.GetKind().(*structpb.Value_NumberValue)
			if !ok {
				return nil, fmt.Errorf("%s[%d][%d] is not a number", name, i, j)
			}
			out[i][j] = n.NumberValue
		}
	}
	return out, nil
}

func numberField(s *structpb.Struct, name string) (float64, error) {
	v, ok := s.GetFields()[name]
	if !ok {
		return 0, fmt.Errorf("missing field %q", name)
	}
	n, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("field %q is not a number", name)
	}
	return n.NumberValue, nil
}

func encodePredictRequest(requestID string, states [][]float64) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldRequestID: structpb.NewStringValue(requestID),
		fieldStates:    matrixToValue(states),
	}}
}

func encodeFitRequest(requestID string, states, targets [][]float64, epochs int) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldRequestID: structpb.NewStringValue(requestID),
		fieldStates:    matrixToValue(states),
		fieldTargets:   matrixToValue(targets),
		fieldEpochs:    structpb.NewNumberValue(float64(epochs)),
	}}
}

func encodePredictResponse(values [][]float64) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldValues: matrixToValue(values),
	}}
}

func encodeFitResponse(loss float64) *structpb.Struct {
	return &structpb.Struct{Fields: map[string]*structpb.Value{
		fieldLoss: structpb.NewNumberValue(loss),
	}}
}

func requestID(s *structpb.Struct) string {
	return s.GetFields()[fieldRequestID].GetStringValue()
}
