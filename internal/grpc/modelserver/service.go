package modelserver

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Service and method names on the wire
const (
	ServiceName   = "tetrisrl.model.v1.ModelService"
	PredictMethod = "/" + ServiceName + "/Predict"
	FitMethod     = "/" + ServiceName + "/Fit"
)

// ModelServiceServer is the server API for the model service. Payloads are
// google.protobuf.Struct documents; see codec.go for their fields.
type ModelServiceServer interface {
	Predict(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Fit(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// ServiceDesc describes the model service for grpc.Server registration
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ModelServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Predict", Handler: predictHandler},
		{MethodName: "Fit", Handler: fitHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "tetrisrl/model/v1/model.proto",
}

// RegisterModelServiceServer registers srv on s
func RegisterModelServiceServer(s grpc.ServiceRegistrar, srv ModelServiceServer) {
	s.RegisterService(&ServiceDesc, srv)
}

func predictHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ModelServiceServer).Predict(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: PredictMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ModelServiceServer).Predict(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func fitHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ModelServiceServer).Fit(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FitMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ModelServiceServer).Fit(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}
