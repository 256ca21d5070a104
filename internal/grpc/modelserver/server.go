package modelserver

import (
	"context"
	"errors"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mitchelldurbincs/TetrisReinforcementLearning/internal/agent"
	"github.com/mitchelldurbincs/TetrisReinforcementLearning/internal/agent/mlp"
)

// Server exposes an Approximator over gRPC
type Server struct {
	model  agent.Approximator
	logger zerolog.Logger
}

// NewServer creates a model server backed by model
func NewServer(model agent.Approximator, logger zerolog.Logger) *Server {
	return &Server{
		model:  model,
		logger: logger.With().Str("component", "model_server").Logger(),
	}
}

// NewGRPCServer builds a grpc.Server with the model and health services registered
// and the logging and recovery interceptors installed. Both services report SERVING.
func NewGRPCServer(srv *Server, logger zerolog.Logger, opts ...grpc.ServerOption) (*grpc.Server, *health.Server) {
	opts = append(opts, grpc.ChainUnaryInterceptor(
		LoggingInterceptor(logger),
		RecoveryInterceptor(logger),
	))
	gs := grpc.NewServer(opts...)
	RegisterModelServiceServer(gs, srv)

	healthServer := health.NewServer()
	grpc_health_v1.RegisterHealthServer(gs, healthServer)
	healthServer.SetServingStatus("", grpc_health_v1.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(ServiceName, grpc_health_v1.HealthCheckResponse_SERVING)

	return gs, healthServer
}

// Predict implements ModelServiceServer
func (s *Server) Predict(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	states, err := matrixField(req, fieldStates)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid predict request: %v", err)
	}

	values, err := s.model.Predict(ctx, states)
	if err != nil {
		return nil, toStatus(err)
	}

	s.logger.Debug().
		Str("request_id", requestID(req)).
		Int("batch", len(states)).
		Msg("Predict")

	return encodePredictResponse(values), nil
}

// Fit implements ModelServiceServer
func (s *Server) Fit(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	states, err := matrixField(req, fieldStates)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid fit request: %v", err)
	}
	targets, err := matrixField(req, fieldTargets)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid fit request: %v", err)
	}
	epochs, err := numberField(req, fieldEpochs)
	if err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "invalid fit request: %v", err)
	}

	loss, err := s.model.Fit(ctx, states, targets, int(epochs))
	if err != nil {
		return nil, toStatus(err)
	}

	s.logger.Debug().
		Str("request_id", requestID(req)).
		Int("batch", len(states)).
		Float64("loss", loss).
		Msg("Fit")

	return encodeFitResponse(loss), nil
}

func toStatus(err error) error {
	switch {
	case errors.Is(err, mlp.ErrShapeMismatch):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Errorf(codes.Internal, "model error: %v", err)
	}
}
