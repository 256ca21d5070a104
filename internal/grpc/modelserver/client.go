package modelserver

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mitchelldurbincs/TetrisReinforcementLearning/internal/agent"
	"github.com/mitchelldurbincs/TetrisReinforcementLearning/internal/agent/mlp"
)

var _ agent.Approximator = (*Client)(nil)

// Client is an Approximator that forwards every call to a remote model server
type Client struct {
	cc     grpc.ClientConnInterface
	conn   *grpc.ClientConn
	logger zerolog.Logger
}

// Dial connects to a model server at addr without transport security
func Dial(addr string, logger zerolog.Logger, opts ...grpc.DialOption) (*Client, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)
	conn, err := grpc.NewClient(addr, opts...)
	if err != nil {
		return nil, fmt.Errorf("connecting to model server %s: %w", addr, err)
	}
	c := NewClient(conn, logger)
	c.conn = conn
	return c, nil
}

// NewClient wraps an existing connection
func NewClient(cc grpc.ClientConnInterface, logger zerolog.Logger) *Client {
	return &Client{
		cc:     cc,
		logger: logger.With().Str("component", "model_client").Logger(),
	}
}

// Predict implements agent.Approximator
func (c *Client) Predict(ctx context.Context, states [][]float64) ([][]float64, error) {
	id := uuid.New().String()
	resp := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, PredictMethod, encodePredictRequest(id, states), resp); err != nil {
		return nil, c.fromStatus("predict", id, err)
	}

	values, err := matrixField(resp, fieldValues)
	if err != nil {
		return nil, fmt.Errorf("decoding predict response: %w", err)
	}
	return values, nil
}

// Fit implements agent.Approximator
func (c *Client) Fit(ctx context.Context, states, targets [][]float64, epochs int) (float64, error) {
	id := uuid.New().String()
	resp := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FitMethod, encodeFitRequest(id, states, targets, epochs), resp); err != nil {
		return 0, c.fromStatus("fit", id, err)
	}

	loss, err := numberField(resp, fieldLoss)
	if err != nil {
		return 0, fmt.Errorf("decoding fit response: %w", err)
	}
	return loss, nil
}

// Close releases the connection if the client opened it
func (c *Client) Close() error {
	if c.conn == nil {
		return nil
	}
	return c.conn.Close()
}

func (c *Client) fromStatus(op, id string, err error) error {
	c.logger.Debug().Str("request_id", id).Str("op", op).Err(err).Msg("Model call failed")
	if status.Code(err) == codes.InvalidArgument {
		return fmt.Errorf("remote %s: %w: %s", op, mlp.ErrShapeMismatch, status.Convert(err).Message())
	}
	return fmt.Errorf("remote %s: %w", op, err)
}
