package modelserver

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/mitchelldurbincs/TetrisReinforcementLearning/internal/agent"
	"github.com/mitchelldurbincs/TetrisReinforcementLearning/internal/agent/mlp"
	"github.com/mitchelldurbincs/TetrisReinforcementLearning/internal/testutil"
)

const bufSize = 1024 * 1024

type panickingModel struct{}

func (panickingModel) Predict(context.Context, [][]float64) ([][]float64, error) {
	panic("boom")
}

func (panickingModel) Fit(context.Context, [][]float64, [][]float64, int) (float64, error) {
	panic("boom")
}

// setupTestServer creates an in-memory gRPC server for testing
func setupTestServer(t *testing.T, model agent.Approximator) (*Client, *grpc.ClientConn) {
	t.Helper()
	lis := bufconn.Listen(bufSize)
	gs, _ := NewGRPCServer(NewServer(model, testutil.NopLogger()), testutil.NopLogger())

	go func() {
		if err := gs.Serve(lis); err != nil {
			t.Logf("Server exited with error: %v", err)
		}
	}()

	client, err := Dial("passthrough:///bufnet", testutil.NopLogger(),
		grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) {
			return lis.Dial()
		}))
	require.NoError(t, err)

	t.Cleanup(func() {
		client.Close()
		gs.Stop()
		lis.Close()
	})

	return client, client.conn
}

func newSmallNetwork(t *testing.T) *mlp.Network {
	t.Helper()
	n, err := mlp.NewNetwork(mlp.Config{
		Inputs:       3,
		Hidden:       []int{8},
		Outputs:      4,
		Activation:   mlp.Tanh,
		LearningRate: 0.01,
		Seed:         3,
	})
	require.NoError(t, err)
	return n
}

func TestPredict_MatchesLocalModel(t *testing.T) {
	network := newSmallNetwork(t)
	client, _ := setupTestServer(t, network)
	ctx := context.Background()
	states := [][]float64{{0, 0.5, 1}, {1, -1, 0.25}}

	remote, err := client.Predict(ctx, states)
	require.NoError(t, err)
	local, err := network.Predict(ctx, states)
	require.NoError(t, err)

	require.Len(t, remote, 2)
	for i := range remote {
		assert.InDeltaSlice(t, local[i], remote[i], 1e-12)
	}
}

func TestFit_ReturnsLossAndUpdatesModel(t *testing.T) {
	network := newSmallNetwork(t)
	client, _ := setupTestServer(t, network)
	ctx := context.Background()
	states := [][]float64{{0, 0.5, 1}}
	targets := [][]float64{{1, 2, 3, 4}}

	before, err := network.Predict(ctx, states)
	require.NoError(t, err)

	loss, err := client.Fit(ctx, states, targets, 3)
	require.NoError(t, err)
	assert.Positive(t, loss)

	after, err := network.Predict(ctx, states)
	require.NoError(t, err)
	assert.NotEqual(t, before, after)
}

func TestStub_ForwardsArguments(t *testing.T) {
	stub := &testutil.StubApproximator{Actions: 4, Values: []float64{1, 2, 3, 4}}
	client, _ := setupTestServer(t, stub)
	ctx := context.Background()

	values, err := client.Predict(ctx, [][]float64{{9}})
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1, 2, 3, 4}}, values)

	_, err = client.Fit(ctx, [][]float64{{1}, {2}}, [][]float64{{0, 0, 0, 1}, {0, 0, 1, 0}}, 2)
	require.NoError(t, err)
	assert.Equal(t, [][]float64{{1}, {2}}, stub.LastStates)
	assert.Equal(t, [][]float64{{0, 0, 0, 1}, {0, 0, 1, 0}}, stub.LastTargets)
	assert.Equal(t, 2, stub.LastEpochs)
}

func TestShapeMismatch_IsInvalidArgument(t *testing.T) {
	client, _ := setupTestServer(t, newSmallNetwork(t))

	_, err := client.Predict(context.Background(), [][]float64{{1, 2}})

	assert.ErrorIs(t, err, mlp.ErrShapeMismatch)
}

func TestModelError_IsInternal(t *testing.T) {
	stub := &testutil.StubApproximator{Actions: 4, FitErr: errors.New("disk full")}
	_, conn := setupTestServer(t, stub)

	req := encodeFitRequest("id", [][]float64{{1}}, [][]float64{{1, 2, 3, 4}}, 1)
	err := conn.Invoke(context.Background(), FitMethod, req, new(structpb.Struct))

	assert.Equal(t, codes.Internal, status.Code(err))
	assert.Contains(t, status.Convert(err).Message(), "disk full")
}

func TestMalformedRequests(t *testing.T) {
	_, conn := setupTestServer(t, &testutil.StubApproximator{Actions: 4})

	tests := []struct {
		name   string
		method string
		req    *structpb.Struct
	}{
		{"predict without states", PredictMethod, &structpb.Struct{Fields: map[string]*structpb.Value{}}},
		{"predict with scalar states", PredictMethod, &structpb.Struct{Fields: map[string]*structpb.Value{
			fieldStates: structpb.NewNumberValue(1),
		}}},
		{"predict with string cell", PredictMethod, &structpb.Struct{Fields: map[string]*structpb.Value{
			fieldStates: structpb.NewListValue(&structpb.ListValue{Values: []*structpb.Value{
				structpb.NewListValue(&structpb.ListValue{Values: []*structpb.Value{structpb.NewStringValue("x")}}),
			}}),
		}}},
		{"fit without targets", FitMethod, encodePredictRequest("id", [][]float64{{1}})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := conn.Invoke(context.Background(), tt.method, tt.req, new(structpb.Struct))
			assert.Equal(t, codes.InvalidArgument, status.Code(err))
		})
	}
}

func TestRecoveryInterceptor(t *testing.T) {
	client, _ := setupTestServer(t, panickingModel{})

	_, err := client.Predict(context.Background(), [][]float64{{1}})

	require.Error(t, err)
	assert.Equal(t, codes.Internal, status.Code(errors.Unwrap(err)))
}

func TestHealthService(t *testing.T) {
	_, conn := setupTestServer(t, &testutil.StubApproximator{Actions: 4})
	health := grpc_health_v1.NewHealthClient(conn)

	for _, service := range []string{"", ServiceName} {
		resp, err := health.Check(context.Background(), &grpc_health_v1.HealthCheckRequest{Service: service})
		require.NoError(t, err)
		assert.Equal(t, grpc_health_v1.HealthCheckResponse_SERVING, resp.Status)
	}
}

func TestClientDrivesAgent(t *testing.T) {
	stub := &testutil.StubApproximator{Actions: 4, Values: []float64{0, 0, 5, 0}}
	client, _ := setupTestServer(t, stub)
	cfg := agent.DefaultConfig()
	cfg.EpsilonStart = 0
	cfg.EpsilonMin = 0
	a := agent.New(cfg, client, testutil.NewTestRNG(1), testutil.NopLogger())

	action, mode, err := a.ChooseAction(context.Background(), []float64{1, 2, 3})

	require.NoError(t, err)
	assert.Equal(t, agent.ModeExploit, mode)
	assert.Equal(t, 2, int(action))
}
