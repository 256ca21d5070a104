package mlp

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"sync"

	"gonum.org/v1/gonum/mat"
)

var (
	// ErrShapeMismatch is returned when inputs or targets do not match the layer sizes
	ErrShapeMismatch = errors.New("shape mismatch")
	// ErrUnknownActivation is returned for activation names other than tanh and relu
	ErrUnknownActivation = errors.New("unknown activation")
)

// Adam defaults
const (
	beta1   = 0.9
	beta2   = 0.999
	epsilon = 1e-7
)

// Config describes the network topology and optimizer
type Config struct {
	Inputs       int
	Hidden       []int
	Outputs      int
	Activation   Activation
	LearningRate float64
	// BatchSize splits each Fit call into shuffled minibatches
	BatchSize int
	Seed      int64
}

// DefaultConfig returns a 258-128-128-4 tanh network trained with Adam at 0.001
func DefaultConfig() Config {
	return Config{
		Inputs:       258,
		Hidden:       []int{128, 128},
		Outputs:      4,
		Activation:   Tanh,
		LearningRate: 0.001,
		BatchSize:    32,
		Seed:         1,
	}
}

type layer struct {
	w, b   *mat.Dense // w is in×out, b is 1×out
	mw, vw *mat.Dense
	mb, vb *mat.Dense
}

func newLayer(in, out int, rng *rand.Rand) *layer {
	// Glorot uniform
	limit := math.Sqrt(6 / float64(in+out))
	data := make([]float64, in*out)
	for i := range data {
		data[i] = (rng.Float64()*2 - 1) * limit
	}
	return &layer{
		w:  mat.NewDense(in, out, data),
		b:  mat.NewDense(1, out, nil),
		mw: mat.NewDense(in, out, nil),
		vw: mat.NewDense(in, out, nil),
		mb: mat.NewDense(1, out, nil),
		vb: mat.NewDense(1, out, nil),
	}
}

// Network is a fully connected feed-forward regressor with a linear output layer,
// trained on mean squared error. It is safe for concurrent use.
type Network struct {
	mu     sync.Mutex
	cfg    Config
	layers []*layer
	rng    *rand.Rand
	step   int
}

// NewNetwork creates a network with Glorot-initialized weights and zero biases
func NewNetwork(cfg Config) (*Network, error) {
	if cfg.Inputs <= 0 || cfg.Outputs <= 0 {
		return nil, fmt.Errorf("%w: inputs=%d outputs=%d", ErrShapeMismatch, cfg.Inputs, cfg.Outputs)
	}
	act, err := ParseActivation(string(cfg.Activation))
	if err != nil {
		return nil, err
	}
	cfg.Activation = act
	if cfg.LearningRate <= 0 {
		cfg.LearningRate = DefaultConfig().LearningRate
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultConfig().BatchSize
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	sizes := append(append([]int{cfg.Inputs}, cfg.Hidden...), cfg.Outputs)
	layers := make([]*layer, len(sizes)-1)
	for i := range layers {
		if sizes[i+1] <= 0 {
			return nil, fmt.Errorf("%w: layer %d has %d units", ErrShapeMismatch, i, sizes[i+1])
		}
		layers[i] = newLayer(sizes[i], sizes[i+1], rng)
	}

	return &Network{cfg: cfg, layers: layers, rng: rng}, nil
}

// Inputs returns the expected state length
func (n *Network) Inputs() int { return n.cfg.Inputs }

// Outputs returns the number of values produced per state
func (n *Network) Outputs() int { return n.cfg.Outputs }

// Predict runs a forward pass over a batch of states
func (n *Network) Predict(ctx context.Context, states [][]float64) ([][]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	x, err := n.toDense(states, n.cfg.Inputs)
	if err != nil {
		return nil, err
	}

	n.mu.Lock()
	acts := n.forward(x)
	n.mu.Unlock()

	out := acts[len(acts)-1]
	rows, _ := out.Dims()
	result := make([][]float64, rows)
	for r := range result {
		result[r] = mat.Row(nil, r, out)
	}
	return result, nil
}

// Fit trains for the given number of epochs and returns the mean minibatch loss of the last one
func (n *Network) Fit(ctx context.Context, states, targets [][]float64, epochs int) (float64, error) {
	if len(states) != len(targets) {
		return 0, fmt.Errorf("%w: %d states, %d targets", ErrShapeMismatch, len(states), len(targets))
	}
	x, err := n.toDense(states, n.cfg.Inputs)
	if err != nil {
		return 0, err
	}
	t, err := n.toDense(targets, n.cfg.Outputs)
	if err != nil {
		return 0, err
	}
	if epochs <= 0 {
		epochs = 1
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	rows := len(states)
	order := make([]int, rows)
	for i := range order {
		order[i] = i
	}

	var loss float64
	for e := 0; e < epochs; e++ {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		n.rng.Shuffle(rows, func(i, j int) { order[i], order[j] = order[j], order[i] })

		total, batches := 0.0, 0
		for start := 0; start < rows; start += n.cfg.BatchSize {
			end := start + n.cfg.BatchSize
			if end > rows {
				end = rows
			}
			bx := gatherRows(x, order[start:end])
			bt := gatherRows(t, order[start:end])
			total += n.trainBatch(bx, bt)
			batches++
		}
		loss = total / float64(batches)
	}
	return loss, nil
}

func (n *Network) toDense(rows [][]float64, width int) (*mat.Dense, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: empty batch", ErrShapeMismatch)
	}
	data := make([]float64, 0, len(rows)*width)
	for i, r := range rows {
		if len(r) != width {
			return nil, fmt.Errorf("%w: row %d has %d values, want %d", ErrShapeMismatch, i, len(r), width)
		}
		data = append(data, r...)
	}
	return mat.NewDense(len(rows), width, data), nil
}

func gatherRows(m *mat.Dense, idx []int) *mat.Dense {
	_, cols := m.Dims()
	out := mat.NewDense(len(idx), cols, nil)
	for i, r := range idx {
		out.SetRow(i, m.RawRowView(r))
	}
	return out
}

// forward returns the input followed by every layer's output
func (n *Network) forward(x *mat.Dense) []*mat.Dense {
	acts := make([]*mat.Dense, len(n.layers)+1)
	acts[0] = x
	last := len(n.layers) - 1
	for i, l := range n.layers {
		z := new(mat.Dense)
		z.Mul(acts[i], l.w)
		rows, _ := z.Dims()
		bias := l.b.RawRowView(0)
		for r := 0; r < rows; r++ {
			row := z.RawRowView(r)
			for c := range row {
				row[c] += bias[c]
			}
		}
		if i < last {
			z.Apply(func(_, _ int, v float64) float64 { return n.cfg.Activation.apply(v) }, z)
		}
		acts[i+1] = z
	}
	return acts
}

// trainBatch does one forward/backward pass and an Adam update, returning the MSE
func (n *Network) trainBatch(x, t *mat.Dense) float64 {
	acts := n.forward(x)
	out := acts[len(acts)-1]
	rows, cols := out.Dims()

	delta := new(mat.Dense)
	delta.Sub(out, t)
	loss := 0.0
	for _, v := range delta.RawMatrix().Data {
		loss += v * v
	}
	count := float64(rows * cols)
	loss /= count
	delta.Scale(2/count, delta)

	n.step++
	for i := len(n.layers) - 1; i >= 0; i-- {
		l := n.layers[i]

		gw := new(mat.Dense)
		gw.Mul(acts[i].T(), delta)
		_, outCols := delta.Dims()
		gb := mat.NewDense(1, outCols, nil)
		gbRow := gb.RawRowView(0)
		for r := 0; r < rows; r++ {
			for c, v := range delta.RawRowView(r) {
				gbRow[c] += v
			}
		}

		if i > 0 {
			prev := new(mat.Dense)
			prev.Mul(delta, l.w.T())
			in := acts[i]
			prev.Apply(func(r, c int, v float64) float64 {
				return v * n.cfg.Activation.derivative(in.At(r, c))
			}, prev)
			delta = prev
		}

		n.adam(l.w, gw, l.mw, l.vw)
		n.adam(l.b, gb, l.mb, l.vb)
	}
	return loss
}

func (n *Network) adam(p, g, m, v *mat.Dense) {
	c1 := 1 - math.Pow(beta1, float64(n.step))
	c2 := 1 - math.Pow(beta2, float64(n.step))
	pd, gd := p.RawMatrix().Data, g.RawMatrix().Data
	md, vd := m.RawMatrix().Data, v.RawMatrix().Data
	for i, grad := range gd {
		md[i] = beta1*md[i] + (1-beta1)*grad
		vd[i] = beta2*vd[i] + (1-beta2)*grad*grad
		pd[i] -= n.cfg.LearningRate * (md[i] / c1) / (math.Sqrt(vd[i]/c2) + epsilon)
	}
}
