// Basketlens - Customer Segmentation and Purchase Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/basketlens

package recommend

import (
	"math"
	"math/rand"
)

// probabilityFloor clips probabilities inside the log of the loss.
const probabilityFloor = 1e-7

// dense is a fully connected layer. Weights are stored input-major:
// w[i*out+o] connects input i to output o, so a sparse input only touches
// the rows of its non-zero entries.
type dense struct {
	in, out int
	w       []float64
	b       []float64
	relu    bool
}

// Network is a feed-forward classifier: ReLU hidden layers followed by a
// softmax output layer.
type Network struct {
	layers []*dense
}

// newNetwork creates a network with Glorot-uniform weights and zero biases.
// sizes lists the input width, hidden widths and output width.
func newNetwork(sizes []int, rng *rand.Rand) *Network {
	n := &Network{layers: make([]*dense, 0, len(sizes)-1)}
	for l := 0; l+1 < len(sizes); l++ {
		in, out := sizes[l], sizes[l+1]
		layer := &dense{
			in:   in,
			out:  out,
			w:    make([]float64, in*out),
			b:    make([]float64, out),
			relu: l+2 < len(sizes),
		}
		limit := math.Sqrt(6 / float64(in+out))
		for j := range layer.w {
			layer.w[j] = (rng.Float64()*2 - 1) * limit
		}
		n.layers = append(n.layers, layer)
	}
	return n
}

// InputSize returns the width of the input layer.
func (n *Network) InputSize() int {
	return n.layers[0].in
}

// OutputSize returns the number of output classes.
func (n *Network) OutputSize() int {
	return n.layers[len(n.layers)-1].out
}

// Forward returns the output distribution for x.
func (n *Network) Forward(x []float64) []float64 {
	acts := n.newActivations()
	acts[0] = x
	n.forward(acts)
	return acts[len(acts)-1]
}

// newActivations allocates per-layer output buffers. acts[0] is the input
// slot and is left nil for the caller.
func (n *Network) newActivations() [][]float64 {
	acts := make([][]float64, len(n.layers)+1)
	for l, layer := range n.layers {
		acts[l+1] = make([]float64, layer.out)
	}
	return acts
}

// forward fills acts[1:] from acts[0].
func (n *Network) forward(acts [][]float64) {
	for l, layer := range n.layers {
		in, out := acts[l], acts[l+1]
		copy(out, layer.b)
		for i, xi := range in {
			if xi == 0 {
				continue
			}
			row := layer.w[i*layer.out : (i+1)*layer.out]
			for o, w := range row {
				out[o] += xi * w
			}
		}
		if layer.relu {
			for o, v := range out {
				if v < 0 {
					out[o] = 0
				}
			}
		} else {
			softmax(out)
		}
	}
}

// params returns the trainable tensors in a fixed order.
func (n *Network) params() [][]float64 {
	out := make([][]float64, 0, 2*len(n.layers))
	for _, layer := range n.layers {
		out = append(out, layer.w, layer.b)
	}
	return out
}

func softmax(v []float64) {
	maxV := math.Inf(-1)
	for _, x := range v {
		if x > maxV {
			maxV = x
		}
	}
	sum := 0.0
	for i, x := range v {
		e := math.Exp(x - maxV)
		v[i] = e
		sum += e
	}
	for i := range v {
		v[i] /= sum
	}
}

// gradients accumulates the loss gradient of one shard of a mini-batch,
// together with the scratch buffers its forward and backward passes reuse.
type gradients struct {
	tensors [][]float64 // same layout as Network.params
	acts    [][]float64
	deltas  [][]float64
	input   []float64

	// touched lists first-layer input rows with non-zero gradient so only
	// those rows need reducing and clearing.
	touched []int
	marked  []bool

	loss    float64
	correct int
}

func newGradients(n *Network) *gradients {
	g := &gradients{
		acts:   n.newActivations(),
		deltas: make([][]float64, len(n.layers)),
		input:  make([]float64, n.InputSize()),
		marked: make([]bool, n.InputSize()),
	}
	for l, layer := range n.layers {
		g.tensors = append(g.tensors, make([]float64, len(layer.w)), make([]float64, len(layer.b)))
		g.deltas[l] = make([]float64, layer.out)
	}
	return g
}

// backprop adds the cross-entropy gradient of one one-hot example.
func (g *gradients) backprop(n *Network, customer, label int) {
	g.input[customer] = 1
	defer func() { g.input[customer] = 0 }()

	g.acts[0] = g.input
	n.forward(g.acts)

	last := len(n.layers) - 1
	probs := g.acts[last+1]
	g.loss -= math.Log(math.Max(probs[label], probabilityFloor))
	if argmax(probs) == label {
		g.correct++
	}

	// Softmax with cross-entropy: dL/dz = p - y.
	copy(g.deltas[last], probs)
	g.deltas[last][label]--

	for l := last; l >= 0; l-- {
		layer := n.layers[l]
		in, delta := g.acts[l], g.deltas[l]
		gw, gb := g.tensors[2*l], g.tensors[2*l+1]

		for i, xi := range in {
			if xi == 0 {
				continue
			}
			if l == 0 && !g.marked[i] {
				g.marked[i] = true
				g.touched = append(g.touched, i)
			}
			row := gw[i*layer.out : (i+1)*layer.out]
			for o, d := range delta {
				row[o] += xi * d
			}
		}
		for o, d := range delta {
			gb[o] += d
		}

		if l == 0 {
			break
		}
		prev := g.deltas[l-1]
		for i := range prev {
			// in[i] is the ReLU output of layer l-1.
			if in[i] <= 0 {
				prev[i] = 0
				continue
			}
			row := layer.w[i*layer.out : (i+1)*layer.out]
			s := 0.0
			for o, d := range delta {
				s += row[o] * d
			}
			prev[i] = s
		}
	}
}

// reset clears accumulated gradients. First-layer weights are cleared only
// on touched rows.
func (g *gradients) reset(n *Network) {
	first := n.layers[0]
	for _, i := range g.touched {
		clear(g.tensors[0][i*first.out : (i+1)*first.out])
		g.marked[i] = false
	}
	g.touched = g.touched[:0]
	for t := 1; t < len(g.tensors); t++ {
		clear(g.tensors[t])
	}
	g.loss = 0
	g.correct = 0
}

// mergeInto adds g into dst. Shards are merged in shard order so the sum is
// reproducible.
func (g *gradients) mergeInto(dst *gradients, n *Network) {
	first := n.layers[0]
	for _, i := range g.touched {
		if !dst.marked[i] {
			dst.marked[i] = true
			dst.touched = append(dst.touched, i)
		}
		src := g.tensors[0][i*first.out : (i+1)*first.out]
		out := dst.tensors[0][i*first.out : (i+1)*first.out]
		for o, v := range src {
			out[o] += v
		}
	}
	for t := 1; t < len(g.tensors); t++ {
		out := dst.tensors[t]
		for j, v := range g.tensors[t] {
			out[j] += v
		}
	}
	dst.loss += g.loss
	dst.correct += g.correct
}

func argmax(v []float64) int {
	best := 0
	for i := 1; i < len(v); i++ {
		if v[i] > v[best] {
			best = i
		}
	}
	return best
}

// adam implements the Adam optimizer over a fixed list of tensors.
type adam struct {
	lr, beta1, beta2, eps float64
	step                  int
	m, v                  [][]float64
}

func newAdam(cfg TrainingConfig, params [][]float64) *adam {
	a := &adam{
		lr:    cfg.LearningRate,
		beta1: cfg.Beta1,
		beta2: cfg.Beta2,
		eps:   cfg.Epsilon,
		m:     make([][]float64, len(params)),
		v:     make([][]float64, len(params)),
	}
	for t, p := range params {
		a.m[t] = make([]float64, len(p))
		a.v[t] = make([]float64, len(p))
	}
	return a
}

// update applies one step using grads scaled by scale.
func (a *adam) update(params, grads [][]float64, scale float64) {
	a.step++
	c1 := 1 - math.Pow(a.beta1, float64(a.step))
	c2 := 1 - math.Pow(a.beta2, float64(a.step))
	for t, p := range params {
		g, m, v := grads[t], a.m[t], a.v[t]
		for j := range p {
			gj := g[j] * scale
			m[j] = a.beta1*m[j] + (1-a.beta1)*gj
			v[j] = a.beta2*v[j] + (1-a.beta2)*gj*gj
			p[j] -= a.lr * (m[j] / c1) / (math.Sqrt(v[j]/c2) + a.eps)
		}
	}
}
