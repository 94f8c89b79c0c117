// Package producer runs the block-sealing loop: on winning a slot, build a
// candidate block body and hand it to the prover in its own goroutine so a
// proof that takes many seconds never blocks the reducer.
package producer

import (
	"context"

	"github.com/mina-go/node/action"
	"github.com/mina-go/node/common"
	"github.com/mina-go/node/log"
	"github.com/mina-go/node/prover"
)

var logger = log.New("pkg", "producer")

// BodyBuilder assembles the unproven block body for a won slot: the
// transactions and SNARK work to include, pulled from the tx/snark pools.
type BodyBuilder func(slot uint64) (block []byte, err error)

// Producer reacts to BlockProducerSlotWon by building a body and proving
// it asynchronously.
type Producer struct {
	build   BodyBuilder
	prover  prover.Prover
	publish func(ctx context.Context, a action.Action)
}

func New(build BodyBuilder, p prover.Prover, publish func(ctx context.Context, a action.Action)) *Producer {
	return &Producer{build: build, prover: p, publish: publish}
}

// Perform satisfies dispatch.Effects for BlockProducerSlotWon; every other
// action kind is ignored.
func (p *Producer) Perform(ctx context.Context, a action.Action) {
	v, ok := a.(action.BlockProducerSlotWon)
	if !ok {
		return
	}
	go p.seal(ctx, v.Slot)
}

func (p *Producer) seal(ctx context.Context, slot uint64) {
	block, err := p.build(slot)
	if err != nil {
		logger.Warn("failed to build candidate block body", "slot", slot, "err", err)
		p.publish(ctx, action.BlockProducerProofFailed{Slot: slot, Err: &common.ProverFailure{Err: err}})
		return
	}
	proof, err := p.prover.Prove(ctx, block)
	if err != nil {
		p.publish(ctx, action.BlockProducerProofFailed{Slot: slot, Err: &common.ProverFailure{Err: err}})
		return
	}
	p.publish(ctx, action.BlockProducerProofReady{Slot: slot, Block: block, Proof: proof})
}
