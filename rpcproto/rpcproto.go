// Package rpcproto implements the wire framing for peer-to-peer RPCs: a
// length-prefixed, snappy-compressed frame carrying a named RPC kind plus
// an opaque payload. The framing choice mirrors the node's devp2p message
// layer (one frame per RPC, size-prefixed, optionally compressed) without
// pulling in a full RLP-style generic encoder, since this protocol only
// ever needs to move a fixed family of already-typed request/response
// structs rather than arbitrary nested Go values.
package rpcproto

import (
	"bufio"
	"encoding/binary"
	"errors"
	"io"

	"github.com/golang/snappy"
)

// Kind names the RPC methods exchanged over the RPC and StreamingRPC
// channels.
type Kind string

const (
	KindGetBestTip           Kind = "get_best_tip"
	KindWhatChildHashes       Kind = "what_child_hashes"
	KindWhatContents          Kind = "what_contents"
	KindGetStagedLedgerAux    Kind = "get_staged_ledger_aux"
	KindGetStagedLedgerTree   Kind = "get_staged_ledger_tree"
	KindGetBlock              Kind = "get_block"
	KindGetTransitionChainProof Kind = "get_transition_chain_proof"
)

var ErrFrameTooLarge = errors.New("rpcproto: frame exceeds maximum size")

// MaxFrameSize bounds a single frame's length prefix (header plus
// compressed payload, as read off the wire), guarding against a malicious
// peer claiming an enormous length prefix. The decompressed payload size is
// not checked against it.
const MaxFrameSize = 32 << 20

// WriteFrame writes one length-prefixed, snappy-compressed frame: a kind,
// an RPC id for correlation, and an opaque payload.
func WriteFrame(w io.Writer, id int64, kind Kind, payload []byte) error {
	compressed := snappy.Encode(nil, payload)
	header := make([]byte, 8+2+len(kind))
	binary.BigEndian.PutUint64(header[0:8], uint64(id))
	binary.BigEndian.PutUint16(header[8:10], uint16(len(kind)))
	copy(header[10:], kind)

	body := append(header, compressed...)
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(body)))
	if _, err := w.Write(lenBuf[:]); err != nil {
		return err
	}
	_, err := w.Write(body)
	return err
}

// ReadFrame reads one frame written by WriteFrame.
func ReadFrame(r *bufio.Reader) (id int64, kind Kind, payload []byte, err error) {
	var lenBuf [4]byte
	if _, err = io.ReadFull(r, lenBuf[:]); err != nil {
		return 0, "", nil, err
	}
	n := binary.BigEndian.Uint32(lenBuf[:])
	if n > MaxFrameSize {
		return 0, "", nil, ErrFrameTooLarge
	}
	body := make([]byte, n)
	if _, err = io.ReadFull(r, body); err != nil {
		return 0, "", nil, err
	}
	if len(body) < 10 {
		return 0, "", nil, errors.New("rpcproto: truncated frame header")
	}
	id = int64(binary.BigEndian.Uint64(body[0:8]))
	klen := binary.BigEndian.Uint16(body[8:10])
	if len(body) < int(10+klen) {
		return 0, "", nil, errors.New("rpcproto: truncated frame kind")
	}
	kind = Kind(body[10 : 10+klen])
	compressed := body[10+klen:]
	payload, err = snappy.Decode(nil, compressed)
	return id, kind, payload, err
}
