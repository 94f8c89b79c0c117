package rpcproto

import (
	"encoding/binary"
	"errors"
)

// EncodeChildHashesResponse packs a WhatChildHashes reply: the two 32-byte
// child hashes, in left-right order.
func EncodeChildHashesResponse(left, right [32]byte) []byte {
	buf := make([]byte, 64)
	copy(buf[0:32], left[:])
	copy(buf[32:64], right[:])
	return buf
}

// DecodeChildHashesResponse is the inverse of EncodeChildHashesResponse.
func DecodeChildHashesResponse(payload []byte) (left, right [32]byte, err error) {
	if len(payload) != 64 {
		return left, right, errors.New("rpcproto: bad child-hashes payload length")
	}
	copy(left[:], payload[0:32])
	copy(right[:], payload[32:64])
	return left, right, nil
}

// EncodeAccountBundle packs a WhatContents reply: a count prefix followed
// by length-prefixed account records.
func EncodeAccountBundle(accounts [][]byte) []byte {
	buf := make([]byte, 4)
	binary.BigEndian.PutUint32(buf, uint32(len(accounts)))
	for _, a := range accounts {
		var lenBuf [4]byte
		binary.BigEndian.PutUint32(lenBuf[:], uint32(len(a)))
		buf = append(buf, lenBuf[:]...)
		buf = append(buf, a...)
	}
	return buf
}

// DecodeAccountBundle is the inverse of EncodeAccountBundle.
func DecodeAccountBundle(payload []byte) ([][]byte, error) {
	if len(payload) < 4 {
		return nil, errors.New("rpcproto: bad account-bundle payload")
	}
	count := binary.BigEndian.Uint32(payload[0:4])
	payload = payload[4:]
	accounts := make([][]byte, 0, count)
	for i := uint32(0); i < count; i++ {
		if len(payload) < 4 {
			return nil, errors.New("rpcproto: truncated account-bundle entry length")
		}
		n := binary.BigEndian.Uint32(payload[0:4])
		payload = payload[4:]
		if uint32(len(payload)) < n {
			return nil, errors.New("rpcproto: truncated account-bundle entry body")
		}
		accounts = append(accounts, payload[:n])
		payload = payload[n:]
	}
	return accounts, nil
}
