package common

import (
	"errors"
	"fmt"
	"math/big"

	"golang.org/x/crypto/sha3"
)

// VersionByte tags the domain of a Base58Check-encoded value.
type VersionByte byte

const (
	VersionLedgerHash        VersionByte = 0x05
	VersionStateHash         VersionByte = 0x10
	VersionReceiptChainHash  VersionByte = 0x11
	VersionPendingCoinbase   VersionByte = 0x12
	VersionAccountIDDigest   VersionByte = 0x13
	VersionEpochSeed         VersionByte = 0x14
	VersionStagedLedgerAux   VersionByte = 0x15
	VersionCompressedCurve   VersionByte = 0x20
)

const base58Alphabet = "123456789ABCDEFGHJKLMNPQRSTUVWXYZabcdefghijkmnopqrstuvwxyz"

var base58Index [256]int8

func init() {
	for i := range base58Index {
		base58Index[i] = -1
	}
	for i, c := range base58Alphabet {
		base58Index[c] = int8(i)
	}
}

// checksum4 returns the first four bytes of the double-hash used by
// Base58Check: sha3_256(sha3_256(x)), rather than the sha256(sha256(x))
// that Bitcoin-style Base58Check uses.
func checksum4(versionAndPayload []byte) []byte {
	h1 := sha3.Sum256(versionAndPayload)
	h2 := sha3.Sum256(h1[:])
	return h2[:4]
}

// EncodeBase58Check renders payload as base58(version || payload || checksum4).
func EncodeBase58Check(version VersionByte, payload []byte) string {
	buf := make([]byte, 0, 1+len(payload)+4)
	buf = append(buf, byte(version))
	buf = append(buf, payload...)
	buf = append(buf, checksum4(buf)...)
	return encodeBase58(buf)
}

// DecodeBase58Check reverses EncodeBase58Check, verifying both the version
// byte and the checksum. Round-trips bit-exactly for all well-formed input,
//.
func DecodeBase58Check(want VersionByte, s string) ([]byte, error) {
	buf, err := decodeBase58(s)
	if err != nil {
		return nil, err
	}
	if len(buf) < 5 {
		return nil, errors.New("common: base58check payload too short")
	}
	body, sum := buf[:len(buf)-4], buf[len(buf)-4:]
	got := checksum4(body)
	for i := range sum {
		if sum[i] != got[i] {
			return nil, errors.New("common: base58check checksum mismatch")
		}
	}
	if VersionByte(body[0]) != want {
		return nil, fmt.Errorf("common: base58check version mismatch: got %#x want %#x", body[0], want)
	}
	return body[1:], nil
}

func encodeBase58(input []byte) string {
	x := new(big.Int).SetBytes(input)
	base := big.NewInt(58)
	zero := big.NewInt(0)
	mod := new(big.Int)

	var out []byte
	for x.Cmp(zero) > 0 {
		x.DivMod(x, base, mod)
		out = append(out, base58Alphabet[mod.Int64()])
	}
	// preserve leading zero bytes as leading '1's
	for _, b := range input {
		if b != 0 {
			break
		}
		out = append(out, base58Alphabet[0])
	}
	// reverse
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return string(out)
}

func decodeBase58(s string) ([]byte, error) {
	x := big.NewInt(0)
	base := big.NewInt(58)
	for _, c := range s {
		if c > 255 || base58Index[c] < 0 {
			return nil, fmt.Errorf("common: invalid base58 character %q", c)
		}
		x.Mul(x, base)
		x.Add(x, big.NewInt(int64(base58Index[c])))
	}
	decoded := x.Bytes()
	// restore leading zero bytes encoded as leading '1's
	n := 0
	for n < len(s) && s[n] == '1' {
		n++
	}
	out := make([]byte, n+len(decoded))
	copy(out[n:], decoded)
	return out, nil
}
