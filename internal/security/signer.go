// Package security signs outbound payloads so receivers can check they came
// from this dashboard.
package security

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"
	"github.com/sirupsen/logrus"
)

// ErrSignatureMismatch is returned when a signature was not made by the
// expected address.
var ErrSignatureMismatch = errors.New("signature does not match signer")

// Signer produces secp256k1 signatures over the Keccak-256 hash of a payload,
// recoverable to an Ethereum address.
type Signer struct {
	key     *ecdsa.PrivateKey
	address common.Address
}

// NewSigner loads a hex-encoded private key. An empty key generates an
// ephemeral one.
func NewSigner(hexKey string) (*Signer, error) {
	var (
		key *ecdsa.PrivateKey
		err error
	)
	if hexKey == "" {
		key, err = crypto.GenerateKey()
		if err != nil {
			return nil, fmt.Errorf("failed to generate key: %w", err)
		}
	} else {
		key, err = crypto.HexToECDSA(strings.TrimPrefix(hexKey, "0x"))
		if err != nil {
			return nil, fmt.Errorf("invalid signing key: %w", err)
		}
	}

	s := &Signer{key: key, address: crypto.PubkeyToAddress(key.PublicKey)}
	logrus.WithFields(logrus.Fields{
		"address":   s.address.Hex(),
		"ephemeral": hexKey == "",
	}).Info("Payload signer initialized")
	return s, nil
}

// Address is the signer's Ethereum address.
func (s *Signer) Address() string {
	return s.address.Hex()
}

// Sign returns the 65-byte [R || S || V] signature of payload, hex encoded.
func (s *Signer) Sign(payload []byte) (string, error) {
	sig, err := crypto.Sign(crypto.Keccak256(payload), s.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign payload: %w", err)
	}
	return hexutil.Encode(sig), nil
}

// Recover returns the address that produced signature over payload.
func Recover(payload []byte, signature string) (string, error) {
	sig, err := hexutil.Decode(signature)
	if err != nil {
		return "", fmt.Errorf("failed to decode signature: %w", err)
	}
	if len(sig) != crypto.SignatureLength {
		return "", fmt.Errorf("invalid signature length: %d", len(sig))
	}
	pub, err := crypto.SigToPub(crypto.Keccak256(payload), sig)
	if err != nil {
		return "", fmt.Errorf("failed to recover public key: %w", err)
	}
	return crypto.PubkeyToAddress(*pub).Hex(), nil
}

// Verify checks that signature over payload was made by address.
func Verify(payload []byte, signature, address string) error {
	got, err := Recover(payload, signature)
	if err != nil {
		return err
	}
	if !common.IsHexAddress(address) || common.HexToAddress(address).Hex() != got {
		return fmt.Errorf("%w: recovered %s", ErrSignatureMismatch, got)
	}
	return nil
}
