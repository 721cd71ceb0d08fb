package pasetotoken

import (
	"fmt"
	"strings"

	paseto "aidanwoods.dev/go-paseto"
)

type Mode string

const (
	ModeLocal  Mode = "local"  // v4.local
	ModePublic Mode = "public" // v4.public
)

type Keys struct {
	Mode Mode

	Symmetric *paseto.V4SymmetricKey

	Secret *paseto.V4AsymmetricSecretKey
	Public *paseto.V4AsymmetricPublicKey
}

type KeyStrings struct {
	Mode         Mode
	SymmetricHex string
	SecretHex    string
	PublicHex    string
}

func LoadKeys(in KeyStrings) (Keys, error) {
	switch in.Mode {
	case ModeLocal:
		h := strings.TrimSpace(in.SymmetricHex)
		if h == "" {
			return Keys{}, fmt.Errorf("%w: local mode requires local_key_hex", ErrMisconfigured)
		}
		k, err := paseto.V4SymmetricKeyFromHex(h)
		if err != nil {
			return Keys{}, fmt.Errorf("%w: symmetric key: %v", ErrMisconfigured, err)
		}
		return Keys{Mode: ModeLocal, Symmetric: &k}, nil

	case ModePublic:
		out := Keys{Mode: ModePublic}
		// A verify-only deployment may configure just the public key.
		if h := strings.TrimSpace(in.SecretHex); h != "" {
			sk, err := paseto.NewV4AsymmetricSecretKeyFromHex(h)
			if err != nil {
				return Keys{}, fmt.Errorf("%w: secret key: %v", ErrMisconfigured, err)
			}
			pk := sk.Public()
			out.Secret, out.Public = &sk, &pk
		}
		if h := strings.TrimSpace(in.PublicHex); h != "" {
			pk, err := paseto.NewV4AsymmetricPublicKeyFromHex(h)
			if err != nil {
				return Keys{}, fmt.Errorf("%w: public key: %v", ErrMisconfigured, err)
			}
			out.Public = &pk
		}
		if out.Public == nil {
			return Keys{}, fmt.Errorf("%w: public mode requires secret_key_hex or public_key_hex", ErrMisconfigured)
		}
		return out, nil

	default:
		return Keys{}, fmt.Errorf("%w: mode %q is not local or public", ErrMisconfigured, in.Mode)
	}
}

func NewLocalKeys() Keys {
	k := paseto.NewV4SymmetricKey()
	return Keys{Mode: ModeLocal, Symmetric: &k}
}

func NewPublicKeys() Keys {
	sk := paseto.NewV4AsymmetricSecretKey()
	pk := sk.Public()
	return Keys{Mode: ModePublic, Secret: &sk, Public: &pk}
}
