package nullsdk

import (
	"bytes"
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha512"
	"encoding/json"
	"errors"
	"math/big"
	"strings"

	"github.com/mr-tron/base58"
	"golang.org/x/crypto/curve25519"
	"golang.org/x/crypto/nacl/box"

	"github.com/indywasm/indywasm/native"
)

const cryptoType = "ed25519"

var errInvalidKey = errors.New("invalid verkey")

// keyPair is an ed25519 signing key with its X25519 box key.
type keyPair struct {
	verkey  string
	sign    ed25519.PrivateKey
	boxPub  [32]byte
	boxPriv [32]byte
}

func newKeyPair(seed []byte) (*keyPair, error) {
	if seed == nil {
		seed = make([]byte, ed25519.SeedSize)
		if _, err := rand.Read(seed); err != nil {
			return nil, err
		}
	}
	priv := ed25519.NewKeyFromSeed(seed)
	kp := &keyPair{
		verkey: base58.Encode(priv.Public().(ed25519.PublicKey)),
		sign:   priv,
	}
	h := sha512.Sum512(seed)
	copy(kp.boxPriv[:], h[:32])
	pub, err := curve25519.X25519(kp.boxPriv[:], curve25519.Basepoint)
	if err != nil {
		return nil, err
	}
	copy(kp.boxPub[:], pub)
	return kp, nil
}

// did is the default DID for a key: the first 16 bytes of the verkey.
func (kp *keyPair) did() string {
	return base58.Encode(kp.sign.Public().(ed25519.PublicKey)[:16])
}

// decodeVerkey accepts "<base58>" or "<base58>:ed25519".
func decodeVerkey(verkey string) (ed25519.PublicKey, native.ErrorCode) {
	if key, typ, ok := strings.Cut(verkey, ":"); ok {
		if typ != cryptoType {
			return nil, native.UnknownCryptoTypeError
		}
		verkey = key
	}
	raw, err := base58.Decode(verkey)
	if err != nil || len(raw) != ed25519.PublicKeySize {
		return nil, native.CommonInvalidStructure
	}
	return ed25519.PublicKey(raw), native.Success
}

var (
	curveP = new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 255), big.NewInt(19))
	one    = big.NewInt(1)
)

// boxPublicKey maps an ed25519 public key to its X25519 form,
// u = (1 + y) / (1 - y) mod p.
func boxPublicKey(pub ed25519.PublicKey) (*[32]byte, error) {
	le := bytes.Clone(pub)
	le[31] &= 0x7f
	y := new(big.Int).SetBytes(reverse(le))
	if y.Cmp(curveP) >= 0 {
		return nil, errInvalidKey
	}

	num := new(big.Int).Add(one, y)
	den := new(big.Int).Sub(one, y)
	den.Mod(den, curveP)
	if den.Sign() == 0 {
		return nil, errInvalidKey
	}
	u := num.Mul(num, den.ModInverse(den, curveP))
	u.Mod(u, curveP)

	var out [32]byte
	u.FillBytes(out[:])
	copy(out[:], reverse(out[:]))
	return &out, nil
}

func reverse(b []byte) []byte {
	out := make([]byte, len(b))
	for i, c := range b {
		out[len(b)-1-i] = c
	}
	return out
}

type keyConfig struct {
	Seed       string `json:"seed,omitempty"`
	CryptoType string `json:"crypto_type,omitempty"`
	DID        string `json:"did,omitempty"`
}

// parseKeyConfig reads key_json or did_json. An empty document is allowed.
func parseKeyConfig(doc string) (keyConfig, native.ErrorCode) {
	var cfg keyConfig
	if strings.TrimSpace(doc) != "" {
		if err := json.Unmarshal([]byte(doc), &cfg); err != nil {
			return cfg, native.CommonInvalidStructure
		}
	}
	if cfg.CryptoType != "" && cfg.CryptoType != cryptoType {
		return cfg, native.UnknownCryptoTypeError
	}
	if cfg.Seed != "" && len(cfg.Seed) != ed25519.SeedSize {
		return cfg, native.CommonInvalidStructure
	}
	return cfg, native.Success
}

func (cfg keyConfig) keyPair() (*keyPair, error) {
	if cfg.Seed == "" {
		return newKeyPair(nil)
	}
	return newKeyPair([]byte(cfg.Seed))
}

func createKey(l *Library, args []native.Value) (operation, native.ErrorCode) {
	r := readArgs(args, 2)
	wh, doc := r.wallet(0), r.str(1)
	return r.done(func() (native.ErrorCode, []native.Value) {
		w, ok := l.openWalletFor(wh)
		if !ok {
			return l.fail(native.WalletInvalidHandle, "wallet handle %d is not open", wh)
		}
		cfg, code := parseKeyConfig(doc)
		if code != native.Success {
			return l.fail(code, "invalid key_json")
		}
		kp, err := cfg.keyPair()
		if err != nil {
			return l.fail(native.CommonInvalidState, "generating key: %v", err)
		}
		if !w.addKey(kp) {
			return l.fail(native.WalletItemAlreadyExists, "key %s already stored", kp.verkey)
		}
		return native.Success, []native.Value{native.CString(kp.verkey)}
	})
}

func createAndStoreMyDid(l *Library, args []native.Value) (operation, native.ErrorCode) {
	r := readArgs(args, 2)
	wh, doc := r.wallet(0), r.str(1)
	return r.done(func() (native.ErrorCode, []native.Value) {
		w, ok := l.openWalletFor(wh)
		if !ok {
			return l.fail(native.WalletInvalidHandle, "wallet handle %d is not open", wh)
		}
		cfg, code := parseKeyConfig(doc)
		if code != native.Success {
			return l.fail(code, "invalid did_json")
		}
		kp, err := cfg.keyPair()
		if err != nil {
			return l.fail(native.CommonInvalidState, "generating key: %v", err)
		}
		did := cfg.DID
		if did == "" {
			did = kp.did()
		}
		if !w.addDid(did, kp) {
			return l.fail(native.DidAlreadyExistsError, "did %s already stored", did)
		}
		return native.Success, []native.Value{native.CString(did), native.CString(kp.verkey)}
	})
}

func keyForLocalDid(l *Library, args []native.Value) (operation, native.ErrorCode) {
	r := readArgs(args, 2)
	wh, did := r.wallet(0), r.str(1)
	return r.done(func() (native.ErrorCode, []native.Value) {
		w, ok := l.openWalletFor(wh)
		if !ok {
			return l.fail(native.WalletInvalidHandle, "wallet handle %d is not open", wh)
		}
		vk, ok := w.verkey(did)
		if !ok {
			return l.fail(native.WalletItemNotFound, "did %s not found", did)
		}
		return native.Success, []native.Value{native.CString(vk)}
	})
}

func abbreviateVerkey(l *Library, args []native.Value) (operation, native.ErrorCode) {
	r := readArgs(args, 2)
	did, verkey := r.str(0), r.str(1)
	return r.done(func() (native.ErrorCode, []native.Value) {
		rawDid, err := base58.Decode(did)
		if err != nil || len(rawDid) != 16 {
			return l.fail(native.CommonInvalidStructure, "invalid did %q", did)
		}
		pub, code := decodeVerkey(verkey)
		if code != native.Success {
			return l.fail(code, "invalid verkey %q", verkey)
		}
		if !bytes.Equal(pub[:16], rawDid) {
			return native.Success, []native.Value{native.CString(verkey)}
		}
		return native.Success, []native.Value{native.CString("~" + base58.Encode(pub[16:]))}
	})
}

// walletKey resolves an open wallet and one of its keys.
func (l *Library) walletKey(wh native.Handle, verkey string) (*keyPair, native.ErrorCode) {
	w, ok := l.openWalletFor(wh)
	if !ok {
		return nil, native.WalletInvalidHandle
	}
	if key, _, ok := strings.Cut(verkey, ":"); ok {
		verkey = key
	}
	kp, ok := w.key(verkey)
	if !ok {
		return nil, native.WalletItemNotFound
	}
	return kp, native.Success
}

func cryptoSign(l *Library, args []native.Value) (operation, native.ErrorCode) {
	r := readArgs(args, 3)
	wh, signer, msg := r.wallet(0), r.str(1), r.buf(2)
	return r.done(func() (native.ErrorCode, []native.Value) {
		kp, code := l.walletKey(wh, signer)
		if code != native.Success {
			return l.fail(code, "signing key %s unavailable", signer)
		}
		return native.Success, []native.Value{native.Buffer(ed25519.Sign(kp.sign, msg))}
	})
}

func cryptoVerify(l *Library, args []native.Value) (operation, native.ErrorCode) {
	r := readArgs(args, 3)
	signer, msg, sig := r.str(0), r.buf(1), r.buf(2)
	return r.done(func() (native.ErrorCode, []native.Value) {
		pub, code := decodeVerkey(signer)
		if code != native.Success {
			return l.fail(code, "invalid verkey %q", signer)
		}
		return native.Success, []native.Value{native.Bool(ed25519.Verify(pub, msg, sig))}
	})
}

func anonCrypt(l *Library, args []native.Value) (operation, native.ErrorCode) {
	r := readArgs(args, 2)
	recipient, msg := r.str(0), r.buf(1)
	return r.done(func() (native.ErrorCode, []native.Value) {
		pub, code := decodeVerkey(recipient)
		if code != native.Success {
			return l.fail(code, "invalid verkey %q", recipient)
		}
		boxPub, err := boxPublicKey(pub)
		if err != nil {
			return l.fail(native.CommonInvalidStructure, "%v", err)
		}
		sealed, err := box.SealAnonymous(nil, msg, boxPub, rand.Reader)
		if err != nil {
			return l.fail(native.CommonInvalidState, "sealing: %v", err)
		}
		return native.Success, []native.Value{native.Buffer(sealed)}
	})
}

func anonDecrypt(l *Library, args []native.Value) (operation, native.ErrorCode) {
	r := readArgs(args, 3)
	wh, recipient, sealed := r.wallet(0), r.str(1), r.buf(2)
	return r.done(func() (native.ErrorCode, []native.Value) {
		kp, code := l.walletKey(wh, recipient)
		if code != native.Success {
			return l.fail(code, "recipient key %s unavailable", recipient)
		}
		msg, ok := box.OpenAnonymous(nil, sealed, &kp.boxPub, &kp.boxPriv)
		if !ok {
			return l.fail(native.CommonInvalidStructure, "cannot open anonymous box")
		}
		return native.Success, []native.Value{native.Buffer(msg)}
	})
}

// authEnvelope is anonymously sealed to the recipient and carries a box
// authenticated by the sender.
type authEnvelope struct {
	Sender string `json:"sender"`
	Nonce  []byte `json:"nonce"`
	Msg    []byte `json:"msg"`
}

func authCrypt(l *Library, args []native.Value) (operation, native.ErrorCode) {
	r := readArgs(args, 4)
	wh, sender, recipient, msg := r.wallet(0), r.str(1), r.str(2), r.buf(3)
	return r.done(func() (native.ErrorCode, []native.Value) {
		kp, code := l.walletKey(wh, sender)
		if code != native.Success {
			return l.fail(code, "sender key %s unavailable", sender)
		}
		pub, code := decodeVerkey(recipient)
		if code != native.Success {
			return l.fail(code, "invalid verkey %q", recipient)
		}
		boxPub, err := boxPublicKey(pub)
		if err != nil {
			return l.fail(native.CommonInvalidStructure, "%v", err)
		}

		var nonce [24]byte
		if _, err := rand.Read(nonce[:]); err != nil {
			return l.fail(native.CommonInvalidState, "nonce: %v", err)
		}
		env, err := json.Marshal(authEnvelope{
			Sender: kp.verkey,
			Nonce:  nonce[:],
			Msg:    box.Seal(nil, msg, &nonce, boxPub, &kp.boxPriv),
		})
		if err != nil {
			return l.fail(native.CommonInvalidState, "encoding envelope: %v", err)
		}
		sealed, err := box.SealAnonymous(nil, env, boxPub, rand.Reader)
		if err != nil {
			return l.fail(native.CommonInvalidState, "sealing: %v", err)
		}
		return native.Success, []native.Value{native.Buffer(sealed)}
	})
}

func authDecrypt(l *Library, args []native.Value) (operation, native.ErrorCode) {
	r := readArgs(args, 3)
	wh, recipient, sealed := r.wallet(0), r.str(1), r.buf(2)
	return r.done(func() (native.ErrorCode, []native.Value) {
		kp, code := l.walletKey(wh, recipient)
		if code != native.Success {
			return l.fail(code, "recipient key %s unavailable", recipient)
		}
		data, ok := box.OpenAnonymous(nil, sealed, &kp.boxPub, &kp.boxPriv)
		if !ok {
			return l.fail(native.CommonInvalidStructure, "cannot open anonymous box")
		}
		var env authEnvelope
		if err := json.Unmarshal(data, &env); err != nil || len(env.Nonce) != 24 {
			return l.fail(native.CommonInvalidStructure, "malformed envelope")
		}
		senderPub, code := decodeVerkey(env.Sender)
		if code != native.Success {
			return l.fail(code, "invalid sender verkey")
		}
		senderBox, err := boxPublicKey(senderPub)
		if err != nil {
			return l.fail(native.CommonInvalidStructure, "%v", err)
		}
		var nonce [24]byte
		copy(nonce[:], env.Nonce)
		msg, ok := box.Open(nil, env.Msg, &nonce, senderBox, &kp.boxPriv)
		if !ok {
			return l.fail(native.CommonInvalidStructure, "sender authentication failed")
		}
		return native.Success, []native.Value{native.CString(env.Sender), native.Buffer(msg)}
	})
}
