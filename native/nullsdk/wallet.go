package nullsdk

import (
	"encoding/json"
	"sync"

	"github.com/indywasm/indywasm/native"
)

// wallet is an in-memory wallet. It outlives close and is only removed by
// indy_delete_wallet.
type wallet struct {
	id         string
	passphrase string
	handle     native.Handle

	mu   sync.Mutex
	keys map[string]*keyPair
	dids map[string]string
}

type walletConfig struct {
	ID string `json:"id"`
}

type walletCredentials struct {
	Key string `json:"key"`
}

// parseWallet reads the wallet config and credentials JSON.
func parseWallet(config, credentials string) (walletConfig, walletCredentials, bool) {
	var (
		cfg   walletConfig
		creds walletCredentials
	)
	if json.Unmarshal([]byte(config), &cfg) != nil || cfg.ID == "" {
		return cfg, creds, false
	}
	if json.Unmarshal([]byte(credentials), &creds) != nil || creds.Key == "" {
		return cfg, creds, false
	}
	return cfg, creds, true
}

func createWallet(l *Library, args []native.Value) (operation, native.ErrorCode) {
	r := readArgs(args, 2)
	config, credentials := r.str(0), r.str(1)
	return r.done(func() (native.ErrorCode, []native.Value) {
		cfg, creds, ok := parseWallet(config, credentials)
		if !ok {
			return l.fail(native.CommonInvalidStructure, "wallet config needs an id and credentials a key")
		}

		l.mu.Lock()
		_, exists := l.stored[cfg.ID]
		if !exists {
			l.stored[cfg.ID] = &wallet{
				id:         cfg.ID,
				passphrase: creds.Key,
				keys:       make(map[string]*keyPair),
				dids:       make(map[string]string),
			}
		}
		l.mu.Unlock()

		if exists {
			return l.fail(native.WalletAlreadyExistsError, "wallet %q already exists", cfg.ID)
		}
		return native.Success, nil
	})
}

func openWallet(l *Library, args []native.Value) (operation, native.ErrorCode) {
	r := readArgs(args, 2)
	config, credentials := r.str(0), r.str(1)
	return r.done(func() (native.ErrorCode, []native.Value) {
		cfg, creds, ok := parseWallet(config, credentials)
		if !ok {
			return l.fail(native.CommonInvalidStructure, "wallet config needs an id and credentials a key")
		}

		var wh native.Handle
		l.mu.Lock()
		w, code := l.stored[cfg.ID], native.Success
		switch {
		case w == nil:
			code = native.WalletNotFoundError
		case w.passphrase != creds.Key:
			code = native.WalletAccessFailed
		case w.handle != 0:
			code = native.WalletAlreadyOpenedError
		default:
			l.lastWallet++
			wh = l.lastWallet
			w.handle = wh
			l.open[wh] = w
		}
		l.mu.Unlock()

		if code != native.Success {
			return l.fail(code, "cannot open wallet %q", cfg.ID)
		}
		return native.Success, []native.Value{native.HandleValue(wh)}
	})
}

func closeWallet(l *Library, args []native.Value) (operation, native.ErrorCode) {
	r := readArgs(args, 1)
	wh := r.wallet(0)
	return r.done(func() (native.ErrorCode, []native.Value) {
		l.mu.Lock()
		w, ok := l.open[wh]
		if ok {
			delete(l.open, wh)
			w.handle = 0
		}
		l.mu.Unlock()

		if !ok {
			return l.fail(native.WalletInvalidHandle, "wallet handle %d is not open", wh)
		}
		return native.Success, nil
	})
}

func deleteWallet(l *Library, args []native.Value) (operation, native.ErrorCode) {
	r := readArgs(args, 2)
	config, credentials := r.str(0), r.str(1)
	return r.done(func() (native.ErrorCode, []native.Value) {
		cfg, creds, ok := parseWallet(config, credentials)
		if !ok {
			return l.fail(native.CommonInvalidStructure, "wallet config needs an id and credentials a key")
		}

		l.mu.Lock()
		w, code := l.stored[cfg.ID], native.Success
		switch {
		case w == nil:
			code = native.WalletNotFoundError
		case w.passphrase != creds.Key:
			code = native.WalletAccessFailed
		case w.handle != 0:
			code = native.CommonInvalidState
		default:
			delete(l.stored, cfg.ID)
		}
		l.mu.Unlock()

		if code != native.Success {
			return l.fail(code, "cannot delete wallet %q", cfg.ID)
		}
		return native.Success, nil
	})
}

// openWalletFor returns the open wallet behind wh.
func (l *Library) openWalletFor(wh native.Handle) (*wallet, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	w, ok := l.open[wh]
	return w, ok
}

func (w *wallet) addKey(kp *keyPair) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.keys[kp.verkey]; ok {
		return false
	}
	w.keys[kp.verkey] = kp
	return true
}

func (w *wallet) key(verkey string) (*keyPair, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	kp, ok := w.keys[verkey]
	return kp, ok
}

// addDid stores a DID and its key together.
func (w *wallet) addDid(did string, kp *keyPair) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.dids[did]; ok {
		return false
	}
	w.dids[did] = kp.verkey
	w.keys[kp.verkey] = kp
	return true
}

func (w *wallet) verkey(did string) (string, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	vk, ok := w.dids[did]
	return vk, ok
}
