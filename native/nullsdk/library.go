// Package nullsdk is an in-process stand-in for the native SDK. It implements
// the wallet, DID and crypto symbols the bindings declare, completing every
// call on its own worker goroutines the way the real library completes on its
// worker threads.
package nullsdk

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/go-viper/mapstructure/v2"
	"go.uber.org/zap"

	"github.com/indywasm/indywasm/native"
)

// Name is the name the library is registered under.
const Name = "nullsdk"

func init() {
	native.Register(Name, Factory)
}

// Settings configures the library.
type Settings struct {
	// Workers is the number of goroutines completing calls.
	Workers int `mapstructure:"workers"`
	// QueueSize bounds the calls accepted but not yet running.
	QueueSize int `mapstructure:"queue_size"`
}

// Default fills unset fields.
func (s *Settings) Default() {
	if s.Workers == 0 {
		s.Workers = 4
	}
	if s.QueueSize == 0 {
		s.QueueSize = 64
	}
}

// Validate checks the settings.
func (s *Settings) Validate() error {
	if s.Workers < 1 {
		return fmt.Errorf("%w: workers must be positive, got %d", native.ErrInvalidSettings, s.Workers)
	}
	if s.QueueSize < 0 {
		return fmt.Errorf("%w: queue_size must not be negative, got %d", native.ErrInvalidSettings, s.QueueSize)
	}
	return nil
}

// Factory decodes settings and starts a Library.
func Factory(_ context.Context, settings map[string]any, logger *zap.Logger) (native.Library, error) {
	var s Settings
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		Result:           &s,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(settings); err != nil {
		return nil, fmt.Errorf("%w: %w", native.ErrInvalidSettings, err)
	}
	s.Default()
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return New(s, logger), nil
}

// operation runs on a worker and produces the completion.
type operation func() (native.ErrorCode, []native.Value)

// symbol checks and copies the arguments on the calling goroutine and
// returns the operation to complete later, or an immediate error code.
type symbol func(l *Library, args []native.Value) (operation, native.ErrorCode)

var symbols = map[string]symbol{
	"indy_create_wallet":           createWallet,
	"indy_open_wallet":             openWallet,
	"indy_close_wallet":            closeWallet,
	"indy_delete_wallet":           deleteWallet,
	"indy_create_key":              createKey,
	"indy_create_and_store_my_did": createAndStoreMyDid,
	"indy_key_for_local_did":       keyForLocalDid,
	"indy_abbreviate_verkey":       abbreviateVerkey,
	"indy_crypto_sign":             cryptoSign,
	"indy_crypto_verify":           cryptoVerify,
	"indy_crypto_anon_crypt":       anonCrypt,
	"indy_crypto_anon_decrypt":     anonDecrypt,
	"indy_crypto_auth_crypt":       authCrypt,
	"indy_crypto_auth_decrypt":     authDecrypt,
}

// Symbols returns the sorted symbols the library implements.
func Symbols() []string {
	return slices.Sorted(maps.Keys(symbols))
}

// Library is the in-process SDK.
type Library struct {
	logger *zap.Logger
	jobs   chan func()
	quit   chan struct{}
	wg     sync.WaitGroup
	closed atomic.Bool

	mu         sync.Mutex
	stored     map[string]*wallet
	open       map[native.Handle]*wallet
	lastWallet native.Handle
	lastErr    *native.ErrorDetails
	callErrs   map[native.Handle]native.ErrorDetails
}

// New starts a library with s.Workers workers.
func New(s Settings, logger *zap.Logger) *Library {
	if logger == nil {
		logger = zap.NewNop()
	}
	l := &Library{
		logger:   logger,
		jobs:     make(chan func(), s.QueueSize),
		quit:     make(chan struct{}),
		stored:   make(map[string]*wallet),
		open:     make(map[native.Handle]*wallet),
		callErrs: make(map[native.Handle]native.ErrorDetails),
	}
	for i := 0; i < s.Workers; i++ {
		l.wg.Add(1)
		go l.work()
	}
	return l
}

func (l *Library) work() {
	defer l.wg.Done()
	for {
		select {
		case job := <-l.jobs:
			job()
		case <-l.quit:
			return
		}
	}
}

// Call implements native.Library.
func (l *Library) Call(ctx context.Context, name string, h native.Handle, args []native.Value, cb native.Callback) (native.ErrorCode, error) {
	if l.closed.Load() {
		return native.Success, native.ErrClosed
	}
	sym, ok := symbols[name]
	if !ok {
		return native.Success, fmt.Errorf("%s: %w", name, native.ErrSymbolNotFound)
	}
	if cb == nil {
		return paramCode(len(args)), nil
	}

	op, code := sym(l, args)
	if code != native.Success {
		l.setError(h, code, fmt.Sprintf("%s rejected its arguments", name))
		return code, nil
	}

	job := func() {
		code, payload := op()
		if code != native.Success {
			var message string
			if len(payload) == 1 {
				message = string(payload[0].Text())
			}
			l.setError(h, code, message)
			payload = nil
		}
		l.logger.Debug("completing call",
			zap.String("symbol", name),
			zap.Int32("command_handle", int32(h)),
			zap.Int32("error_code", int32(code)))
		cb(h, code, payload)
	}
	select {
	case l.jobs <- job:
		return native.Success, nil
	case <-l.quit:
		return native.Success, native.ErrClosed
	case <-ctx.Done():
		return native.Success, ctx.Err()
	}
}

// CurrentError implements native.ErrorReporter. It describes the most recent
// failure of any call.
func (l *Library) CurrentError() (native.ErrorDetails, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.lastErr == nil {
		return native.ErrorDetails{}, false
	}
	return *l.lastErr, true
}

// CallError implements native.CallErrorReporter.
func (l *Library) CallError(h native.Handle) (native.ErrorDetails, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	details, ok := l.callErrs[h]
	delete(l.callErrs, h)
	return details, ok
}

func (l *Library) setError(h native.Handle, code native.ErrorCode, message string) {
	details := native.ErrorDetails{Message: fmt.Sprintf("%s: %s", native.CodeName(code), message)}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lastErr = &details
	l.callErrs[h] = details
}

// fail ends an operation with code. The message travels as the only payload
// value; Call records it for the failed handle and never passes it to the
// callback.
func (l *Library) fail(code native.ErrorCode, format string, args ...any) (native.ErrorCode, []native.Value) {
	return code, []native.Value{native.CString(fmt.Sprintf(format, args...))}
}

// Close stops the workers. Calls still queued never complete.
func (l *Library) Close(context.Context) error {
	if !l.closed.CompareAndSwap(false, true) {
		return nil
	}
	close(l.quit)
	l.wg.Wait()
	if n := len(l.jobs); n > 0 {
		l.logger.Info("closed with queued calls", zap.Int("calls", n))
	}
	return nil
}
