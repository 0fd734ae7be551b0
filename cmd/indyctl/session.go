package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/indywasm/indywasm/bridge"
	"github.com/indywasm/indywasm/config"
	"github.com/indywasm/indywasm/indy"
	"github.com/indywasm/indywasm/native"
)

// session is one opened library with its runtime loop running.
type session struct {
	rt      *bridge.Runtime
	logger  *zap.Logger
	timeout time.Duration
	stop    context.CancelFunc
	stopped chan struct{}
}

func openSession(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*session, error) {
	lib, err := native.Open(ctx, cfg.Library.Name, cfg.Library.Settings, logger)
	if err != nil {
		return nil, fmt.Errorf("opening library %q: %w", cfg.Library.Name, err)
	}
	rt := bridge.NewRuntime(lib, bridge.WithLogger(logger))

	loopCtx, stop := context.WithCancel(context.Background())
	s := &session{
		rt:      rt,
		logger:  logger,
		timeout: cfg.CallTimeout,
		stop:    stop,
		stopped: make(chan struct{}),
	}
	go func() {
		defer close(s.stopped)
		if err := rt.Run(loopCtx); err != nil && loopCtx.Err() == nil {
			logger.Error("runtime loop stopped", zap.Error(err))
		}
	}()
	return s, nil
}

// call invokes the entry point called name with CLI arguments converted to
// the entry's declared parameter types.
func (s *session) call(ctx context.Context, name string, raw []string) (any, error) {
	e, err := bridge.Lookup(indy.Exports, name)
	if err != nil {
		return nil, err
	}
	args, err := parseArgs(e, raw)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	start := time.Now()
	v, err := bridge.Invoke(ctx, s.rt, e.Entry, args...)
	s.logger.Debug("call completed",
		zap.String("entry", name),
		zap.Duration("elapsed", time.Since(start)),
		zap.Error(err))
	return v, err
}

// run executes steps in order, stopping at the first failure.
func (s *session) run(ctx context.Context, steps []step, w io.Writer) error {
	saved := make(map[string]string)
	for i, st := range steps {
		args, err := expandArgs(st.Args, saved)
		if err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, st.Call, err)
		}
		v, err := s.call(ctx, st.Call, args)
		if err != nil {
			return fmt.Errorf("step %d (%s): %w", i+1, st.Call, err)
		}
		fields := formatResult(v)
		if st.Save != "" {
			for j, f := range fields {
				saved[fmt.Sprintf("%s.%d", st.Save, j)] = f
			}
			if len(fields) > 0 {
				saved[st.Save] = fields[0]
			}
		}
		fmt.Fprintf(w, "%s: %s\n", st.Call, strings.Join(fieldsOrOK(fields), " "))
	}
	return nil
}

func fieldsOrOK(fields []string) []string {
	if len(fields) == 0 {
		return []string{"ok"}
	}
	return fields
}

func (s *session) close(ctx context.Context) error {
	err := s.rt.Close(ctx)
	s.stop()
	<-s.stopped
	return err
}
