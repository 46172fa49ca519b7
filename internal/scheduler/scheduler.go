// Package scheduler spawns one worker per group and, within each group,
// repeats duration-bounded waves of concurrent virtual users: spawn `users`
// virtual users, join them, check the deadline, repeat.
package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/kadekeh/volley/internal/engine"
	"github.com/kadekeh/volley/internal/errs"
	"github.com/kadekeh/volley/internal/model"
	"github.com/kadekeh/volley/internal/redirect"
	"github.com/kadekeh/volley/internal/resolver"
	"github.com/kadekeh/volley/internal/sink"
)

// Scheduler runs every group of a configuration concurrently and collects
// their results into a single shared sink.
type Scheduler struct {
	resolver *resolver.Resolver
	logger   *logrus.Logger

	// OnExchange, when set, is invoked for every individual HTTP exchange
	// (including intermediate redirect hops) across every virtual user.
	// Used by --output debug to print each rendered request and raw
	// response; results are still collected, and the caller prints no
	// summary in that mode.
	OnExchange func(engine.Exchange)
}

// New returns a Scheduler that logs to logger. A nil logger falls back to
// logrus's standard logger.
func New(logger *logrus.Logger) *Scheduler {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Scheduler{resolver: resolver.New(), logger: logger}
}

// Run executes every group of cfg concurrently until each group's deadline
// passes, and returns every result collected across every group. A missing
// Location header on a redirect response is a programmer/environment
// error: it is returned here and aborts the whole run, even though it is
// only discovered inside one virtual user of one group.
func (s *Scheduler) Run(ctx context.Context, cfg *model.Configuration) ([]model.HttpResult, error) {
	results := sink.New()
	var fatal atomic.Value // holds error

	var groupWG sync.WaitGroup
	groupWG.Add(len(cfg.Groups))

	for _, group := range cfg.Groups {
		go func(group model.Group) {
			defer groupWG.Done()
			s.runGroup(ctx, cfg.Scheme, cfg.Target, cfg.HTTPVersion, group, results, &fatal)
		}(group)
	}

	groupWG.Wait()

	if v := fatal.Load(); v != nil {
		return results.Snapshot(), v.(error)
	}
	return results.Snapshot(), nil
}

func (s *Scheduler) runGroup(ctx context.Context, scheme, target, httpVersion string, group model.Group, results *sink.Sink, fatal *atomic.Value) {
	deadline := time.Now().Add(time.Duration(group.Duration) * time.Second)

	for {
		if !time.Now().Before(deadline) || fatal.Load() != nil {
			return
		}

		var waveWG sync.WaitGroup
		waveWG.Add(group.Users)
		for i := 0; i < group.Users; i++ {
			go func() {
				defer waveWG.Done()
				s.runVirtualUser(ctx, scheme, target, httpVersion, group, results, fatal)
			}()
		}
		waveWG.Wait()
	}
}

func (s *Scheduler) runVirtualUser(ctx context.Context, scheme, target, httpVersion string, group model.Group, results *sink.Sink, fatal *atomic.Value) {
	vu := uuid.NewString()
	for _, flow := range group.Flows {
		result, err := redirect.Run(ctx, s.resolver, scheme, target, httpVersion, flow, group.Name, s.OnExchange)
		if err != nil {
			if errs.Is(err, errs.MissingLocation) {
				fatal.Store(err)
				return
			}
			s.logger.WithFields(logrus.Fields{
				"vu":    vu,
				"group": group.Name,
				"flow":  flow.Name,
			}).Error(err)
			return
		}
		results.Append(result)
	}
}
