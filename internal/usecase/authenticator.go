package usecase

import (
	"context"
	"fmt"
	"time"

	"MarketGate/internal/domain/models"
	"MarketGate/internal/domain/repository"
	"MarketGate/internal/feature"
	xlogger "MarketGate/pkg/logger"
)

// Authenticator decides real-vs-simulated mode for a login attempt,
// initializes the market data feature accordingly and reports the outcome
// as a session record plus a notice. Every path authenticates; the only
// branch point is which collaborator initializes the feature and which
// notice category is shown.
type Authenticator struct {
	registry  *feature.Registry
	provider  repository.ClientProvider
	simFeed   repository.Feed
	forceMock bool // process-wide override, read once at startup
	metrics   repository.Metrics
	logger    *xlogger.Logger
}

// NewAuthenticator creates the authentication orchestrator.
func NewAuthenticator(
	registry *feature.Registry,
	provider repository.ClientProvider,
	simFeed repository.Feed,
	forceMock bool,
	metrics repository.Metrics,
	logger *xlogger.Logger,
) *Authenticator {
	return &Authenticator{
		registry:  registry,
		provider:  provider,
		simFeed:   simFeed,
		forceMock: forceMock,
		metrics:   metrics,
		logger:    logger,
	}
}

// Authenticate performs one authentication attempt. explicitSim is the
// request-level simulation flag; the process-wide override is ORed in.
// It never returns an error: faults degrade to the simulated mode so the
// user is never left at the login screen.
func (a *Authenticator) Authenticate(ctx context.Context, explicitSim bool) (out models.AuthOutcome) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("authentication fault", xlogger.Any("panic", r))
			a.metrics.RecordError("auth_fault")
			out = a.faultFallback(fmt.Errorf("%v", r))
		}
	}()

	useSim := explicitSim || a.forceMock
	if useSim {
		a.logger.Info("simulation requested, skipping upstream authentication")
		return a.finish(models.Session{
			Authenticated: true,
			MockMode:      true,
			Persistent:    true,
			IssuedAt:      time.Now(),
		}, models.Notice{
			Category: models.NoticeWarning,
			Message:  "Using simulated data mode - data is generated for testing",
		}, nil, true)
	}

	realFeed, err := a.provider.Obtain(ctx)
	if err != nil {
		a.logger.Error("upstream client fault", xlogger.Error(err))
		a.metrics.RecordError("auth_fault")
		return a.faultFallback(err)
	}

	if realFeed != nil {
		a.logger.Info("authentication completed, real mode")
		return a.finish(models.Session{
			Authenticated: true,
			MockMode:      false,
			Persistent:    true,
			IssuedAt:      time.Now(),
		}, models.Notice{
			Category: models.NoticeSuccess,
			Message:  "Connected to upstream provider - using real market data",
		}, realFeed, false)
	}

	// No client obtainable and no fault: graceful degradation.
	a.logger.Warn("no upstream client available, falling back to simulated mode")
	return a.finish(models.Session{
		Authenticated: true,
		MockMode:      true,
		Persistent:    true,
		IssuedAt:      time.Now(),
	}, models.Notice{
		Category: models.NoticeError,
		Message:  "Could not connect to upstream provider. Using simulated data mode.",
	}, nil, true)
}

// finish initializes the feature with the chosen collaborator and seals
// the outcome. Initialization failures are logged, not surfaced; the
// session stays authenticated either way.
func (a *Authenticator) finish(sess models.Session, notice models.Notice, realFeed repository.Feed, useSim bool) models.AuthOutcome {
	a.initializeMarketData(realFeed, useSim)

	mode := "real"
	if sess.MockMode {
		mode = "mock"
	}
	a.metrics.RecordAuth(mode)

	return models.AuthOutcome{Session: sess, Notice: notice}
}

// faultFallback authenticates under simulated mode after an unexpected
// fault. The session is deliberately not marked persistent on this path.
func (a *Authenticator) faultFallback(cause error) models.AuthOutcome {
	a.initializeMarketData(nil, true)
	a.metrics.RecordAuth("mock")
	return models.AuthOutcome{
		Session: models.Session{
			Authenticated: true,
			MockMode:      true,
			IssuedAt:      time.Now(),
		},
		Notice: models.Notice{
			Category: models.NoticeError,
			Message:  fmt.Sprintf("Authentication error: %v. Using simulated data mode.", cause),
		},
	}
}

func (a *Authenticator) initializeMarketData(realFeed repository.Feed, useSim bool) {
	if !a.registry.Enabled(feature.MarketData) {
		return
	}

	h, err := a.registry.Initialize(feature.MarketData, realFeed, a.simFeed, useSim)
	if err != nil {
		a.logger.Error("market data initialization failed", xlogger.Error(err))
		a.metrics.RecordError("feature_init")
		return
	}

	a.logger.Info("market data initialized",
		xlogger.Bool("mock_mode", h.MockMode()),
		xlogger.Strings("watchlist", h.Watchlist()),
	)
}

// Logout stops any active streaming and reports the notice to flash. The
// caller clears the session; nothing here blocks the clearing.
func (a *Authenticator) Logout() models.Notice {
	if a.registry.Enabled(feature.MarketData) {
		if h, ok := a.registry.Get(feature.MarketData); ok {
			if err := h.StopStreaming(); err != nil {
				a.logger.Error("error stopping streaming during cleanup", xlogger.Error(err))
				a.metrics.RecordError("stream_stop")
			} else {
				a.logger.Info("stopped market data streaming")
			}
		}
	}
	return models.Notice{Category: models.NoticeInfo, Message: "Logged out successfully"}
}
