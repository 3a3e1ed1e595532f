package service

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/adapter/events"
	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/classifier"
	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/config"
	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/drafts"
	store "github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/repository"
	"github.com/dharmikmodi-turabit/Smart-Support-Desk/internal/tools"
	"github.com/dharmikmodi-turabit/Smart-Support-Desk/policy"
)

var (
	// ErrInvalidInput is returned for malformed caller requests.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is returned for sessions or turns the caller cannot see.
	ErrNotFound = store.ErrNotFound
)

// Service is the command router and the transcript API around it.
type Service struct {
	store      store.Store
	classifier classifier.Classifier
	policy     *policy.Engine
	drafts     *drafts.Manager
	registry   *tools.Registry
	api        tools.Caller
	tickets    TicketLookup
	publisher  events.Publisher
	config     *config.Config
	logger     *zap.Logger

	// now is replaced in tests.
	now func() time.Time
}

// Deps are the collaborators of a Service.
type Deps struct {
	Store      store.Store
	Classifier classifier.Classifier
	Policy     *policy.Engine
	Drafts     *drafts.Manager
	API        tools.Caller
	Publisher  events.Publisher
	Config     *config.Config
	Logger     *zap.Logger
}

// New creates a router service.
func New(d Deps) *Service {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	publisher := d.Publisher
	if publisher == nil {
		publisher = events.Noop{}
	}
	cfg := d.Config
	if cfg == nil {
		cfg = config.Default()
	}
	s := &Service{
		store:      d.Store,
		classifier: d.Classifier,
		policy:     d.Policy,
		drafts:     d.Drafts,
		registry:   tools.DefaultRegistry,
		api:        d.API,
		publisher:  publisher,
		config:     cfg,
		logger:     logger,
		now:        time.Now,
	}
	s.tickets = &resourceTicketLookup{registry: s.registry, api: d.API}
	return s
}
