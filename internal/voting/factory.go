package voting

import (
	"context"
	"votekiosk/internal/models"
	"votekiosk/internal/providers"
	"votekiosk/internal/structures"
	"votekiosk/internal/voting/interfaces"
)

// Factory builds machines sharing the kiosk's collaborators.
type Factory struct {
	store     interfaces.SessionStoreInterface
	gate      interfaces.CaptureGateInterface
	verifier  interfaces.VerificationClientInterface
	submitter interfaces.VoteSubmitterInterface
	display   interfaces.DisplayControllerInterface
	scheduler interfaces.SchedulerInterface
	parties   []models.PartyCandidate
	dwell     Dwell
	target    string
	logger    providers.Logger
	metrics   providers.MetricsProviderInterface
}

func NewMachineFactory(
	conf *structures.Config,
	store interfaces.SessionStoreInterface,
	gate interfaces.CaptureGateInterface,
	verifier interfaces.VerificationClientInterface,
	submitter interfaces.VoteSubmitterInterface,
	display interfaces.DisplayControllerInterface,
	scheduler interfaces.SchedulerInterface,
	logger providers.Logger,
	metrics providers.MetricsProviderInterface,
) interfaces.MachineFactoryInterface {
	return &Factory{
		store:     store,
		gate:      gate,
		verifier:  verifier,
		submitter: submitter,
		display:   display,
		scheduler: scheduler,
		parties:   Parties(conf),
		dwell:     Dwell{Verified: conf.Dwell.Verified, Voted: conf.Dwell.Voted},
		target:    conf.Display.Target,
		logger:    logger,
		metrics:   metrics,
	}
}

func (f *Factory) New(nav interfaces.NavigatorInterface) interfaces.MachineInterface {
	ctx, cancel := context.WithCancel(context.Background())
	return &Machine{
		store:     f.store,
		gate:      f.gate,
		verifier:  f.verifier,
		submitter: f.submitter,
		display:   f.display,
		navigator: nav,
		scheduler: f.scheduler,
		parties:   f.parties,
		dwell:     f.dwell,
		target:    f.target,
		logger:    f.logger,
		metrics:   f.metrics,
		ctx:       ctx,
		cancel:    cancel,
		state:     models.StateIdle,
	}
}

// Parties converts the configured ballot into candidates.
func Parties(conf *structures.Config) []models.PartyCandidate {
	parties := make([]models.PartyCandidate, 0, len(conf.Parties))
	for _, p := range conf.Parties {
		parties = append(parties, models.PartyCandidate{ID: p.ID, Name: p.Name, LogoReference: p.Logo})
	}
	return parties
}
