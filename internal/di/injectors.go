//go:build wireinject
// +build wireinject

package di

import (
	wire "github.com/google/wire"
	"votekiosk/internal"
	"votekiosk/internal/backend"
	"votekiosk/internal/capture"
	"votekiosk/internal/controllers"
	"votekiosk/internal/kiosk"
	"votekiosk/internal/providers"
	"votekiosk/internal/services"
	"votekiosk/internal/storage"
	"votekiosk/internal/structures"
	"votekiosk/internal/voting"
	votinginterfaces "votekiosk/internal/voting/interfaces"
)

var storeSet = wire.NewSet(
	providers.NewConfigProvider,
	providers.NewLogProvider,
	storage.NewZstdCompressor,
	storage.NewFileSessionStore,
)

func InitApp(cfg *structures.CliFlags) (*internal.App, error) {

	wire.Build(
		storeSet,
		providers.NewHTTPClientProvider,
		providers.NewMetricsProvider,
		providers.NewInstrumentedCacheProvider,

		capture.NewFaceDetector,
		capture.NewCaptureGate,
		capture.NewCameraSource,
		backend.NewClient,
		backend.NewVerificationClient,
		backend.NewVoteSubmitter,
		kiosk.NewExclusiveDisplay,
		kiosk.NewKioskModeController,
		kiosk.NewWatchdog,
		voting.NewScheduler,
		voting.NewMachineFactory,
		services.NewKioskService,
		controllers.NewKioskController,
		controllers.NewHealthController,
		internal.InitRoutes,
		internal.NewApp,
	)

	return nil, nil
}

func InitSessionStore(cfg *structures.CliFlags) (votinginterfaces.SessionStoreInterface, error) {

	wire.Build(storeSet)

	return nil, nil
}
