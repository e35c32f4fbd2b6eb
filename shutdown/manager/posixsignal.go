package manager

import (
	"os"
	"os/signal"
	"syscall"

	"khetao.com/mkfs/shutdown"
)

const Name = "PosixSignalManager"

// PosixSignalManager triggers a graceful shutdown when one of the
// configured signals arrives. Defaults to SIGINT and SIGTERM.
type PosixSignalManager struct {
	signals []os.Signal
}

func NewPosixSignalManager(sig ...os.Signal) *PosixSignalManager {
	if len(sig) == 0 {
		sig = []os.Signal{os.Interrupt, syscall.SIGTERM}
	}

	return &PosixSignalManager{
		signals: sig,
	}
}

func (posixSignalManager *PosixSignalManager) GetName() string {
	return Name
}

func (posixSignalManager *PosixSignalManager) Start(gs shutdown.GracefulShutdownI) error {
	go func() {
		c := make(chan os.Signal, 1)
		signal.Notify(c, posixSignalManager.signals...)

		// Block until a signal is received.
		<-c

		gs.Start(posixSignalManager)
	}()

	return nil
}

func (posixSignalManager *PosixSignalManager) ShutdownStart() error {
	return nil
}

func (posixSignalManager *PosixSignalManager) ShutdownFinish() error {
	os.Exit(1)

	return nil
}
