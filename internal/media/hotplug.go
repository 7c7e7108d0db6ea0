package media

import "go.uber.org/zap"

// hotplugWatcher observes camera devices leaving the system while a
// session holds the stream. Platform-specific; non-Linux builds get a
// no-op.
type hotplugWatcher interface {
	Start() (<-chan string, error)
	Stop()
}

func newHotplug(log *zap.Logger) hotplugWatcher {
	return newPlatformHotplug(log)
}
