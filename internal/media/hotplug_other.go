//go:build !linux

package media

import "go.uber.org/zap"

func newPlatformHotplug(log *zap.Logger) hotplugWatcher { return nil }
