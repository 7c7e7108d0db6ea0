//go:build linux

package media

import (
	"sync"

	"github.com/pilebones/go-udev/netlink"
	"go.uber.org/zap"
)

type linuxHotplug struct {
	events   chan string
	stop     chan struct{}
	stopOnce sync.Once
	log      *zap.Logger
}

func newPlatformHotplug(log *zap.Logger) hotplugWatcher {
	return &linuxHotplug{
		events: make(chan string, 4),
		stop:   make(chan struct{}),
		log:    log,
	}
}

// Start connects to NETLINK_KOBJECT_UEVENT and reports video4linux
// removals. A camera yanked mid-session shows up here long before the
// stream's frame reads start failing.
func (w *linuxHotplug) Start() (<-chan string, error) {
	conn := new(netlink.UEventConn)
	if err := conn.Connect(netlink.UdevEvent); err != nil {
		return nil, err
	}

	queue := make(chan netlink.UEvent)
	errChan := make(chan error)
	quit := conn.Monitor(queue, errChan, nil)

	go func() {
		defer conn.Close()
		for {
			select {
			case <-w.stop:
				close(quit)
				return

			case <-errChan:
				// Transient netlink errors; keep listening.
				continue

			case uevent := <-queue:
				if uevent.Env["SUBSYSTEM"] != "video4linux" {
					continue
				}
				if uevent.Action != "remove" {
					continue
				}
				dev := uevent.Env["DEVNAME"]
				w.log.Warn("camera device removed", zap.String("dev", dev))
				select {
				case w.events <- dev:
				default:
				}
			}
		}
	}()
	return w.events, nil
}

func (w *linuxHotplug) Stop() {
	w.stopOnce.Do(func() { close(w.stop) })
}
