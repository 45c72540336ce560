// Package network provides camfs.Network implementations for running camfs
// off-device: Host reports the state of the machine's own interfaces and
// Simulated models a radio that associates after a configurable delay.
package network

import (
	"errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"

	"github.com/sagarc03/camfs"
)

// DefaultAPIP is the address a device takes on its own access point.
var DefaultAPIP = net.IPv4(192, 168, 4, 1)

var errEmptySSID = errors.New("ssid cannot be empty")

// Host treats the host's network stack as the radio. Station mode is
// connected as soon as an up, non-loopback interface has an IPv4 address.
type Host struct {
	apIP       net.IP
	interfaces func() ([]net.Interface, error)
	addrs      func(net.Interface) ([]net.Addr, error)
}

// NewHost creates a Host network. A nil apIP means DefaultAPIP.
func NewHost(apIP net.IP) *Host {
	if apIP == nil {
		apIP = DefaultAPIP
	}
	return &Host{
		apIP:       apIP,
		interfaces: net.Interfaces,
		addrs:      func(i net.Interface) ([]net.Addr, error) { return i.Addrs() },
	}
}

func (h *Host) BeginStation(ssid, _ string) error {
	if ssid == "" {
		return fmt.Errorf("begin station: %w", errEmptySSID)
	}
	slog.Debug("station requested, using host interfaces", "ssid", ssid)
	return nil
}

func (h *Host) BeginAccessPoint(ssid, _ string) error {
	if ssid == "" {
		return fmt.Errorf("begin access point: %w", errEmptySSID)
	}
	slog.Debug("access point requested, using host interfaces", "ssid", ssid, "ip", h.apIP)
	return nil
}

func (h *Host) Status() camfs.Status {
	if h.LocalIP() == nil {
		return camfs.StatusDisconnected
	}
	return camfs.StatusConnected
}

// LocalIP returns the first IPv4 address of an up, non-loopback interface.
func (h *Host) LocalIP() net.IP {
	ifaces, err := h.interfaces()
	if err != nil {
		slog.Warn("failed to list interfaces", "err", err)
		return nil
	}

	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}

		addrs, err := h.addrs(iface)
		if err != nil {
			continue
		}

		for _, addr := range addrs {
			ipNet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			if ip4 := ipNet.IP.To4(); ip4 != nil {
				return ip4
			}
		}
	}

	return nil
}

func (h *Host) APIP() net.IP {
	return h.apIP
}

// Simulated is an in-process radio. After BeginStation it reports connected
// once AssociateAfter has elapsed, unless Unreachable is set.
type Simulated struct {
	AssociateAfter time.Duration
	Unreachable    bool
	IP             net.IP
	AccessPointIP  net.IP

	mu      sync.Mutex
	now     func() time.Time
	begunAt time.Time
	begun   bool
	ssid    string
}

// NewSimulated creates a simulated radio that associates after delay.
func NewSimulated(delay time.Duration) *Simulated {
	return &Simulated{
		AssociateAfter: delay,
		IP:             net.IPv4(192, 168, 1, 50),
		AccessPointIP:  DefaultAPIP,
		now:            time.Now,
	}
}

// SetClock replaces the time source used to decide association.
func (s *Simulated) SetClock(now func() time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
}

func (s *Simulated) BeginStation(ssid, _ string) error {
	if ssid == "" {
		return fmt.Errorf("begin station: %w", errEmptySSID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.ssid = ssid
	s.begun = true
	s.begunAt = s.now()
	return nil
}

func (s *Simulated) BeginAccessPoint(ssid, _ string) error {
	if ssid == "" {
		return fmt.Errorf("begin access point: %w", errEmptySSID)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.ssid = ssid
	s.begun = false
	return nil
}

func (s *Simulated) Status() camfs.Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.begun || s.Unreachable {
		return camfs.StatusDisconnected
	}
	if s.now().Sub(s.begunAt) < s.AssociateAfter {
		return camfs.StatusDisconnected
	}
	return camfs.StatusConnected
}

// SSID returns the network name passed to the last Begin call.
func (s *Simulated) SSID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ssid
}

func (s *Simulated) LocalIP() net.IP {
	if s.Status() != camfs.StatusConnected {
		return nil
	}
	return s.IP
}

func (s *Simulated) APIP() net.IP {
	return s.AccessPointIP
}
