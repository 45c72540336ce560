package camfs

import "net"

type Status int

const (
	StatusDisconnected Status = iota
	StatusConnected
)

func (s Status) String() string {
	if s == StatusConnected {
		return "connected"
	}
	return "disconnected"
}

// Network is the WiFi collaborator. Association and retries happen inside the
// implementation; callers only observe Status.
type Network interface {
	// BeginStation starts joining an existing network. It returns without
	// waiting for the association to complete.
	BeginStation(ssid, password string) error

	// BeginAccessPoint creates a network others can join. The access point is
	// usable as soon as the call returns.
	BeginAccessPoint(ssid, password string) error

	Status() Status

	// LocalIP is the address obtained in station mode.
	LocalIP() net.IP

	// APIP is the address of the device on its own access point.
	APIP() net.IP
}
