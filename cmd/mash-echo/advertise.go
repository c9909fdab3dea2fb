//go:build linux

package main

import (
	"fmt"
	"net"
	"strconv"

	"github.com/enbility/zeroconf/v3"

	"github.com/mash-protocol/mash-channel/pkg/network"
)

// mDNS service identifiers for echo servers.
const (
	ServiceType = "_mash-echo._tcp"
	Domain      = "local."
)

// advertise announces the server and returns a function stopping the
// announcement.
func advertise(instance, addr string, protocol network.SecurityProtocol) (func(), error) {
	port, err := servicePort(addr)
	if err != nil {
		return nil, err
	}
	server, err := zeroconf.Register(instance, ServiceType, Domain, port, txtRecords(protocol), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register echo service: %w", err)
	}
	return server.Shutdown, nil
}

func servicePort(addr string) (int, error) {
	_, p, err := net.SplitHostPort(addr)
	if err != nil {
		return 0, err
	}
	port, err := strconv.Atoi(p)
	if err != nil || port <= 0 || port > 65535 {
		return 0, fmt.Errorf("invalid port in %q", addr)
	}
	return port, nil
}

func txtRecords(protocol network.SecurityProtocol) []string {
	return []string{"proto=" + string(protocol), "txtvers=1"}
}
