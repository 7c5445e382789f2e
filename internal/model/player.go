package model

import (
	"fmt"
	"net"
	"strconv"
	"time"
)

// ClientID identifies a connected peer by its transport address ("host:port").
// It is only stable for the lifetime of the peer's socket; a reconnecting
// client gets a fresh ClientID.
type ClientID string

// ClientIDFromAddr builds a ClientID from a net.Addr
func ClientIDFromAddr(addr net.Addr) ClientID {
	return ClientID(addr.String())
}

// HostPort splits the ClientID into its host and port parts
func (c ClientID) HostPort() (string, int) {
	host, portStr, err := net.SplitHostPort(string(c))
	if err != nil {
		return string(c), 0
	}
	port, _ := strconv.Atoi(portStr)
	return host, port
}

// Member represents a client's membership in a room.
// Rooms keep members in join order; the order is significant because the
// first remaining member becomes host when the host leaves.
type Member struct {
	Client   ClientID
	JoinedAt time.Time
}

// PlayerInfo is the wire representation of a room member
type PlayerInfo struct {
	IP   string `json:"ip"`
	Port int    `json:"port"`
}

// Info returns the wire representation of the client identity
func (c ClientID) Info() PlayerInfo {
	host, port := c.HostPort()
	return PlayerInfo{IP: host, Port: port}
}

// String implements fmt.Stringer
func (p PlayerInfo) String() string {
	return fmt.Sprintf("%s:%d", p.IP, p.Port)
}
