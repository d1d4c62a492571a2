package domain

import "context"

const (
	OfflineMOTD = "Server Offline"
)

type Player struct {
	Name     string
	NameHTML string
	UUID     string
}

// ServerStatus is the normalized view of one status lookup. It is built per request and never stored.
type ServerStatus struct {
	Online        bool
	Version       string
	MOTDRaw       string
	MOTDClean     string
	MOTDHTML      string
	PlayersOnline int
	PlayersMax    int
	Players       []Player
	// Icon is a data URI or URL; empty means none.
	Icon       string
	PingMillis *int
}

// Normalize enforces the offline invariant: an offline server reports no players,
// no version and the fixed offline MOTD.
func (s ServerStatus) Normalize() ServerStatus {
	if s.Online {
		return s
	}
	return ServerStatus{
		Online:     false,
		MOTDRaw:    OfflineMOTD,
		MOTDClean:  OfflineMOTD,
		MOTDHTML:   OfflineMOTD,
		Icon:       s.Icon,
		PingMillis: s.PingMillis,
	}
}

// UnknownStatus is the sentinel used when the upstream could not be queried.
func UnknownStatus() ServerStatus {
	return ServerStatus{}.Normalize()
}

// StatusFetcher resolves a host[:port] address into a ServerStatus.
// Errors wrap ErrUpstream.
type StatusFetcher interface {
	Fetch(ctx context.Context, address string) (ServerStatus, error)
}
