package mcstatus

import (
	"testing"

	"github.com/pscheid92/mcmotd/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const currentOnlineJSON = `{
  "online": true,
  "host": "play.example.com",
  "port": 25565,
  "retrieved_at": 1773475800000,
  "version": {"name_raw": "§aPaper 1.21.1", "name_clean": "Paper 1.21.1", "name_html": "<span>Paper 1.21.1</span>", "protocol": 767},
  "players": {
    "online": 2,
    "max": 20,
    "list": [
      {"uuid": "a1b2", "name_raw": "Alice", "name_clean": "Alice", "name_html": "<span style=\"color: #FFAA00;\">Alice</span>"},
      {"uuid": "c3d4", "name_raw": "Bob", "name_clean": "Bob", "name_html": ""}
    ]
  },
  "motd": {"raw": "§aWelcome", "clean": "Welcome", "html": "<span style=\"color: #55FF55;\">Welcome</span>"},
  "icon": "data:image/png;base64,iVBORw0KGgo="
}`

const currentOfflineJSON = `{"online": false, "host": "down.example.com", "port": 25565, "players": {"online": 9, "max": 50}, "motd": {"clean": "stale"}}`

const legacyOnlineJSON = `{
  "status": "success",
  "online": true,
  "motd": "§6Legacy §lServer§r with a very long message of the day that keeps going",
  "favicon": "data:image/png;base64,AAAA",
  "error": null,
  "players": {"max": 100, "now": 3, "sample": [{"name": "Steve", "id": "e5f6"}]},
  "server": {"name": "Spigot 1.8.8", "protocol": 47}
}`

const legacyErrorJSON = `{"status": "error", "online": false, "error": "invalid hostname", "players": {"max": 0, "now": 0}}`

func TestDecodeResponse_CurrentOnline(t *testing.T) {
	resp, err := decodeResponse([]byte(currentOnlineJSON))
	require.NoError(t, err)
	require.IsType(t, currentResponse{}, resp)

	s := resp.toStatus()
	assert.True(t, s.Online)
	assert.Equal(t, "Paper 1.21.1", s.Version)
	assert.Equal(t, "Welcome", s.MOTDClean)
	assert.Equal(t, "§aWelcome", s.MOTDRaw)
	assert.Contains(t, s.MOTDHTML, "#55FF55")
	assert.Equal(t, 2, s.PlayersOnline)
	assert.Equal(t, 20, s.PlayersMax)
	require.Len(t, s.Players, 2)
	assert.Equal(t, domain.Player{Name: "Alice", NameHTML: `<span style="color: #FFAA00;">Alice</span>`, UUID: "a1b2"}, s.Players[0])
	assert.Equal(t, "Bob", s.Players[1].Name)
	assert.Equal(t, "data:image/png;base64,iVBORw0KGgo=", s.Icon)
}

func TestDecodeResponse_CurrentOfflineIgnoresStaleFields(t *testing.T) {
	resp, err := decodeResponse([]byte(currentOfflineJSON))
	require.NoError(t, err)

	s := resp.toStatus()
	assert.False(t, s.Online)
	assert.Zero(t, s.PlayersOnline)
	assert.Zero(t, s.PlayersMax)
	assert.Empty(t, s.Players)
	assert.Equal(t, domain.OfflineMOTD, s.MOTDClean)
}

func TestDecodeResponse_LegacyOnline(t *testing.T) {
	resp, err := decodeResponse([]byte(legacyOnlineJSON))
	require.NoError(t, err)
	require.IsType(t, legacyResponse{}, resp)

	s := resp.toStatus()
	assert.True(t, s.Online)
	assert.Equal(t, "Spigot 1.8.8", s.Version)
	assert.Equal(t, 3, s.PlayersOnline)
	assert.Equal(t, 100, s.PlayersMax)
	assert.Equal(t, "Legacy Server with a very long message of the day that keeps going", s.MOTDClean)
	assert.Empty(t, s.MOTDHTML)
	assert.Equal(t, []domain.Player{{Name: "Steve", UUID: "e5f6"}}, s.Players)
	assert.Equal(t, "data:image/png;base64,AAAA", s.Icon)
}

func TestDecodeResponse_LegacyErrorIsOffline(t *testing.T) {
	resp, err := decodeResponse([]byte(legacyErrorJSON))
	require.NoError(t, err)

	s := resp.toStatus()
	assert.False(t, s.Online)
	assert.Equal(t, domain.OfflineMOTD, s.MOTDClean)
}

func TestDecodeResponse_Malformed(t *testing.T) {
	for _, body := range []string{`not json`, `{"host": "x"}`, `[]`, `{"status": 5}`} {
		_, err := decodeResponse([]byte(body))
		assert.Error(t, err, body)
	}
}
