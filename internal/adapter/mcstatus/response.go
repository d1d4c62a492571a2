package mcstatus

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/pscheid92/mcmotd/internal/domain"
)

// response is one of the two upstream payload generations.
type response interface {
	toStatus() domain.ServerStatus
}

// currentResponse is the mcstatus.io v2 Java payload.
type currentResponse struct {
	Online  bool `json:"online"`
	Version *struct {
		NameClean string `json:"name_clean"`
	} `json:"version"`
	Players *struct {
		Online int `json:"online"`
		Max    int `json:"max"`
		List   []struct {
			UUID      string `json:"uuid"`
			NameClean string `json:"name_clean"`
			NameHTML  string `json:"name_html"`
		} `json:"list"`
	} `json:"players"`
	MOTD *struct {
		Raw   string `json:"raw"`
		Clean string `json:"clean"`
		HTML  string `json:"html"`
	} `json:"motd"`
	Icon *string `json:"icon"`
}

// legacyResponse is the mcapi.us payload.
type legacyResponse struct {
	Status  string `json:"status"`
	Online  bool   `json:"online"`
	MOTD    string `json:"motd"`
	Favicon string `json:"favicon"`
	Error   string `json:"error"`
	Players struct {
		Now    int `json:"now"`
		Max    int `json:"max"`
		Sample []struct {
			Name string `json:"name"`
			ID   string `json:"id"`
		} `json:"sample"`
	} `json:"players"`
	Server struct {
		Name string `json:"name"`
	} `json:"server"`
}

func (r currentResponse) toStatus() domain.ServerStatus {
	if !r.Online {
		return domain.ServerStatus{}.Normalize()
	}

	s := domain.ServerStatus{Online: true}
	if r.Version != nil {
		s.Version = r.Version.NameClean
	}
	if r.MOTD != nil {
		s.MOTDRaw = r.MOTD.Raw
		s.MOTDClean = r.MOTD.Clean
		s.MOTDHTML = r.MOTD.HTML
	}
	if r.Players != nil {
		s.PlayersOnline = r.Players.Online
		s.PlayersMax = r.Players.Max
		for _, p := range r.Players.List {
			s.Players = append(s.Players, domain.Player{Name: p.NameClean, NameHTML: p.NameHTML, UUID: p.UUID})
		}
	}
	if r.Icon != nil {
		s.Icon = *r.Icon
	}
	return s
}

var formattingCodes = regexp.MustCompile(`(?i)§[0-9a-fk-or]`)

func (r legacyResponse) toStatus() domain.ServerStatus {
	if r.Status != "success" || !r.Online {
		return domain.ServerStatus{}.Normalize()
	}

	s := domain.ServerStatus{
		Online:        true,
		Version:       r.Server.Name,
		MOTDRaw:       r.MOTD,
		MOTDClean:     strings.TrimSpace(formattingCodes.ReplaceAllString(r.MOTD, "")),
		PlayersOnline: r.Players.Now,
		PlayersMax:    r.Players.Max,
		Icon:          r.Favicon,
	}
	for _, p := range r.Players.Sample {
		s.Players = append(s.Players, domain.Player{Name: p.Name, UUID: p.ID})
	}
	return s
}

// decodeResponse picks the payload generation by its discriminating field: only the legacy
// API has a top-level string "status".
func decodeResponse(body []byte) (response, error) {
	var shape struct {
		Status *string          `json:"status"`
		Online *json.RawMessage `json:"online"`
	}
	if err := json.Unmarshal(body, &shape); err != nil {
		return nil, fmt.Errorf("decode status payload: %w", err)
	}

	if shape.Status != nil {
		var r legacyResponse
		if err := json.Unmarshal(body, &r); err != nil {
			return nil, fmt.Errorf("decode legacy payload: %w", err)
		}
		return r, nil
	}

	if shape.Online == nil {
		return nil, fmt.Errorf("decode status payload: missing \"online\" field")
	}
	var r currentResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return nil, fmt.Errorf("decode current payload: %w", err)
	}
	return r, nil
}
