package server

import (
	"encoding/json"
	"fmt"

	"github.com/jpuleo/mcgate/chat"
)

// PlayerSample is one entry of the status Response's players.sample list.
type PlayerSample struct {
	Name string
	ID   string
}

// StatusPayload is what an on_request_status hook returns; it is
// rendered into the Response packet's JSON payload.
type StatusPayload struct {
	VersionName   string
	Protocol      int32
	MaxPlayers    int
	OnlinePlayers int
	Sample        []PlayerSample
	Description   chat.Component
	Favicon       string // data URI; empty means absent
}

// defaultStatusPayload is synthesized when no hook is bound: the
// protocol version carried over from the client's handshake and an
// empty description.
func defaultStatusPayload(protocolVersion int32) StatusPayload {
	return StatusPayload{
		VersionName:   "mcgate",
		Protocol:      protocolVersion,
		MaxPlayers:    0,
		OnlinePlayers: 0,
		Description:   chat.NewText(""),
	}
}

type statusVersionJSON struct {
	Name     string `json:"name"`
	Protocol int32  `json:"protocol"`
}

type statusSampleJSON struct {
	Name string `json:"name"`
	ID   string `json:"id"`
}

type statusPlayersJSON struct {
	Max    int                `json:"max"`
	Online int                `json:"online"`
	Sample []statusSampleJSON `json:"sample,omitempty"`
}

type statusResponseJSON struct {
	Version     statusVersionJSON `json:"version"`
	Players     statusPlayersJSON `json:"players"`
	Description json.RawMessage   `json:"description"`
	Favicon     string            `json:"favicon,omitempty"`
}

// encodeStatusPayload renders a StatusPayload to the server-list JSON
// document. Unset optional fields (sample, favicon) are omitted rather
// than emitted as null.
func encodeStatusPayload(p StatusPayload) (string, error) {
	descriptionJSON, err := chat.Encode(p.Description)
	if err != nil {
		return "", fmt.Errorf("server: encoding status description: %w", err)
	}

	doc := statusResponseJSON{
		Version:     statusVersionJSON{Name: p.VersionName, Protocol: p.Protocol},
		Players:     statusPlayersJSON{Max: p.MaxPlayers, Online: p.OnlinePlayers},
		Description: descriptionJSON,
		Favicon:     p.Favicon,
	}
	if len(p.Sample) > 0 {
		doc.Players.Sample = make([]statusSampleJSON, len(p.Sample))
		for i, s := range p.Sample {
			doc.Players.Sample[i] = statusSampleJSON{Name: s.Name, ID: s.ID}
		}
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("server: marshaling status payload: %w", err)
	}
	return string(data), nil
}
