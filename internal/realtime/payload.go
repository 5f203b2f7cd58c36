// File: internal/realtime/payload.go
package realtime

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/jvidalgz/go-gympulse/internal/services"
)

var ErrBadPayload = errors.New("chat payload must be a string or an object")

// DecodeChatPayload turns the two accepted chatMessage shapes into one
// value: either a bare string (anonymous message) or an object with
// text plus optional author attribution. Anything else is rejected
// here, before the service layer sees it. userId arrives as either a
// JSON string or a number depending on the client, both are accepted.
func DecodeChatPayload(data json.RawMessage) (services.IncomingMessage, error) {
	if len(data) == 0 || string(data) == "null" {
		return services.IncomingMessage{}, ErrBadPayload
	}

	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		return services.IncomingMessage{Text: plain}, nil
	}

	var attributed struct {
		Text     string          `json:"text"`
		UserID   json.RawMessage `json:"userId"`
		UserName string          `json:"userName"`
	}
	if err := json.Unmarshal(data, &attributed); err != nil {
		return services.IncomingMessage{}, ErrBadPayload
	}

	userID, err := decodeFlexibleID(attributed.UserID)
	if err != nil {
		return services.IncomingMessage{}, ErrBadPayload
	}

	return services.IncomingMessage{
		Text:     attributed.Text,
		UserID:   userID,
		UserName: attributed.UserName,
	}, nil
}

func decodeFlexibleID(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}

	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return asString, nil
	}

	var asNumber float64
	if err := json.Unmarshal(raw, &asNumber); err == nil {
		return strconv.FormatFloat(asNumber, 'f', -1, 64), nil
	}

	return "", errors.New("userId must be a string or a number")
}
