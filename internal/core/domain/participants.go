package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedPayload is returned when the participants body is not JSON.
var ErrMalformedPayload = errors.New("participants payload is not valid JSON")

// participantEnvelope keeps every field raw so a malformed member never
// aborts decoding of the others.
type participantEnvelope struct {
	Page       LooseNumber     `json:"page"`
	PageSize   LooseNumber     `json:"pageSize"`
	TotalData  LooseNumber     `json:"totalData"`
	TotalPages LooseNumber     `json:"totalPages"`
	Data       json.RawMessage `json:"data"`
}

// DecodeParticipantPage parses a participants payload. The only error is a
// body that is not valid JSON. A payload that is not an object, or whose
// data member is missing or not an array, yields zero records. Array
// elements that are not objects decode as empty records.
func DecodeParticipantPage(body []byte) (*ParticipantPage, error) {
	body = bytes.TrimSpace(body)
	if !json.Valid(body) {
		return nil, fmt.Errorf("decode participants payload: %w", ErrMalformedPayload)
	}
	if body[0] != '{' {
		return &ParticipantPage{Data: []TicketRecord{}}, nil
	}

	var env participantEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode participants payload: %w", err)
	}

	page := &ParticipantPage{
		Page:       int(env.Page.IntPart()),
		PageSize:   int(env.PageSize.IntPart()),
		TotalData:  int(env.TotalData.IntPart()),
		TotalPages: int(env.TotalPages.IntPart()),
		Data:       []TicketRecord{},
	}

	raw := bytes.TrimSpace(env.Data)
	if len(raw) == 0 || raw[0] != '[' {
		return page, nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return page, nil
	}

	page.Data = make([]TicketRecord, 0, len(items))
	for _, item := range items {
		var rec TicketRecord
		item = bytes.TrimSpace(item)
		if len(item) > 0 && item[0] == '{' {
			// Field types are lenient, so this only fails on invalid JSON,
			// which json.Unmarshal above already rejected.
			_ = json.Unmarshal(item, &rec)
		}
		page.Data = append(page.Data, rec)
	}

	return page, nil
}
