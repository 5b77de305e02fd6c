package origins

import (
	"context"
	"encoding/json"
	"fmt"
	"maps"
	"sync"
)

// Memory is an in-process origin backend. It answers with the same envelopes
// as the HTTP origins, including the admin wrapper object, and is used for
// demo mode and tests.
type Memory struct {
	name    string
	wrapKey string

	mu           sync.Mutex
	records      []map[string]any
	listErr      error
	rawData      json.RawMessage
	listFailMsg  string
	mutationErr  error
	mutationCall int
}

// NewMemory builds an origin whose list data is a bare array, or an object
// {wrapKey: [...]} when wrapKey is set.
func NewMemory(name, wrapKey string, records ...map[string]any) *Memory {
	m := &Memory{name: name, wrapKey: wrapKey}
	for _, r := range records {
		m.records = append(m.records, maps.Clone(r))
	}
	return m
}

// NewMemoryAdmin builds an admin origin that nests its list under "admins".
func NewMemoryAdmin(records ...map[string]any) *Memory {
	return NewMemory(NameAdmin, "admins", records...)
}

func (m *Memory) Name() string { return m.name }

// FailList makes every List call return err.
func (m *Memory) FailList(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listErr = err
}

// RejectList makes List answer with success=false and message.
func (m *Memory) RejectList(message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.listFailMsg = message
}

// ServeRawData makes List answer with data verbatim, for shape tests.
func (m *Memory) ServeRawData(data json.RawMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rawData = data
}

// FailMutations makes every mutation call return err.
func (m *Memory) FailMutations(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mutationErr = err
}

// MutationCalls returns how many mutation calls reached the origin.
func (m *Memory) MutationCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mutationCall
}

// Record returns a copy of the stored record with id.
func (m *Memory) Record(id string) (map[string]any, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if i := m.indexOf(id); i >= 0 {
		return maps.Clone(m.records[i]), true
	}
	return nil, false
}

func (m *Memory) List(ctx context.Context, _ ListParams) (*ListResponse, error) {
	if err := ctx.Err(); err != nil {
		return nil, NewOriginError(ErrorCanceled, m.name, "request canceled", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	if m.listFailMsg != "" {
		return &ListResponse{Success: false, Message: m.listFailMsg}, nil
	}
	if m.rawData != nil {
		return &ListResponse{Success: true, Data: m.rawData}, nil
	}

	var payload any = m.records
	if m.records == nil {
		payload = []map[string]any{}
	}
	if m.wrapKey != "" {
		payload = map[string]any{m.wrapKey: payload}
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, NewOriginError(ErrorInternal, m.name, "encode list", err)
	}
	return &ListResponse{
		Success: true,
		Data:    data,
		Pagination: &Pagination{
			Page:       1,
			Limit:      len(m.records),
			Total:      len(m.records),
			TotalPages: 1,
		},
	}, nil
}

func (m *Memory) Update(_ context.Context, id string, patch map[string]any) (*MutationResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.beginMutation(); err != nil {
		return nil, err
	}
	i := m.indexOf(id)
	if i < 0 {
		return m.notFound(), nil
	}
	maps.Copy(m.records[i], patch)
	return m.ok("updated", m.records[i])
}

func (m *Memory) Delete(_ context.Context, id string) (*MutationResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.beginMutation(); err != nil {
		return nil, err
	}
	i := m.indexOf(id)
	if i < 0 {
		return m.notFound(), nil
	}
	m.records = append(m.records[:i], m.records[i+1:]...)
	return &MutationResponse{Success: true, Message: "deleted"}, nil
}

// ToggleStatus flips isActive. A record without the flag counts as active.
func (m *Memory) ToggleStatus(_ context.Context, id string) (*MutationResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.beginMutation(); err != nil {
		return nil, err
	}
	i := m.indexOf(id)
	if i < 0 {
		return m.notFound(), nil
	}
	active, ok := m.records[i]["isActive"].(bool)
	if !ok {
		active = true
	}
	m.records[i]["isActive"] = !active
	return m.ok("status toggled", m.records[i])
}

func (m *Memory) beginMutation() error {
	m.mutationCall++
	return m.mutationErr
}

func (m *Memory) indexOf(id string) int {
	for i, r := range m.records {
		for _, key := range []string{"_id", "id"} {
			if v, ok := r[key]; ok && v != nil && fmt.Sprint(v) == id {
				return i
			}
		}
	}
	return -1
}

func (m *Memory) notFound() *MutationResponse {
	return &MutationResponse{Success: false, Message: fmt.Sprintf("%s record not found", m.name)}
}

func (m *Memory) ok(message string, record map[string]any) (*MutationResponse, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return nil, NewOriginError(ErrorInternal, m.name, "encode record", err)
	}
	return &MutationResponse{Success: true, Message: message, Data: data}, nil
}
