package model

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestUpdate_ConcreteScenario(t *testing.T) {
	m := newTestModel()
	added, err := m.AddTodo("call mom")
	if err != nil {
		t.Fatalf("add todo: %v", err)
	}
	addUUID := m.Commands[0].UUID

	serverItems := []Item{
		{ID: "i1", ProjectID: "p1", Content: "buy milk"},
		{ID: "r2", ProjectID: "p1", Content: "call mom"},
	}
	result := m.Update(Response{
		SyncToken:     "tok1",
		FullSync:      true,
		Items:         serverItems,
		SyncStatus:    map[string]CommandStatus{addUUID: StatusOK},
		TempIDMapping: map[string]string{},
	})

	if !reflect.DeepEqual(m.Items, serverItems) {
		t.Errorf("expected items %v, got %v", serverItems, m.Items)
	}
	if m.Commands.Len() != 0 {
		t.Errorf("expected empty queue, got %d", m.Commands.Len())
	}
	if m.SyncToken != "tok1" {
		t.Errorf("expected token tok1, got %q", m.SyncToken)
	}
	if result.Acknowledged != 1 || len(result.Failures) != 0 {
		t.Errorf("unexpected result %+v", result)
	}
	if m.IsUnconfirmed(added.ID) {
		t.Error("expected temp id to be confirmed after ack")
	}
}

func TestUpdate_TempIDRemap(t *testing.T) {
	m := New()
	m.User.InboxProjectID = "p1"
	m.Items = []Item{
		{ID: "T", ProjectID: "p1", Content: "call mom"},
		{ID: "other", ProjectID: "p1", Content: "untouched"},
	}

	result := m.Update(Response{
		SyncToken:     "tok2",
		TempIDMapping: map[string]string{"T": "real-42", "missing": "real-7"},
	})

	want := []Item{
		{ID: "real-42", ProjectID: "p1", Content: "call mom"},
		{ID: "other", ProjectID: "p1", Content: "untouched"},
	}
	if !reflect.DeepEqual(m.Items, want) {
		t.Fatalf("expected %v, got %v", want, m.Items)
	}
	if result.Remapped != 1 {
		t.Errorf("expected 1 remapped item, got %d", result.Remapped)
	}
}

func TestUpdate_RemapsQueuedCompletion(t *testing.T) {
	m := New()
	m.User.InboxProjectID = "p1"
	m.Items = []Item{{ID: "T", ProjectID: "p1", Content: "call mom", Checked: true}}
	m.Commands = Queue{
		{Type: CommandItemAdd, UUID: "add", TempID: "T", Args: AddItemArgs{ProjectID: "p1", Content: "call mom"}},
		{Type: CommandItemComplete, UUID: "complete", Args: CompleteItemArgs{ID: "T"}},
		{Type: CommandItemComplete, UUID: "other", Args: CompleteItemArgs{ID: "i9"}},
	}

	result := m.Update(Response{
		SyncToken: "tok2",
		SyncStatus: map[string]CommandStatus{
			"add":      StatusOK,
			"complete": {ErrorCode: 22, Error: "Item not found"},
		},
		TempIDMapping: map[string]string{"T": "real-42"},
	})

	want := Queue{
		{Type: CommandItemComplete, UUID: "complete", Args: CompleteItemArgs{ID: "real-42"}},
		{Type: CommandItemComplete, UUID: "other", Args: CompleteItemArgs{ID: "i9"}},
	}
	if !reflect.DeepEqual(m.Commands, want) {
		t.Fatalf("expected queue %+v, got %+v", want, m.Commands)
	}
	if result.RemappedCommands != 1 {
		t.Errorf("expected 1 remapped command, got %d", result.RemappedCommands)
	}
	if m.Items[0].ID != "real-42" {
		t.Errorf("expected item renamed, got %+v", m.Items)
	}
}

func TestUpdate_IncrementalKeepsItemsAndUser(t *testing.T) {
	m := newTestModel()

	m.Update(Response{
		SyncToken: "tok3",
		Items:     []Item{{ID: "ignored", ProjectID: "p1", Content: "server only"}},
	})

	if len(m.Items) != 1 || m.Items[0].ID != "i1" {
		t.Errorf("expected incremental sync to keep local items, got %v", m.Items)
	}
	if m.User.InboxProjectID != "p1" {
		t.Errorf("expected user to be kept, got %+v", m.User)
	}

	m.Update(Response{SyncToken: "tok4", User: &User{FullName: "New", InboxProjectID: "p2"}})
	if m.User.InboxProjectID != "p2" || m.SyncToken != "tok4" {
		t.Errorf("expected user and token replaced, got %+v %q", m.User, m.SyncToken)
	}
}

func TestUpdate_QueuePruning(t *testing.T) {
	m := New()
	m.Commands = Queue{
		{Type: CommandItemComplete, UUID: "ok", Args: CompleteItemArgs{ID: "a"}},
		{Type: CommandItemComplete, UUID: "failed", Args: CompleteItemArgs{ID: "b"}},
		{Type: CommandItemComplete, UUID: "absent", Args: CompleteItemArgs{ID: "c"}},
		{Type: CommandItemComplete, UUID: "odd", Args: CompleteItemArgs{ID: "d"}},
	}
	before := m.Commands.Clone()

	result := m.Update(Response{
		SyncToken: "tok",
		SyncStatus: map[string]CommandStatus{
			"ok":     StatusOK,
			"failed": {ErrorCode: 22, Error: "Item not found"},
			"odd":    {Error: "OK"},
		},
	})

	want := Queue{before[1], before[2], before[3]}
	if !reflect.DeepEqual(m.Commands, want) {
		t.Fatalf("expected queue %v, got %v", want, m.Commands)
	}
	if result.Acknowledged != 1 {
		t.Errorf("expected 1 acknowledged, got %d", result.Acknowledged)
	}
	if len(result.Failures) != 2 || result.Failures[0].UUID != "failed" || result.Failures[1].UUID != "odd" {
		t.Errorf("unexpected failures %+v", result.Failures)
	}
}

func TestUpdate_Idempotent(t *testing.T) {
	responses := map[string]Response{
		"incremental": {
			SyncToken:     "tok5",
			TempIDMapping: map[string]string{"gen-1": "real-1"},
			SyncStatus:    map[string]CommandStatus{"gen-2": StatusOK},
		},
		"full": {
			SyncToken: "tok6",
			FullSync:  true,
			Items:     []Item{{ID: "real-1", ProjectID: "p1", Content: "call mom"}},
			User:      &User{FullName: "Test User", InboxProjectID: "p1"},
			SyncStatus: map[string]CommandStatus{
				"gen-2": StatusOK,
				"gen-3": {ErrorCode: 1, Error: "nope"},
			},
		},
	}

	for name, response := range responses {
		for _, policy := range ValidFullSyncPolicies() {
			t.Run(name+"/"+string(policy), func(t *testing.T) {
				m := newTestModel()
				if _, err := m.AddTodo("call mom"); err != nil {
					t.Fatalf("add todo: %v", err)
				}
				if _, err := m.CompleteTodo(1); err != nil {
					t.Fatalf("complete todo: %v", err)
				}

				m.UpdateWithPolicy(response, policy)
				once := m.Clone()
				m.UpdateWithPolicy(response, policy)

				if !reflect.DeepEqual(m.Items, once.Items) {
					t.Errorf("items differ after second apply: %v vs %v", m.Items, once.Items)
				}
				if !reflect.DeepEqual(m.Commands, once.Commands) {
					t.Errorf("commands differ after second apply: %v vs %v", m.Commands, once.Commands)
				}
				if m.SyncToken != once.SyncToken || m.User != once.User {
					t.Errorf("cursor or user differ after second apply")
				}
			})
		}
	}
}

func TestUpdate_FullSyncReplacesUnconfirmedByDefault(t *testing.T) {
	m := newTestModel()
	if _, err := m.AddTodo("offline"); err != nil {
		t.Fatalf("add todo: %v", err)
	}

	serverItems := []Item{{ID: "i1", ProjectID: "p1", Content: "buy milk"}}
	m.Update(Response{SyncToken: "tok", FullSync: true, Items: serverItems})

	if !reflect.DeepEqual(m.Items, serverItems) {
		t.Fatalf("expected items to equal server items, got %v", m.Items)
	}
	if m.Commands.Len() != 1 {
		t.Errorf("expected unacknowledged command to stay queued, got %d", m.Commands.Len())
	}
}

func TestUpdate_KeepUnconfirmedPolicy(t *testing.T) {
	m := newTestModel()
	offline, err := m.AddTodo("offline")
	if err != nil {
		t.Fatalf("add todo: %v", err)
	}
	if _, err := m.CompleteTodo(1); err != nil {
		t.Fatalf("complete todo: %v", err)
	}

	result := m.UpdateWithPolicy(Response{
		SyncToken: "tok",
		FullSync:  true,
		Items: []Item{
			{ID: "i1", ProjectID: "p1", Content: "buy milk"},
			{ID: "s1", ProjectID: "p1", Content: "from server"},
		},
	}, PolicyKeepUnconfirmed)

	want := []Item{
		{ID: "i1", ProjectID: "p1", Content: "buy milk", Checked: true},
		{ID: "s1", ProjectID: "p1", Content: "from server"},
		{ID: offline.ID, ProjectID: "p1", Content: "offline"},
	}
	if !reflect.DeepEqual(m.Items, want) {
		t.Fatalf("expected %v, got %v", want, m.Items)
	}
	if result.Kept != 1 {
		t.Errorf("expected 1 kept item, got %d", result.Kept)
	}
}

func TestUpdate_KeepUnconfirmedDropsAcknowledged(t *testing.T) {
	m := newTestModel()
	if _, err := m.AddTodo("synced"); err != nil {
		t.Fatalf("add todo: %v", err)
	}
	addUUID := m.Commands[0].UUID

	m.UpdateWithPolicy(Response{
		SyncToken:  "tok",
		FullSync:   true,
		Items:      []Item{{ID: "r1", ProjectID: "p1", Content: "synced"}},
		SyncStatus: map[string]CommandStatus{addUUID: StatusOK},
	}, PolicyKeepUnconfirmed)

	if len(m.Items) != 1 || m.Items[0].ID != "r1" {
		t.Fatalf("expected only the server copy, got %v", m.Items)
	}
}

func TestParseFullSyncPolicy(t *testing.T) {
	tests := []struct {
		input   string
		want    FullSyncPolicy
		wantErr bool
	}{
		{"", PolicyReplace, false},
		{"replace", PolicyReplace, false},
		{" Keep-Unconfirmed ", PolicyKeepUnconfirmed, false},
		{"merge", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFullSyncPolicy(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("unexpected error state: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestResponse_DecodesWireShape(t *testing.T) {
	data := `{
		"sync_token": "tok1",
		"full_sync": true,
		"items": [{"id": "r2", "project_id": "p1", "content": "call mom", "checked": false,
			"due": {"date": "2024-05-01", "string": "every day", "lang": "en", "is_recurring": true}}],
		"user": {"full_name": "A B", "inbox_project_id": "p1"},
		"sync_status": {"u1": "ok", "u2": {"error_code": 15, "error": "Invalid temporary id"}},
		"temp_id_mapping": {"t1": "r2"}
	}`

	var response Response
	if err := json.Unmarshal([]byte(data), &response); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !response.SyncStatus["u1"].OK {
		t.Error("expected u1 to be ok")
	}
	failed := response.SyncStatus["u2"]
	if failed.OK || failed.ErrorCode != 15 || failed.Error != "Invalid temporary id" {
		t.Errorf("unexpected failure status %+v", failed)
	}
	if response.Items[0].Due == nil || !response.Items[0].Due.IsRecurring {
		t.Errorf("expected recurring due, got %+v", response.Items[0].Due)
	}
	if response.TempIDMapping["t1"] != "r2" {
		t.Errorf("unexpected mapping %v", response.TempIDMapping)
	}
}
